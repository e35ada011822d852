package view

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Panel is one of the mutually exclusive top-level views.
type Panel string

const (
	PanelLogin   Panel = "login"
	PanelStudent Panel = "student"
	PanelFaculty Panel = "faculty"
)

// Element ids and classes of the page layout.
const (
	LoginPanelID       = "loginDiv"
	DashboardPanelID   = "dashboardDiv"
	StudentDashboardID = "studentDashboard"
	FacultyDashboardID = "facultyDashboard"
	SectionClass       = "dashboard-section"
	LoginActiveFlag    = "login-active"
)

// Router toggles panel and section visibility on a Target.
type Router struct {
	target Target
	logger *zap.Logger
}

// NewRouter constructs a Router.
func NewRouter(target Target, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{target: target, logger: logger}
}

// Reset puts the page in its pre-login state.
func (r *Router) Reset() {
	r.ShowPanel(PanelLogin)
}

// ShowPanel makes exactly one top-level panel visible.
func (r *Router) ShowPanel(panel Panel) {
	r.target.Hide(StudentDashboardID)
	r.target.Hide(FacultyDashboardID)

	switch panel {
	case PanelStudent, PanelFaculty:
		r.target.SetPageFlag(LoginActiveFlag, false)
		r.target.Hide(LoginPanelID)
		r.target.Show(DashboardPanelID)
		r.target.Show(dashboardID(panel))
	default:
		r.target.Hide(DashboardPanelID)
		r.target.Show(LoginPanelID)
		r.target.SetPageFlag(LoginActiveFlag, true)
	}
}

// ShowSection hides every section of the dashboard, then reveals the named one.
// It returns false when no region matches the name.
func (r *Router) ShowSection(panel Panel, section string) bool {
	container := dashboardID(panel)
	if container == "" {
		r.logger.Warn("section requested outside a dashboard", zap.String("section", section))
		return false
	}
	r.target.HideGroup(container, SectionClass)

	id := SectionID(panel, section)
	if id == "" || !r.target.Exists(id) {
		r.logger.Warn("missing section element", zap.String("panel", string(panel)), zap.String("section", section), zap.String("id", id))
		return false
	}
	r.target.Show(id)
	return true
}

func dashboardID(panel Panel) string {
	switch panel {
	case PanelStudent:
		return StudentDashboardID
	case PanelFaculty:
		return FacultyDashboardID
	default:
		return ""
	}
}

// SectionID resolves a section name to its element id. Hyphen, underscore and space
// separated words are camel-joined, so "non-academics", "non_academics", "non academics"
// and "nonAcademics" all map to studentNonAcademicsSection.
func SectionID(panel Panel, section string) string {
	key := NormalizeSection(section)
	if key == "" {
		return ""
	}
	return string(panel) + key + "Section"
}

// NormalizeSection returns the upper camel-case lookup key for a section name.
func NormalizeSection(section string) string {
	words := strings.FieldsFunc(section, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	var b strings.Builder
	for _, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
