package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/session"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Default sections opened on dashboard entry.
const (
	StudentDefaultSection = "academics"
	FacultyDefaultSection = "manage-assignments"
)

type academicFeed interface {
	LoadAttendance(ctx context.Context) error
	LoadMarks(ctx context.Context) error
}

type assignmentFeed interface {
	LoadStudentAssignments(ctx context.Context) error
	LoadSubmissions(ctx context.Context) error
}

type certificateFeed interface {
	LoadStudentCertificates(ctx context.Context) error
	LoadPendingCertificates(ctx context.Context) error
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Academics    academicFeed
	Assignments  assignmentFeed
	Certificates certificateFeed
	Router       *view.Router
	Session      *session.State
	Logger       *zap.Logger
}

// DashboardService opens the role dashboards and fans out their feeds.
type DashboardService struct {
	academics    academicFeed
	assignments  assignmentFeed
	certificates certificateFeed
	router       *view.Router
	session      *session.State
	logger       *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		academics:    params.Academics,
		assignments:  params.Assignments,
		certificates: params.Certificates,
		router:       params.Router,
		session:      params.Session,
		logger:       logger,
	}
}

type feed struct {
	name string
	load func(context.Context) error
}

// Activate opens the dashboard matching role.
func (s *DashboardService) Activate(ctx context.Context, role models.Role) {
	if role == models.RoleStudent {
		s.ActivateStudent(ctx)
		return
	}
	s.ActivateFaculty(ctx)
}

// ActivateStudent shows the academics section and loads attendance, marks, assignments
// and certificates concurrently. Each feed renders its own outcome.
func (s *DashboardService) ActivateStudent(ctx context.Context) {
	s.router.ShowPanel(view.PanelStudent)
	s.router.ShowSection(view.PanelStudent, StudentDefaultSection)
	s.fanOut(ctx,
		feed{name: "attendance", load: s.academics.LoadAttendance},
		feed{name: "marks", load: s.academics.LoadMarks},
		feed{name: "assignments", load: s.assignments.LoadStudentAssignments},
		feed{name: "certificates", load: s.certificates.LoadStudentCertificates},
	)
}

// ActivateFaculty shows the manage-assignments section and loads submissions and the
// pending certificate queue concurrently.
func (s *DashboardService) ActivateFaculty(ctx context.Context) {
	s.router.ShowPanel(view.PanelFaculty)
	s.router.ShowSection(view.PanelFaculty, FacultyDefaultSection)
	s.fanOut(ctx,
		feed{name: "submissions", load: s.assignments.LoadSubmissions},
		feed{name: "pending certificates", load: s.certificates.LoadPendingCertificates},
	)
}

// ShowSection switches the signed-in user's dashboard to the named section. An unknown
// name leaves every section hidden and is only logged by the router.
func (s *DashboardService) ShowSection(section string) error {
	current, ok := s.session.Current()
	if !ok {
		return appErrors.ErrNoSession
	}
	panel := view.PanelFaculty
	if current.Role == models.RoleStudent {
		panel = view.PanelStudent
	}
	s.router.ShowSection(panel, section)
	return nil
}

// fanOut runs every feed in its own goroutine and waits for all of them. A failing feed
// never stops the others.
func (s *DashboardService) fanOut(ctx context.Context, feeds ...feed) {
	var wg sync.WaitGroup
	for _, f := range feeds {
		wg.Add(1)
		go func(f feed) {
			defer wg.Done()
			if err := f.load(ctx); err != nil {
				s.logger.Warn("dashboard feed failed", zap.String("feed", f.name), zap.Error(err))
			}
		}(f)
	}
	wg.Wait()
}
