package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-portal-client/internal/view"
	"github.com/noah-isme/sma-portal-client/internal/view/htmldom"
)

func TestSectionNameNormalization(t *testing.T) {
	want := "studentNonAcademicsSection"
	for _, name := range []string{"non-academics", "nonAcademics", "non academics", "non_academics", " non--academics "} {
		assert.Equal(t, want, view.SectionID(view.PanelStudent, name), name)
	}
	assert.Equal(t, "facultyManageAssignmentsSection", view.SectionID(view.PanelFaculty, "manage-assignments"))
	assert.Equal(t, "", view.SectionID(view.PanelFaculty, " - "))
}

func newRouter(t *testing.T) (*view.Router, *htmldom.Document, *observer.ObservedLogs) {
	t.Helper()
	doc, err := htmldom.New()
	require.NoError(t, err)
	core, logs := observer.New(zap.WarnLevel)
	return view.NewRouter(doc, zap.New(core)), doc, logs
}

func TestShowPanelKeepsExactlyOneVisible(t *testing.T) {
	router, doc, _ := newRouter(t)
	panels := map[view.Panel]string{
		view.PanelLogin:   view.LoginPanelID,
		view.PanelStudent: view.StudentDashboardID,
		view.PanelFaculty: view.FacultyDashboardID,
	}

	for _, panel := range []view.Panel{view.PanelStudent, view.PanelFaculty, view.PanelLogin, view.PanelFaculty} {
		router.ShowPanel(panel)
		visible := 0
		for p, id := range panels {
			if doc.Visible(id) {
				visible++
				assert.Equal(t, panel, p)
			}
		}
		assert.Equal(t, 1, visible)
		assert.Equal(t, panel == view.PanelLogin, doc.PageFlag(view.LoginActiveFlag))
	}
}

func TestShowSectionHidesSiblingsFirst(t *testing.T) {
	router, doc, _ := newRouter(t)
	router.ShowPanel(view.PanelStudent)

	for _, section := range []string{"academics", "assignments", "non-academics", "nonAcademics", "academics"} {
		require.True(t, router.ShowSection(view.PanelStudent, section))
		visible := 0
		for _, id := range []string{"studentAcademicsSection", "studentAssignmentsSection", "studentNonAcademicsSection"} {
			if doc.Visible(id) {
				visible++
			}
		}
		assert.Equal(t, 1, visible, section)
	}
	assert.True(t, doc.Visible("studentAcademicsSection"))
}

func TestShowSectionUnknownLeavesNothingVisible(t *testing.T) {
	router, doc, logs := newRouter(t)
	router.ShowPanel(view.PanelFaculty)
	require.True(t, router.ShowSection(view.PanelFaculty, "manage-assignments"))

	assert.False(t, router.ShowSection(view.PanelFaculty, "timetable"))

	assert.Equal(t, 0, doc.Count("#facultyDashboard .dashboard-section:not(.hidden)"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "missing section element", logs.All()[0].Message)
}
