package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

func TestStudentAssignmentsGetOwnPickers(t *testing.T) {
	f := newFixture(t)
	f.gateway.assignments = []models.Assignment{
		{ID: 1, Name: "Essay", Details: "500 words"},
		{ID: 2, Name: "Lab report", Details: "Include graphs"},
	}
	f.signIn("alice", models.RoleStudent)

	require.NoError(t, f.assign.LoadStudentAssignments(context.Background()))

	assert.Equal(t, 2, f.doc.Count("#assignmentsListStudent .submission"))
	assert.True(t, f.doc.Exists("assignment_file_1"))
	assert.True(t, f.doc.Exists("assignment_file_2"))
	assert.Equal(t, []string{"assignment:1:submit", "assignment:2:submit"}, f.actions.Keys())
	assert.Contains(t, f.doc.Text(StudentAssignmentsListID), "Include graphs")
}

func TestStudentAssignmentsPlaceholders(t *testing.T) {
	f := newFixture(t)
	f.signIn("alice", models.RoleStudent)

	require.NoError(t, f.assign.LoadStudentAssignments(context.Background()))
	assert.Equal(t, "No assignments yet.", f.doc.Text(StudentAssignmentsListID))

	f.gateway.assignmentsErr = errNetwork
	require.Error(t, f.assign.LoadStudentAssignments(context.Background()))
	assert.Equal(t, "Error loading assignments.", f.doc.Text(StudentAssignmentsListID))
	assert.Empty(t, f.actions.Keys())
}

func TestSubmitUsesThatAssignmentsFile(t *testing.T) {
	f := newFixture(t)
	f.gateway.assignments = []models.Assignment{{ID: 1, Name: "Essay"}, {ID: 2, Name: "Lab"}}
	f.signIn("alice", models.RoleStudent)
	require.NoError(t, f.assign.LoadStudentAssignments(context.Background()))
	f.doc.SelectFile("assignment_file_2", view.BytesFile("lab.pdf", []byte("data")))

	require.NoError(t, f.actions.Dispatch(context.Background(), "assignment:2:submit"))

	require.Len(t, f.gateway.uploads, 1)
	assert.Equal(t, uploadCall{AssignmentID: 2, Username: "alice", Filename: "lab.pdf", Content: "data"}, f.gateway.uploads[0])
	assert.Equal(t, "Assignment submitted!", f.dialog.last())
	assert.Equal(t, 2, f.gateway.count("assignments"))
}

func TestSubmitWithoutFileSendsNothing(t *testing.T) {
	f := newFixture(t)
	f.gateway.assignments = []models.Assignment{{ID: 1, Name: "Essay"}, {ID: 2, Name: "Lab"}}
	f.signIn("alice", models.RoleStudent)
	require.NoError(t, f.assign.LoadStudentAssignments(context.Background()))
	f.doc.SelectFile("assignment_file_2", view.BytesFile("lab.pdf", []byte("data")))

	err := f.assign.Submit(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Zero(t, f.gateway.count("submit_assignment"))
	assert.Equal(t, "Select a file first", f.dialog.last())
}

func TestSubmitFailureMessages(t *testing.T) {
	f := newFixture(t)
	f.gateway.assignments = []models.Assignment{{ID: 1, Name: "Essay"}}
	f.signIn("alice", models.RoleStudent)
	require.NoError(t, f.assign.LoadStudentAssignments(context.Background()))
	f.doc.SelectFile("assignment_file_1", view.BytesFile("essay.exe", []byte("MZ")))

	f.gateway.uploadErr = rejected(http.StatusBadRequest, "File type not allowed")
	require.Error(t, f.assign.Submit(context.Background(), 1))
	assert.Equal(t, "File type not allowed", f.dialog.last())

	f.gateway.uploadErr = errNetwork
	require.Error(t, f.assign.Submit(context.Background(), 1))
	assert.Equal(t, "Error submitting assignment.", f.dialog.last())
	assert.Equal(t, 1, f.gateway.count("assignments"))
}

func TestSubmissionsRender(t *testing.T) {
	f := newFixture(t)
	f.gateway.submissions = []models.Submission{
		{ID: 4, AssignmentName: "Essay", StudentUsername: "alice", FilePath: "uploads/alice_1_essay.pdf"},
		{ID: 5, AssignmentName: "Lab", StudentUsername: "bob", FilePath: "uploads/bob_2_lab.pdf", Remarks: strPtr("Good")},
	}
	f.signIn("faculty1", models.RoleFaculty)

	require.NoError(t, f.assign.LoadSubmissions(context.Background()))

	assert.Equal(t, 2, f.doc.Count("#submittedAssignmentsDiv .submission"))
	assert.Equal(t, "(No remarks yet)", f.doc.Text("remarks_4"))
	assert.Equal(t, "Good", f.doc.Text("remarks_5"))
	assert.Contains(t, f.doc.Text(SubmissionsListID), "Student: bob")
	assert.Equal(t, []string{"submission:4:remarks", "submission:5:remarks"}, f.actions.Keys())

	f.gateway.submissions = nil
	require.NoError(t, f.assign.LoadSubmissions(context.Background()))
	assert.Equal(t, "No submissions yet.", f.doc.Text(SubmissionsListID))
	assert.Empty(t, f.actions.Keys())

	f.gateway.submissionsErr = errNetwork
	require.Error(t, f.assign.LoadSubmissions(context.Background()))
	assert.Equal(t, "Error loading submissions.", f.doc.Text(SubmissionsListID))
}

func TestAddRemarksCancelledSendsNothing(t *testing.T) {
	for _, answer := range []promptAnswer{{ok: false}, {text: "", ok: true}} {
		f := newFixture(t)
		f.signIn("faculty1", models.RoleFaculty)
		f.dialog.answers = []promptAnswer{answer}

		require.NoError(t, f.assign.AddRemarks(context.Background(), 4))

		assert.Equal(t, []string{RemarksPrompt}, f.dialog.prompts)
		assert.Zero(t, f.gateway.total())
	}
}

func TestAddRemarksSendsWhitespaceAnswer(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.dialog.answers = []promptAnswer{{text: "  ", ok: true}}

	require.NoError(t, f.assign.AddRemarks(context.Background(), 4))

	assert.Equal(t, "  ", f.gateway.remarks[4])
	assert.Equal(t, 1, f.gateway.count("submission_remarks"))
}

func TestAddRemarksUpdatesDisplay(t *testing.T) {
	f := newFixture(t)
	f.gateway.submissions = []models.Submission{{ID: 4, AssignmentName: "Essay", StudentUsername: "alice", FilePath: "uploads/a.pdf"}}
	f.signIn("faculty1", models.RoleFaculty)
	require.NoError(t, f.assign.LoadSubmissions(context.Background()))
	f.dialog.answers = []promptAnswer{{text: "Nice work", ok: true}}

	require.NoError(t, f.actions.Dispatch(context.Background(), "submission:4:remarks"))

	assert.Equal(t, "Nice work", f.gateway.remarks[4])
	assert.Equal(t, "Nice work", f.doc.Text("remarks_4"))
	assert.Equal(t, 2, f.gateway.count("submissions"))
}

func TestAddRemarksFailureAlerts(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.gateway.remarksErr = errNetwork
	f.dialog.answers = []promptAnswer{{text: "Nice", ok: true}}

	require.Error(t, f.assign.AddRemarks(context.Background(), 4))
	assert.Equal(t, "An error occurred.", f.dialog.last())
	assert.Zero(t, f.gateway.count("submissions"))
}

func TestCreateAssignmentValidatesAndRefreshes(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(AssignmentNameInputID, "Essay")

	err := f.assign.Create(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.IsValidation(err))
	assert.Equal(t, "Please fill in all fields.", f.dialog.last())
	assert.Zero(t, f.gateway.total())

	f.doc.SetValue(AssignmentDetailsInputID, "500 words")
	require.NoError(t, f.assign.Create(context.Background()))

	assert.Equal(t, dto.AssignmentRequest{Name: "Essay", Details: "500 words"}, f.gateway.assignmentReq)
	assert.Equal(t, "Assignment created", f.dialog.last())
	assert.Empty(t, f.doc.Value(AssignmentNameInputID))
	assert.Empty(t, f.doc.Value(AssignmentDetailsInputID))
	assert.Equal(t, 1, f.gateway.count("submissions"))
	assert.Equal(t, 1, f.gateway.count("assignments"))
}

func TestCreateAssignmentFailureMessages(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(AssignmentNameInputID, "Essay")
	f.doc.SetValue(AssignmentDetailsInputID, "500 words")

	f.gateway.assignmentResErr = rejected(http.StatusBadRequest, "")
	require.Error(t, f.assign.Create(context.Background()))
	assert.Equal(t, "Failed to create assignment.", f.dialog.last())

	f.gateway.assignmentResErr = errNetwork
	require.Error(t, f.assign.Create(context.Background()))
	assert.Equal(t, "An error occurred.", f.dialog.last())
	assert.Equal(t, "Essay", f.doc.Value(AssignmentNameInputID))
}
