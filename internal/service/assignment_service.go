package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Element ids owned by the assignments feature.
const (
	StudentAssignmentsListID = "assignmentsListStudent"
	SubmissionsListID        = "submittedAssignmentsDiv"
	AssignmentNameInputID    = "assignmentNameInput"
	AssignmentDetailsInputID = "assignmentDetailsInput"
)

// RemarksPrompt is the question asked before editing submission remarks.
const RemarksPrompt = "Enter your remarks:"

type assignmentGateway interface {
	Assignments(ctx context.Context) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, req dto.AssignmentRequest) (*dto.MessageResponse, error)
	Submissions(ctx context.Context) ([]models.Submission, error)
	SubmitAssignment(ctx context.Context, assignmentID int64, username string, upload dto.Upload) (*dto.MessageResponse, error)
	UpdateSubmissionRemarks(ctx context.Context, id int64, req dto.RemarksRequest) (*dto.MessageResponse, error)
}

// AssignmentService renders assignments for students, submissions for faculty, and the
// actions that create, submit and annotate them.
type AssignmentService struct {
	renderer
	gateway assignmentGateway
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(gateway assignmentGateway, deps Deps) *AssignmentService {
	return &AssignmentService{renderer: newRenderer(deps), gateway: gateway}
}

// LoadStudentAssignments lists every assignment with its own file picker and submit
// control.
func (s *AssignmentService) LoadStudentAssignments(ctx context.Context) error {
	if !s.target.Exists(StudentAssignmentsListID) {
		return nil
	}
	_, gen, err := s.begin()
	if err != nil {
		return err
	}
	s.target.SetText(StudentAssignmentsListID, "Loading...")

	assignments, err := s.gateway.Assignments(ctx)
	if s.stale(gen, StudentAssignmentsListID) {
		return err
	}
	if err != nil {
		s.logFailure("assignments", err)
		s.actions.ReplaceScope(StudentAssignmentsListID, nil)
		s.target.Replace(StudentAssignmentsListID, emphasis("Error loading assignments."))
		return err
	}
	if len(assignments) == 0 {
		s.actions.ReplaceScope(StudentAssignmentsListID, nil)
		s.target.Replace(StudentAssignmentsListID, emphasis("No assignments yet."))
		return nil
	}

	nodes := make([]view.Node, 0, len(assignments))
	handlers := make(map[string]view.Action, len(assignments))
	for _, a := range assignments {
		nodes = append(nodes, studentAssignmentNode(a))
		handlers[itemKey("assignment", a.ID, "submit")] = submitAction{svc: s, assignmentID: a.ID}
	}
	s.actions.ReplaceScope(StudentAssignmentsListID, handlers)
	s.target.Replace(StudentAssignmentsListID, nodes...)
	return nil
}

// Submit uploads the file chosen for an assignment on behalf of the signed-in student.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID int64) error {
	inputID := view.ItemID(assignmentFilePrefix, assignmentID)
	file, ok := s.target.SelectedFile(inputID)
	if !ok {
		s.alert("Select a file first")
		return appErrors.Clone(appErrors.ErrValidation, "no assignment file selected")
	}
	current, _, err := s.begin()
	if err != nil {
		return err
	}

	content, err := file.Open()
	if err != nil {
		s.logger.Error("open assignment file", zap.String("file", file.Name()), zap.Error(err))
		s.alert("Error submitting assignment.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "open assignment file")
	}
	defer content.Close() //nolint:errcheck

	_, err = s.gateway.SubmitAssignment(ctx, assignmentID, current.Username, dto.Upload{Filename: file.Name(), Content: content})
	if err != nil {
		s.logFailure("submit assignment", err)
		s.alert(failureMessage(err, "Submission failed.", "Error submitting assignment."))
		return err
	}
	s.alert("Assignment submitted!")
	return s.LoadStudentAssignments(ctx)
}

// LoadSubmissions lists every submission with a remarks control bound to its id.
func (s *AssignmentService) LoadSubmissions(ctx context.Context) error {
	if !s.target.Exists(SubmissionsListID) {
		return nil
	}
	_, gen, err := s.begin()
	if err != nil {
		return err
	}
	s.target.SetText(SubmissionsListID, "Fetching submitted assignments...")

	submissions, err := s.gateway.Submissions(ctx)
	if s.stale(gen, SubmissionsListID) {
		return err
	}
	if err != nil {
		s.logFailure("submissions", err)
		s.actions.ReplaceScope(SubmissionsListID, nil)
		s.target.Replace(SubmissionsListID, emphasis("Error loading submissions."))
		return err
	}
	if len(submissions) == 0 {
		s.actions.ReplaceScope(SubmissionsListID, nil)
		s.target.Replace(SubmissionsListID, emphasis("No submissions yet."))
		return nil
	}

	nodes := make([]view.Node, 0, len(submissions))
	handlers := make(map[string]view.Action, len(submissions))
	for _, sub := range submissions {
		nodes = append(nodes, submissionNode(sub))
		handlers[itemKey("submission", sub.ID, "remarks")] = remarksAction{svc: s, submissionID: sub.ID}
	}
	s.actions.ReplaceScope(SubmissionsListID, handlers)
	s.target.Replace(SubmissionsListID, nodes...)
	return nil
}

// Create publishes an assignment from the faculty form and shows the service's answer.
func (s *AssignmentService) Create(ctx context.Context) error {
	req := dto.AssignmentRequest{
		Name:    strings.TrimSpace(s.target.Value(AssignmentNameInputID)),
		Details: strings.TrimSpace(s.target.Value(AssignmentDetailsInputID)),
	}
	if err := s.validator.Struct(req); err != nil {
		s.alert("Please fill in all fields.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment form")
	}

	res, err := s.gateway.CreateAssignment(ctx, req)
	if err != nil {
		s.logFailure("create assignment", err)
		s.alert(failureMessage(err, "Failed to create assignment.", "An error occurred."))
		return err
	}
	s.alert(res.Message)
	s.target.SetValue(AssignmentNameInputID, "")
	s.target.SetValue(AssignmentDetailsInputID, "")

	err = s.LoadSubmissions(ctx)
	if loadErr := s.LoadStudentAssignments(ctx); err == nil {
		err = loadErr
	}
	return err
}

// AddRemarks asks for remarks and stores them on a submission. An empty or cancelled
// answer sends nothing.
func (s *AssignmentService) AddRemarks(ctx context.Context, submissionID int64) error {
	if s.dialog == nil {
		return appErrors.Clone(appErrors.ErrInternal, "no dialog to prompt with")
	}
	remarks, ok := s.dialog.Prompt(ctx, RemarksPrompt)
	if !ok || remarks == "" {
		return nil
	}

	_, err := s.gateway.UpdateSubmissionRemarks(ctx, submissionID, dto.RemarksRequest{Remarks: remarks})
	if err != nil {
		s.logFailure("submission remarks", err)
		s.alert(failureMessage(err, "Failed to update remarks.", "An error occurred."))
		return err
	}
	s.target.SetText(view.ItemID(remarksPrefix, submissionID), remarks)
	return s.LoadSubmissions(ctx)
}

type submitAction struct {
	svc          *AssignmentService
	assignmentID int64
}

func (a submitAction) Invoke(ctx context.Context) error {
	return a.svc.Submit(ctx, a.assignmentID)
}

type remarksAction struct {
	svc          *AssignmentService
	submissionID int64
}

func (a remarksAction) Invoke(ctx context.Context) error {
	return a.svc.AddRemarks(ctx, a.submissionID)
}
