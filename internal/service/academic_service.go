package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Element ids owned by the academics feature.
const (
	AttendanceDisplayID = "attendanceDisplay"
	MarksListID         = "marksList"

	MarkStudentInputID = "markStudentInput"
	MarkSubjectInputID = "markSubjectInput"
	MarkValueInputID   = "markValueInput"
	AttStudentInputID  = "attStudentInput"
	AttTotalInputID    = "attTotalInput"
	AttAttendedInputID = "attAttendedInput"
)

type academicGateway interface {
	Attendance(ctx context.Context, username string) (*models.Attendance, error)
	UpdateAttendance(ctx context.Context, username string, req dto.AttendanceUpdateRequest) (*dto.MessageResponse, error)
	Marks(ctx context.Context, username string) (models.Marks, error)
	UpsertMarks(ctx context.Context, req dto.MarksRequest) (*dto.MessageResponse, error)
}

// AcademicService renders a student's attendance and marks and handles the faculty
// marks and attendance forms.
type AcademicService struct {
	renderer
	gateway academicGateway
}

// NewAcademicService constructs an AcademicService.
func NewAcademicService(gateway academicGateway, deps Deps) *AcademicService {
	return &AcademicService{renderer: newRenderer(deps), gateway: gateway}
}

// LoadAttendance shows "<attended> / <total>" for the signed-in student. Values are
// displayed as received.
func (s *AcademicService) LoadAttendance(ctx context.Context) error {
	current, gen, err := s.begin()
	if err != nil {
		return err
	}

	att, err := s.gateway.Attendance(ctx, current.Username)
	if s.stale(gen, AttendanceDisplayID) {
		return err
	}
	if err != nil {
		s.logFailure("attendance", err)
		if appErrors.IsApplication(err) {
			s.target.SetText(AttendanceDisplayID, "N/A")
		} else {
			s.target.SetText(AttendanceDisplayID, "Error")
		}
		return err
	}
	s.target.SetText(AttendanceDisplayID, fmt.Sprintf("%d / %d", att.AttendedDays, att.TotalDays))
	return nil
}

// LoadMarks lists "<subject>: <mark>" in the order the service sent them.
func (s *AcademicService) LoadMarks(ctx context.Context) error {
	current, gen, err := s.begin()
	if err != nil {
		return err
	}

	marks, err := s.gateway.Marks(ctx, current.Username)
	if s.stale(gen, MarksListID) {
		return err
	}
	if err != nil {
		s.logFailure("marks", err)
		if appErrors.IsApplication(err) {
			s.target.Replace(MarksListID, emphasis("No marks available."))
		} else {
			s.target.Replace(MarksListID, emphasis("Error fetching marks."))
		}
		return err
	}
	if len(marks) == 0 {
		s.target.Replace(MarksListID, emphasis("No marks recorded."))
		return nil
	}
	s.target.Replace(MarksListID, markItems(marks)...)
	return nil
}

// UpdateMarks submits the faculty marks form. Non-numeric marks never reach the service.
func (s *AcademicService) UpdateMarks(ctx context.Context) error {
	form := dto.MarksForm{
		Student: strings.TrimSpace(s.target.Value(MarkStudentInputID)),
		Subject: strings.TrimSpace(s.target.Value(MarkSubjectInputID)),
		Value:   strings.TrimSpace(s.target.Value(MarkValueInputID)),
	}
	if err := s.validator.Struct(form); err != nil {
		s.alert("Please fill student, subject and numeric marks.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid marks form")
	}
	value, _ := strconv.Atoi(form.Value)

	_, err := s.gateway.UpsertMarks(ctx, dto.MarksRequest{StudentUsername: form.Student, Subject: form.Subject, Marks: &value})
	if err != nil {
		s.logFailure("update marks", err)
		s.alert(failureMessage(err, "Failed to save marks.", "Error saving marks."))
		return err
	}
	s.alert("Marks saved.")
	return nil
}

// UpdateAttendance submits the faculty attendance form. Attended days may exceed total
// days; the service is the judge of that.
func (s *AcademicService) UpdateAttendance(ctx context.Context) error {
	form := dto.AttendanceForm{
		Student:  strings.TrimSpace(s.target.Value(AttStudentInputID)),
		Total:    strings.TrimSpace(s.target.Value(AttTotalInputID)),
		Attended: strings.TrimSpace(s.target.Value(AttAttendedInputID)),
	}
	if err := s.validator.Struct(form); err != nil {
		s.alert("Please fill student and numeric totals.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance form")
	}
	total, _ := strconv.Atoi(form.Total)
	attended, _ := strconv.Atoi(form.Attended)

	_, err := s.gateway.UpdateAttendance(ctx, form.Student, dto.AttendanceUpdateRequest{TotalDays: &total, AttendedDays: &attended})
	if err != nil {
		s.logFailure("update attendance", err)
		s.alert(failureMessage(err, "Failed to update attendance.", "Error updating attendance."))
		return err
	}
	s.alert("Attendance updated.")
	return nil
}
