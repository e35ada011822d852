package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal-client/internal/models"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

func TestLoadAttendance(t *testing.T) {
	tests := []struct {
		name string
		att  *models.Attendance
		err  error
		want string
	}{
		{name: "counters", att: &models.Attendance{TotalDays: 30, AttendedDays: 27}, want: "27 / 30"},
		{name: "attended above total is shown as received", att: &models.Attendance{TotalDays: 5, AttendedDays: 7}, want: "7 / 5"},
		{name: "rejected", err: rejected(http.StatusNotFound, "Student not found"), want: "N/A"},
		{name: "transport", err: errNetwork, want: "Error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.gateway.attendance = tc.att
			f.gateway.attendanceErr = tc.err
			f.signIn("alice", models.RoleStudent)

			err := f.academic.LoadAttendance(context.Background())

			assert.Equal(t, tc.err, err)
			assert.Equal(t, tc.want, f.doc.Text(AttendanceDisplayID))
		})
	}
}

func TestLoadMarksKeepsServiceOrder(t *testing.T) {
	f := newFixture(t)
	f.gateway.marks = models.Marks{{Subject: "Physics", Mark: "75"}, {Subject: "Algebra", Mark: "88"}}
	f.signIn("alice", models.RoleStudent)

	require.NoError(t, f.academic.LoadMarks(context.Background()))

	assert.Equal(t, 2, f.doc.Count("#marksList li"))
	assert.Equal(t, "Physics: 75Algebra: 88", f.doc.Text(MarksListID))
}

func TestLoadMarksPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		marks models.Marks
		err   error
		want  string
	}{
		{name: "empty", marks: models.Marks{}, want: "No marks recorded."},
		{name: "rejected", err: rejected(http.StatusNotFound, "Student not found"), want: "No marks available."},
		{name: "transport", err: errNetwork, want: "Error fetching marks."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.gateway.marks = tc.marks
			f.gateway.marksErr = tc.err
			f.signIn("alice", models.RoleStudent)

			_ = f.academic.LoadMarks(context.Background())

			assert.Equal(t, tc.want, f.doc.Text(MarksListID))
			assert.Zero(t, f.doc.Count("#marksList li"))
		})
	}
}

func TestLoadersNeedSession(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.academic.LoadAttendance(context.Background()), appErrors.ErrNoSession)
	assert.ErrorIs(t, f.academic.LoadMarks(context.Background()), appErrors.ErrNoSession)
	assert.Zero(t, f.gateway.total())
}

func TestUpdateMarksRejectsNonNumericValue(t *testing.T) {
	for _, value := range []string{"ninety", "", "8.5"} {
		t.Run("value "+value, func(t *testing.T) {
			f := newFixture(t)
			f.signIn("faculty1", models.RoleFaculty)
			f.doc.SetValue(MarkStudentInputID, "alice")
			f.doc.SetValue(MarkSubjectInputID, "Physics")
			f.doc.SetValue(MarkValueInputID, value)

			err := f.academic.UpdateMarks(context.Background())

			require.Error(t, err)
			assert.True(t, appErrors.IsValidation(err))
			assert.Zero(t, f.gateway.total())
			assert.Equal(t, "Please fill student, subject and numeric marks.", f.dialog.last())
		})
	}
}

func TestUpdateMarksSendsInteger(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(MarkStudentInputID, " alice ")
	f.doc.SetValue(MarkSubjectInputID, "Physics")
	f.doc.SetValue(MarkValueInputID, "91")

	require.NoError(t, f.academic.UpdateMarks(context.Background()))

	assert.Equal(t, "alice", f.gateway.marksReq.StudentUsername)
	assert.Equal(t, "Physics", f.gateway.marksReq.Subject)
	require.NotNil(t, f.gateway.marksReq.Marks)
	assert.Equal(t, 91, *f.gateway.marksReq.Marks)
	assert.Equal(t, "Marks saved.", f.dialog.last())
}

func TestUpdateMarksFailureMessages(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(MarkStudentInputID, "alice")
	f.doc.SetValue(MarkSubjectInputID, "Physics")
	f.doc.SetValue(MarkValueInputID, "50")

	f.gateway.marksWriteErr = rejected(http.StatusNotFound, "Student not found")
	require.Error(t, f.academic.UpdateMarks(context.Background()))
	assert.Equal(t, "Student not found", f.dialog.last())

	f.gateway.marksWriteErr = errNetwork
	require.Error(t, f.academic.UpdateMarks(context.Background()))
	assert.Equal(t, "Error saving marks.", f.dialog.last())
}

func TestUpdateAttendanceAllowsAttendedAboveTotal(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(AttStudentInputID, "alice")
	f.doc.SetValue(AttTotalInputID, "10")
	f.doc.SetValue(AttAttendedInputID, "12")

	require.NoError(t, f.academic.UpdateAttendance(context.Background()))

	assert.Equal(t, "alice", f.gateway.attendanceUser)
	require.NotNil(t, f.gateway.attendanceReq.TotalDays)
	require.NotNil(t, f.gateway.attendanceReq.AttendedDays)
	assert.Equal(t, 10, *f.gateway.attendanceReq.TotalDays)
	assert.Equal(t, 12, *f.gateway.attendanceReq.AttendedDays)
	assert.Equal(t, "Attendance updated.", f.dialog.last())
	assert.Zero(t, f.gateway.count("submissions"))
}

func TestUpdateAttendanceRejectsMissingStudent(t *testing.T) {
	f := newFixture(t)
	f.signIn("faculty1", models.RoleFaculty)
	f.doc.SetValue(AttTotalInputID, "10")
	f.doc.SetValue(AttAttendedInputID, "8")

	require.Error(t, f.academic.UpdateAttendance(context.Background()))
	assert.Zero(t, f.gateway.total())
	assert.Equal(t, "Please fill student and numeric totals.", f.dialog.last())
}
