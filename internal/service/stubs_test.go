package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/session"
	"github.com/noah-isme/sma-portal-client/internal/view"
	"github.com/noah-isme/sma-portal-client/internal/view/htmldom"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

var errNetwork = appErrors.Transport(errors.New("connection refused"))

func rejected(status int, message string) error {
	return appErrors.Application(status, message)
}

type uploadCall struct {
	AssignmentID int64
	Username     string
	Filename     string
	Content      string
}

// stubGateway implements every gateway interface and records calls.
type stubGateway struct {
	mu    sync.Mutex
	calls []string

	loginRes  *dto.LoginResponse
	loginErr  error
	lastLogin dto.LoginRequest

	createRes  *dto.MessageResponse
	createErr  error
	lastCreate dto.CreateAccountRequest

	attendance    *models.Attendance
	attendanceErr error
	marks         models.Marks
	marksErr      error

	marksReq       dto.MarksRequest
	marksWriteErr  error
	attendanceUser string
	attendanceReq  dto.AttendanceUpdateRequest
	attendanceWErr error

	studentCerts    []models.Certificate
	studentCertsErr error
	pendingCerts    []models.Certificate
	pendingCertsErr error
	statusReqs      map[int64]dto.CertificateStatusRequest
	statusErr       error
	uploads         []uploadCall
	uploadErr       error

	assignments      []models.Assignment
	assignmentsErr   error
	assignmentReq    dto.AssignmentRequest
	assignmentResErr error
	submissions      []models.Submission
	submissionsErr   error
	remarks          map[int64]string
	remarksErr       error

	// block, when set, holds the named call until released.
	block map[string]chan struct{}
}

func (g *stubGateway) record(name string) {
	g.mu.Lock()
	g.calls = append(g.calls, name)
	ch := g.block[name]
	g.mu.Unlock()
	if ch != nil {
		<-ch
	}
}

func (g *stubGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (g *stubGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *stubGateway) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	g.record("login")
	g.lastLogin = req
	return g.loginRes, g.loginErr
}

func (g *stubGateway) CreateAccount(_ context.Context, req dto.CreateAccountRequest) (*dto.MessageResponse, error) {
	g.record("create_account")
	g.lastCreate = req
	return g.createRes, g.createErr
}

func (g *stubGateway) Attendance(context.Context, string) (*models.Attendance, error) {
	g.record("attendance")
	return g.attendance, g.attendanceErr
}

func (g *stubGateway) UpdateAttendance(_ context.Context, username string, req dto.AttendanceUpdateRequest) (*dto.MessageResponse, error) {
	g.record("update_attendance")
	g.attendanceUser = username
	g.attendanceReq = req
	return &dto.MessageResponse{Success: true, Message: "Attendance updated"}, g.attendanceWErr
}

func (g *stubGateway) Marks(context.Context, string) (models.Marks, error) {
	g.record("marks")
	return g.marks, g.marksErr
}

func (g *stubGateway) UpsertMarks(_ context.Context, req dto.MarksRequest) (*dto.MessageResponse, error) {
	g.record("upsert_marks")
	g.marksReq = req
	return &dto.MessageResponse{Success: true, Message: "Marks saved"}, g.marksWriteErr
}

func (g *stubGateway) Certificates(_ context.Context, query dto.CertificateQuery) ([]models.Certificate, error) {
	if query.Role == models.RoleFaculty {
		g.record("pending_certificates")
		g.mu.Lock()
		defer g.mu.Unlock()
		out := make([]models.Certificate, 0)
		for _, c := range g.pendingCerts {
			if c.Status == models.CertificatePending {
				out = append(out, c)
			}
		}
		return out, g.pendingCertsErr
	}
	g.record("student_certificates")
	return g.studentCerts, g.studentCertsErr
}

func (g *stubGateway) UploadCertificate(_ context.Context, username string, upload dto.Upload) (*dto.MessageResponse, error) {
	g.record("upload_certificate")
	data, _ := io.ReadAll(upload.Content)
	g.uploads = append(g.uploads, uploadCall{Username: username, Filename: upload.Filename, Content: string(data)})
	return &dto.MessageResponse{Success: true, Message: "Certificate uploaded"}, g.uploadErr
}

func (g *stubGateway) UpdateCertificateStatus(_ context.Context, id int64, req dto.CertificateStatusRequest) (*dto.MessageResponse, error) {
	g.record("certificate_status")
	if g.statusErr != nil {
		return nil, g.statusErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusReqs == nil {
		g.statusReqs = make(map[int64]dto.CertificateStatusRequest)
	}
	g.statusReqs[id] = req
	for i := range g.pendingCerts {
		if g.pendingCerts[i].ID == id {
			g.pendingCerts[i].Status = req.Status
		}
	}
	return &dto.MessageResponse{Success: true, Message: "Certificate status updated"}, nil
}

func (g *stubGateway) Assignments(context.Context) ([]models.Assignment, error) {
	g.record("assignments")
	return g.assignments, g.assignmentsErr
}

func (g *stubGateway) CreateAssignment(_ context.Context, req dto.AssignmentRequest) (*dto.MessageResponse, error) {
	g.record("create_assignment")
	g.assignmentReq = req
	if g.assignmentResErr != nil {
		return nil, g.assignmentResErr
	}
	return &dto.MessageResponse{Success: true, Message: "Assignment created"}, nil
}

func (g *stubGateway) Submissions(context.Context) ([]models.Submission, error) {
	g.record("submissions")
	return g.submissions, g.submissionsErr
}

func (g *stubGateway) SubmitAssignment(_ context.Context, assignmentID int64, username string, upload dto.Upload) (*dto.MessageResponse, error) {
	g.record("submit_assignment")
	data, _ := io.ReadAll(upload.Content)
	g.uploads = append(g.uploads, uploadCall{AssignmentID: assignmentID, Username: username, Filename: upload.Filename, Content: string(data)})
	if g.uploadErr != nil {
		return nil, g.uploadErr
	}
	return &dto.MessageResponse{Success: true, Message: "File uploaded successfully"}, nil
}

func (g *stubGateway) UpdateSubmissionRemarks(_ context.Context, id int64, req dto.RemarksRequest) (*dto.MessageResponse, error) {
	g.record("submission_remarks")
	if g.remarksErr != nil {
		return nil, g.remarksErr
	}
	if g.remarks == nil {
		g.remarks = make(map[int64]string)
	}
	g.remarks[id] = req.Remarks
	for i := range g.submissions {
		if g.submissions[i].ID == id {
			r := req.Remarks
			g.submissions[i].Remarks = &r
		}
	}
	return &dto.MessageResponse{Success: true, Message: "Remarks updated successfully"}, nil
}

// stubDialog records alerts and answers prompts from a queue.
type stubDialog struct {
	mu      sync.Mutex
	alerts  []string
	prompts []string
	answers []promptAnswer
}

type promptAnswer struct {
	text string
	ok   bool
}

func (d *stubDialog) Alert(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, message)
}

func (d *stubDialog) Prompt(_ context.Context, message string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompts = append(d.prompts, message)
	if len(d.answers) == 0 {
		return "", false
	}
	next := d.answers[0]
	d.answers = d.answers[1:]
	return next.text, next.ok
}

func (d *stubDialog) last() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.alerts) == 0 {
		return ""
	}
	return d.alerts[len(d.alerts)-1]
}

type fixture struct {
	doc      *htmldom.Document
	gateway  *stubGateway
	dialog   *stubDialog
	session  *session.State
	actions  *view.Actions
	router   *view.Router
	deps     Deps
	academic *AcademicService
	certs    *CertificateService
	assign   *AssignmentService
	boards   *DashboardService
	account  *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := htmldom.New()
	require.NoError(t, err)

	f := &fixture{
		doc:     doc,
		gateway: &stubGateway{},
		dialog:  &stubDialog{},
		session: session.New(),
		actions: view.NewActions(),
	}
	f.router = view.NewRouter(doc, nil)
	f.router.Reset()
	f.deps = Deps{Session: f.session, Target: doc, Dialog: f.dialog, Actions: f.actions}

	f.academic = NewAcademicService(f.gateway, f.deps)
	f.certs = NewCertificateService(f.gateway, f.deps)
	f.assign = NewAssignmentService(f.gateway, f.deps)
	f.boards = NewDashboardService(DashboardServiceParams{
		Academics:    f.academic,
		Assignments:  f.assign,
		Certificates: f.certs,
		Router:       f.router,
		Session:      f.session,
	})
	f.account = NewAccountService(f.gateway, f.router, f.boards, f.deps)
	return f
}

func (f *fixture) signIn(username string, role models.Role) uint64 {
	return f.session.Begin(username, role)
}

func strPtr(s string) *string { return &s }
