package app

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/gateway"
	"github.com/noah-isme/sma-portal-client/internal/service"
	"github.com/noah-isme/sma-portal-client/internal/session"
	"github.com/noah-isme/sma-portal-client/internal/view"
	"github.com/noah-isme/sma-portal-client/internal/view/htmldom"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
	"github.com/noah-isme/sma-portal-client/pkg/metrics"
	"github.com/noah-isme/sma-portal-client/pkg/validation"
)

// Controls wired on the static page.
const (
	ActionLogin               = "login"
	ActionLogout              = "logout"
	ActionShowCreateAccount   = "show-create-account"
	ActionCreateAccount       = "create-account"
	ActionCancelCreateAccount = "cancel-create-account"
	ActionUploadCertificate   = "upload-certificate"
	ActionCreateAssignment    = "create-assignment"
	ActionUpdateMarks         = "update-marks"
	ActionUpdateAttendance    = "update-attendance"

	sectionActionPrefix = "section:"
)

// Sections reachable from the navigation bars of both dashboards.
var Sections = []string{"academics", "assignments", "non-academics", "manage-assignments", "certificates"}

// Options configures a Portal.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Dialog     view.Dialog
	Recorder   *metrics.Recorder
	Logger     *zap.Logger
}

// Portal is the assembled client: one page, one session and the feature services
// rendering into it.
type Portal struct {
	Document *htmldom.Document
	Session  *session.State
	Actions  *view.Actions
	Router   *view.Router
	Recorder *metrics.Recorder

	Account      *service.AccountService
	Academics    *service.AcademicService
	Assignments  *service.AssignmentService
	Certificates *service.CertificateService
	Dashboards   *service.DashboardService

	logger *zap.Logger
}

// New builds the page, the gateway and every service, then registers the page's
// static controls.
func New(opts Options) (*Portal, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	doc, err := htmldom.New()
	if err != nil {
		return nil, err
	}
	gw, err := gateway.New(opts.BaseURL, httpClient, logger, opts.Recorder)
	if err != nil {
		return nil, err
	}

	p := &Portal{
		Document: doc,
		Session:  session.New(),
		Actions:  view.NewActions(),
		Router:   view.NewRouter(doc, logger),
		Recorder: opts.Recorder,
		logger:   logger,
	}
	deps := service.Deps{
		Session:   p.Session,
		Target:    doc,
		Dialog:    opts.Dialog,
		Actions:   p.Actions,
		Validator: validation.New(),
		Logger:    logger,
	}

	p.Academics = service.NewAcademicService(gw, deps)
	p.Assignments = service.NewAssignmentService(gw, deps)
	p.Certificates = service.NewCertificateService(gw, deps)
	p.Dashboards = service.NewDashboardService(service.DashboardServiceParams{
		Academics:    p.Academics,
		Assignments:  p.Assignments,
		Certificates: p.Certificates,
		Router:       p.Router,
		Session:      p.Session,
		Logger:       logger,
	})
	p.Account = service.NewAccountService(gw, p.Router, p.Dashboards, deps)

	p.registerStaticActions()
	p.Router.Reset()
	return p, nil
}

func (p *Portal) registerStaticActions() {
	static := map[string]view.ActionFunc{
		ActionLogin:               p.Account.Login,
		ActionLogout:              p.Account.Logout,
		ActionShowCreateAccount:   p.Account.ShowCreateAccountForm,
		ActionCreateAccount:       p.Account.CreateAccount,
		ActionCancelCreateAccount: p.Account.CancelCreateAccount,
		ActionUploadCertificate:   p.Certificates.Upload,
		ActionCreateAssignment:    p.Assignments.Create,
		ActionUpdateMarks:         p.Academics.UpdateMarks,
		ActionUpdateAttendance:    p.Academics.UpdateAttendance,
	}
	for key, fn := range static {
		p.Actions.Register(view.GlobalScope, key, fn)
	}
	for _, section := range Sections {
		name := section
		p.Actions.Register(view.GlobalScope, sectionActionPrefix+name, view.ActionFunc(func(context.Context) error {
			return p.Dashboards.ShowSection(name)
		}))
	}
}

// Click dispatches the control bound to key, as a button press would.
func (p *Portal) Click(ctx context.Context, key string) error {
	p.logger.Debug("click", zap.String("action", key))
	return p.Actions.Dispatch(ctx, key)
}

// Section switches the signed-in dashboard to the named section.
func (p *Portal) Section(name string) error {
	return p.Dashboards.ShowSection(name)
}

// Type sets the value of an input, as typing into it would.
func (p *Portal) Type(id, text string) error {
	if !p.Document.Exists(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "no element "+id)
	}
	p.Document.SetValue(id, text)
	return nil
}

// Attach selects a local file in a file input.
func (p *Portal) Attach(id, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "cannot read "+path)
	}
	if info.IsDir() {
		return appErrors.Clone(appErrors.ErrValidation, path+" is a directory")
	}
	if !p.Document.Exists(id) {
		return appErrors.Clone(appErrors.ErrNotFound, "no element "+id)
	}
	p.Document.SelectFile(id, view.DiskFile(path))
	if _, ok := p.Document.SelectedFile(id); !ok {
		return appErrors.Clone(appErrors.ErrValidation, id+" is not a file input")
	}
	return nil
}

// Page renders what is currently displayed, or one element's markup when id is set.
func (p *Portal) Page(id string) string {
	if id == "" {
		return p.Document.VisibleText()
	}
	return p.Document.HTML(id)
}

// ActionKeys lists every control that can be clicked right now.
func (p *Portal) ActionKeys() []string {
	return p.Actions.Keys()
}

// Metrics summarises the requests sent so far.
func (p *Portal) Metrics() metrics.Snapshot {
	return p.Recorder.Snapshot()
}
