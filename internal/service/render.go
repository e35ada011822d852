package service

import (
	"fmt"
	"path"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/session"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
	"github.com/noah-isme/sma-portal-client/pkg/validation"
)

// Deps groups the collaborators every feature service renders through.
type Deps struct {
	Session   *session.State
	Target    view.Target
	Dialog    view.Dialog
	Actions   *view.Actions
	Validator *validator.Validate
	Logger    *zap.Logger
}

// renderer is embedded by the feature services. Every asynchronous render takes the
// session generation before its request and drops its writes if the session moved on.
type renderer struct {
	session   *session.State
	target    view.Target
	dialog    view.Dialog
	actions   *view.Actions
	validator *validator.Validate
	logger    *zap.Logger
}

func newRenderer(deps Deps) renderer {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Session == nil {
		deps.Session = session.New()
	}
	if deps.Actions == nil {
		deps.Actions = view.NewActions()
	}
	if deps.Validator == nil {
		deps.Validator = validation.New()
	}
	return renderer{
		session:   deps.Session,
		target:    deps.Target,
		dialog:    deps.Dialog,
		actions:   deps.Actions,
		validator: deps.Validator,
		logger:    deps.Logger,
	}
}

// begin captures the signed-in user and the generation to render under.
func (r *renderer) begin() (models.Session, uint64, error) {
	gen := r.session.Generation()
	current, ok := r.session.Current()
	if !ok || !r.session.Live(gen) {
		return models.Session{}, 0, appErrors.ErrNoSession
	}
	return current, gen, nil
}

// stale reports whether a render started under gen must be dropped.
func (r *renderer) stale(gen uint64, region string) bool {
	if r.session.Live(gen) {
		return false
	}
	r.logger.Debug("dropping stale render", zap.String("region", region), zap.Uint64("generation", gen))
	return true
}

func (r *renderer) alert(message string) {
	if r.dialog == nil {
		r.logger.Warn("alert without dialog", zap.String("message", message))
		return
	}
	r.dialog.Alert(message)
}

// failureMessage picks the text shown for a failed request: the service's own message for
// an application error (or fallback when it sent none), transportText otherwise.
func failureMessage(err error, fallback, transportText string) string {
	if appErrors.IsApplication(err) {
		if msg := appErrors.FromError(err).Message; msg != "" {
			return msg
		}
		return fallback
	}
	return transportText
}

// logFailure records the cause of a failed request. Application errors are expected
// outcomes and stay at debug.
func (r *renderer) logFailure(op string, err error) {
	if appErrors.IsApplication(err) {
		r.logger.Debug("request rejected", zap.String("op", op), zap.Error(err))
		return
	}
	r.logger.Error("request failed", zap.String("op", op), zap.Error(err))
}

func fileName(filePath string) string {
	return path.Base(filePath)
}

func itemKey(kind string, id int64, verb string) string {
	return fmt.Sprintf("%s:%d:%s", kind, id, verb)
}
