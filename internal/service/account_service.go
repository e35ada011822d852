package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Element ids of the login panel.
const (
	UsernameInputID        = "usernameInput"
	PasswordInputID        = "passwordInput"
	EmailInputID           = "emailInput"
	ConfirmPasswordInputID = "confirmPasswordInput"
	RoleSelectID           = "roleSelect"
	LoginErrorID           = "loginError"
	WelcomeMessageID       = "welcomeMsg"

	loginButtonID         = "loginBtn"
	createAccountButtonID = "createAccountBtn"
	submitCreateButtonID  = "submitCreateBtn"
	cancelCreateButtonID  = "cancelCreateBtn"
)

type accountGateway interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.MessageResponse, error)
}

type dashboardActivator interface {
	Activate(ctx context.Context, role models.Role)
}

// AccountService drives the login panel: signing in and out and account creation.
type AccountService struct {
	renderer
	gateway    accountGateway
	router     *view.Router
	dashboards dashboardActivator
}

// NewAccountService constructs an AccountService.
func NewAccountService(gateway accountGateway, router *view.Router, dashboards dashboardActivator, deps Deps) *AccountService {
	return &AccountService{renderer: newRenderer(deps), gateway: gateway, router: router, dashboards: dashboards}
}

// Login authenticates with the login form. On acceptance the session is replaced and the
// role's dashboard opened; on rejection the service's message is shown and the session
// is left untouched.
func (s *AccountService) Login(ctx context.Context) error {
	s.target.SetText(LoginErrorID, "")
	req := dto.LoginRequest{
		Username: strings.TrimSpace(s.target.Value(UsernameInputID)),
		Password: s.target.Value(PasswordInputID),
		Role:     models.Role(s.target.Value(RoleSelectID)),
	}

	res, err := s.gateway.Login(ctx, req)
	if err != nil {
		s.logFailure("login", err)
		s.target.SetText(LoginErrorID, failureMessage(err, "Login failed.", "An error occurred. Please try again."))
		return err
	}

	role := res.Role
	if !role.Valid() {
		s.logger.Warn("login answered without a known role", zap.String("role", string(role)))
		role = req.Role
	}
	s.session.Begin(req.Username, role)
	s.actions.ResetScoped()
	s.logger.Info("signed in", zap.String("username", req.Username), zap.String("role", string(role)))

	s.target.SetText(WelcomeMessageID, fmt.Sprintf("Welcome, %s (%s)", req.Username, role))
	s.dashboards.Activate(ctx, role)
	return nil
}

// Logout forgets the session and returns to the login panel. It never contacts the
// service and is safe to repeat.
func (s *AccountService) Logout(context.Context) error {
	if current, ok := s.session.Current(); ok {
		s.logger.Info("signed out", zap.String("username", current.Username))
	}
	s.session.Clear()
	s.actions.ResetScoped()
	s.target.SetText(WelcomeMessageID, "")
	s.router.ShowPanel(view.PanelLogin)
	return nil
}

// CreateAccount registers the account typed into the extended login form. Mismatched
// passwords are rejected locally.
func (s *AccountService) CreateAccount(ctx context.Context) error {
	req := dto.CreateAccountRequest{
		Username:        strings.TrimSpace(s.target.Value(UsernameInputID)),
		Password:        s.target.Value(PasswordInputID),
		ConfirmPassword: s.target.Value(ConfirmPasswordInputID),
		Role:            models.Role(s.target.Value(RoleSelectID)),
		Email:           strings.TrimSpace(s.target.Value(EmailInputID)),
	}
	if err := s.validator.Struct(req); err != nil {
		s.target.SetText(LoginErrorID, "Passwords do not match.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "passwords do not match")
	}

	res, err := s.gateway.CreateAccount(ctx, req)
	if err != nil {
		s.logFailure("create account", err)
		s.target.SetText(LoginErrorID, failureMessage(err, "Account creation failed.", "An error occurred."))
		return err
	}
	_ = s.CancelCreateAccount(ctx)
	s.target.SetText(LoginErrorID, res.Message)
	return nil
}

// ShowCreateAccountForm reveals the email and confirmation inputs.
func (s *AccountService) ShowCreateAccountForm(context.Context) error {
	for _, id := range []string{loginButtonID, createAccountButtonID} {
		s.target.Hide(id)
	}
	for _, id := range []string{submitCreateButtonID, cancelCreateButtonID, EmailInputID, ConfirmPasswordInputID} {
		s.target.Show(id)
	}
	return nil
}

// CancelCreateAccount returns to the plain login form and clears it.
func (s *AccountService) CancelCreateAccount(context.Context) error {
	for _, id := range []string{loginButtonID, createAccountButtonID} {
		s.target.Show(id)
	}
	for _, id := range []string{submitCreateButtonID, cancelCreateButtonID, EmailInputID, ConfirmPasswordInputID} {
		s.target.Hide(id)
	}
	for _, id := range []string{UsernameInputID, PasswordInputID, EmailInputID, ConfirmPasswordInputID} {
		s.target.SetValue(id, "")
	}
	s.target.SetText(LoginErrorID, "")
	return nil
}
