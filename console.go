package leadconsole

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadconsole/leadconsole/credentials"
	"github.com/leadconsole/leadconsole/guard"
	"github.com/leadconsole/leadconsole/password"
)

// RecaptchaProvider supplies a reCAPTCHA token for the actions the backend
// protects (register, forgot_password, reset_password). When no provider is
// configured the console sends an empty token, matching a deployment without
// a site key.
type RecaptchaProvider interface {
	Token(ctx context.Context, action string) (string, error)
}

// Console is the client core of the lead-management console. All operations
// go through its gateway, which owns token attachment and the global 401
// policy. Construct through [Builder.Build].
type Console struct {
	config    Config
	creds     credentials.Store
	gw        *gateway
	clock     Clock
	audit     *auditDispatcher
	metrics   *Metrics
	recaptcha RecaptchaProvider
	log       *logrus.Logger
}

// Close flushes the audit dispatcher. The Console is unusable afterwards.
func (c *Console) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// Metrics returns a snapshot of the console's counters.
func (c *Console) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped under load.
func (c *Console) AuditDropped() uint64 {
	return c.audit.Dropped()
}

// CredentialStore exposes the token slot, for the guard layer and tools.
func (c *Console) CredentialStore() credentials.Store {
	return c.creds
}

// Guard returns a route guard bound to this console's token store and
// configured routes.
func (c *Console) Guard() *guard.Guard {
	return guard.New(c.creds, c.config.Routes.EntryPath, c.config.Routes.DashboardPath)
}

// Authenticated reports whether a session token is currently stored. This is
// a presence check only; validity is the backend's call.
func (c *Console) Authenticated(ctx context.Context) (bool, error) {
	token, err := c.creds.Get(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Session returns the advisory session view for display. A stored token that
// is not a decodable JWT yields present=true with a nil info.
func (c *Console) Session(ctx context.Context) (present bool, info *SessionInfo, err error) {
	token, err := c.creds.Get(ctx)
	if err != nil || token == "" {
		return false, nil, err
	}
	if parsed, perr := inspectToken(token); perr == nil {
		info = parsed
	}
	return true, info, nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User Account `json:"user"`
}

// Login authenticates with email and password and stores the returned
// session token.
func (c *Console) Login(ctx context.Context, email, pass string) error {
	if err := ValidateLogin(email, pass); err != nil {
		return err
	}

	var resp tokenResponse
	err := c.gw.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": pass,
	}, &resp)
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		c.emitAudit(ctx, auditEventLogin, email, false, err)
		return err
	}
	if resp.Token == "" {
		c.metrics.Inc(MetricLoginFailure)
		c.emitAudit(ctx, auditEventLogin, email, false, ErrNoTokenInResponse)
		return ErrNoTokenInResponse
	}

	if err := c.creds.Set(ctx, resp.Token); err != nil {
		return err
	}
	c.metrics.Inc(MetricLoginSuccess)
	c.emitAudit(ctx, auditEventLogin, email, true, nil)
	return nil
}

// Register submits the registration form. The backend emails an OTP; the
// returned flow collects it. The account is not usable until verification
// succeeds.
func (c *Console) Register(ctx context.Context, name, email, pass string) (*VerificationFlow, error) {
	if err := ValidateRegistration(name, email, pass); err != nil {
		return nil, err
	}

	err := c.gw.postJSON(ctx, "/auth/register", map[string]string{
		"name":           name,
		"email":          email,
		"password":       pass,
		"recaptchaToken": c.recaptchaToken(ctx, "register"),
	}, nil)
	if err != nil {
		c.metrics.Inc(MetricRegisterFailure)
		c.emitAudit(ctx, auditEventRegister, email, false, err)
		return nil, err
	}

	c.metrics.Inc(MetricRegisterSuccess)
	c.emitAudit(ctx, auditEventRegister, email, true, nil)
	return c.NewVerificationFlow(email)
}

// ForgotPassword requests a reset OTP for email and returns the reset flow.
// The email is normalized before submission.
func (c *Console) ForgotPassword(ctx context.Context, email string) (*ResetFlow, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	normalized := NormalizeEmail(email)

	err := c.gw.postJSON(ctx, "/auth/forgot-password", map[string]string{
		"email":          normalized,
		"recaptchaToken": c.recaptchaToken(ctx, "forgot_password"),
	}, nil)
	if err != nil {
		c.emitAudit(ctx, auditEventForgotPassword, normalized, false, err)
		return nil, err
	}

	c.emitAudit(ctx, auditEventForgotPassword, normalized, true, nil)
	return c.NewResetFlow(normalized)
}

// Logout clears the stored session token.
func (c *Console) Logout(ctx context.Context) error {
	if err := c.creds.Clear(ctx); err != nil {
		return err
	}
	c.emitAudit(ctx, auditEventLogout, "", true, nil)
	return nil
}

// UpdatePassword changes the authenticated operator's password. On success
// the token slot is cleared: the operator must log in again with the new
// password.
func (c *Console) UpdatePassword(ctx context.Context, current, newPass, confirm string) error {
	if current == "" || newPass == "" || confirm == "" {
		return FieldErrors{"password": "All fields are required"}
	}
	if current == newPass {
		return ErrPasswordReuse
	}
	if newPass != confirm {
		return ErrPasswordMismatch
	}
	if !password.Validate(newPass).IsValid {
		return ErrPasswordPolicy
	}

	err := c.gw.putJSON(ctx, "/auth/update-password", map[string]string{
		"currentPassword": current,
		"newPassword":     newPass,
	}, nil)
	if err != nil {
		c.emitAudit(ctx, auditEventChangePassword, "", false, err)
		return err
	}

	// Forced re-login: the old session is no longer trustworthy.
	if err := c.creds.Clear(ctx); err != nil {
		return err
	}
	c.metrics.Inc(MetricPasswordChangeSuccess)
	c.emitAudit(ctx, auditEventChangePassword, "", true, nil)
	return nil
}

// Profile fetches the authenticated operator's account.
func (c *Console) Profile(ctx context.Context) (*Account, error) {
	var resp profileResponse
	if err := c.gw.getJSON(ctx, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile updates the operator's display name and profile photo. The
// photo is an opaque data-URL string; compression happens before it gets
// here.
func (c *Console) UpdateProfile(ctx context.Context, name, profilePhoto string) (*Account, error) {
	if name == "" {
		return nil, FieldErrors{"name": "Name is required"}
	}

	var resp profileResponse
	err := c.gw.putJSON(ctx, "/auth/update-profile", map[string]string{
		"name":         name,
		"profilePhoto": profilePhoto,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Console) recaptchaToken(ctx context.Context, action string) string {
	if c.recaptcha == nil {
		return ""
	}
	token, err := c.recaptcha.Token(ctx, action)
	if err != nil {
		c.log.WithError(err).WithField("action", action).Warn("recaptcha token unavailable")
		return ""
	}
	return token
}

func (c *Console) emitAudit(ctx context.Context, eventType, email string, success bool, opErr error) {
	if c.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: c.clock.Now().UTC(),
		EventType: eventType,
		Email:     email,
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	c.audit.Emit(ctx, event)
}

// now is a convenience for parts that only need wall time.
func (c *Console) now() time.Time {
	return c.clock.Now()
}
