package leadconsole

import (
	"context"
	"strings"
	"sync"

	"github.com/leadconsole/leadconsole/password"
)

// ResetStep is the visible step of a password reset flow.
type ResetStep uint8

const (
	// ResetStepOTP collects the emailed code.
	ResetStepOTP ResetStep = iota
	// ResetStepPassword collects the replacement password.
	ResetStepPassword
)

// String returns the step name for logs.
func (s ResetStep) String() string {
	if s == ResetStepPassword {
		return "password"
	}
	return "otp"
}

// ResetFlow drives forgot-password recovery in two steps: OTP entry, then
// the new password. The OTP is only checked server-side together with the
// password submission; continuing past the OTP step is a local completeness
// check. A server rejection that blames the OTP sends the flow back to the
// OTP step with fresh cells.
//
// The resend cooldown ticks only while the OTP step is showing, and resends
// go through the same forgot-password endpoint that opened the flow.
type ResetFlow struct {
	console  *Console
	email    string
	cooldown *Cooldown

	mu         sync.Mutex
	input      *OTPInput
	step       ResetStep
	closed     bool
	submitting bool
	resending  bool
	done       bool
	lastError  string
}

// NewResetFlow builds a reset flow for an email that already requested an
// OTP. [Console.ForgotPassword] is the usual entry point.
func (c *Console) NewResetFlow(email string) (*ResetFlow, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	cfg := c.config.Reset
	f := &ResetFlow{
		console: c,
		email:   email,
		input:   NewOTPInput(cfg.OTPLength),
	}
	f.cooldown = newCooldown(c.clock, cfg.ResendCooldown, func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.step == ResetStepOTP && !f.closed
	})
	f.cooldown.Start()
	return f, nil
}

// Email returns the address being recovered.
func (f *ResetFlow) Email() string { return f.email }

// Step returns the currently visible step.
func (f *ResetFlow) Step() ResetStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Done reports whether the reset completed.
func (f *ResetFlow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Cells returns a copy of the OTP cells for rendering.
func (f *ResetFlow) Cells() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Cells()
}

// Focus returns the focused cell index.
func (f *ResetFlow) Focus() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Focus()
}

// LastError returns the message shown for the current step.
func (f *ResetFlow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// ResendRemaining returns the seconds left on the resend cooldown.
func (f *ResetFlow) ResendRemaining() int {
	return f.cooldown.Remaining()
}

// CanResend reports whether a resend would be accepted right now.
func (f *ResetFlow) CanResend() bool {
	f.mu.Lock()
	ok := f.step == ResetStepOTP && !f.resending && !f.closed && !f.done
	f.mu.Unlock()
	return ok && f.cooldown.Ready()
}

// Enter types value into cell i. The reset flow never auto-submits; the
// operator continues explicitly.
func (f *ResetFlow) Enter(i int, value string) error {
	return f.mutateInput(func() {
		f.input.Enter(i, value)
	})
}

// Backspace handles the backspace key on cell i.
func (f *ResetFlow) Backspace(i int) error {
	return f.mutateInput(func() {
		f.input.Backspace(i)
	})
}

// Paste fills the cells from a pasted string.
func (f *ResetFlow) Paste(pasted string) error {
	return f.mutateInput(func() {
		f.input.Paste(pasted)
	})
}

func (f *ResetFlow) mutateInput(apply func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFlowClosed
	}
	if f.step != ResetStepOTP || f.done {
		return nil
	}
	apply()
	f.lastError = ""
	return nil
}

// ContinueToPassword advances to the password step once all cells hold a
// digit. No network call happens here; the code is judged server-side with
// the password submission.
func (f *ResetFlow) ContinueToPassword() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFlowClosed
	}
	if f.step != ResetStepOTP || f.done {
		return nil
	}
	if !f.input.Complete() {
		f.lastError = otpIncompleteMessage
		return ErrOTPIncomplete
	}
	f.step = ResetStepPassword
	f.lastError = ""
	return nil
}

// SubmitNewPassword sends the OTP and replacement password together. A
// rejection whose message blames the OTP, in any casing, regresses the flow
// to the OTP step and empties the cells; other failures stay on the
// password step.
func (f *ResetFlow) SubmitNewPassword(ctx context.Context, newPass, confirm string) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if f.step != ResetStepPassword || f.done {
		f.mu.Unlock()
		return nil
	}
	if f.submitting {
		f.mu.Unlock()
		return ErrVerifyInFlight
	}
	if !password.Validate(newPass).IsValid {
		f.lastError = "Please enter a strong password"
		f.mu.Unlock()
		return ErrPasswordPolicy
	}
	if newPass != confirm {
		f.lastError = "Passwords do not match"
		f.mu.Unlock()
		return ErrPasswordMismatch
	}
	otp := f.input.Value()
	f.submitting = true
	f.lastError = ""
	f.mu.Unlock()

	err := f.console.gw.postJSON(ctx, "/auth/reset-password", map[string]string{
		"email":           f.email,
		"otp":             otp,
		"newPassword":     newPass,
		"confirmPassword": confirm,
		"recaptchaToken":  f.console.recaptchaToken(ctx, "reset_password"),
	}, nil)

	f.mu.Lock()
	f.submitting = false
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if err != nil {
		msg := apiMessage(err, "Failed to reset password")
		f.lastError = msg
		regressed := strings.Contains(strings.ToLower(msg), "otp")
		if regressed {
			f.step = ResetStepOTP
			f.input.Clear()
		}
		f.mu.Unlock()

		f.console.metrics.Inc(MetricResetFailure)
		if regressed {
			f.console.metrics.Inc(MetricResetRegressed)
		}
		f.console.emitAudit(ctx, auditEventResetPassword, f.email, false, err)
		return err
	}
	f.done = true
	f.mu.Unlock()

	f.cooldown.Stop()
	f.console.metrics.Inc(MetricResetSuccess)
	f.console.emitAudit(ctx, auditEventResetPassword, f.email, true, nil)
	return nil
}

// Resend asks for a fresh reset OTP through the forgot-password endpoint.
// Only available on the OTP step after the cooldown elapses; success
// restarts the cooldown and clears the cells.
func (f *ResetFlow) Resend(ctx context.Context) error {
	// Checked before taking f.mu: the cooldown tick takes its own lock and
	// then the step gate, which needs f.mu.
	ready := f.cooldown.Ready()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if f.step != ResetStepOTP || f.done {
		f.mu.Unlock()
		return nil
	}
	if f.resending {
		f.mu.Unlock()
		return ErrResendInFlight
	}
	if !ready {
		f.mu.Unlock()
		return ErrResendCooldown
	}
	f.resending = true
	f.mu.Unlock()

	err := f.console.gw.postJSON(ctx, "/auth/forgot-password", map[string]string{
		"email":          f.email,
		"recaptchaToken": f.console.recaptchaToken(ctx, "forgot_password"),
	}, nil)

	f.mu.Lock()
	f.resending = false
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if err != nil {
		f.lastError = apiMessage(err, "Failed to resend OTP")
		f.mu.Unlock()
		f.console.emitAudit(ctx, auditEventResendOTP, f.email, false, err)
		return err
	}
	f.input.Clear()
	f.lastError = ""
	f.mu.Unlock()

	f.cooldown.Reset(f.console.config.Reset.ResendCooldown)
	f.console.metrics.Inc(MetricResendRequest)
	f.console.emitAudit(ctx, auditEventResendOTP, f.email, true, nil)
	return nil
}

// Teardown closes the flow and stops the cooldown goroutine. Idempotent.
func (f *ResetFlow) Teardown() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.cooldown.Stop()
}
