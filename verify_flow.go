package leadconsole

import (
	"context"
	"sync"
)

// FlowState is the lifecycle of an OTP verification flow.
type FlowState uint8

const (
	// FlowCollecting accepts digit entry and resends.
	FlowCollecting FlowState = iota
	// FlowVerifying has a verify request in flight; input is frozen.
	FlowVerifying
	// FlowAuthenticated is terminal: the token is stored.
	FlowAuthenticated
	// FlowClosed is terminal: the flow was torn down. Late responses are
	// discarded without touching the credential store.
	FlowClosed
)

// String returns the state name for logs.
func (s FlowState) String() string {
	switch s {
	case FlowCollecting:
		return "collecting"
	case FlowVerifying:
		return "verifying"
	case FlowAuthenticated:
		return "authenticated"
	case FlowClosed:
		return "closed"
	}
	return "unknown"
}

const otpIncompleteMessage = "Please enter a valid 6-digit OTP"

// VerificationFlow drives post-registration email verification: collect the
// emailed OTP, verify it, and on success store the returned session token.
// Created by [Console.Register]; resume an interrupted registration with
// [Console.NewVerificationFlow].
//
// The resend cooldown starts ticking at construction, mirroring the page
// mount. Mutation methods hold no lock across network calls, so the UI stays
// responsive while a verify is in flight; a second verify during that window
// returns ErrVerifyInFlight.
type VerificationFlow struct {
	console  *Console
	email    string
	cooldown *Cooldown

	mu           sync.Mutex
	input        *OTPInput
	state        FlowState
	resending    bool
	lastError    string
	attemptsLeft int
}

// NewVerificationFlow builds a flow for an already-registered, unverified
// email. Use it when verification resumes after the registration call itself
// is gone, e.g. the operator came back later.
func (c *Console) NewVerificationFlow(email string) (*VerificationFlow, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	cfg := c.config.Verification
	f := &VerificationFlow{
		console:      c,
		email:        email,
		input:        NewOTPInput(cfg.OTPLength),
		attemptsLeft: cfg.MaxAttempts,
	}
	f.cooldown = newCooldown(c.clock, cfg.ResendCooldown, nil)
	f.cooldown.Start()
	return f, nil
}

// Email returns the address being verified.
func (f *VerificationFlow) Email() string { return f.email }

// State returns the current lifecycle state.
func (f *VerificationFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Cells returns a copy of the OTP cells for rendering.
func (f *VerificationFlow) Cells() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Cells()
}

// Focus returns the focused cell index.
func (f *VerificationFlow) Focus() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Focus()
}

// LastError returns the message to show under the OTP cells, empty when the
// last action succeeded.
func (f *VerificationFlow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// AttemptsLeft is an advisory local counter; the backend enforces the real
// limit.
func (f *VerificationFlow) AttemptsLeft() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attemptsLeft
}

// ResendRemaining returns the seconds left on the resend cooldown.
func (f *VerificationFlow) ResendRemaining() int {
	return f.cooldown.Remaining()
}

// CanResend reports whether a resend would be accepted right now.
func (f *VerificationFlow) CanResend() bool {
	f.mu.Lock()
	resending := f.resending
	closed := f.state == FlowClosed
	f.mu.Unlock()
	return !resending && !closed && f.cooldown.Ready()
}

// Enter types value into cell i. When auto-submit is enabled and the entry
// completes the code, verification fires immediately, exactly once.
func (f *VerificationFlow) Enter(ctx context.Context, i int, value string) error {
	return f.mutateInput(ctx, func() {
		f.input.Enter(i, value)
	})
}

// Backspace handles the backspace key on cell i.
func (f *VerificationFlow) Backspace(i int) error {
	return f.mutateInput(context.Background(), func() {
		f.input.Backspace(i)
	})
}

// Paste fills the cells from a pasted string. A paste that completes the
// code auto-submits like Enter does.
func (f *VerificationFlow) Paste(ctx context.Context, pasted string) error {
	return f.mutateInput(ctx, func() {
		f.input.Paste(pasted)
	})
}

func (f *VerificationFlow) mutateInput(ctx context.Context, apply func()) error {
	f.mu.Lock()
	if f.state == FlowClosed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if f.state != FlowCollecting {
		// Input is frozen while a verify is in flight or after success.
		f.mu.Unlock()
		return nil
	}
	apply()
	f.lastError = ""
	auto := f.console.config.Verification.AutoSubmit && f.input.Complete()
	f.mu.Unlock()

	if auto {
		return f.Verify(ctx)
	}
	return nil
}

// Verify submits the collected OTP. On success the session token from the
// response is stored and the flow becomes authenticated. On failure the flow
// returns to collecting with the server's message as LastError.
func (f *VerificationFlow) Verify(ctx context.Context) error {
	f.mu.Lock()
	switch f.state {
	case FlowClosed:
		f.mu.Unlock()
		return ErrFlowClosed
	case FlowVerifying:
		f.mu.Unlock()
		return ErrVerifyInFlight
	case FlowAuthenticated:
		f.mu.Unlock()
		return nil
	}
	if !f.input.Complete() {
		f.lastError = otpIncompleteMessage
		f.mu.Unlock()
		return ErrOTPIncomplete
	}
	otp := f.input.Value()
	f.state = FlowVerifying
	f.lastError = ""
	f.mu.Unlock()

	var resp tokenResponse
	err := f.console.gw.postJSON(ctx, "/auth/verify-otp", map[string]string{
		"email": f.email,
		"otp":   otp,
	}, &resp)
	if err == nil && resp.Token == "" {
		err = ErrNoTokenInResponse
	}

	f.mu.Lock()
	if f.state == FlowClosed {
		// Torn down while the request was in flight. Drop the response; the
		// token must not be stored for a flow nobody is watching.
		f.mu.Unlock()
		return ErrFlowClosed
	}

	if err != nil {
		f.state = FlowCollecting
		if f.attemptsLeft > 0 {
			f.attemptsLeft--
		}
		f.lastError = apiMessage(err, "Invalid OTP")
		f.mu.Unlock()

		f.console.metrics.Inc(MetricVerifyFailure)
		f.console.emitAudit(ctx, auditEventVerifyOTP, f.email, false, err)
		return err
	}

	if serr := f.console.creds.Set(ctx, resp.Token); serr != nil {
		f.state = FlowCollecting
		f.mu.Unlock()
		return serr
	}
	f.state = FlowAuthenticated
	f.mu.Unlock()

	f.cooldown.Stop()
	f.console.metrics.Inc(MetricVerifySuccess)
	f.console.emitAudit(ctx, auditEventVerifyOTP, f.email, true, nil)
	return nil
}

// Resend asks the backend to email a fresh OTP. Allowed only once the
// cooldown has elapsed; success restarts the cooldown and clears the cells
// so the stale code cannot be submitted by accident. Failure leaves the
// cooldown at zero so the operator can retry immediately.
func (f *VerificationFlow) Resend(ctx context.Context) error {
	ready := f.cooldown.Ready()

	f.mu.Lock()
	if f.state == FlowClosed {
		f.mu.Unlock()
		return ErrFlowClosed
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

	err := f.console.gw.postJSON(ctx, "/auth/resend-verification-otp", map[string]string{
		"email": f.email,
	}, nil)

	f.mu.Lock()
	f.resending = false
	if f.state == FlowClosed {
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

	f.cooldown.Reset(f.console.config.Verification.ResendCooldown)
	f.console.metrics.Inc(MetricResendRequest)
	f.console.emitAudit(ctx, auditEventResendOTP, f.email, true, nil)
	return nil
}

// Teardown closes the flow and stops the cooldown goroutine. In-flight
// responses arriving afterwards are discarded. Idempotent.
func (f *VerificationFlow) Teardown() {
	f.mu.Lock()
	f.state = FlowClosed
	f.mu.Unlock()
	f.cooldown.Stop()
}
