package leadconsole

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
)

func newResetFlow(t *testing.T, console *Console) *ResetFlow {
	t.Helper()
	flow, err := console.NewResetFlow("op@example.com")
	if err != nil {
		t.Fatalf("new reset flow: %v", err)
	}
	t.Cleanup(flow.Teardown)
	return flow
}

func TestResetFlowContinueRequiresCompleteOTP(t *testing.T) {
	console, _ := newTestConsole(t, http.NewServeMux())
	flow := newResetFlow(t, console)

	flow.Enter(0, "1")
	if err := flow.ContinueToPassword(); err != ErrOTPIncomplete {
		t.Fatalf("err = %v, want ErrOTPIncomplete", err)
	}
	if flow.Step() != ResetStepOTP {
		t.Fatalf("step = %v, want otp", flow.Step())
	}
	if flow.LastError() != otpIncompleteMessage {
		t.Fatalf("last error = %q", flow.LastError())
	}

	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if flow.Step() != ResetStepPassword {
		t.Fatalf("step = %v, want password", flow.Step())
	}
}

func TestResetFlowSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		decodeBody(t, r, &body)
		if body["email"] != "op@example.com" || body["otp"] != "123456" {
			t.Errorf("unexpected body: %v", body)
		}
		if body["newPassword"] != "Abcdef1!" || body["confirmPassword"] != "Abcdef1!" {
			t.Errorf("unexpected passwords: %v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "reset"})
	})

	console, _ := newTestConsole(t, mux)
	flow := newResetFlow(t, console)

	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if err := flow.SubmitNewPassword(context.Background(), "Abcdef1!", "Abcdef1!"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !flow.Done() {
		t.Fatal("flow not done after success")
	}
}

func TestResetFlowLocalPasswordChecks(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	console, _ := newTestConsole(t, handler)
	flow := newResetFlow(t, console)
	ctx := context.Background()

	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}

	if err := flow.SubmitNewPassword(ctx, "weakling", "weakling"); err != ErrPasswordPolicy {
		t.Fatalf("err = %v, want ErrPasswordPolicy", err)
	}
	if flow.LastError() != "Please enter a strong password" {
		t.Fatalf("last error = %q", flow.LastError())
	}

	if err := flow.SubmitNewPassword(ctx, "Abcdef1!", "Abcdef1?"); err != ErrPasswordMismatch {
		t.Fatalf("err = %v, want ErrPasswordMismatch", err)
	}
	if flow.LastError() != "Passwords do not match" {
		t.Fatalf("last error = %q", flow.LastError())
	}
}

func TestResetFlowOTPRejectionRegresses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "OTP expired or invalid"})
	})

	console, _ := newTestConsole(t, mux)
	flow := newResetFlow(t, console)

	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if err := flow.SubmitNewPassword(context.Background(), "Abcdef1!", "Abcdef1!"); err == nil {
		t.Fatal("expected submit error")
	}

	// A rejection naming the OTP sends the flow back with fresh cells.
	if flow.Step() != ResetStepOTP {
		t.Fatalf("step = %v, want otp", flow.Step())
	}
	for _, cell := range flow.Cells() {
		if cell != "" {
			t.Fatalf("cells not cleared: %v", flow.Cells())
		}
	}
	if flow.LastError() != "OTP expired or invalid" {
		t.Fatalf("last error = %q", flow.LastError())
	}
	if got := console.Metrics().Counters[MetricResetRegressed]; got != 1 {
		t.Fatalf("regressed counter = %d", got)
	}
}

func TestResetFlowOtherRejectionStaysOnPasswordStep(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
	})

	console, _ := newTestConsole(t, mux)
	flow := newResetFlow(t, console)

	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if err := flow.SubmitNewPassword(context.Background(), "Abcdef1!", "Abcdef1!"); err == nil {
		t.Fatal("expected submit error")
	}

	if flow.Step() != ResetStepPassword {
		t.Fatalf("step = %v, want password", flow.Step())
	}
	if flow.LastError() != "Something went wrong" {
		t.Fatalf("last error = %q", flow.LastError())
	}
}

func TestResetFlowCooldownGatedByStep(t *testing.T) {
	console, clock := newTestConsole(t, http.NewServeMux(), func(b *Builder) {
		cfg := b.config
		cfg.Reset.ResendCooldown = 2
		b.WithConfig(cfg)
	})
	flow := newResetFlow(t, console)
	ticker := clock.ticker(t)

	ticker.tick()
	waitFor(t, "remaining 1", func() bool { return flow.ResendRemaining() == 1 })

	// On the password step the counter freezes.
	flow.Paste("123456")
	if err := flow.ContinueToPassword(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	ticker.tick()
	ticker.tick()
	if got := flow.ResendRemaining(); got != 1 {
		t.Fatalf("remaining = %d, want 1 while off the otp step", got)
	}
}

func TestResetFlowResend(t *testing.T) {
	var resends atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		resends.Add(1)
		var body map[string]string
		decodeBody(t, r, &body)
		if body["email"] != "op@example.com" {
			t.Errorf("unexpected body: %v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "sent"})
	})

	console, _ := newTestConsole(t, mux, func(b *Builder) {
		cfg := b.config
		cfg.Reset.ResendCooldown = 0
		b.WithConfig(cfg)
	})
	flow := newResetFlow(t, console)

	flow.Paste("111111")
	if err := flow.Resend(context.Background()); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if resends.Load() != 1 {
		t.Fatalf("resend count = %d", resends.Load())
	}
	for _, cell := range flow.Cells() {
		if cell != "" {
			t.Fatalf("cells not cleared: %v", flow.Cells())
		}
	}
}
