package leadconsole

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config groups the tunables of the console core. Instances are configured
// during initialization and treated as immutable afterwards.
type Config struct {
	Gateway      GatewayConfig
	Verification VerificationConfig
	Reset        ResetConfig
	Import       ImportConfig
	Routes       RouteConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

// GatewayConfig configures the HTTP layer in front of the backend API.
type GatewayConfig struct {
	// BaseURL is the API root, e.g. "https://backend.example.com/api".
	BaseURL string
	// Timeout bounds a single request round-trip.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// VerificationConfig configures the registration OTP flow.
type VerificationConfig struct {
	// OTPLength is the number of input cells. The backend issues 6-digit codes.
	OTPLength int
	// ResendCooldown is the wait, in seconds, before resend re-enables.
	ResendCooldown int
	// MaxAttempts seeds the advisory attempts-left counter. The server is
	// the authority; the client never blocks on this number.
	MaxAttempts int
	// AutoSubmit fires verification the moment all cells hold a digit and no
	// request is in flight.
	AutoSubmit bool
}

// ResetConfig configures the forgot-password reset flow.
type ResetConfig struct {
	OTPLength      int
	ResendCooldown int
}

// ImportConfig configures bulk spreadsheet import.
type ImportConfig struct {
	// AllowedExtensions are the accepted upload extensions, lowercase with
	// leading dot. Only the extension is validated client-side.
	AllowedExtensions []string
	// ReportSheet names the worksheet of the failure report.
	ReportSheet string
	// ReportPrefix prefixes the dated failure report filename.
	ReportPrefix string
}

// RouteConfig holds the two navigation targets the guard layer redirects to.
type RouteConfig struct {
	// EntryPath is the unauthenticated entry point.
	EntryPath string
	// DashboardPath is where authenticated sessions land.
	DashboardPath string
}

// AuditConfig configures the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig configures the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration the builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Gateway: GatewayConfig{
			Timeout: 10 * time.Second,
		},
		Verification: VerificationConfig{
			OTPLength:      6,
			ResendCooldown: 60,
			MaxAttempts:    5,
			AutoSubmit:     true,
		},
		Reset: ResetConfig{
			OTPLength:      6,
			ResendCooldown: 60,
		},
		Import: ImportConfig{
			AllowedExtensions: []string{".xlsx"},
			ReportSheet:       "Failed Rows",
			ReportPrefix:      "failed-rows",
		},
		Routes: RouteConfig{
			EntryPath:     "/",
			DashboardPath: "/dashboard",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for values the console cannot run with.
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return errors.New("Gateway.BaseURL is required")
	}
	u, err := url.Parse(c.Gateway.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("Gateway.BaseURL must be an absolute URL: %q", c.Gateway.BaseURL)
	}
	if c.Gateway.Timeout <= 0 {
		return errors.New("Gateway.Timeout must be > 0")
	}
	if c.Verification.OTPLength < 4 || c.Verification.OTPLength > 10 {
		return errors.New("Verification.OTPLength must be between 4 and 10")
	}
	if c.Reset.OTPLength < 4 || c.Reset.OTPLength > 10 {
		return errors.New("Reset.OTPLength must be between 4 and 10")
	}
	if c.Verification.ResendCooldown < 0 || c.Reset.ResendCooldown < 0 {
		return errors.New("resend cooldown must be >= 0")
	}
	if c.Verification.MaxAttempts <= 0 {
		return errors.New("Verification.MaxAttempts must be > 0")
	}
	if len(c.Import.AllowedExtensions) == 0 {
		return errors.New("Import.AllowedExtensions must not be empty")
	}
	for _, ext := range c.Import.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("Import extension %q must start with a dot", ext)
		}
	}
	if c.Import.ReportSheet == "" || c.Import.ReportPrefix == "" {
		return errors.New("Import.ReportSheet and Import.ReportPrefix are required")
	}
	if c.Routes.EntryPath == "" || c.Routes.DashboardPath == "" {
		return errors.New("Routes.EntryPath and Routes.DashboardPath are required")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Import.AllowedExtensions = append([]string(nil), cfg.Import.AllowedExtensions...)
	return out
}
