package leadconsole

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/leadconsole/leadconsole/credentials"
)

// Builder assembles a Console step by step. Zero configuration beyond the
// base URL gives a working in-memory setup:
//
//	console, err := leadconsole.New().
//		WithBaseURL("https://api.example.com/api").
//		Build()
type Builder struct {
	config         Config
	creds          credentials.Store
	httpClient     *http.Client
	clock          Clock
	logger         *logrus.Logger
	auditSink      AuditSink
	recaptcha      RecaptchaProvider
	onUnauthorized func(ctx context.Context)
	built          bool
}

// New starts a builder with defaults.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the API root.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Gateway.BaseURL = baseURL
	return b
}

// WithCredentialStore sets the token store. Defaults to an in-memory store.
func (b *Builder) WithCredentialStore(store credentials.Store) *Builder {
	b.creds = store
	return b
}

// WithHTTPClient sets the underlying HTTP client.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithClock sets the time source; tests inject a fake here.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithLogger sets the logger for the gateway and flows.
func (b *Builder) WithLogger(logger *logrus.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink sets where audit events are delivered.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithRecaptchaProvider sets the reCAPTCHA token source. Without one, an
// empty token is sent.
func (b *Builder) WithRecaptchaProvider(provider RecaptchaProvider) *Builder {
	b.recaptcha = provider
	return b
}

// WithUnauthorizedHandler sets the hook fired once per 401 response, after
// the token slot is cleared. The host app navigates to the entry route here.
func (b *Builder) WithUnauthorizedHandler(fn func(ctx context.Context)) *Builder {
	b.onUnauthorized = fn
	return b
}

// Build validates the configuration and wires the Console. A builder builds
// exactly once.
func (b *Builder) Build() (*Console, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	creds := b.creds
	if creds == nil {
		creds = credentials.NewMemoryStore()
	}

	logger := b.logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetLevel(logrus.InfoLevel)
	}

	clock := b.clock
	if clock == nil {
		clock = realClock{}
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: b.config.Gateway.Timeout}
	}

	metrics := NewMetrics(b.config.Metrics)
	dispatcher := newAuditDispatcher(b.config.Audit, b.auditSink)

	c := &Console{
		config:    cloneConfig(b.config),
		creds:     creds,
		clock:     clock,
		audit:     dispatcher,
		metrics:   metrics,
		recaptcha: b.recaptcha,
		log:       logger,
	}

	userHandler := b.onUnauthorized
	c.gw = &gateway{
		baseURL:   strings.TrimRight(b.config.Gateway.BaseURL, "/"),
		userAgent: b.config.Gateway.UserAgent,
		http:      httpClient,
		creds:     creds,
		log:       logger,
		onUnauthorized: func(ctx context.Context) {
			metrics.Inc(MetricUnauthorizedRedirect)
			c.emitAudit(ctx, auditEventUnauthorized, "", false, ErrUnauthorized)
			if userHandler != nil {
				userHandler(ctx)
			}
		},
	}

	b.built = true
	return c, nil
}
