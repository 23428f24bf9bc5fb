package leadconsole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxResponseBody bounds how much of a response the gateway will read.
const maxResponseBody = 10 << 20

// gateway is the single HTTP layer between the console and the backend.
// Every outgoing request carries the stored session token in the
// Authorization header when present; every 401 response clears the token
// slot once and fires the unauthorized handler. Flows above never deal with
// authorization failure themselves.
type gateway struct {
	baseURL   string
	userAgent string
	http      *http.Client
	creds     credStore
	log       *logrus.Logger

	// onUnauthorized is the redirect analog: invoked exactly once per 401
	// response, after the token slot is cleared.
	onUnauthorized func(ctx context.Context)
}

// credStore is the slice of credentials.Store the gateway needs. Declared
// locally so the gateway depends on behavior, not the package.
type credStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (g *gateway) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (g *gateway) postJSON(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return g.do(ctx, http.MethodPost, path, nil, "application/json", reader, out)
}

func (g *gateway) putJSON(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return g.do(ctx, http.MethodPut, path, nil, "application/json", reader, out)
}

func (g *gateway) deleteJSON(ctx context.Context, path string) error {
	return g.do(ctx, http.MethodDelete, path, nil, "", nil, nil)
}

func (g *gateway) postMultipart(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("gateway: build multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("gateway: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("gateway: build multipart: %w", err)
	}
	return g.do(ctx, http.MethodPost, path, nil, mw.FormDataContentType(), &buf, out)
}

func (g *gateway) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	// Attach the token automatically. A store read failure is logged but
	// does not block the request; the backend will answer 401 if needed.
	if token, err := g.creds.Get(ctx); err != nil {
		g.log.WithError(err).Warn("credential store read failed")
	} else if token != "" {
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		g.logRequest(method, path, requestID, 0, latency, err)
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		g.logRequest(method, path, requestID, resp.StatusCode, latency, err)
		return fmt.Errorf("gateway: read response: %w", err)
	}
	g.logRequest(method, path, requestID, resp.StatusCode, latency, nil)

	if resp.StatusCode == http.StatusUnauthorized {
		g.handleUnauthorized(ctx)
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Error
		if eb.Message != "" {
			msg = eb.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("gateway: decode response: %w", err)
		}
	}
	return nil
}

// handleUnauthorized implements the global 401 policy: clear the slot, then
// redirect. Runs once per failing response; there is no retry.
func (g *gateway) handleUnauthorized(ctx context.Context) {
	if err := g.creds.Clear(ctx); err != nil {
		g.log.WithError(err).Error("credential store clear failed on 401")
	}
	if g.onUnauthorized != nil {
		g.onUnauthorized(ctx)
	}
}

func (g *gateway) logRequest(method, path, requestID string, status int, latency time.Duration, err error) {
	entry := g.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
		"status":     status,
		"latency_ms": latency.Milliseconds(),
	})
	switch {
	case err != nil:
		entry.WithError(err).Warn("request failed")
	case status >= 500:
		entry.Error("server error")
	case status >= 400:
		entry.Warn("client error")
	default:
		entry.Debug("request processed")
	}
}

func encodeJSON(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// joinPath is a tiny helper for endpoints with an ID segment.
func joinPath(parts ...string) string {
	return "/" + strings.Join(parts, "/")
}
