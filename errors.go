package leadconsole

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned by any gateway call that received a 401.
	// The token slot has already been cleared and the unauthorized handler
	// fired by the time a caller sees this error.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingEmail is returned when an OTP-gated flow is entered without a
	// target email. Callers should send the user back to the originating form.
	ErrMissingEmail = errors.New("flow requires an email")
	// ErrFlowClosed is returned by flow operations after Teardown.
	ErrFlowClosed = errors.New("flow torn down")
	// ErrOTPIncomplete is returned when a submission is attempted with fewer
	// than the required number of OTP digits.
	ErrOTPIncomplete = errors.New("otp incomplete")
	// ErrVerifyInFlight is returned when a verification is already running.
	ErrVerifyInFlight = errors.New("verification already in flight")
	// ErrResendCooldown is returned when a resend is requested before the
	// cooldown reached zero.
	ErrResendCooldown = errors.New("resend cooldown active")
	// ErrResendInFlight is returned when a resend is already running.
	ErrResendInFlight = errors.New("resend already in flight")
	// ErrNoTokenInResponse is returned when an auth endpoint succeeded but
	// returned no session token.
	ErrNoTokenInResponse = errors.New("no token received")
	// ErrPasswordPolicy is returned when a candidate password fails the rule set.
	ErrPasswordPolicy = errors.New("password does not meet requirements")
	// ErrPasswordMismatch is returned when a confirmation does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordReuse is returned when the new password equals the current one.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrValidation is the sentinel wrapped by field-level validation failures.
	ErrValidation = errors.New("validation failed")
	// ErrUploadInFlight is returned when a bulk upload is already running.
	ErrUploadInFlight = errors.New("upload already in flight")
	// ErrUploadFileMissing is returned when Upload is called with no file selected.
	ErrUploadFileMissing = errors.New("no file selected")
	// ErrUploadExtension is returned when the selected file has a disallowed
	// extension. Only the extension is checked; contents belong to the backend.
	ErrUploadExtension = errors.New("unsupported file extension")
	// ErrNoFailedRows is returned when a failure report is requested for a
	// result without failed rows.
	ErrNoFailedRows = errors.New("no failed rows to report")
)

// APIError carries a structured error response from the backend. Message is
// the server's verbatim message and is what flows surface as a banner.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// apiMessage extracts the server-provided message from err, falling back to
// the given default for transport or unknown failures. This mirrors the
// response-message-or-fallback convention used everywhere in the console.
func apiMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
