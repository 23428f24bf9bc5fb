package leadconsole

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leadconsole/leadconsole/password"
)

// Validation errors surface inline next to the offending field and block
// submission; they never reach the network. The patterns deliberately match
// what the backend's own forms accept.
var (
	emailPattern    = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	followUpPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)
)

// loginPasswordMin is the login/registration form minimum. The full policy
// in package password applies only where a new password is being set.
const loginPasswordMin = 6

// FieldErrors maps field names to their inline error messages.
type FieldErrors map[string]string

// Error implements the error interface, wrapping ErrValidation.
func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(keys, ", "))
}

// Unwrap lets errors.Is match ErrValidation.
func (fe FieldErrors) Unwrap() error { return ErrValidation }

// orNil returns the map as an error only when it holds entries.
func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// NormalizeEmail trims surrounding whitespace and lowercases, the shape the
// backend indexes on.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateLogin checks the login form fields.
func ValidateLogin(email, pass string) error {
	fe := FieldErrors{}
	checkEmail(fe, email)
	checkFormPassword(fe, pass)
	return fe.orNil()
}

// ValidateRegistration checks the registration form fields.
func ValidateRegistration(name, email, pass string) error {
	fe := FieldErrors{}
	if name == "" {
		fe["name"] = "Name is required"
	}
	checkEmail(fe, email)
	checkFormPassword(fe, pass)
	return fe.orNil()
}

// ValidateEmail checks a lone email field (forgot-password form).
func ValidateEmail(email string) error {
	fe := FieldErrors{}
	checkEmail(fe, email)
	return fe.orNil()
}

// ValidateLead checks the lead form. Contact number is the only required
// field and must be exactly 10 digits; the follow-up, when present, must be
// datetime-local shaped.
func ValidateLead(lead Lead) error {
	fe := FieldErrors{}
	contact := strings.TrimSpace(lead.ContactNumber)
	if contact == "" {
		fe["contactNumber"] = "Phone number is required"
	} else if !phonePattern.MatchString(contact) {
		fe["contactNumber"] = "Phone number must be exactly 10 digits"
	}
	if lead.Status != "" && !lead.Status.Valid() {
		fe["status"] = "Unknown status"
	}
	if lead.FollowUpDateTime != "" && !followUpPattern.MatchString(lead.FollowUpDateTime) {
		fe["followUpDateTime"] = "Invalid follow up date"
	}
	return fe.orNil()
}

// ValidateNewPassword applies the full policy to a password being set, plus
// the confirmation match.
func ValidateNewPassword(newPass, confirm string) error {
	if !password.Validate(newPass).IsValid {
		return ErrPasswordPolicy
	}
	if newPass != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func checkEmail(fe FieldErrors, email string) {
	switch {
	case email == "":
		fe["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		fe["email"] = "Invalid email format"
	}
}

func checkFormPassword(fe FieldErrors, pass string) {
	switch {
	case pass == "":
		fe["password"] = "Password is required"
	case len(pass) < loginPasswordMin:
		fe["password"] = "Minimum 6 characters required"
	}
}
