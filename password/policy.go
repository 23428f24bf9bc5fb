package password

import "strings"

// specialSet is the exact character class the backend accepts as "special".
const specialSet = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

const minLength = 8

// Requirements reports which individual rules a candidate satisfied.
type Requirements struct {
	MinLength  bool
	HasCapital bool
	HasSmall   bool
	HasSpecial bool
}

// Result is the outcome of Validate. IsValid holds iff all four
// requirements hold.
type Result struct {
	IsValid      bool
	Requirements Requirements
}

// Validate evaluates password against the rule set: length >= 8, at least
// one A-Z, one a-z, and one character from the special set. No state, no
// side effects.
func Validate(password string) Result {
	req := Requirements{
		MinLength: len(password) >= minLength,
	}
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			req.HasCapital = true
		case r >= 'a' && r <= 'z':
			req.HasSmall = true
		case strings.ContainsRune(specialSet, r):
			req.HasSpecial = true
		}
	}

	return Result{
		IsValid:      req.MinLength && req.HasCapital && req.HasSmall && req.HasSpecial,
		Requirements: req,
	}
}

// Descriptor is one renderable requirement line.
type Descriptor struct {
	Key   string
	Label string
}

// RequirementDescriptors returns the checklist in its fixed display order.
// The order never derives from a validation result.
func RequirementDescriptors() []Descriptor {
	return []Descriptor{
		{Key: "minLength", Label: "At least 8 characters"},
		{Key: "hasCapital", Label: "1 Capital letter (A-Z)"},
		{Key: "hasSmall", Label: "1 Small letter (a-z)"},
		{Key: "hasSpecial", Label: "1 Special character (!@#$%...)"},
	}
}
