package leadconsole

import "strings"

// OTPInput models the segmented OTP entry: a fixed array of single-digit
// cells plus a focus index. Cells hold exactly one digit or are empty; any
// other input is rejected without changing state.
type OTPInput struct {
	cells []string
	focus int
}

// NewOTPInput returns an empty input with the given number of cells and
// focus on the first cell.
func NewOTPInput(length int) *OTPInput {
	if length <= 0 {
		length = 6
	}
	return &OTPInput{
		cells: make([]string, length),
	}
}

// Len returns the number of cells.
func (in *OTPInput) Len() int { return len(in.cells) }

// Cells returns a copy of the cell contents.
func (in *OTPInput) Cells() []string {
	out := make([]string, len(in.cells))
	copy(out, in.cells)
	return out
}

// Focus returns the index of the focused cell.
func (in *OTPInput) Focus() int { return in.focus }

// Value joins the cells into the string sent to the server.
func (in *OTPInput) Value() string {
	return strings.Join(in.cells, "")
}

// Complete reports whether every cell holds a digit.
func (in *OTPInput) Complete() bool {
	return len(in.Value()) == len(in.cells)
}

// Enter places value into cell i. An empty value clears the cell; a single
// digit fills it and advances focus; anything else leaves the input
// unchanged. Out-of-range indexes are ignored.
func (in *OTPInput) Enter(i int, value string) {
	if i < 0 || i >= len(in.cells) {
		return
	}
	if value != "" && (len(value) != 1 || !isDigit(value[0])) {
		return
	}

	in.cells[i] = value
	in.focus = i
	if value != "" && i < len(in.cells)-1 {
		in.focus = i + 1
	}
}

// Backspace handles the backspace key on cell i: an empty cell moves focus
// back one position, a filled cell clears.
func (in *OTPInput) Backspace(i int) {
	if i < 0 || i >= len(in.cells) {
		return
	}
	if in.cells[i] == "" {
		if i > 0 {
			in.focus = i - 1
		}
		return
	}
	in.cells[i] = ""
	in.focus = i
}

// Paste replaces the cells with the digits of pasted, sanitized: non-digits
// are stripped, the remainder truncated to the cell count, and missing
// trailing cells left empty. Focus lands on the last pasted digit. A paste
// with no digits leaves the input unchanged.
func (in *OTPInput) Paste(pasted string) {
	var digits []byte
	for i := 0; i < len(pasted) && len(digits) < len(in.cells); i++ {
		if isDigit(pasted[i]) {
			digits = append(digits, pasted[i])
		}
	}
	if len(digits) == 0 {
		return
	}

	for i := range in.cells {
		if i < len(digits) {
			in.cells[i] = string(digits[i])
		} else {
			in.cells[i] = ""
		}
	}
	in.focus = len(digits) - 1
}

// Clear empties every cell and refocuses the first one.
func (in *OTPInput) Clear() {
	for i := range in.cells {
		in.cells[i] = ""
	}
	in.focus = 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
