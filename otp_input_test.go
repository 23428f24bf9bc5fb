package leadconsole

import (
	"reflect"
	"testing"
)

func TestOTPInputEnterAdvancesFocus(t *testing.T) {
	in := NewOTPInput(6)
	in.Enter(0, "1")
	in.Enter(1, "2")
	if got := in.Value(); got != "12" {
		t.Fatalf("value = %q, want %q", got, "12")
	}
	if in.Focus() != 2 {
		t.Fatalf("focus = %d, want 2", in.Focus())
	}

	// Filling the last cell must not run focus off the end.
	for i := 2; i < 6; i++ {
		in.Enter(i, "9")
	}
	if in.Focus() != 5 {
		t.Fatalf("focus = %d, want 5", in.Focus())
	}
	if !in.Complete() {
		t.Fatal("expected complete")
	}
}

func TestOTPInputRejectsNonDigits(t *testing.T) {
	in := NewOTPInput(6)
	in.Enter(0, "a")
	in.Enter(0, "12")
	in.Enter(0, "!")
	if in.Value() != "" || in.Focus() != 0 {
		t.Fatalf("input changed: value=%q focus=%d", in.Value(), in.Focus())
	}
}

func TestOTPInputBackspace(t *testing.T) {
	in := NewOTPInput(6)
	in.Enter(0, "1")
	in.Enter(1, "2")

	// Filled cell: clears in place.
	in.Backspace(1)
	if got := in.Cells()[1]; got != "" {
		t.Fatalf("cell 1 = %q, want empty", got)
	}
	if in.Focus() != 1 {
		t.Fatalf("focus = %d, want 1", in.Focus())
	}

	// Empty cell: moves focus back without clearing the neighbor.
	in.Backspace(1)
	if in.Focus() != 0 {
		t.Fatalf("focus = %d, want 0", in.Focus())
	}
	if got := in.Cells()[0]; got != "1" {
		t.Fatalf("cell 0 = %q, want %q", got, "1")
	}

	// At the first cell there is nowhere left to go.
	in.Backspace(0)
	in.Backspace(0)
	if in.Focus() != 0 {
		t.Fatalf("focus = %d, want 0", in.Focus())
	}
}

func TestOTPInputPaste(t *testing.T) {
	cases := []struct {
		name      string
		pasted    string
		wantCells []string
		wantFocus int
	}{
		{"full code with noise", "12-34-56abc", []string{"1", "2", "3", "4", "5", "6"}, 5},
		{"partial", "12", []string{"1", "2", "", "", "", ""}, 1},
		{"overflow truncated", "123456789", []string{"1", "2", "3", "4", "5", "6"}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := NewOTPInput(6)
			in.Paste(tc.pasted)
			if !reflect.DeepEqual(in.Cells(), tc.wantCells) {
				t.Fatalf("cells = %v, want %v", in.Cells(), tc.wantCells)
			}
			if in.Focus() != tc.wantFocus {
				t.Fatalf("focus = %d, want %d", in.Focus(), tc.wantFocus)
			}
		})
	}
}

func TestOTPInputPasteNoDigitsKeepsState(t *testing.T) {
	in := NewOTPInput(6)
	in.Enter(0, "7")
	in.Paste("abc-def")
	if got := in.Cells()[0]; got != "7" {
		t.Fatalf("cell 0 = %q, want %q", got, "7")
	}
}

func TestOTPInputPasteReplacesPrevious(t *testing.T) {
	in := NewOTPInput(6)
	in.Paste("111111")
	in.Paste("22")
	want := []string{"2", "2", "", "", "", ""}
	if !reflect.DeepEqual(in.Cells(), want) {
		t.Fatalf("cells = %v, want %v", in.Cells(), want)
	}
}

func TestOTPInputClear(t *testing.T) {
	in := NewOTPInput(6)
	in.Paste("123456")
	in.Clear()
	if in.Value() != "" || in.Focus() != 0 {
		t.Fatalf("clear left value=%q focus=%d", in.Value(), in.Focus())
	}
}
