package errors

import (
	"bytes"
	"testing"
)

func TestDiagnosticsAccumulatesMultipleErrors(t *testing.T) {
	d := New()
	d.Error(1, "Unexpected character.")
	d.ErrorAt(2, "+", false, "Expect expression.")
	d.ErrorAt(3, "", true, "Expect ';' after value.")

	if !d.HadError {
		t.Fatal("expected HadError to be set")
	}
	if got := len(d.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d", got)
	}

	var buf bytes.Buffer
	d.Print(&buf)
	want := "[line 1] Error: Unexpected character.\n" +
		"[line 2] Error at '+': Expect expression.\n" +
		"[line 3] Error at end: Expect ';' after value.\n"
	if buf.String() != want {
		t.Fatalf("Print() = %q, want %q", buf.String(), want)
	}
}

func TestResetClearsErrorsButNotRuntimeError(t *testing.T) {
	d := New()
	d.Error(1, "boom")
	d.RuntimeError(NewRuntimeError(2, "Undefined variable 'x'."))

	d.Reset()

	if d.HadError {
		t.Fatal("Reset() should clear HadError")
	}
	if !d.HadRuntimeError {
		t.Fatal("Reset() must not clear HadRuntimeError")
	}
	if got := len(d.Errors()); got != 0 {
		t.Fatalf("expected errors cleared, got %d", got)
	}
}

func TestRuntimeErrorFormat(t *testing.T) {
	err := NewRuntimeError(7, "Operands must be two numbers or two strings.")
	want := "Operands must be two numbers or two strings.\n[line 7]"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
