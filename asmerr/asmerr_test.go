package asmerr

import (
	"errors"
	"testing"
)

func TestEncodeErrorUnwrap(t *testing.T) {
	inner := errors.New("bad shift amount")
	err := &EncodeError{Section: "main", OpIndex: 3, Message: "encode failed", Wrapped: inner}

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
	want := `section "main", op 3: encode failed: bad shift amount`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapEncodeError(t *testing.T) {
	inner := &AssertionFailed{Msg: "unreachable"}
	wrapped := WrapEncodeError("prog", 2, inner)

	var encErr *EncodeError
	if !errors.As(wrapped, &encErr) {
		t.Fatalf("expected an *EncodeError, got %T", wrapped)
	}
	if encErr.Section != "prog" || encErr.OpIndex != 2 {
		t.Errorf("EncodeError = %+v, want Section=prog OpIndex=2", encErr)
	}
}

func TestBadInstructionMessage(t *testing.T) {
	err := &BadInstruction{Word: 0xDEADBEEF}
	want := "unrecognised instruction encoding 0xDEADBEEF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
