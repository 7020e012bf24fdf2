// Package asmerr is the backend's shared error taxonomy. Every failure mode
// named by the component contracts (out-of-memory, misaligned access, an
// unrecognised word, an unencodable Adr distance, a violated internal
// invariant, or file I/O at write-out time) is a distinct exported type so
// callers can errors.As/errors.Is instead of matching on string content.
package asmerr

import "fmt"

// ErrOutOfMemory is returned when a buffer or table growth allocation
// fails. Fatal to the compilation in progress.
var ErrOutOfMemory = fmt.Errorf("out of memory")

// ErrBadAdr is returned when an Adr back-patch's target distance cannot be
// encoded as a rotated 8-bit ARM immediate in either sign. The caller must
// split the address computation or spill to a literal pool load instead.
var ErrBadAdr = fmt.Errorf("address distance cannot be encoded as an ADR immediate")

// BadAlignment is returned when code attempts to read or write a 32-bit
// word at an offset that is not a multiple of 4. Indicates an internal bug
// in the caller, not a malformed input.
type BadAlignment struct {
	Offset uint32
}

func (e *BadAlignment) Error() string {
	return fmt.Sprintf("misaligned word access at offset 0x%X", e.Offset)
}

// BadInstruction is returned by the disassembler when a word does not match
// any recognised encoding under the selected float model.
type BadInstruction struct {
	Word uint32
}

func (e *BadInstruction) Error() string {
	return fmt.Sprintf("unrecognised instruction encoding 0x%08X", e.Word)
}

// AssertionFailed reports a violated internal invariant, such as an
// instruction record reaching the encoder with a shift kind or operand
// combination the architecture does not permit. Fatal to the compilation.
type AssertionFailed struct {
	Msg string
}

func (e *AssertionFailed) Error() string {
	return "internal assertion failed: " + e.Msg
}

// FileOpenError, FileWriteError, and FileCloseError distinguish I/O
// failures at write-out time from the logic errors above, so a caller can
// report "couldn't write the output file" separately from "the compiler
// produced an invalid program."
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *FileOpenError) Unwrap() error { return e.Err }

type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *FileWriteError) Unwrap() error { return e.Err }

type FileCloseError struct {
	Path string
	Err  error
}

func (e *FileCloseError) Error() string { return fmt.Sprintf("close %s: %v", e.Path, e.Err) }
func (e *FileCloseError) Unwrap() error { return e.Err }

// EncodeError provides source context for an encoding failure: which
// section and op index triggered it, plus an underlying error. Styled
// directly on the teacher's EncodingError.
type EncodeError struct {
	Section string
	OpIndex int
	Message string
	Wrapped error
}

func (e *EncodeError) Error() string {
	loc := ""
	if e.Section != "" {
		loc = fmt.Sprintf("section %q, op %d: ", e.Section, e.OpIndex)
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s%s: %v", loc, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s%s", loc, e.Message)
}

func (e *EncodeError) Unwrap() error { return e.Wrapped }

// NewEncodeError builds an EncodeError with no wrapped cause.
func NewEncodeError(section string, opIndex int, message string) *EncodeError {
	return &EncodeError{Section: section, OpIndex: opIndex, Message: message}
}

// WrapEncodeError wraps err with section/op context. If err is already an
// *EncodeError it is returned unchanged to avoid double-wrapping. A nil err
// returns nil.
func WrapEncodeError(section string, opIndex int, err error) error {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EncodeError); ok {
		return ee
	}
	return &EncodeError{Section: section, OpIndex: opIndex, Message: "failed to encode op", Wrapped: err}
}
