package cpu

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
)

// Runtime failure kinds. A *Error returned by the CPU wraps one of these, or
// the error reported by an I/O port.
var (
	ErrInvalidOpcode    = arch.ErrInvalidOpcode
	ErrInvalidParamMode = arch.ErrInvalidParamMode
	ErrInvalidWriteMode = arch.ErrInvalidWriteMode
	ErrOutOfBounds      = errors.New("address out of bounds")
)

// Error defines a runtime error.
type Error struct {
	Instruction
	Err error
}

// NewError creates a new error for the given instruction.
func NewError(instr *Instruction, err error) *Error {
	return &Error{
		Instruction: *instr,
		Err:         err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%04d: %d: %v", e.IP, e.Cell, e.Err)
}

// Cause returns the underlying error.
func (e *Error) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }
