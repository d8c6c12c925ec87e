package arch

import "github.com/pkg/errors"

// Decoding failures. Callers test for them with errors.Is.
var (
	ErrInvalidOpcode    = errors.New("invalid opcode")
	ErrInvalidParamMode = errors.New("invalid parameter mode")
	ErrInvalidWriteMode = errors.New("invalid write mode")
)

// MaxArgs is the largest number of parameters any instruction takes.
const MaxArgs = 3

// Modes holds the address modes for parameters A, B and C.
type Modes [MaxArgs]AddressMode

// Decode splits an instruction cell into its opcode and parameter modes.
//
// The opcode is cell % 100. The remaining digits, consumed from least to most
// significant, give the modes of parameters A, B and C. Non-zero digits for
// parameters the instruction does not take, opcodes and modes outside of set,
// and an immediate mode on the parameter the instruction writes to are all
// errors.
func Decode(cell int64, set InstructionSet) (Opcode, Modes, error) {
	var modes Modes

	op := Opcode(cell % 100)
	if !set.HasOpcode(op) {
		return op, modes, errors.Wrapf(ErrInvalidOpcode, "%d", op)
	}

	argc := Argc(op)
	q := cell / 100
	for i := range modes {
		m := AddressMode(q % 10)
		if i >= argc && m != Position {
			return op, modes, errors.Wrapf(ErrInvalidParamMode, "%d for unused parameter %d of %s", q%10, i+1, op)
		}
		if !set.HasMode(m) {
			return op, modes, errors.Wrapf(ErrInvalidParamMode, "%d for parameter %d", q%10, i+1)
		}
		modes[i] = m
		q /= 10
	}

	if q != 0 {
		return op, modes, errors.Wrapf(ErrInvalidParamMode, "trailing digits %d", q)
	}

	if dst := Dest(op); dst >= 0 && modes[dst] == Immediate {
		return op, modes, errors.Wrapf(ErrInvalidWriteMode, "%s parameter %d is immediate", op, dst+1)
	}

	return op, modes, nil
}

// Encode builds an instruction cell from the given opcode and modes.
// It is the inverse of Decode.
func Encode(op Opcode, modes ...AddressMode) int64 {
	cell := int64(op)
	scale := int64(100)
	for _, m := range modes {
		cell += int64(m) * scale
		scale *= 10
	}
	return cell
}
