// Package arch defines the Intcode instruction set along with
// some related helper functions.
package arch

import (
	"strconv"
	"strings"
)

// Opcode identifies an instruction. It is the value of the two least
// significant decimal digits of an instruction cell.
type Opcode int

// Known opcodes.
const (
	ADD  Opcode = 1  // c = a + b
	MUL  Opcode = 2  // c = a * b
	IN   Opcode = 3  // a = next input
	OUT  Opcode = 4  // emit a
	JNZ  Opcode = 5  // jump to b if a != 0
	JEZ  Opcode = 6  // jump to b if a == 0
	CLT  Opcode = 7  // c = a < b
	CEQ  Opcode = 8  // c = a == b
	ARB  Opcode = 9  // relative base += a
	HALT Opcode = 99 // stop
)

// Opcodes lists every known opcode in numeric order.
var Opcodes = []Opcode{ADD, MUL, IN, OUT, JNZ, JEZ, CLT, CEQ, ARB, HALT}

// Lookup returns the opcode for the given instruction name.
// Returns false if the name is not recognized.
func Lookup(name string) (Opcode, bool) {
	switch strings.ToUpper(name) {
	case "ADD":
		return ADD, true
	case "MUL":
		return MUL, true
	case "IN":
		return IN, true
	case "OUT":
		return OUT, true
	case "JNZ":
		return JNZ, true
	case "JEZ":
		return JEZ, true
	case "CLT":
		return CLT, true
	case "CEQ":
		return CEQ, true
	case "ARB":
		return ARB, true
	case "HALT":
		return HALT, true
	}
	return 0, false
}

// Name returns the name for the given opcode.
// Returns false if the opcode is not recognized.
func Name(op Opcode) (string, bool) {
	switch op {
	case ADD:
		return "ADD", true
	case MUL:
		return "MUL", true
	case IN:
		return "IN", true
	case OUT:
		return "OUT", true
	case JNZ:
		return "JNZ", true
	case JEZ:
		return "JEZ", true
	case CLT:
		return "CLT", true
	case CEQ:
		return "CEQ", true
	case ARB:
		return "ARB", true
	case HALT:
		return "HALT", true
	}
	return "", false
}

func (op Opcode) String() string {
	if name, ok := Name(op); ok {
		return name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Argc returns the number of parameters the given instruction requires.
// Returns -1 if the opcode is not recognized.
func Argc(op Opcode) int {
	switch op {
	case ADD, MUL, CLT, CEQ:
		return 3
	case JNZ, JEZ:
		return 2
	case IN, OUT, ARB:
		return 1
	case HALT:
		return 0
	}
	return -1
}

// Size returns the number of cells occupied by the given instruction,
// including the instruction cell itself. Returns 0 if the opcode is not
// recognized.
func Size(op Opcode) int {
	if n := Argc(op); n >= 0 {
		return n + 1
	}
	return 0
}

// Dest returns the index of the parameter the given instruction writes to.
// Returns -1 if the instruction does not write memory.
func Dest(op Opcode) int {
	switch op {
	case ADD, MUL, CLT, CEQ:
		return 2
	case IN:
		return 0
	}
	return -1
}
