package arch

import "strings"

// InstructionSet selects the opcodes and address modes a CPU accepts.
type InstructionSet int

// Known instruction sets.
const (
	// Base supports opcodes 1 through 8 and 99 with position and
	// immediate parameters.
	Base InstructionSet = iota

	// Extended adds relative addressing and the ARB opcode to Base.
	Extended
)

// InstructionSetByName returns the instruction set matching the given name.
// Returns false if no match was found.
func InstructionSetByName(name string) (InstructionSet, bool) {
	switch strings.ToLower(name) {
	case "base":
		return Base, true
	case "extended", "":
		return Extended, true
	}
	return 0, false
}

func (s InstructionSet) String() string {
	switch s {
	case Base:
		return "base"
	case Extended:
		return "extended"
	}
	return "unknown"
}

// HasOpcode returns true if op is part of the instruction set.
func (s InstructionSet) HasOpcode(op Opcode) bool {
	switch op {
	case ADD, MUL, IN, OUT, JNZ, JEZ, CLT, CEQ, HALT:
		return s == Base || s == Extended
	case ARB:
		return s == Extended
	}
	return false
}

// HasMode returns true if m is a valid address mode in the instruction set.
func (s InstructionSet) HasMode(m AddressMode) bool {
	switch m {
	case Position, Immediate:
		return s == Base || s == Extended
	case Relative:
		return s == Extended
	}
	return false
}
