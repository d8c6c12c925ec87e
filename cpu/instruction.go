package cpu

import (
	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
)

// Instruction defines decoded instruction data.
type Instruction struct {
	IP     int64                 // Instruction address.
	Cell   int64                 // Raw instruction cell.
	Opcode arch.Opcode           // Instruction opcode.
	Args   [arch.MaxArgs]Operand // Operand A, B and C.
}

// Decode decodes the instruction at address ip. Operands are resolved against
// the relative base rb; the write operand, if any, is resolved to an address
// but not dereferenced.
func (i *Instruction) Decode(m *Memory, ip, rb int64, set arch.InstructionSet) error {
	i.IP = ip
	i.Args = [arch.MaxArgs]Operand{}

	cell, err := m.Read(ip)
	if err != nil {
		return err
	}
	i.Cell = cell

	op, modes, err := arch.Decode(cell, set)
	i.Opcode = op
	if err != nil {
		return err
	}

	dst := arch.Dest(op)
	for j := 0; j < arch.Argc(op); j++ {
		if err := i.Args[j].Decode(m, ip+1+int64(j), rb, modes[j], j == dst); err != nil {
			return err
		}
	}

	return nil
}

// Operand defines decoded instruction operand data.
type Operand struct {
	Raw     int64            // Parameter word as stored in memory.
	Address int64            // Resolved address. Same as Raw for immediate operands.
	Value   int64            // Dereferenced value. Unset for write operands.
	Mode    arch.AddressMode // Address mode.
}

// Decode reads the parameter word at addr and resolves it.
func (op *Operand) Decode(m *Memory, addr, rb int64, mode arch.AddressMode, write bool) error {
	raw, err := m.Read(addr)
	if err != nil {
		return err
	}

	op.Raw = raw
	op.Mode = mode

	switch mode {
	case arch.Immediate:
		op.Address = raw
		op.Value = raw
		return nil
	case arch.Position:
		op.Address = raw
	case arch.Relative:
		op.Address = rb + raw
	}

	if write {
		if op.Address < 0 {
			return errors.Wrapf(ErrOutOfBounds, "write target %d", op.Address)
		}
		return nil
	}

	op.Value, err = m.Read(op.Address)
	return err
}
