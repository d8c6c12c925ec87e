package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
)

// Line defines one entry in a disassembly listing.
type Line struct {
	Address int64       // Address of the first cell.
	Cells   []int64     // Raw cells covered by the entry.
	Opcode  arch.Opcode // Decoded opcode; undefined for data.
	Modes   arch.Modes  // Decoded parameter modes; undefined for data.
	Data    bool        // True if the cell does not decode as an instruction.
}

// Disassemble performs a linear sweep over program. Cells that do not decode
// under set, and instructions truncated by the end of the program, are
// emitted as single data words.
func Disassemble(program []int64, set arch.InstructionSet) []Line {
	var lines []Line

	for addr := 0; addr < len(program); {
		op, modes, err := arch.Decode(program[addr], set)
		size := arch.Size(op)
		if err != nil || addr+size > len(program) {
			lines = append(lines, Line{
				Address: int64(addr),
				Cells:   program[addr : addr+1],
				Data:    true,
			})
			addr++
			continue
		}

		lines = append(lines, Line{
			Address: int64(addr),
			Cells:   program[addr : addr+size],
			Opcode:  op,
			Modes:   modes,
		})
		addr += size
	}

	return lines
}

func (l Line) String() string {
	raw := make([]string, len(l.Cells))
	for i, v := range l.Cells {
		raw[i] = strconv.FormatInt(v, 10)
	}

	if l.Data {
		return fmt.Sprintf("%04d  %-28s DATA %d", l.Address, strings.Join(raw, " "), l.Cells[0])
	}

	args := make([]string, 0, len(l.Cells)-1)
	for i, v := range l.Cells[1:] {
		args = append(args, Operand(l.Modes[i], v))
	}

	return strings.TrimRight(fmt.Sprintf("%04d  %-28s %-4s %s", l.Address, strings.Join(raw, " "), l.Opcode, strings.Join(args, ", ")), " ")
}

// Operand renders a parameter word in the given mode: 12 for immediate,
// [12] for position and [rb+12] for relative operands.
func Operand(mode arch.AddressMode, v int64) string {
	switch mode {
	case arch.Immediate:
		return strconv.FormatInt(v, 10)
	case arch.Position:
		return "[" + strconv.FormatInt(v, 10) + "]"
	case arch.Relative:
		return fmt.Sprintf("[%s%+d]", arch.RegisterName(arch.RB), v)
	}
	return "?" + strconv.FormatInt(v, 10)
}

// WriteListing writes one line per entry to w.
func WriteListing(w io.Writer, lines []Line) error {
	for _, l := range lines {
		if _, err := io.WriteString(w, l.String()+"\n"); err != nil {
			return errors.Wrap(err, "write listing")
		}
	}
	return nil
}
