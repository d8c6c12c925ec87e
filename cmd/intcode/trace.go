package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hexaflex/intcode/arch"
	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/cpu"
)

// printTrace returns a trace handler writing one line per instruction to w.
// Read operands show their dereferenced value, write operands the address
// they resolve to.
func printTrace(w io.Writer) cpu.TraceFunc {
	return func(i *cpu.Instruction) {
		var sb strings.Builder
		sb.Grow(120)

		argc := arch.Argc(i.Opcode)
		dst := arch.Dest(i.Opcode)

		for j := 0; j < argc; j++ {
			arg := i.Args[j]
			sb.WriteString(asm.Operand(arg.Mode, arg.Raw))

			switch {
			case j == dst:
				if arg.Mode == arch.Relative {
					fmt.Fprintf(&sb, "@%d", arg.Address)
				}
			case arg.Mode != arch.Immediate:
				fmt.Fprintf(&sb, "=%d", arg.Value)
			}

			if j < argc-1 {
				sb.WriteString(", ")
			}
		}

		fmt.Fprintf(w, "%04d %5s  %s\n", i.IP, i.Opcode, sb.String())
	}
}
