// Package cpu implements the Intcode execution engine.
package cpu

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/devices"
)

// cancelCheckInterval is the number of steps between context checks in
// Execute. Input instructions observe the context on every call.
const cancelCheckInterval = 1024

// TraceFunc represents a callback handler for debug trace output.
// It is called with each decoded instruction before it executes.
type TraceFunc func(*Instruction)

// State defines the execution state of a CPU.
type State int

// Known states.
const (
	Running State = iota
	Halted
)

func (s State) String() string {
	if s == Halted {
		return "halted"
	}
	return "running"
}

// CPU implements the runtime.
type CPU struct {
	memory  *Memory             // System memory.
	instr   Instruction         // Decoded instruction data.
	set     arch.InstructionSet // Accepted opcodes and address modes.
	in      devices.Input       // Source for IN.
	out     devices.Output      // Sink for OUT.
	trace   TraceFunc           // Handler for debug trace output.
	logger  *slog.Logger        // Lifecycle events.
	patches [][2]int64          // Memory writes applied before the first step.
	ip      int64               // Instruction pointer.
	rb      int64               // Relative base.
	state   State               // Running or halted.
	err     error               // Fault that stopped the CPU, if any.
	last    int64               // Most recent output value.
	emitted bool                // Has OUT executed at least once?
	steps   uint64              // Instructions executed.
	inputs  uint64              // Values received from the input port.
}

// Option configures a CPU.
type Option func(*CPU) error

// WithInstructionSet selects the accepted instruction set. The default is
// arch.Extended.
func WithInstructionSet(set arch.InstructionSet) Option {
	return func(c *CPU) error {
		if set != arch.Base && set != arch.Extended {
			return errors.Errorf("unknown instruction set %d", set)
		}
		c.set = set
		return nil
	}
}

// WithTrace installs a per-instruction trace handler.
func WithTrace(trace TraceFunc) Option {
	return func(c *CPU) error {
		c.trace = trace
		return nil
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CPU) error {
		c.logger = logger
		return nil
	}
}

// WithPatch overwrites the cell at addr with value before execution starts.
func WithPatch(addr, value int64) Option {
	return func(c *CPU) error {
		c.patches = append(c.patches, [2]int64{addr, value})
		return nil
	}
}

// New creates a new CPU for the given program. The program slice is copied;
// in and out are the ports used by IN and OUT.
func New(program []int64, in devices.Input, out devices.Output, opts ...Option) (*CPU, error) {
	c := &CPU{
		memory: NewMemory(program),
		set:    arch.Extended,
		in:     in,
		out:    out,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.trace == nil {
		c.trace = func(*Instruction) { /* nop */ }
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.in == nil {
		c.in = devices.NewValues()
	}
	if c.out == nil {
		c.out = devices.Discard
	}

	for _, p := range c.patches {
		if err := c.memory.Write(p[0], p[1]); err != nil {
			return nil, errors.Wrap(err, "patch")
		}
	}

	return c, nil
}

// Load parses program text and creates a CPU for it.
func Load(text string, in devices.Input, out devices.Output, opts ...Option) (*CPU, error) {
	program, err := asm.Parse(text)
	if err != nil {
		return nil, err
	}
	return New(program, in, out, opts...)
}

// Memory returns the cpu's memory bank.
func (c *CPU) Memory() *Memory { return c.memory }

// IP returns the instruction pointer.
func (c *CPU) IP() int64 { return c.ip }

// RelativeBase returns the relative base register.
func (c *CPU) RelativeBase() int64 { return c.rb }

// State returns the execution state.
func (c *CPU) State() State { return c.state }

// Steps returns the number of instructions executed so far.
func (c *CPU) Steps() uint64 { return c.steps }

// InputCount returns the number of values read by IN so far.
func (c *CPU) InputCount() uint64 { return c.inputs }

// LastOutput returns the most recent value passed to OUT.
// Returns false if OUT has not executed.
func (c *CPU) LastOutput() (int64, bool) { return c.last, c.emitted }

// Execute runs the program until it halts and returns the last output value.
// The boolean result is false if the program never executed OUT.
// Cancellation between instructions is not a fault: a later call resumes at
// the current instruction pointer.
func (c *CPU) Execute(ctx context.Context) (int64, bool, error) {
	c.logger.Debug("cpu start", "cells", c.memory.Len(), "isa", c.set)

	for {
		if c.steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return c.last, c.emitted, errors.Wrapf(err, "stopped at %04d", c.ip)
			}
		}

		err := c.Step(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			c.logger.Debug("cpu fault", "ip", c.ip, "steps", c.steps, "err", err)
			return c.last, c.emitted, err
		}
	}

	c.logger.Debug("cpu halt", "steps", c.steps, "inputs", c.inputs, "output", c.last, "emitted", c.emitted)
	return c.last, c.emitted, nil
}

// Step performs a single execution step.
// Returns io.EOF once the program has halted. After a fault, every call
// returns the same *Error.
func (c *CPU) Step(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	if c.state == Halted {
		return io.EOF
	}

	mem := c.memory
	instr := &c.instr
	args := instr.Args[:]

	if err := instr.Decode(mem, c.ip, c.rb, c.set); err != nil {
		return c.fault(err)
	}

	c.trace(instr)
	c.steps++

	next := c.ip + int64(arch.Size(instr.Opcode))
	var err error

	switch instr.Opcode {
	case arch.ADD:
		err = mem.Write(args[2].Address, args[0].Value+args[1].Value)
	case arch.MUL:
		err = mem.Write(args[2].Address, args[0].Value*args[1].Value)
	case arch.IN:
		var v int64
		if v, err = c.in.Recv(ctx); err == nil {
			c.inputs++
			err = mem.Write(args[0].Address, v)
		}
	case arch.OUT:
		if err = c.out.Send(args[0].Value); err == nil {
			c.last = args[0].Value
			c.emitted = true
		}
	case arch.JNZ:
		if args[0].Value != 0 {
			next = args[1].Value
		}
	case arch.JEZ:
		if args[0].Value == 0 {
			next = args[1].Value
		}
	case arch.CLT:
		err = mem.Write(args[2].Address, flag(args[0].Value < args[1].Value))
	case arch.CEQ:
		err = mem.Write(args[2].Address, flag(args[0].Value == args[1].Value))
	case arch.ARB:
		c.rb += args[0].Value
	case arch.HALT:
		c.state = Halted
		return io.EOF
	}

	if err != nil {
		return c.fault(err)
	}

	if next < 0 {
		return c.fault(errors.Wrapf(ErrOutOfBounds, "jump to %d", next))
	}

	c.ip = next
	return nil
}

// fault stops the CPU with the given cause.
func (c *CPU) fault(err error) error {
	c.err = NewError(&c.instr, err)
	return c.err
}

func flag(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
