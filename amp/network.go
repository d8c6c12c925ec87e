package amp

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/hexaflex/intcode/cpu"
	"github.com/hexaflex/intcode/devices"
)

// Stage describes how one amplifier of a network run ended.
type Stage struct {
	Phase   int64  // Phase setting the amplifier received first.
	Output  int64  // Last value the amplifier sent.
	Emitted bool   // False if the amplifier never sent a value.
	Steps   uint64 // Instructions executed.
	Inputs  uint64 // Values received.
}

// Network wires one CPU per phase setting into a chain: amplifier i feeds
// amplifier i+1. With feedback enabled, the last amplifier feeds the first
// one and the network runs until every amplifier halts.
type Network struct {
	program  []int64
	feedback bool
	config
}

// NewNetwork creates a network running copies of program.
func NewNetwork(program []int64, feedback bool, opts ...Option) *Network {
	return &Network{
		program:  slices.Clone(program),
		feedback: feedback,
		config:   newConfig(opts),
	}
}

// Run runs the network with the given phase settings and returns the
// terminal signal: the last value sent by the last amplifier.
func (n *Network) Run(ctx context.Context, phases []int64) (int64, error) {
	stages, err := n.Stages(ctx, phases)
	if err != nil {
		return 0, err
	}
	return stages[len(stages)-1].Output, nil
}

// Stages runs the network like Run and reports on every amplifier.
//
// Each amplifier runs in its own goroutine and receives its phase setting
// first; the first amplifier then receives the initial signal 0. When an
// amplifier stops, its input is detached and its output closed, so a fault
// anywhere surfaces as ErrInputExhausted downstream instead of a deadlock.
// The returned error is the fault that started such a cascade. An amplifier
// that halts without sending anything fails the run with ErrNoOutput.
func (n *Network) Stages(ctx context.Context, phases []int64) ([]Stage, error) {
	count := len(phases)
	if count == 0 {
		return nil, errors.Wrap(ErrInvalidPhases, "no amplifiers")
	}

	pipes := make([]*devices.Pipe, count)
	for i, phase := range phases {
		pipes[i] = devices.NewPipe(phase)
	}
	pipes[0].Send(0)
	if !n.feedback {
		pipes[0].Close()
	}

	outs := make([]*devices.Pipe, count)
	cpus := make([]*cpu.CPU, count)
	for i := range cpus {
		var out devices.Output = devices.Discard
		switch {
		case i < count-1:
			outs[i] = pipes[i+1]
		case n.feedback:
			outs[i] = pipes[0]
		}
		if outs[i] != nil {
			out = outs[i]
		}

		c, err := cpu.New(n.program, pipes[i], out,
			cpu.WithInstructionSet(n.set),
			cpu.WithLogger(n.logger.With("amp", i, "phase", phases[i])))
		if err != nil {
			return nil, err
		}
		cpus[i] = c
	}

	stages := make([]Stage, count)
	errs := make([]error, count)

	var g errgroup.Group
	for i, c := range cpus {
		i, c := i, c
		g.Go(func() error {
			defer pipes[i].Detach()
			if outs[i] != nil {
				defer outs[i].Close()
			}

			last, ok, err := c.Execute(ctx)
			stages[i] = Stage{
				Phase:   phases[i],
				Output:  last,
				Emitted: ok,
				Steps:   c.Steps(),
				Inputs:  c.InputCount(),
			}
			errs[i] = err
			return err
		})
	}

	if err := g.Wait(); err != nil {
		i, cause := rootCause(errs)
		if errors.Is(cause, devices.ErrInputExhausted) {
			// Starved amplifiers trace back to one that halted silently.
			if j := silent(stages, errs); j >= 0 {
				i, cause = j, ErrNoOutput
			}
		}
		return stages, errors.Wrapf(cause, "amplifier %d (phase %d)", i, phases[i])
	}

	if i := silent(stages, errs); i >= 0 {
		return stages, errors.Wrapf(ErrNoOutput, "amplifier %d (phase %d)", i, phases[i])
	}

	return stages, nil
}

// silent returns the first amplifier that halted without sending a value,
// or -1 if there is none.
func silent(stages []Stage, errs []error) int {
	for i, s := range stages {
		if errs[i] == nil && !s.Emitted {
			return i
		}
	}
	return -1
}

// rootCause picks the first error that is not a cascaded ErrInputExhausted,
// falling back to the first error.
func rootCause(errs []error) (int, error) {
	first := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, devices.ErrInputExhausted) {
			return i, err
		}
		if first < 0 {
			first = i
		}
	}
	return first, errs[first]
}
