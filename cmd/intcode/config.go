package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/hexaflex/intcode/amp"
	"github.com/hexaflex/intcode/arch"
	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/cpu"
)

// Config defines program configuration.
type Config struct {
	Program  string   // Path to the program file to load.
	ISA      string   // Instruction set name: base or extended.
	Verbose  bool     // Log debug events?
	Inputs   []int64  // Values fed to IN. Read from the console if unset.
	Patches  []string // addr=value memory overrides applied before execution.
	Trace    bool     // Print instruction trace data?
	Dump     bool     // Print final memory contents after a run?
	Feedback bool     // Run amplifiers in feedback mode?
	Phases   []int64  // Phase settings to permute.
	Policy   string   // Failure policy: abort or skip.
	Parallel int      // Permutations evaluated at once.
	Tree     bool     // Print the winning network as a tree?
}

// bindGlobal registers flags shared by every subcommand.
func (c *Config) bindGlobal(fs *pflag.FlagSet) {
	fs.StringVar(&c.ISA, "isa", "extended", "Instruction set: base or extended.")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Log debug events to stderr.")
}

// bindRun registers flags for the run command.
func (c *Config) bindRun(fs *pflag.FlagSet) {
	fs.Int64SliceVarP(&c.Inputs, "input", "i", nil, "Comma separated input values. Read from the console if omitted.")
	fs.StringSliceVarP(&c.Patches, "patch", "p", nil, "Overwrite memory before execution, as addr=value.")
	fs.BoolVar(&c.Trace, "trace", false, "Print instruction trace data to stderr.")
	fs.BoolVar(&c.Dump, "dump", false, "Print final memory contents.")
}

// bindAmp registers flags for the amp command.
func (c *Config) bindAmp(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.Feedback, "feedback", "f", false, "Connect the last amplifier back to the first.")
	fs.Int64SliceVar(&c.Phases, "phases", nil, "Phase settings to permute. Defaults to 0-4, or 5-9 with --feedback.")
	fs.StringVar(&c.Policy, "policy", "abort", "What to do with failing permutations: abort or skip.")
	fs.IntVar(&c.Parallel, "parallel", 1, "Number of permutations to evaluate at once.")
	fs.BoolVar(&c.Tree, "tree", false, "Print the winning network.")
}

// Logger returns the logger selected by the configuration.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// InstructionSet returns the selected instruction set.
func (c *Config) InstructionSet() (arch.InstructionSet, error) {
	set, ok := arch.InstructionSetByName(c.ISA)
	if !ok {
		return 0, errors.Errorf("unknown instruction set %q", c.ISA)
	}
	return set, nil
}

// PolicyValue returns the selected failure policy.
func (c *Config) PolicyValue() (amp.Policy, error) {
	p, ok := amp.PolicyByName(c.Policy)
	if !ok {
		return 0, errors.Errorf("unknown policy %q", c.Policy)
	}
	return p, nil
}

// PhaseSettings returns the configured phases or the defaults for the
// selected mode.
func (c *Config) PhaseSettings() []int64 {
	if len(c.Phases) > 0 {
		return c.Phases
	}
	return amp.DefaultPhases(c.Feedback)
}

// PatchOptions converts the addr=value patch list into CPU options.
func (c *Config) PatchOptions() ([]cpu.Option, error) {
	var opts []cpu.Option
	for _, p := range c.Patches {
		addr, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.Errorf("invalid patch %q: want addr=value", p)
		}

		a, err := asm.ParseNumber(strings.TrimSpace(addr))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid patch address %q", addr)
		}
		v, err := asm.ParseNumber(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid patch value %q", value)
		}

		opts = append(opts, cpu.WithPatch(a, v))
	}
	return opts, nil
}

// LoadProgram reads and parses the program file.
func (c *Config) LoadProgram() ([]int64, error) {
	data, err := os.ReadFile(c.Program)
	if err != nil {
		return nil, err
	}

	program, err := asm.Parse(string(data))
	if err != nil {
		return nil, errors.Wrap(err, c.Program)
	}
	return program, nil
}
