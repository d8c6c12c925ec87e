package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hexaflex/intcode/amp"
	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/cpu"
	"github.com/hexaflex/intcode/devices"
)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var c Config

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Intcode virtual machine and amplifier network search",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	c.bindGlobal(root.PersistentFlags())

	runCmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Run a program, printing each output value on its own line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Program = args[0]
			return runProgram(cmd, &c)
		},
	}
	c.bindRun(runCmd.Flags())

	ampCmd := &cobra.Command{
		Use:   "amp <program>",
		Short: "Find the phase settings producing the largest amplifier signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Program = args[0]
			return runAmp(cmd, &c)
		},
	}
	c.bindAmp(ampCmd.Flags())

	disasmCmd := &cobra.Command{
		Use:   "disasm <program>",
		Short: "Print a program listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Program = args[0]
			return runDisasm(cmd, &c)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version())
		},
	}

	root.AddCommand(runCmd, ampCmd, disasmCmd, versionCmd)
	return root
}

// runProgram executes a single program.
func runProgram(cmd *cobra.Command, c *Config) error {
	program, err := c.LoadProgram()
	if err != nil {
		return err
	}

	set, err := c.InstructionSet()
	if err != nil {
		return err
	}

	patches, err := c.PatchOptions()
	if err != nil {
		return err
	}

	logger := c.Logger().With("program", c.Program)
	opts := append([]cpu.Option{
		cpu.WithInstructionSet(set),
		cpu.WithLogger(logger),
	}, patches...)

	if c.Trace {
		opts = append(opts, cpu.WithTrace(printTrace(cmd.ErrOrStderr())))
	}

	var in devices.Input
	if cmd.Flags().Changed("input") {
		in = devices.NewValues(c.Inputs...)
	} else {
		console, err := NewConsole("> ")
		if err != nil {
			return err
		}
		defer console.Close()
		in = console
	}

	w := cmd.OutOrStdout()
	out := devices.OutputFunc(func(v int64) error {
		_, err := fmt.Fprintln(w, v)
		return err
	})

	ctl, err := NewController(program, in, out, opts...)
	if err != nil {
		return err
	}

	err = ctl.Run(cmd.Context())
	logger.Info("run finished",
		"steps", ctl.Steps(),
		"inputs", ctl.CPU().InputCount(),
		"elapsed", ctl.Elapsed(),
		"speed", prettyFrequency(ctl.Frequency()))
	if err != nil {
		return err
	}

	if c.Dump {
		fmt.Fprintln(w, asm.Format(ctl.CPU().Memory().Cells()))
	}
	return nil
}

// runAmp searches phase permutations for the largest signal.
func runAmp(cmd *cobra.Command, c *Config) error {
	program, err := c.LoadProgram()
	if err != nil {
		return err
	}

	set, err := c.InstructionSet()
	if err != nil {
		return err
	}

	policy, err := c.PolicyValue()
	if err != nil {
		return err
	}

	res, err := amp.Search(cmd.Context(), program, c.PhaseSettings(), c.Feedback,
		amp.WithInstructionSet(set),
		amp.WithPolicy(policy),
		amp.WithParallelism(c.Parallel),
		amp.WithLogger(c.Logger().With("program", c.Program)))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if c.Tree {
		fmt.Fprint(w, networkTree(res, c.Feedback).String())
	} else {
		fmt.Fprintf(w, "%d %v\n", res.Signal, res.Phases)
	}

	if res.Failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d permutations failed\n", res.Failed, res.Evaluated)
	}
	return nil
}

// runDisasm prints a listing of the program.
func runDisasm(cmd *cobra.Command, c *Config) error {
	program, err := c.LoadProgram()
	if err != nil {
		return err
	}

	set, err := c.InstructionSet()
	if err != nil {
		return err
	}

	return asm.WriteListing(cmd.OutOrStdout(), asm.Disassemble(program, set))
}
