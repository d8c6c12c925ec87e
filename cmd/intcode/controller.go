package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hexaflex/intcode/cpu"
	"github.com/hexaflex/intcode/devices"
)

// Controller controls the execution of a CPU and keeps run statistics.
type Controller struct {
	cpu     *cpu.CPU
	start   time.Time
	elapsed time.Duration
	running bool
}

// NewController creates a new CPU controller.
func NewController(program []int64, in devices.Input, out devices.Output, opts ...cpu.Option) (*Controller, error) {
	c, err := cpu.New(program, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return &Controller{cpu: c}, nil
}

// Running returns true if the CPU is currently running.
func (c *Controller) Running() bool {
	return c.running
}

// Run executes the program until it halts, faults or ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.running = true
	c.start = time.Now()

	defer func() {
		c.running = false
		c.elapsed = time.Since(c.start)
	}()

	_, _, err := c.cpu.Execute(ctx)
	return err
}

// Steps returns the number of instructions executed.
func (c *Controller) Steps() uint64 {
	return c.cpu.Steps()
}

// Elapsed returns the duration of the last run.
func (c *Controller) Elapsed() time.Duration {
	if c.running {
		return time.Since(c.start)
	}
	return c.elapsed
}

// Frequency returns the execution speed in instructions per second.
func (c *Controller) Frequency() float64 {
	d := c.Elapsed().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(c.cpu.Steps()) / d
}

// CPU returns the controlled CPU.
func (c *Controller) CPU() *cpu.CPU {
	return c.cpu
}

// prettyFrequency returns a human-readable version of the given clock frequency in herz.
func prettyFrequency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2f GHz", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2f MHz", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.2f KHz", v/1e3)
	default:
		return fmt.Sprintf("%.2f Hz", v)
	}
}
