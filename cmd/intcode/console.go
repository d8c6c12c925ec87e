package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/hexaflex/intcode/asm"
	"github.com/hexaflex/intcode/devices"
)

// Console is an input port reading values from the terminal, one per line.
// End of input or an interrupt ends the stream.
type Console struct {
	rl *readline.Instance
}

// NewConsole creates a console input with the given prompt.
func NewConsole(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		return nil, err
	}
	return &Console{rl: rl}, nil
}

// Recv reads lines until one holds a valid integer.
func (c *Console) Recv(ctx context.Context) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return 0, devices.ErrInputExhausted
		}
		if err != nil {
			return 0, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		v, err := asm.ParseNumber(line)
		if err != nil {
			fmt.Fprintf(c.rl.Stderr(), "invalid value %q: %v\n", line, err)
			continue
		}
		return v, nil
	}
}

// Close restores the terminal.
func (c *Console) Close() error {
	return c.rl.Close()
}
