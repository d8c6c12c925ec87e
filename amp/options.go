// Package amp chains Intcode CPUs into amplifier networks and searches
// phase setting permutations for the strongest output signal.
package amp

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hexaflex/intcode/arch"
)

// Search and network failures.
var (
	ErrNoOutput      = errors.New("no output produced")
	ErrInvalidPhases = errors.New("invalid phase settings")
)

// Policy decides what a search does with a permutation that fails.
type Policy int

// Known policies.
const (
	// AbortOnError stops the search at the first failed permutation and
	// returns its error.
	AbortOnError Policy = iota

	// SkipFailed records failed permutations in the result and continues.
	// The search fails only if no permutation produces a signal.
	SkipFailed
)

// PolicyByName returns the policy matching the given name.
// Returns false if no match was found.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case "abort", "":
		return AbortOnError, true
	case "skip":
		return SkipFailed, true
	}
	return 0, false
}

func (p Policy) String() string {
	if p == SkipFailed {
		return "skip"
	}
	return "abort"
}

type config struct {
	set         arch.InstructionSet
	policy      Policy
	parallelism int
	logger      *slog.Logger
}

// Option configures a network or a search.
type Option func(*config)

// WithInstructionSet selects the instruction set of every amplifier.
// The default is arch.Extended.
func WithInstructionSet(set arch.InstructionSet) Option {
	return func(c *config) { c.set = set }
}

// WithPolicy sets the failure policy of a search. The default is
// AbortOnError.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithParallelism sets how many permutations a search evaluates at once.
// Values below 1 are treated as 1, the default.
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithLogger sets the logger for search progress and amplifier lifecycle
// events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func newConfig(opts []Option) config {
	c := config{
		set:         arch.Extended,
		policy:      AbortOnError,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.parallelism < 1 {
		c.parallelism = 1
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
