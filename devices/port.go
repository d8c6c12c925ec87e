// Package devices defines the I/O ports through which a CPU exchanges
// integers with the outside world or with other CPUs.
package devices

import (
	"context"

	"github.com/pkg/errors"
)

// ErrInputExhausted is returned by Recv once a port is closed and drained.
var ErrInputExhausted = errors.New("input exhausted")

// Input is a source of integers.
type Input interface {
	// Recv returns the next value. It blocks until a value is available, the
	// port is closed (ErrInputExhausted) or ctx is done.
	Recv(ctx context.Context) (int64, error)
}

// Output is a sink for integers.
type Output interface {
	// Send delivers v. It does not block. A send to a port whose receiver
	// has gone away is discarded and reports no error.
	Send(v int64) error
}

// InputFunc adapts an ordinary function to the Input interface.
type InputFunc func(ctx context.Context) (int64, error)

// Recv calls f(ctx).
func (f InputFunc) Recv(ctx context.Context) (int64, error) {
	return f(ctx)
}

// OutputFunc adapts an ordinary function to the Output interface.
type OutputFunc func(v int64) error

// Send calls f(v).
func (f OutputFunc) Send(v int64) error {
	return f(v)
}

// Discard is an Output that drops every value.
var Discard Output = OutputFunc(func(int64) error { return nil })
