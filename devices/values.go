package devices

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

// Values is an Input that yields a fixed list of values and is exhausted
// afterwards.
type Values struct {
	values []int64
	next   int
}

// NewValues creates an Input yielding the given values in order.
func NewValues(values ...int64) *Values {
	return &Values{values: slices.Clone(values)}
}

// Recv returns the next value or ErrInputExhausted.
func (v *Values) Recv(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if v.next >= len(v.values) {
		return 0, ErrInputExhausted
	}
	n := v.values[v.next]
	v.next++
	return n, nil
}

// Remaining returns the number of values not yet received.
func (v *Values) Remaining() int {
	return len(v.values) - v.next
}

// Recorder is an Output that keeps every value sent to it.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	values []int64
}

// Send appends v to the recording.
func (r *Recorder) Send(v int64) error {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
	return nil
}

// Values returns a copy of the recorded values.
func (r *Recorder) Values() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

// Last returns the most recent value.
// Returns false if nothing was recorded.
func (r *Recorder) Last() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return 0, false
	}
	return r.values[len(r.values)-1], true
}
