package devices

import (
	"context"
	"sync"
)

// Pipe is an unbounded FIFO connecting one producer to one consumer.
//
// Send never blocks. Once the consumer calls Detach, further sends are
// dropped; the last stage of a feedback ring relies on this, since its final
// output has no one left to read it. Once the producer calls Close, Recv
// drains what is queued and then returns ErrInputExhausted.
//
// Recv must not be called concurrently from more than one goroutine.
type Pipe struct {
	mu       sync.Mutex
	queue    []int64
	notify   chan struct{} // Signalled when queue or closed changes.
	closed   bool
	detached bool
	sent     int
	dropped  int
}

// NewPipe creates a new, empty pipe. Optional values are queued in order.
func NewPipe(values ...int64) *Pipe {
	p := &Pipe{
		notify: make(chan struct{}, 1),
	}
	p.queue = append(p.queue, values...)
	p.sent = len(values)
	return p
}

// Send queues v for the consumer.
func (p *Pipe) Send(v int64) error {
	p.mu.Lock()
	if p.detached || p.closed {
		p.dropped++
		p.mu.Unlock()
		return nil
	}
	p.queue = append(p.queue, v)
	p.sent++
	p.mu.Unlock()

	p.signal()
	return nil
}

// Recv returns the oldest queued value.
func (p *Pipe) Recv(ctx context.Context) (int64, error) {
	for {
		p.mu.Lock()
		if len(p.queue) > 0 {
			v := p.queue[0]
			p.queue = p.queue[1:]
			p.mu.Unlock()
			return v, nil
		}
		closed := p.closed
		p.mu.Unlock()

		if closed {
			return 0, ErrInputExhausted
		}

		select {
		case <-p.notify:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// Close marks the end of the stream. Values already queued can still be
// received.
func (p *Pipe) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.signal()
}

// Detach marks the consumer as gone. Queued values are discarded and
// subsequent sends are dropped.
func (p *Pipe) Detach() {
	p.mu.Lock()
	p.detached = true
	p.dropped += len(p.queue)
	p.queue = nil
	p.mu.Unlock()
}

// Len returns the number of values waiting to be received.
func (p *Pipe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Sent returns the number of values accepted by the pipe.
func (p *Pipe) Sent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent
}

// Dropped returns the number of values discarded because the consumer had
// detached or the pipe was closed.
func (p *Pipe) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Pipe) signal() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}
