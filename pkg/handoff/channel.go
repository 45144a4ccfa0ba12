package handoff

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// PushResult is the outcome of TryPush.
type PushResult int

// Push results.
const (
	Accepted PushResult = iota
	DroppedBecauseFull
	DroppedBecauseClosed
)

// Forever makes PopTimeout wait without a deadline.
const Forever time.Duration = -1

// IsAccepted indicates the item was queued.
func (r PushResult) IsAccepted() bool {
	return r == Accepted
}

// String implements fmt.Stringer.
func (r PushResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case DroppedBecauseFull:
		return "dropped: full"
	case DroppedBecauseClosed:
		return "dropped: closed"
	}
	return "unknown"
}

// Stats is a snapshot of channel counters.
type Stats struct {
	Capacity int
	Len      int
	Accepted uint64
	Dropped  uint64
}

// Channel is a fixed-capacity FIFO with a non-blocking push side and a
// blocking pop side. Only one goroutine may call Pop at a time.
type Channel[T any] struct {
	items chan T
	done  chan struct{}

	closeOnce sync.Once
	accepted  atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a Channel. The buffer is allocated once here.
func New[T any](capacity int) (*Channel[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Channel[T]{
		items: make(chan T, capacity),
		done:  make(chan struct{}),
	}, nil
}

// MustNew creates a Channel and panics on error.
func MustNew[T any](capacity int) *Channel[T] {
	c, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

// TryPush queues item if there is room. It never blocks.
func (c *Channel[T]) TryPush(item T) PushResult {
	select {
	case <-c.done:
		c.dropped.Add(1)
		return DroppedBecauseClosed
	default:
	}
	select {
	case c.items <- item:
		c.accepted.Add(1)
		return Accepted
	default:
		c.dropped.Add(1)
		return DroppedBecauseFull
	}
}

// Pop waits for the next item. A context deadline surfaces as ErrTimedOut,
// cancellation as ctx.Err(). Items accepted before Close are still
// delivered; after that Pop returns ErrClosed.
func (c *Channel[T]) Pop(ctx context.Context) (item T, err error) {
	select {
	case item = <-c.items:
		return
	default:
	}
	select {
	case item = <-c.items:
		return
	case <-c.done:
		// drain what was accepted before Close.
		select {
		case item = <-c.items:
			return
		default:
			err = ErrClosed
		}
	case <-ctx.Done():
		err = ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrTimedOut
		}
	}
	return
}

// PopTimeout waits up to timeout for the next item. Use Forever to wait
// indefinitely.
func (c *Channel[T]) PopTimeout(timeout time.Duration) (T, error) {
	if timeout < 0 {
		return c.Pop(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Pop(ctx)
}

// Len returns the number of queued items.
func (c *Channel[T]) Len() int {
	return len(c.items)
}

// Cap returns the fixed capacity.
func (c *Channel[T]) Cap() int {
	return cap(c.items)
}

// Dropped returns the number of rejected pushes.
func (c *Channel[T]) Dropped() uint64 {
	return c.dropped.Load()
}

// Stats returns a snapshot of the counters.
func (c *Channel[T]) Stats() Stats {
	return Stats{
		Capacity: cap(c.items),
		Len:      len(c.items),
		Accepted: c.accepted.Load(),
		Dropped:  c.dropped.Load(),
	}
}

// Close rejects further pushes and releases a waiting Pop once the
// remaining items are drained. It is safe to call more than once.
func (c *Channel[T]) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}
