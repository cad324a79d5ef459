// Package session implements the bidirectional session engine: a single
// background pump that demultiplexes the transport's record stream into
// an ordered conversation queue and handler-serviced server events.
package session

import (
	"context"
	"sync"

	"github.com/sageagent/sage-sdk-go/pkg/sage/messages"
)

// DefaultQueueCapacity bounds the delivery queue. A full queue applies
// backpressure to the pump; messages are never dropped.
const DefaultQueueCapacity = 100

// Queue is the ordered conversation delivery queue between the pump
// (single producer) and the consumer's receive iterator.
type Queue struct {
	ch chan messages.Message

	mu       sync.Mutex
	terminal error
	once     sync.Once
}

// NewQueue creates a queue with the given capacity. Capacities below
// DefaultQueueCapacity are raised to it.
func NewQueue(capacity int) *Queue {
	if capacity < DefaultQueueCapacity {
		capacity = DefaultQueueCapacity
	}

	return &Queue{ch: make(chan messages.Message, capacity)}
}

// Push enqueues one message in arrival order, blocking while the queue
// is full.
func (q *Queue) Push(ctx context.Context, msg messages.Message) error {
	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the stream. A non-nil terminal error is surfaced to the
// consumer after the remaining messages drain; nil marks a clean end.
// Only the first call has any effect.
func (q *Queue) Close(terminal error) {
	q.once.Do(func() {
		q.mu.Lock()
		q.terminal = terminal
		q.mu.Unlock()
		close(q.ch)
	})
}

// Messages returns the delivery channel. It closes when the stream
// ends; check Err afterwards for a terminal error.
func (q *Queue) Messages() <-chan messages.Message {
	return q.ch
}

// Err returns the terminal error recorded by Close, if any.
func (q *Queue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.terminal
}
