// Package network carries key events from the server to the client over TCP.
package network

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"lankm/internal/input"
)

// EventQueue is the hand-off between capture and the server's forward loop.
// It is bounded: when full, the oldest queued event is discarded to make
// room, so a stalled link never blocks capture.
type EventQueue struct {
	events  chan input.KeyEvent
	pushMu  sync.Mutex
	dropped atomic.Uint64
}

// NewEventQueue creates a queue holding at most size events.
func NewEventQueue(size int) *EventQueue {
	if size < 1 {
		size = 1
	}
	return &EventQueue{events: make(chan input.KeyEvent, size)}
}

// Forward enqueues ev, evicting the oldest event if the queue is full.
// It never blocks.
func (q *EventQueue) Forward(ev input.KeyEvent) {
	q.pushMu.Lock()
	defer q.pushMu.Unlock()

	for {
		select {
		case q.events <- ev:
			return
		default:
		}

		select {
		case old := <-q.events:
			n := q.dropped.Add(1)
			log.Warn().Stringer("event", old).Uint64("total_dropped", n).Msg("Queue: full, dropped oldest event")
		default:
		}
	}
}

// Pop blocks until an event is available or ctx is done.
func (q *EventQueue) Pop(ctx context.Context) (input.KeyEvent, error) {
	select {
	case ev := <-q.events:
		return ev, nil
	case <-ctx.Done():
		return input.KeyEvent{}, ctx.Err()
	}
}

// Drain discards everything queued and returns how many events it removed.
func (q *EventQueue) Drain() int {
	n := 0
	for {
		select {
		case <-q.events:
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Dropped returns how many events were evicted by overflow so far.
func (q *EventQueue) Dropped() uint64 {
	return q.dropped.Load()
}
