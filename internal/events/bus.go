package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	JobCreated             EventType = "JOB_CREATED"
	JobTransitioned        EventType = "JOB_TRANSITIONED"
	JobCompleted           EventType = "JOB_COMPLETED"
	ResolutionPassFinished EventType = "RESOLUTION_PASS_FINISHED"
)

// Event describes a committed domain change. Events are published only after
// the in-memory transaction has been swapped in, so subscribers always see
// state at least as new as the event they received.
type Event struct {
	Type       EventType
	PropertyID uuid.UUID
	JobRef     string
	Actor      string
	At         time.Time
}

// Bus is a minimal in-process publish/subscribe fan-out. Subscribers run
// synchronously on the publisher's goroutine; anything slow belongs behind
// the subscriber's own channel.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}
