package audit

import (
	"context"
	"sync"
	"time"
)

// Publisher emits audit events. Emit must never block the request path for
// long; implementations either buffer or drop on backpressure.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// NoopPublisher discards all events. Used when Kafka is not configured.
type NoopPublisher struct{}

// NewNoop creates a publisher that discards events.
func NewNoop() *NoopPublisher {
	return &NoopPublisher{}
}

// Emit discards the event.
func (p *NoopPublisher) Emit(_ context.Context, _ Event) error {
	return nil
}

// Recorder captures events in memory for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an in-memory event recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit records the event.
func (r *Recorder) Emit(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Verify interfaces are satisfied.
var (
	_ Publisher = (*NoopPublisher)(nil)
	_ Publisher = (*Recorder)(nil)
)
