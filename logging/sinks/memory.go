package sinks

import (
	"context"
	"sync"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// MemorySink records events for inspection. It is also a synchronous
// Publisher, so a controller under test can publish straight into it.
type MemorySink struct {
	mu  sync.Mutex
	log []logging.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	s.log = append(s.log, logging.CloneEvent(event))
	s.mu.Unlock()
	return nil
}

// Publish implements logging.Publisher.
func (s *MemorySink) Publish(_ context.Context, event logging.Event) {
	s.Write(event)
}

// Events copies everything recorded so far.
func (s *MemorySink) Events() []logging.Event {
	return s.Filter(func(logging.Event) bool { return true })
}

// OfType returns the recorded events of type t in publish order.
func (s *MemorySink) OfType(t logging.EventType) []logging.Event {
	return s.Filter(func(e logging.Event) bool { return e.Type == t })
}

// Trace returns the events caused by one click.
func (s *MemorySink) Trace(traceID string) []logging.Event {
	return s.Filter(func(e logging.Event) bool { return e.TraceID == traceID })
}

// Filter returns the recorded events keep accepts.
func (s *MemorySink) Filter(keep func(logging.Event) bool) []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logging.Event, 0, len(s.log))
	for _, e := range s.log {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets every recorded event.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.log = nil
	s.mu.Unlock()
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}
