package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/logging"
)

// JSON emits newline-delimited structured events.
type JSON struct {
	mu     sync.Mutex
	out    *bufio.Writer
	enc    *json.Encoder
	owned  io.Closer
	eager  bool
	stop   chan struct{}
	closed bool
}

// NewJSON writes to w, which the sink never closes. A non-positive flush
// interval flushes after every event.
func NewJSON(w io.Writer, flushInterval time.Duration) *JSON {
	if w == nil {
		w = io.Discard
	}
	out := bufio.NewWriter(w)
	s := &JSON{
		out:   out,
		enc:   json.NewEncoder(out),
		eager: flushInterval <= 0,
		stop:  make(chan struct{}),
	}
	if !s.eager {
		go s.flushEvery(flushInterval)
	}
	return s
}

// NewJSONFile appends to the file at path and closes it with the sink.
func NewJSONFile(path string, flushInterval time.Duration) (*JSON, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open json log %s: %w", path, err)
	}
	s := NewJSON(file, flushInterval)
	s.owned = file
	return s, nil
}

type jsonRecord struct {
	Time     string              `json:"time"`
	Tick     uint64              `json:"tick"`
	Type     logging.EventType   `json:"type"`
	Severity string              `json:"severity"`
	Category string              `json:"category,omitempty"`
	TraceID  string              `json:"traceId,omitempty"`
	Actor    logging.EntityRef   `json:"actor"`
	Targets  []logging.EntityRef `json:"targets,omitempty"`
	Payload  any                 `json:"payload,omitempty"`
	Extra    map[string]any      `json:"extra,omitempty"`
}

// Write satisfies logging.Sink.
func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	err := s.enc.Encode(jsonRecord{
		Time:     event.Time.UTC().Format(time.RFC3339Nano),
		Tick:     event.Tick,
		Type:     event.Type,
		Severity: event.Severity.String(),
		Category: event.Category,
		TraceID:  event.TraceID,
		Actor:    event.Actor,
		Targets:  event.Targets,
		Payload:  event.Payload,
		Extra:    event.Extra,
	})
	if err != nil {
		return err
	}
	if s.eager {
		return s.out.Flush()
	}
	return nil
}

// Close flushes and releases a file opened by NewJSONFile.
func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.stop)
	if err := s.out.Flush(); err != nil {
		return err
	}
	if s.owned != nil {
		return s.owned.Close()
	}
	return nil
}

func (s *JSON) flushEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.closed {
				s.out.Flush()
			}
			s.mu.Unlock()
		}
	}
}
