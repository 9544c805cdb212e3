package logging

import (
	"context"
	"log"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

const (
	defaultQueueSize  = 512
	minSinkBacklog    = 32
	maxSinkBacklog    = 1024
	maxRetryShift     = 5
	defaultDropWarnIn = 5 * time.Second
)

// Router fans published events out to sinks. Publish never blocks the tick
// loop: a full queue drops the event and counts it.
type Router struct {
	cfg      Config
	clock    Clock
	fallback *log.Logger
	fields   map[string]any

	// gate guards queue against sends after Close.
	gate   sync.RWMutex
	closed bool
	queue  chan Event

	workers []*sinkWorker
	done    sync.WaitGroup

	forwarded atomic.Uint64
	filtered  atomic.Uint64
	dropped   atomic.Uint64
	nextWarn  atomic.Int64

	catMu      sync.Mutex
	byCategory map[string]uint64
}

// SinkStats reports delivery for one sink.
type SinkStats struct {
	Name      string `json:"name"`
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
	Backlog   uint64 `json:"backlogDrops"`
}

type RouterStats struct {
	EventsTotal   uint64            `json:"eventsTotal"`
	DroppedTotal  uint64            `json:"droppedTotal"`
	FilteredTotal uint64            `json:"filteredTotal"`
	ByCategory    map[string]uint64 `json:"byCategory,omitempty"`
	Sinks         []SinkStats       `json:"sinks,omitempty"`
}

func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink) (*Router, error) {
	if clock == nil {
		clock = SystemClock
	}
	cfg = cfg.normalized()
	size := cfg.BufferSize
	r := &Router{
		cfg:        cfg,
		clock:      clock,
		fallback:   log.New(os.Stderr, "[logging] ", log.LstdFlags),
		fields:     cfg.Fields,
		queue:      make(chan Event, size),
		byCategory: make(map[string]uint64),
	}
	backlog := min(max(size, minSinkBacklog), maxSinkBacklog)
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.workers = append(r.workers, &sinkWorker{
			name:     named.Name,
			sink:     named.Sink,
			events:   make(chan Event, backlog),
			fallback: r.fallback,
		})
	}

	r.done.Add(1 + len(r.workers))
	go r.dispatch()
	for _, w := range r.workers {
		go func(w *sinkWorker) {
			defer r.done.Done()
			w.run()
		}(w)
	}
	return r, nil
}

// dispatch stamps and filters queued events until Close closes the queue,
// then releases the sink workers.
func (r *Router) dispatch() {
	defer r.done.Done()
	for event := range r.queue {
		if event.Severity < r.cfg.MinimumSeverity {
			r.filtered.Add(1)
			continue
		}
		if event.Time.IsZero() {
			event.Time = r.clock.Now()
		}
		event = mergeFields(event, r.fields)
		r.forwarded.Add(1)
		r.countCategory(event.Category)
		for _, w := range r.workers {
			w.offer(event)
		}
	}
	for _, w := range r.workers {
		close(w.events)
	}
}

func (r *Router) countCategory(category string) {
	if category == "" {
		category = "uncategorized"
	}
	r.catMu.Lock()
	r.byCategory[category]++
	r.catMu.Unlock()
}

// Publish implements Publisher.
func (r *Router) Publish(ctx context.Context, event Event) {
	if event.Type == "" {
		return
	}
	r.gate.RLock()
	defer r.gate.RUnlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.drop(event)
	}
}

// drop counts an event the queue had no room for and warns at most once per
// DropWarnInterval.
func (r *Router) drop(event Event) {
	r.dropped.Add(1)
	interval := r.cfg.DropWarnInterval
	now := r.clock.Now().UnixNano()
	next := r.nextWarn.Load()
	if now < next || !r.nextWarn.CompareAndSwap(next, now+interval.Nanoseconds()) {
		return
	}
	r.fallback.Printf("queue full, dropping %s at tick %d (%d dropped so far)", event.Type, event.Tick, r.dropped.Load())
}

// Close stops accepting events, delivers what is queued and closes the sinks.
// Calling it again is a no-op.
func (r *Router) Close(ctx context.Context) error {
	r.gate.Lock()
	if r.closed {
		r.gate.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.gate.Unlock()

	flushed := make(chan struct{})
	go func() {
		r.done.Wait()
		close(flushed)
	}()
	select {
	case <-flushed:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, w := range r.workers {
		if err := w.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats snapshots the delivery counters.
func (r *Router) Stats() RouterStats {
	stats := RouterStats{
		EventsTotal:   r.forwarded.Load(),
		DroppedTotal:  r.dropped.Load(),
		FilteredTotal: r.filtered.Load(),
	}
	r.catMu.Lock()
	if len(r.byCategory) > 0 {
		stats.ByCategory = make(map[string]uint64, len(r.byCategory))
		for k, v := range r.byCategory {
			stats.ByCategory[k] = v
		}
	}
	r.catMu.Unlock()
	for _, w := range r.workers {
		stats.Sinks = append(stats.Sinks, SinkStats{
			Name:      w.name,
			Delivered: w.delivered.Load(),
			Failed:    w.failed.Load(),
			Backlog:   w.overflow.Load(),
		})
	}
	sort.Slice(stats.Sinks, func(i, j int) bool { return stats.Sinks[i].Name < stats.Sinks[j].Name })
	return stats
}

// Sink returns the sink registered under name, or nil.
func (r *Router) Sink(name string) Sink {
	for _, w := range r.workers {
		if w.name == name {
			return w.sink
		}
	}
	return nil
}

// sinkWorker owns one sink. A failing sink is retried with exponential
// backoff so a broken file does not spin the worker.
type sinkWorker struct {
	name     string
	sink     Sink
	events   chan Event
	fallback *log.Logger

	failures  int
	holdUntil time.Time

	delivered atomic.Uint64
	failed    atomic.Uint64
	overflow  atomic.Uint64
}

func (w *sinkWorker) offer(event Event) {
	select {
	case w.events <- cloneEvent(event):
	default:
		w.overflow.Add(1)
		w.fallback.Printf("sink %s backlog full, dropping %s", w.name, event.Type)
	}
}

func (w *sinkWorker) run() {
	for event := range w.events {
		if wait := time.Until(w.holdUntil); wait > 0 {
			time.Sleep(wait)
		}
		if err := w.sink.Write(event); err != nil {
			w.failed.Add(1)
			delay := retryDelay(w.failures)
			w.failures++
			w.holdUntil = time.Now().Add(delay)
			w.fallback.Printf("sink %s failed: %v (retry in %s)", w.name, err, delay)
			continue
		}
		w.delivered.Add(1)
		w.failures = 0
		w.holdUntil = time.Time{}
	}
}

// retryDelay doubles from 2s and caps at 64s.
func retryDelay(failures int) time.Duration {
	shift := min(failures+1, maxRetryShift+1)
	return time.Duration(1<<shift) * time.Second
}
