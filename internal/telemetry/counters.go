package telemetry

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Counter keys recorded by the simulation.
const (
	KeyClicks           = "clicks"
	KeyClicksRejected   = "clicks_rejected"
	KeyPathsComputed    = "paths_computed"
	KeyPathsFailed      = "paths_failed"
	KeyNodesExpanded    = "nodes_expanded"
	KeyStuckRecoveries  = "stuck_recoveries"
	KeyActions          = "actions"
	KeyGatesOpened      = "gates_opened"
	KeyAttacks          = "attacks"
	KeyResets           = "resets"
	KeyTicks            = "ticks"
	KeyTickDurationMs   = "tick_duration_ms"
	KeyCommandsDropped  = "commands_dropped"
	KeyCommandsQueued   = "command_buffer_occupancy"
	KeyConnectedClients = "connected_clients"
)

// Counters is a concurrent set of named counters.
type Counters struct {
	mu     sync.RWMutex
	values map[string]*atomic.Uint64
}

func NewCounters() *Counters {
	return &Counters{values: make(map[string]*atomic.Uint64)}
}

func (c *Counters) counter(key string) *atomic.Uint64 {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok = c.values[key]; ok {
		return v
	}
	v = &atomic.Uint64{}
	c.values[key] = v
	return v
}

// Add implements Metrics.
func (c *Counters) Add(key string, delta uint64) {
	if c == nil {
		return
	}
	c.counter(key).Add(delta)
}

// Store implements Metrics.
func (c *Counters) Store(key string, value uint64) {
	if c == nil {
		return
	}
	c.counter(key).Store(value)
}

// RecordTickDuration stores the last tick duration in milliseconds.
func (c *Counters) RecordTickDuration(d time.Duration) {
	millis := d.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	c.Store(KeyTickDurationMs, uint64(millis))
}

// Value returns the current value of key.
func (c *Counters) Value(key string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.values[key]; ok {
		return v.Load()
	}
	return 0
}

// Snapshot copies every counter.
func (c *Counters) Snapshot() map[string]uint64 {
	out := make(map[string]uint64)
	if c == nil {
		return out
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.values {
		out[k] = v.Load()
	}
	return out
}

// Keys lists the recorded counter names in order.
func (c *Counters) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
