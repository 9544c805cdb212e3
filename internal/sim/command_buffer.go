package sim

import (
	"sync"

	"github.com/zyedidia/generic/queue"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
)

// CommandBuffer is a bounded FIFO of staged input. Websocket readers push from
// their own goroutines; only the loop drains.
type CommandBuffer struct {
	mu       sync.Mutex
	pending  *queue.Queue[Command]
	size     int
	capacity int
	metrics  telemetry.Metrics
}

// NewCommandBuffer holds at most capacity commands between drains.
func NewCommandBuffer(capacity int, metrics telemetry.Metrics) *CommandBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &CommandBuffer{
		pending:  queue.New[Command](),
		capacity: capacity,
		metrics:  metrics,
	}
}

// Capacity reports the bound given at construction.
func (b *CommandBuffer) Capacity() int {
	if b == nil {
		return 0
	}
	return b.capacity
}

// Push stages cmd. A full buffer refuses it and counts the drop.
func (b *CommandBuffer) Push(cmd Command) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size >= b.capacity {
		b.metrics.Add(telemetry.KeyCommandsDropped, 1)
		return false
	}
	b.pending.Enqueue(cmd)
	b.size++
	b.metrics.Store(telemetry.KeyCommandsQueued, uint64(b.size))
	return true
}

// Drain hands back everything staged since the last drain, oldest first.
func (b *CommandBuffer) Drain() []Command {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.size == 0 {
		return nil
	}
	out := make([]Command, 0, b.size)
	for !b.pending.Empty() {
		out = append(out, b.pending.Dequeue())
	}
	b.size = 0
	b.metrics.Store(telemetry.KeyCommandsQueued, 0)
	return out
}

// Len reports how many commands wait for the next tick.
func (b *CommandBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}
