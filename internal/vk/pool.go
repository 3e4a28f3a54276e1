package vk

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// The platform caps the number of sub-calls a single execute script
// may contain.
const maxBatchSize = 25

// Executor submits a compiled execute script. *Client implements it.
type Executor interface {
	Execute(ctx context.Context, code string) error
}

// ExecutePool coalesces independently enqueued calls into rate-limited
// execute batches. Enqueue is O(1), never blocks and is safe for
// concurrent callers; ordering follows enqueue order within and across
// flushes. Submission is fire-and-forget: a failed batch is logged and
// dropped (at-most-once delivery for non-critical notifications).
type ExecutePool struct {
	executor Executor
	interval time.Duration

	mu    sync.Mutex
	queue []Call
}

func NewExecutePool(executor Executor, interval time.Duration) *ExecutePool {
	return &ExecutePool{
		executor: executor,
		interval: interval,
	}
}

// Enqueue appends a call to the pool's FIFO queue.
func (p *ExecutePool) Enqueue(c Call) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = append(p.queue, c)
}

// Run flushes the queue on the pool's fixed cadence until ctx is done.
func (p *ExecutePool) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.flush(ctx)
		}
	}
}

func (p *ExecutePool) flush(ctx context.Context) {
	batch := p.take(maxBatchSize)
	if len(batch) == 0 {
		return
	}

	batchID := uuid.NewString()

	err := p.executor.Execute(ctx, compile(batch))
	if err != nil {
		slog.Error("execute batch failed",
			"batch_id", batchID, "calls", len(batch), "error", err)
		return
	}

	slog.Debug("execute batch flushed", "batch_id", batchID, "calls", len(batch))
}

// take removes and returns up to n calls from the head of the queue.
func (p *ExecutePool) take(n int) []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) < n {
		n = len(p.queue)
	}

	batch := p.queue[:n]
	p.queue = p.queue[n:]

	return batch
}

func compile(batch []Call) string {
	codes := make([]string, 0, len(batch))
	for _, c := range batch {
		codes = append(codes, c.Code())
	}

	return "return [" + strings.Join(codes, ",") + "];"
}
