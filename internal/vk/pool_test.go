package vk

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

type captureExecutor struct {
	codes []string
	err   error
}

func (c *captureExecutor) Execute(ctx context.Context, code string) error {
	c.codes = append(c.codes, code)
	return c.err
}

func textCall(i int) Call {
	return Call{Method: "messages.send", Args: map[string]any{"i": i}}
}

func TestExecutePool_FlushBatchLimitAndOrder(t *testing.T) {
	t.Parallel()

	exec := &captureExecutor{}
	pool := NewExecutePool(exec, time.Second)

	for i := 0; i < 30; i++ {
		pool.Enqueue(textCall(i))
	}

	pool.flush(context.Background())
	pool.flush(context.Background())

	if len(exec.codes) != 2 {
		t.Fatalf("want 2 batches, got %d", len(exec.codes))
	}

	first := exec.codes[0]
	if strings.Count(first, "API.messages.send") != 25 {
		t.Fatalf("first batch should hold 25 calls: %s", first)
	}

	second := exec.codes[1]
	if strings.Count(second, "API.messages.send") != 5 {
		t.Fatalf("second batch should hold the remaining 5 calls: %s", second)
	}

	// Enqueue order must survive within and across flushes.
	all := first + second

	last := -1
	for i := 0; i < 30; i++ {
		idx := strings.Index(all, fmt.Sprintf(`{"i":%d}`, i))
		if idx < 0 {
			t.Fatalf("call %d missing from flushed batches", i)
		}
		if idx < last {
			t.Fatalf("call %d flushed out of order", i)
		}
		last = idx
	}
}

func TestExecutePool_FlushEmptyQueueSubmitsNothing(t *testing.T) {
	t.Parallel()

	exec := &captureExecutor{}
	pool := NewExecutePool(exec, time.Second)

	pool.flush(context.Background())

	if len(exec.codes) != 0 {
		t.Fatalf("empty queue must not submit, got %d batches", len(exec.codes))
	}
}

func TestExecutePool_BatchPayloadShape(t *testing.T) {
	t.Parallel()

	exec := &captureExecutor{}
	pool := NewExecutePool(exec, time.Second)

	pool.Enqueue(textCall(1))
	pool.Enqueue(textCall(2))

	pool.flush(context.Background())

	if len(exec.codes) != 1 {
		t.Fatalf("want 1 batch, got %d", len(exec.codes))
	}

	code := exec.codes[0]
	if !strings.HasPrefix(code, "return [") || !strings.HasSuffix(code, "];") {
		t.Fatalf("batch payload shape mismatch: %s", code)
	}
}

func TestExecutePool_FailedBatchIsDropped(t *testing.T) {
	t.Parallel()

	exec := &captureExecutor{err: fmt.Errorf("boom")}
	pool := NewExecutePool(exec, time.Second)

	pool.Enqueue(textCall(1))
	pool.flush(context.Background())

	// At-most-once: the failed batch is not requeued.
	pool.flush(context.Background())

	if len(exec.codes) != 1 {
		t.Fatalf("failed batch must not be retried, got %d submissions", len(exec.codes))
	}
}
