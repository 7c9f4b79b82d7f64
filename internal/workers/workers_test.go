// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

// blockingWorker counts starts and blocks until its context is cancelled.
type blockingWorker struct {
	started atomic.Int32
	stopped atomic.Int32
}

func (b *blockingWorker) Run(ctx context.Context) {
	b.started.Add(1)
	<-ctx.Done()
	b.stopped.Add(1)
}

func TestWorkers_RunsAllConcurrently(t *testing.T) {
	w1, w2, w3 := &blockingWorker{}, &blockingWorker{}, &blockingWorker{}
	ws := NewWorkers(logger.Nop()).Add("one", w1).Add("two", w2).Add("three", w3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return w1.started.Load() == 1 && w2.started.Load() == 1 && w3.started.Load() == 1
	}, time.Second, 5*time.Millisecond, "blocking workers must not serialise each other")

	select {
	case <-done:
		t.Fatal("Run returned before cancellation")
	default:
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	for i, w := range []*blockingWorker{w1, w2, w3} {
		assert.Equal(t, int32(1), w.stopped.Load(), "worker %d", i)
	}
}

func TestWorkers_ReturnsWhenAllWorkersFinish(t *testing.T) {
	var calls atomic.Int32
	quick := WorkerFunc(func(context.Context) { calls.Add(1) })

	ws := NewWorkers(logger.Nop()).Add("a", quick).Add("b", quick)
	ws.Run(context.Background())

	assert.Equal(t, int32(2), calls.Load())
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers(logger.Nop())

	// Should not block or panic on an empty workers list
	ws.Run(context.Background())
}
