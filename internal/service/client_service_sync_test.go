// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-fin-keeper/internal/adapter"
	"github.com/MKhiriev/go-fin-keeper/internal/events"
	"github.com/MKhiriev/go-fin-keeper/models"
)

func enqueueTx(t *testing.T, f *facadeFixture, item models.SyncQueueItem) int64 {
	t.Helper()
	item.Type = models.ResourceTransaction
	if item.NextAttemptAt.IsZero() {
		item.NextAttemptAt = time.Now().Add(-time.Second)
	}
	id, err := f.storages.SyncQueue.Enqueue(context.Background(), item)
	require.NoError(t, err)
	return id
}

// ── guards ───────────────────────────────────────────────────────────────────

func TestDrain_OfflineIsSkipped(t *testing.T) {
	f := newFacadeFixture(t, false)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPost, Endpoint: "/transactions"})

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Len(t, f.queue(t), 1)
}

func TestDrain_ReentrancyGuard(t *testing.T) {
	f := newFacadeFixture(t, true)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPost, Endpoint: "/transactions"})
	p := f.processor()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.WriteRequest) (json.RawMessage, error) {
		close(entered)
		<-release
		return nil, nil
	})

	done := make(chan models.DrainReport)
	go func() {
		report, _ := p.Drain(context.Background())
		done <- report
	}()
	<-entered

	report, err := p.Drain(context.Background())
	assert.ErrorIs(t, err, ErrDrainInProgress)
	assert.True(t, report.Skipped)

	close(release)
	assert.Equal(t, 1, (<-done).Synced)

	// the guard is released after the pass
	report, err = p.Drain(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Attempted)
}

// ── ordering ─────────────────────────────────────────────────────────────────

func TestDrain_InsertionOrderAndDueFilter(t *testing.T) {
	f := newFacadeFixture(t, true)
	for i := 1; i <= 3; i++ {
		enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: fmt.Sprintf("/transactions/%d", i)})
	}
	enqueueTx(t, f, models.SyncQueueItem{
		Method:        models.MethodPut,
		Endpoint:      "/transactions/99",
		NextAttemptAt: time.Now().Add(time.Hour),
	})

	var sent []string
	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req models.WriteRequest) (json.RawMessage, error) {
		sent = append(sent, req.Endpoint)
		return nil, nil
	}).Times(3)

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"/transactions/1", "/transactions/2", "/transactions/3"}, sent)
	assert.Equal(t, 3, report.Synced)
	assert.Equal(t, 3, report.SyncedByType[models.ResourceTransaction])
	require.Len(t, f.queue(t), 1, "item not yet due stays queued")
	assert.Equal(t, "/transactions/99", f.queue(t)[0].Endpoint)
}

// ── failures ─────────────────────────────────────────────────────────────────

func TestDrain_TransientFailureReschedules(t *testing.T) {
	f := newFacadeFixture(t, true)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPost, Endpoint: "/transactions", Retries: 2})
	p := f.processor()
	now := time.Now().Truncate(time.Millisecond)
	p.now = func() time.Time { return now }

	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: http 503", adapter.ErrTransient))

	report, err := p.Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Rescheduled)
	items := f.queue(t)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Retries)
	assert.Equal(t, now.Add(8*time.Minute).UnixMilli(), items[0].NextAttemptAt.UnixMilli())
	assert.Contains(t, items[0].LastError, "http 503")
}

func TestDrain_RetryCapAbandons(t *testing.T) {
	f := newFacadeFixture(t, true)
	rec := recordEvents(t, f.bus, events.TopicSyncAbandoned)

	// an offline create that already failed MaxRetries times
	f.online.Store(false)
	res, err := f.api.Transactions.Create(context.Background(), coffee())
	require.NoError(t, err)
	item := f.queue(t)[0]
	require.NoError(t, f.storages.SyncQueue.Reschedule(context.Background(), item.ID, 5, time.Now().Add(-time.Second), "boom"))
	f.online.Store(true)

	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: timeout", adapter.ErrTransient))

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Abandoned)
	assert.Empty(t, f.queue(t))
	assert.Empty(t, f.localTransactions(t), "local copy of an abandoned create is discarded")

	payloads := rec.payloads(events.TopicSyncAbandoned)
	require.Len(t, payloads, 1)
	abandoned := payloads[0].(AbandonedWrite)
	assert.Equal(t, res.Record.TempID, abandoned.Item.LocalRef)
	assert.ErrorIs(t, abandoned.Err, ErrRetriesExhausted)
}

func TestDrain_UnauthorizedAbortsPass(t *testing.T) {
	f := newFacadeFixture(t, true)
	rec := recordEvents(t, f.bus, events.TopicAuthInvalid)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/1"})
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/2"})

	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, adapter.ErrUnauthorized).Times(1)

	report, err := f.processor().Drain(context.Background())

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Equal(t, 1, report.Attempted)
	assert.Len(t, f.queue(t), 2, "nothing is dropped or rescheduled")
	assert.Zero(t, f.queue(t)[0].Retries)
	assert.Equal(t, 1, rec.count(events.TopicAuthInvalid))
}

func TestDrain_ConflictDropsItem(t *testing.T) {
	f := newFacadeFixture(t, true)
	rec := recordEvents(t, f.bus, events.TopicSyncConflict)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodDelete, Endpoint: "/categories/3"})

	conflict := &adapter.ConflictError{Detail: models.ConflictDetail{
		Message:    "category in use",
		References: map[string]int{"transactions": 4},
	}}
	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, conflict)

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Conflicts)
	assert.Empty(t, f.queue(t))
	payloads := rec.payloads(events.TopicSyncConflict)
	require.Len(t, payloads, 1)
	assert.Equal(t, 4, payloads[0].(ConflictedWrite).Detail.References["transactions"])
}

func TestDrain_DeleteNotFoundCountsAsSynced(t *testing.T) {
	f := newFacadeFixture(t, true)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodDelete, Endpoint: "/transactions/5"})

	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("%w: gone", adapter.ErrNotFound))

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Empty(t, f.queue(t))
}

func TestDrain_StopsOnCancelledContext(t *testing.T) {
	f := newFacadeFixture(t, true)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/1"})
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/2"})

	ctx, cancel := context.WithCancel(context.Background())
	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, models.WriteRequest) (json.RawMessage, error) {
		cancel()
		return nil, nil
	}).Times(1)

	report, err := f.processor().Drain(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Synced)
	assert.Len(t, f.queue(t), 1)
}

func TestDrain_TimeoutWithLiveContextIsRescheduled(t *testing.T) {
	f := newFacadeFixture(t, true)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/1"})
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/2"})

	timeout := fmt.Errorf("put request: %w (Client.Timeout exceeded while awaiting headers)", context.DeadlineExceeded)
	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, timeout).Times(2)

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 2, report.Rescheduled)
	for _, item := range f.queue(t) {
		assert.Equal(t, 1, item.Retries, item.Endpoint)
	}
}

// ── reconciliation ───────────────────────────────────────────────────────────

func TestDrain_PublishesDataChangedPerResource(t *testing.T) {
	f := newFacadeFixture(t, true)
	rec := recordEvents(t, f.bus, events.TopicDataChanged)
	enqueueTx(t, f, models.SyncQueueItem{Method: models.MethodPut, Endpoint: "/transactions/1"})
	_, err := f.storages.SyncQueue.Enqueue(context.Background(), models.SyncQueueItem{
		Type:          models.ResourceOther,
		Method:        models.MethodPost,
		Endpoint:      "/settings",
		NextAttemptAt: time.Now().Add(-time.Second),
	})
	require.NoError(t, err)

	f.backend.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	_, err = f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []any{models.ResourceTransaction}, rec.payloads(events.TopicDataChanged))
}

func TestDrain_NoDataChangedWhenNothingSynced(t *testing.T) {
	f := newFacadeFixture(t, true)
	rec := recordEvents(t, f.bus, events.TopicDataChanged)

	report, err := f.processor().Drain(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Attempted)
	assert.Zero(t, rec.count(events.TopicDataChanged))
}

func TestDrain_PutKeepsOverlayWhileLaterEditIsQueued(t *testing.T) {
	f := newFacadeFixture(t, false)
	ctx := context.Background()
	ref := models.RecordRef{ID: 7}

	first := coffee()
	first.Amount = 10
	_, err := f.api.Transactions.Update(ctx, ref, first)
	require.NoError(t, err)
	second := coffee()
	second.Amount = 20
	_, err = f.api.Transactions.Update(ctx, ref, second)
	require.NoError(t, err)
	require.Len(t, f.queue(t), 2)

	p := f.processor()
	items := f.queue(t)

	// reconcile only the first edit
	require.NoError(t, p.complete(ctx, items[0], txJSON(t, 7, first)))

	local := f.localTransactions(t)
	require.Len(t, local, 1, "second edit still owns the overlay")
	assert.InDelta(t, 20, local[0].Amount, 0.001)

	require.NoError(t, p.complete(ctx, items[1], txJSON(t, 7, second)))
	assert.Empty(t, f.localTransactions(t))
	snapshot := f.snapshotTransactions(t)
	require.Len(t, snapshot, 1)
	assert.InDelta(t, 20, snapshot[0].Amount, 0.001)
}

// ── backoff ──────────────────────────────────────────────────────────────────

func TestRetryBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Minute, retryBackoff(1, time.Hour))
	assert.Equal(t, 32*time.Minute, retryBackoff(5, time.Hour))
	assert.Equal(t, time.Hour, retryBackoff(6, time.Hour), "capped")
	assert.Equal(t, time.Minute, retryBackoff(0, time.Hour))
	assert.Equal(t, time.Minute, retryBackoff(-3, time.Hour))

	prev := time.Duration(0)
	for retries := 0; retries <= 64; retries++ {
		d := retryBackoff(retries, 0)
		assert.Positive(t, d, "retries=%d", retries)
		assert.GreaterOrEqual(t, d, prev, "monotonic at retries=%d", retries)
		prev = d
	}
}
