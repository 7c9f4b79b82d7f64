// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-fin-keeper/internal/logger"
)

type Workers struct {
	workers []namedWorker
	logger  *logger.Logger
}

type namedWorker struct {
	name   string
	worker Worker
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers w under name. Workers added after Run has started are not
// run.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.workers = append(w.workers, namedWorker{name: name, worker: worker})
	return w
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned. Workers are expected to return once ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	for _, nw := range w.workers {
		g.Go(func() error {
			w.logger.Info().Str("worker", nw.name).Msg("worker started")
			nw.worker.Run(ctx)
			w.logger.Info().Str("worker", nw.name).Msg("worker stopped")
			return nil
		})
	}

	_ = g.Wait()
}
