package ingestor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/ports"
)

// BatchRunner refreshes a fixed list of fields on an interval. Fields are
// fetched concurrently, bounded by a semaphore so the upstream service is not
// overwhelmed.
type BatchRunner struct {
	svc           ports.IngestorService
	fields        []string
	interval      time.Duration
	maxConcurrent int
	log           *zap.Logger
}

// NewBatchRunner creates a batch runner. maxConcurrent below 1 is clamped to 1.
func NewBatchRunner(svc ports.IngestorService, fields []string, interval time.Duration, maxConcurrent int, log *zap.Logger) *BatchRunner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &BatchRunner{
		svc:           svc,
		fields:        fields,
		interval:      interval,
		maxConcurrent: maxConcurrent,
		log:           log,
	}
}

// Run blocks until ctx is cancelled, refreshing all configured fields once
// per interval. The first pass runs immediately.
func (r *BatchRunner) Run(ctx context.Context) {
	r.log.Info("Starting batch refresh",
		zap.Int("fields", len(r.fields)),
		zap.Duration("interval", r.interval),
		zap.Int("max_concurrent", r.maxConcurrent),
	)

	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Batch refresh stopped")
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce refreshes every configured field a single time. Each field failure
// is logged and isolated; one bad field never blocks the rest of the batch.
func (r *BatchRunner) RunOnce(ctx context.Context) {
	sem := make(chan struct{}, r.maxConcurrent)
	var wg sync.WaitGroup

	for _, fieldID := range r.fields {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := r.svc.Refresh(ctx, id); err != nil {
				r.log.Error("Batch refresh failed for field",
					zap.String("field_id", id),
					zap.Error(err),
				)
			}
		}(fieldID)
	}

	wg.Wait()
}
