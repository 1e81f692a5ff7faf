package ingestor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/avilaops/canaswarm-intelligence/internal/domain"
	"github.com/avilaops/canaswarm-intelligence/internal/mocks"
)

func TestRunOnceRefreshesAllFields(t *testing.T) {
	var mu sync.Mutex
	refreshed := map[string]int{}
	svc := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			mu.Lock()
			refreshed[fieldID]++
			mu.Unlock()
			return &domain.ClassifiedReport{}, nil
		},
	}

	runner := NewBatchRunner(svc, []string{"F001", "F002", "F003"}, time.Minute, 2, zap.NewNop())
	runner.RunOnce(context.Background())

	for _, id := range []string{"F001", "F002", "F003"} {
		if refreshed[id] != 1 {
			t.Errorf("expected field %s refreshed once, got %d", id, refreshed[id])
		}
	}
}

func TestRunOnceIsolatesFieldFailures(t *testing.T) {
	var mu sync.Mutex
	var succeeded []string
	svc := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			if fieldID == "F002" {
				return nil, errors.New("upstream down")
			}
			mu.Lock()
			succeeded = append(succeeded, fieldID)
			mu.Unlock()
			return &domain.ClassifiedReport{}, nil
		},
	}

	runner := NewBatchRunner(svc, []string{"F001", "F002", "F003"}, time.Minute, 1, zap.NewNop())
	runner.RunOnce(context.Background())

	if len(succeeded) != 2 {
		t.Errorf("expected the other 2 fields to refresh despite F002 failing, got %v", succeeded)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	svc := &mocks.MockIngestorService{
		RefreshFunc: func(ctx context.Context, fieldID string) (*domain.ClassifiedReport, error) {
			return &domain.ClassifiedReport{}, nil
		},
	}

	runner := NewBatchRunner(svc, []string{"F001"}, 10*time.Millisecond, 1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}

func TestNewBatchRunnerClampsConcurrency(t *testing.T) {
	runner := NewBatchRunner(&mocks.MockIngestorService{}, nil, time.Minute, 0, zap.NewNop())
	if runner.maxConcurrent != 1 {
		t.Errorf("expected concurrency clamped to 1, got %d", runner.maxConcurrent)
	}
}
