package lists

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/feirinha-app/feirinha-backend/pkg/config"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
)

type fakePendingLister struct {
	ids []uuid.UUID
}

func (f *fakePendingLister) FindPendingIDs(_ context.Context, limit int) ([]uuid.UUID, error) {
	if limit > 0 && limit < len(f.ids) {
		return f.ids[:limit], nil
	}
	return f.ids, nil
}

type countingProcessor struct {
	mu        sync.Mutex
	processed []uuid.UUID
	inFlight  int
	peak      int
}

func (c *countingProcessor) Process(_ context.Context, listID uuid.UUID) error {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.processed = append(c.processed, listID)
	c.mu.Unlock()
	return nil
}

func TestDrainProcessesEveryPendingList(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	proc := &countingProcessor{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	w, err := NewWorker(&fakePendingLister{ids: ids}, proc, config.WorkerConfig{
		Concurrency: 2,
		BatchSize:   10,
	}, logg)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(proc.processed) != len(ids) {
		t.Fatalf("expected %d processed lists, got %d", len(ids), len(proc.processed))
	}
	if proc.peak > 2 {
		t.Fatalf("concurrency limit exceeded: peak %d", proc.peak)
	}
}

func TestDrainRespectsBatchSize(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	proc := &countingProcessor{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	w, err := NewWorker(&fakePendingLister{ids: ids}, proc, config.WorkerConfig{
		Concurrency: 4,
		BatchSize:   2,
	}, logg)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	if err := w.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(proc.processed) != 2 {
		t.Fatalf("expected the batch cap to hold, got %d", len(proc.processed))
	}
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	proc := &countingProcessor{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	w, err := NewWorker(&fakePendingLister{}, proc, config.WorkerConfig{
		PollInterval: 10 * time.Millisecond,
		Concurrency:  1,
	}, logg)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(25 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
}
