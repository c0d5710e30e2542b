package lists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/feirinha-app/feirinha-backend/pkg/config"
	"github.com/feirinha-app/feirinha-backend/pkg/logger"
)

type pendingLister interface {
	FindPendingIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type listProcessor interface {
	Process(ctx context.Context, listID uuid.UUID) error
}

// Worker polls for pending lists and processes them on a bounded pool.
// Lists run independently of each other; lines within a list stay
// sequential inside the processor.
type Worker struct {
	lists     pendingLister
	processor listProcessor
	logg      *logger.Logger

	interval    time.Duration
	concurrency int
	batchSize   int
}

// NewWorker builds a poll worker from the runtime configuration.
func NewWorker(lists pendingLister, processor listProcessor, cfg config.WorkerConfig, logg *logger.Logger) (*Worker, error) {
	if lists == nil {
		return nil, errors.New("list repository required")
	}
	if processor == nil {
		return nil, errors.New("processor required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = concurrency
	}
	return &Worker{
		lists:       lists,
		processor:   processor,
		logg:        logg,
		interval:    interval,
		concurrency: concurrency,
		batchSize:   batchSize,
	}, nil
}

// Run polls until the context is done. Poll errors are logged and retried
// on the next tick rather than stopping the worker.
func (w *Worker) Run(ctx context.Context) error {
	w.logg.Info(ctx, fmt.Sprintf("list worker polling every %s with concurrency %d", w.interval, w.concurrency))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.Drain(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logg.Error(ctx, "poll cycle failed", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain processes one batch of pending lists and returns when the batch is
// done. Individual list failures are already recorded on the list row, so
// they do not interrupt the batch.
func (w *Worker) Drain(ctx context.Context) error {
	ids, err := w.lists.FindPendingIDs(ctx, w.batchSize)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.concurrency)
	for _, id := range ids {
		listID := id
		group.Go(func() error {
			if err := w.processor.Process(groupCtx, listID); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				w.logg.Error(w.logg.WithListID(groupCtx, listID.String()), "list processing error", err)
			}
			return nil
		})
	}
	return group.Wait()
}
