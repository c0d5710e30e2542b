package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/feirinha-app/feirinha-backend/pkg/logger"
)

const staleListMessage = "abandoned: never processed"

type staleListFailer interface {
	FailOlderThan(ctx context.Context, cutoff time.Time, message string) (int64, error)
}

// StaleListsJobParams configure the stale list cleanup.
type StaleListsJobParams struct {
	Logger    *logger.Logger
	Lists     staleListFailer
	StaleDays int
}

type staleListsJob struct {
	logg      *logger.Logger
	lists     staleListFailer
	staleDays int
	now       func() time.Time
}

// NewStaleListsJob builds the job that fails pending lists no worker ever
// finished, so they stop being picked up forever.
func NewStaleListsJob(params StaleListsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lists == nil {
		return nil, fmt.Errorf("list repository required")
	}
	staleDays := params.StaleDays
	if staleDays <= 0 {
		staleDays = 7
	}
	return &staleListsJob{
		logg:      params.Logger,
		lists:     params.Lists,
		staleDays: staleDays,
		now:       time.Now,
	}, nil
}

func (j *staleListsJob) Name() string { return "stale-lists" }

func (j *staleListsJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.staleDays)
	moved, err := j.lists.FailOlderThan(ctx, cutoff, staleListMessage)
	if err != nil {
		return fmt.Errorf("fail stale lists: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": moved, "cutoff": cutoff})
	j.logg.Info(logCtx, "stale list sweep complete")
	return nil
}
