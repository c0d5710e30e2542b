package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/feirinha-app/feirinha-backend/pkg/logger"
)

type fakeStaleFailer struct {
	cutoff  time.Time
	message string
	moved   int64
	err     error
}

func (f *fakeStaleFailer) FailOlderThan(_ context.Context, cutoff time.Time, message string) (int64, error) {
	f.cutoff = cutoff
	f.message = message
	return f.moved, f.err
}

func TestStaleListsJobUsesConfiguredCutoff(t *testing.T) {
	failer := &fakeStaleFailer{moved: 3}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	job, err := NewStaleListsJob(StaleListsJobParams{Logger: logg, Lists: failer, StaleDays: 10})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	job.(*staleListsJob).now = func() time.Time { return fixed }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := fixed.AddDate(0, 0, -10)
	if !failer.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, failer.cutoff)
	}
	if failer.message == "" {
		t.Fatal("expected a failure message for swept lists")
	}
}

func TestStaleListsJobPropagatesErrors(t *testing.T) {
	failer := &fakeStaleFailer{err: errors.New("db down")}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	job, err := NewStaleListsJob(StaleListsJobParams{Logger: logg, Lists: failer})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected the repository error to propagate")
	}
}
