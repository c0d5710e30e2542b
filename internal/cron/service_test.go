package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/feirinha-app/feirinha-backend/pkg/logger"
	"github.com/feirinha-app/feirinha-backend/pkg/metrics"
)

type fakeLock struct {
	grant    bool
	acquired int
	released int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquired++
	return f.grant, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.released++
	return nil
}

type recordingJob struct {
	name string
	runs int
	err  error
}

func (j *recordingJob) Name() string { return j.name }

func (j *recordingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func newCronService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Logger:   logg,
		Registry: NewRegistry(jobs...),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(nil),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRunCycleRunsEveryJobAndReleasesLock(t *testing.T) {
	lock := &fakeLock{grant: true}
	first := &recordingJob{name: "first"}
	second := &recordingJob{name: "second", err: errors.New("boom")}
	third := &recordingJob{name: "third"}
	svc := newCronService(t, lock, first, second, third)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if first.runs != 1 || second.runs != 1 || third.runs != 1 {
		t.Fatalf("expected every job to run once, got %d/%d/%d", first.runs, second.runs, third.runs)
	}
	if lock.released != 1 {
		t.Fatalf("expected the lock released once, got %d", lock.released)
	}
}

func TestRunCycleSkipsWhenLockIsHeld(t *testing.T) {
	lock := &fakeLock{grant: false}
	job := &recordingJob{name: "noop"}
	svc := newCronService(t, lock, job)

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatal("a held lock must skip the whole cycle")
	}
	if lock.released != 0 {
		t.Fatal("an unacquired lock must not be released")
	}
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &recordingJob{name: "real"}, nil)
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected 1 job, got %d", got)
	}
}
