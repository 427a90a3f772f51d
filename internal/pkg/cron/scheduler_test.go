package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var calls []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	s.AddJob("disabled", 0, func(ctx context.Context) error {
		calls = append(calls, "disabled")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "second")
		return nil
	})

	assert.Equal(t, []string{"first", "second"}, s.Jobs())

	err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "job first: boom")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after Stop")
}

type fakeAnalytics struct {
	analytics.AnalyticsService
	result analytics.KPIRecalculationResult
	err    error
	calls  int
}

func (f *fakeAnalytics) RecalculateKPIs(ctx context.Context) (analytics.KPIRecalculationResult, error) {
	f.calls++
	return f.result, f.err
}

func TestKPIJobs(t *testing.T) {
	svc := &fakeAnalytics{err: analytics.ErrNoData}
	jobs := NewKPIJobs(svc)

	s := NewScheduler()
	jobs.RegisterJobs(s, time.Hour)
	require.Equal(t, []string{JobRecalculateKPIs}, s.Jobs())

	assert.NoError(t, s.RunOnce(context.Background()), "missing data is not a failure")

	svc.err = errors.New("db down")
	assert.ErrorContains(t, s.RunOnce(context.Background()), "db down")

	svc.err = nil
	svc.result = analytics.KPIRecalculationResult{WeekAnalyzed: "2024-05-06", Inserted: 9}
	assert.NoError(t, jobs.RecalculateKPIs(context.Background()))
	assert.Equal(t, 3, svc.calls)
}
