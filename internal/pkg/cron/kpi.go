package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
)

const JobRecalculateKPIs = "recalculate_kpi_metrics"

// KPIJobs refreshes the stored KPI snapshot of the latest analyzed week.
type KPIJobs struct {
	analyticsService analytics.AnalyticsService
}

func NewKPIJobs(analyticsService analytics.AnalyticsService) *KPIJobs {
	return &KPIJobs{analyticsService: analyticsService}
}

func (j *KPIJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobRecalculateKPIs, interval, j.RecalculateKPIs)
}

// RecalculateKPIs is a no-op until workload entries exist.
func (j *KPIJobs) RecalculateKPIs(ctx context.Context) error {
	result, err := j.analyticsService.RecalculateKPIs(ctx)
	if errors.Is(err, analytics.ErrNoData) {
		slog.Info("Cron: no workload data, skipping KPI recalculation")
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Cron: KPI metrics recalculated", "week", result.WeekAnalyzed, "inserted", result.Inserted)
	return nil
}
