package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
)

type weekResolver struct {
	workloadRepo workload.WorkloadRepository
}

// NewWeekResolver resolves the latest week present in the workload entries.
func NewWeekResolver(workloadRepo workload.WorkloadRepository) analytics.WeekResolver {
	return &weekResolver{workloadRepo: workloadRepo}
}

func (w *weekResolver) LatestWeek(ctx context.Context) (time.Time, error) {
	week, err := w.workloadRepo.LatestWeek(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve latest week: %w", err)
	}
	if week == nil {
		return time.Time{}, analytics.ErrNoData
	}
	return *week, nil
}

// FormatWeek renders a week start date as YYYY-MM-DD.
func FormatWeek(week time.Time) string {
	return week.Format("2006-01-02")
}
