package workload

import (
	"context"
	"time"
)

type WorkloadRepository interface {
	// LatestWeek returns MAX(week_start_date), or nil when there are no entries.
	LatestWeek(ctx context.Context) (*time.Time, error)

	Get(ctx context.Context, employeeID, projectID int64, week time.Time) (Entry, error)
	ListMembers(ctx context.Context, projectID int64, week time.Time) ([]MemberEntry, error)
	Create(ctx context.Context, e Entry) (Entry, error)

	// UpdateCounters overwrites workload and task counters of an existing entry.
	UpdateCounters(ctx context.Context, e Entry) (Entry, error)

	Delete(ctx context.Context, employeeID, projectID int64, week time.Time) error
}

type KPIRepository interface {
	DeletePeriod(ctx context.Context, period time.Time) (int64, error)
	InsertBatch(ctx context.Context, metrics []KPIMetric) (int64, error)

	// History returns stored values of one metric for an employee, oldest first.
	History(ctx context.Context, employeeID int64, metricName string) ([]KPIMetric, error)
}
