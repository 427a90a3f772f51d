package analytics

import (
	"context"
	"time"
)

type AnalyticsRepository interface {
	// WeekRows returns every workload entry of week joined with employee and project.
	WeekRows(ctx context.Context, week time.Time) ([]WorkloadRow, error)

	// EmployeeWeekRows returns the entries of one employee for week.
	EmployeeWeekRows(ctx context.Context, employeeID int64, week time.Time) ([]WorkloadRow, error)

	CountActiveEmployees(ctx context.Context) (int64, error)
	CountProjectsInProgress(ctx context.Context) (int64, error)
}
