package analytics

import (
	"context"
	"time"
)

// WeekResolver resolves the week every analytics call operates on.
type WeekResolver interface {
	LatestWeek(ctx context.Context) (time.Time, error)
}

// AnalyticsService defines the dashboard and KPI operations
type AnalyticsService interface {
	// GetDashboard composes overall stats, departments, top performers and problems
	GetDashboard(ctx context.Context) (DashboardResponse, error)

	GetOverallStats(ctx context.Context) (OverallStats, error)
	GetDepartmentStats(ctx context.Context) (DepartmentStatsResponse, error)
	GetTopPerformers(ctx context.Context, limit int) (TopPerformersResponse, error)
	GetProblemAreas(ctx context.Context) ([]ProblemArea, error)

	// GetLowEfficiencyEmployees lists active employees with tasks and efficiency below threshold
	GetLowEfficiencyEmployees(ctx context.Context, threshold float64) ([]LowEfficiencyEmployee, error)

	GetEmployeeAnalytics(ctx context.Context, employeeID int64) (EmployeeAnalytics, error)

	// RecalculateKPIs replaces the stored KPI snapshot of the latest week
	RecalculateKPIs(ctx context.Context) (KPIRecalculationResult, error)
}
