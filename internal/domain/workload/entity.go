package workload

import "time"

// Entry is one employee's weekly allocation to a project.
type Entry struct {
	ID              int64
	EmployeeID      int64
	ProjectID       int64
	WeekStartDate   time.Time
	WorkloadPercent int
	TasksCompleted  int
	TasksOverdue    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MemberEntry is an entry joined with its employee.
type MemberEntry struct {
	Entry
	FullName     string
	Email        string
	DepartmentID *int64
	PositionID   *int64
}

const (
	MetricEfficiency     = "efficiency"
	MetricAvgWorkload    = "avg_workload"
	MetricTasksCompleted = "tasks_completed"
)

// KPIMetric is a stored snapshot of one employee metric for a period.
type KPIMetric struct {
	ID          int64
	EmployeeID  int64
	MetricName  string
	MetricValue float64
	Period      time.Time
}

// WeekStart returns the Monday of t's week at midnight UTC.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
