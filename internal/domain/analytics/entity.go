package analytics

import "time"

// WorkloadRow is one workload entry of the analyzed week joined with its
// employee and project.
type WorkloadRow struct {
	EmployeeID      int64
	EmployeeName    string
	EmployeeActive  bool
	DepartmentID    *int64
	DepartmentName  *string
	ProjectID       int64
	ProjectName     string
	WeekStartDate   time.Time
	WorkloadPercent int
	TasksCompleted  int
	TasksOverdue    int
}

// Metrics are the aggregate figures derived from a set of workload rows.
type Metrics struct {
	Completed   int
	Overdue     int
	TotalTasks  int
	AvgWorkload float64
	Efficiency  float64
}

// DepartmentAggregate holds the rolled-up metrics of one top-level department.
type DepartmentAggregate struct {
	DepartmentID   int64
	DepartmentName string
	ParentID       *int64
	EmployeesCount int
	Metrics        Metrics
}
