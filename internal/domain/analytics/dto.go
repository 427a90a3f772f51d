package analytics

import "time"

const (
	DefaultTopPerformersLimit     = 5
	DefaultLowEfficiencyThreshold = 60.0
	OverloadThreshold             = 85
)

// ========== Overall ==========

type OverallStats struct {
	TotalEmployees    int64   `json:"total_employees"`
	ActiveProjects    int64   `json:"active_projects"`
	AvgWorkload       int     `json:"avg_workload"`
	OverallEfficiency float64 `json:"overall_efficiency"`
	CompletedTasks    int     `json:"completed_tasks"`
	OverdueTasks      int     `json:"overdue_tasks"`
	WeekAnalyzed      string  `json:"week_analyzed"`
}

// ========== Departments ==========

type DepartmentStat struct {
	DepartmentID   int64   `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	ParentID       *int64  `json:"parent_id"`
	EmployeesCount int     `json:"employees_count"`
	AvgWorkload    int     `json:"avg_workload"`
	Efficiency     float64 `json:"efficiency"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksOverdue   int     `json:"tasks_overdue"`
}

type DepartmentStatsResponse struct {
	WeekAnalyzed string           `json:"week_analyzed"`
	Departments  []DepartmentStat `json:"departments"`
}

// ========== Top performers ==========

type TopPerformer struct {
	ID             int64   `json:"id"`
	FullName       string  `json:"full_name"`
	DepartmentID   *int64  `json:"department_id"`
	Efficiency     float64 `json:"efficiency"`
	AvgWorkload    int     `json:"avg_workload"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksOverdue   int     `json:"tasks_overdue"`
	TotalTasks     int     `json:"total_tasks"`
}

type TopPerformersResponse struct {
	WeekAnalyzed string         `json:"week_analyzed"`
	Top          []TopPerformer `json:"top"`
}

// ========== Problems ==========

const (
	ProblemOverload      = "overload"
	ProblemLowEfficiency = "low_efficiency"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
)

type ProblemArea struct {
	Type        string   `json:"type"`
	Severity    string   `json:"severity"`
	Count       int      `json:"count"`
	Description string   `json:"description"`
	Employees   []string `json:"employees"`
}

type LowEfficiencyEmployee struct {
	ID             int64   `json:"id"`
	FullName       string  `json:"full_name"`
	DepartmentID   *int64  `json:"department_id"`
	DepartmentName string  `json:"department_name"`
	Efficiency     float64 `json:"efficiency"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksOverdue   int     `json:"tasks_overdue"`
}

type LowEfficiencyResponse struct {
	Employees []LowEfficiencyEmployee `json:"employees"`
	Threshold float64                 `json:"threshold"`
	Count     int                     `json:"count"`
}

// ========== Employee ==========

type CurrentWeekStats struct {
	Workload           int     `json:"workload"`
	Efficiency         float64 `json:"efficiency"`
	TasksCompleted     int     `json:"tasks_completed"`
	TasksOverdue       int     `json:"tasks_overdue"`
	TaskCompletionRate int     `json:"task_completion_rate"`
	ActiveProjects     int     `json:"active_projects"`
}

type KPIPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type ProjectContribution struct {
	ProjectID      int64  `json:"project_id"`
	Name           string `json:"name"`
	WorkloadShare  int    `json:"workload_share"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksOverdue   int    `json:"tasks_overdue"`
}

type EmployeeAnalytics struct {
	EmployeeID   int64                 `json:"employee_id"`
	FullName     string                `json:"full_name"`
	WeekAnalyzed string                `json:"week_analyzed"`
	CurrentWeek  CurrentWeekStats      `json:"current_week"`
	KPIHistory   []KPIPoint            `json:"kpi_history"`
	Projects     []ProjectContribution `json:"projects"`
}

// ========== Dashboard ==========

type DashboardResponse struct {
	Overall       OverallStats            `json:"overall"`
	Departments   DepartmentStatsResponse `json:"departments"`
	TopPerformers TopPerformersResponse   `json:"top_performers"`
	Problems      []ProblemArea           `json:"problems"`
	Timestamp     time.Time               `json:"timestamp"`
}

// ========== KPI ==========

type KPIRecalculationResult struct {
	WeekAnalyzed string `json:"week_analyzed"`
	Inserted     int64  `json:"inserted"`
}
