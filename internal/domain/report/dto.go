package report

import (
	"bytes"
	"strings"
	"time"

	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type Type string

const (
	TypeEmployees   Type = "employees"
	TypeWorkload    Type = "workload"
	TypeKPI         Type = "kpi"
	TypeDepartments Type = "departments"
	TypeRisks       Type = "risks"
)

var Types = []Type{TypeEmployees, TypeWorkload, TypeKPI, TypeDepartments, TypeRisks}

// ParseType validates a report type taken from a path or query parameter.
func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", ErrUnsupportedReportType
}

// Title is the human readable report name used in exported files.
func (t Type) Title() string {
	switch t {
	case TypeEmployees:
		return "Employees"
	case TypeWorkload:
		return "Workload"
	case TypeKPI:
		return "KPI"
	case TypeDepartments:
		return "Departments"
	case TypeRisks:
		return "Risks"
	default:
		return string(t)
	}
}

type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatExcel, "xlsx":
		return FormatExcel, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Filter narrows the employee set of a report.
type Filter struct {
	DepartmentIDs   []int64
	PositionIDs     []int64
	ProjectIDs      []int64
	IncludeInactive bool
}

// ExportRequest is the body of POST /reports/export/{report_type}.
type ExportRequest struct {
	Type        Type    `json:"-"`
	Format      string  `json:"format" validate:"required"`
	Departments []int64 `json:"departments"`
	Positions   []int64 `json:"positions"`
	Projects    []int64 `json:"projects"`
	Active      *bool   `json:"active"`
}

func (r *ExportRequest) Validate() error {
	return validator.Struct(r)
}

func (r ExportRequest) Filter() Filter {
	return Filter{
		DepartmentIDs:   r.Departments,
		PositionIDs:     r.Positions,
		ProjectIDs:      r.Projects,
		IncludeInactive: r.Active != nil && !*r.Active,
	}
}

// ExportFile is a rendered report kept in memory.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     *bytes.Buffer
}

type Metadata struct {
	ReportType   Type      `json:"report_type"`
	GeneratedAt  time.Time `json:"generated_at"`
	TotalRecords int       `json:"total_records"`
	WeekAnalyzed string    `json:"week_analyzed"`
}

type Report struct {
	Metadata Metadata `json:"metadata"`
	Data     any      `json:"data"`
}

// ========================================
// REPORT ROWS
// ========================================

type EmployeeRow struct {
	ID             int64  `json:"id"`
	FullName       string `json:"full_name"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	HireDate       string `json:"hire_date"`
	IsActive       string `json:"is_active"`
	AvgWorkload    int    `json:"avg_workload"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksOverdue   int    `json:"tasks_overdue"`
	Efficiency     int    `json:"efficiency"`
}

type WorkloadProject struct {
	ProjectID int64  `json:"project_id"`
	Project   string `json:"project"`
	Workload  int    `json:"workload"`
	Completed int    `json:"completed"`
	Overdue   int    `json:"overdue"`
}

type WorkloadRow struct {
	EmployeeID     int64             `json:"employee_id"`
	Employee       string            `json:"employee"`
	Department     string            `json:"department"`
	Position       string            `json:"position"`
	Projects       []WorkloadProject `json:"projects"`
	AvgWorkload    int               `json:"avg_workload"`
	TotalCompleted int               `json:"total_completed"`
	TotalOverdue   int               `json:"total_overdue"`
	Efficiency     int               `json:"efficiency"`
	ProjectsCount  int               `json:"projects_count"`
}

type KPIRow struct {
	EmployeeID     int64  `json:"employee_id"`
	Employee       string `json:"employee"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	AvgWorkload    int    `json:"avg_workload"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksOverdue   int    `json:"tasks_overdue"`
	Efficiency     int    `json:"efficiency"`
}

type DepartmentRow struct {
	DepartmentID   int64  `json:"department_id"`
	Department     string `json:"department"`
	EmployeesCount int    `json:"employees_count"`
	AvgWorkload    int    `json:"avg_workload"`
	Efficiency     int    `json:"efficiency"`
	TasksCompleted int    `json:"tasks_completed"`
	TasksOverdue   int    `json:"tasks_overdue"`
}

const (
	RiskOverload      = "Overload"
	RiskLowEfficiency = "Low efficiency"
)

type RiskRow struct {
	Type           string `json:"type"`
	EmployeeID     int64  `json:"employee_id"`
	Employee       string `json:"employee"`
	Department     string `json:"department"`
	Value          int    `json:"value"`
	Recommendation string `json:"recommendation"`
}
