package report

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/staffpulse/analytics-api/internal/pkg/export"
)

// toTable flattens a generated report into the string grid renderers consume.
func toTable(r report.Report) export.Table {
	table := export.Table{
		Title:       r.Metadata.ReportType.Title() + " report, week " + r.Metadata.WeekAnalyzed,
		GeneratedAt: r.Metadata.GeneratedAt,
	}

	switch data := r.Data.(type) {
	case []report.EmployeeRow:
		table.Headers = []string{"ID", "Full name", "Department", "Position", "Email", "Phone", "Hire date", "Active", "Avg workload %", "Tasks completed", "Tasks overdue", "Efficiency %"}
		table.Numeric = export.NumericColumns(len(table.Headers), 0, 8, 9, 10, 11)
		table.Rows = lo.Map(data, func(row report.EmployeeRow, _ int) []string {
			return []string{
				itoa64(row.ID), row.FullName, row.Department, row.Position, row.Email, row.Phone, row.HireDate, row.IsActive,
				strconv.Itoa(row.AvgWorkload), strconv.Itoa(row.TasksCompleted), strconv.Itoa(row.TasksOverdue), strconv.Itoa(row.Efficiency),
			}
		})
	case []report.WorkloadRow:
		table.Headers = []string{"Employee", "Department", "Position", "Avg workload %", "Tasks completed", "Tasks overdue", "Efficiency %", "Projects"}
		table.Numeric = export.NumericColumns(len(table.Headers), 3, 4, 5, 6)
		table.Rows = lo.Map(data, func(row report.WorkloadRow, _ int) []string {
			projects := lo.Map(row.Projects, func(p report.WorkloadProject, _ int) string { return p.Project })
			return []string{
				row.Employee, row.Department, row.Position,
				strconv.Itoa(row.AvgWorkload), strconv.Itoa(row.TotalCompleted), strconv.Itoa(row.TotalOverdue), strconv.Itoa(row.Efficiency),
				strings.Join(projects, ", "),
			}
		})
	case []report.KPIRow:
		table.Headers = []string{"ID", "Employee", "Department", "Position", "Avg workload %", "Tasks completed", "Tasks overdue", "Efficiency %"}
		table.Numeric = export.NumericColumns(len(table.Headers), 0, 4, 5, 6, 7)
		table.Rows = lo.Map(data, func(row report.KPIRow, _ int) []string {
			return []string{
				itoa64(row.EmployeeID), row.Employee, row.Department, row.Position,
				strconv.Itoa(row.AvgWorkload), strconv.Itoa(row.TasksCompleted), strconv.Itoa(row.TasksOverdue), strconv.Itoa(row.Efficiency),
			}
		})
	case []report.DepartmentRow:
		table.Headers = []string{"ID", "Department", "Employees", "Avg workload %", "Efficiency %", "Tasks completed", "Tasks overdue"}
		table.Numeric = export.NumericColumns(len(table.Headers), 0, 2, 3, 4, 5, 6)
		table.Rows = lo.Map(data, func(row report.DepartmentRow, _ int) []string {
			return []string{
				itoa64(row.DepartmentID), row.Department, strconv.Itoa(row.EmployeesCount),
				strconv.Itoa(row.AvgWorkload), strconv.Itoa(row.Efficiency), strconv.Itoa(row.TasksCompleted), strconv.Itoa(row.TasksOverdue),
			}
		})
	case []report.RiskRow:
		table.Headers = []string{"Risk", "Employee ID", "Employee", "Department", "Value %", "Recommendation"}
		table.Numeric = export.NumericColumns(len(table.Headers), 1, 4)
		table.Rows = lo.Map(data, func(row report.RiskRow, _ int) []string {
			return []string{row.Type, itoa64(row.EmployeeID), row.Employee, row.Department, strconv.Itoa(row.Value), row.Recommendation}
		})
	}

	return table
}

func itoa64(v int64) string {
	return strconv.FormatInt(v, 10)
}
