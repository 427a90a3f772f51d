package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/pkg/export"
	"github.com/staffpulse/analytics-api/internal/repository/memory"
	analyticsservice "github.com/staffpulse/analytics-api/internal/service/analytics"
	departmentservice "github.com/staffpulse/analytics-api/internal/service/department"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var week = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

type fixture struct {
	service     *reportServiceImpl
	departments department.DepartmentRepository
	employees   employee.EmployeeRepository
	projects    project.ProjectRepository
	entries     workload.WorkloadRepository
	ids         map[string]int64
}

func newFixture(t *testing.T) *fixture {
	store := memory.NewStore()
	f := &fixture{
		departments: memory.NewDepartmentRepository(store),
		employees:   memory.NewEmployeeRepository(store),
		projects:    memory.NewProjectRepository(store),
		entries:     memory.NewWorkloadRepository(store),
		ids:         make(map[string]int64),
	}
	calculator := analyticsservice.NewMetricCalculator()
	svc := NewReportService(
		analyticsservice.NewWeekResolver(f.entries),
		memory.NewAnalyticsRepository(store),
		f.employees,
		f.departments,
		departmentservice.NewDepartmentService(f.departments),
		calculator,
		analyticsservice.NewHierarchyAggregator("leadership", calculator),
		export.NewExcelRenderer(),
		export.NewPDFRenderer(""),
	)
	f.service = svc.(*reportServiceImpl)
	f.service.now = func() time.Time { return time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) department(t *testing.T, key string, parent *int64) int64 {
	t.Helper()
	d, err := f.departments.Create(context.Background(), department.Department{Name: key, ParentID: parent})
	require.NoError(t, err)
	f.ids[key] = d.ID
	return d.ID
}

func (f *fixture) employee(t *testing.T, name string, departmentID *int64, active bool) int64 {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		FullName:     name,
		Email:        strings.ToLower(name) + "@example.com",
		HireDate:     week.AddDate(-1, 0, 0),
		IsActive:     active,
		DepartmentID: departmentID,
	})
	require.NoError(t, err)
	f.ids[name] = e.ID
	return e.ID
}

func (f *fixture) project(t *testing.T, name string) int64 {
	t.Helper()
	p, err := f.projects.Create(context.Background(), project.Project{Name: name, StartDate: week, Status: project.StatusInProgress})
	require.NoError(t, err)
	f.ids[name] = p.ID
	return p.ID
}

func (f *fixture) entry(t *testing.T, employeeID, projectID int64, workloadPercent, completed, overdue int) {
	t.Helper()
	_, err := f.entries.Create(context.Background(), workload.Entry{
		EmployeeID:      employeeID,
		ProjectID:       projectID,
		WeekStartDate:   week,
		WorkloadPercent: workloadPercent,
		TasksCompleted:  completed,
		TasksOverdue:    overdue,
	})
	require.NoError(t, err)
}

// seed builds leadership -> {Engineering -> Backend, Sales}; Erin has no entries.
func (f *fixture) seed(t *testing.T) {
	root := f.department(t, "leadership", nil)
	eng := f.department(t, "Engineering", &root)
	backend := f.department(t, "Backend", &eng)
	sales := f.department(t, "Sales", &root)

	alice := f.employee(t, "Alice", &backend, true)
	bob := f.employee(t, "Bob", &sales, true)
	carol := f.employee(t, "Carol", &root, true)
	dave := f.employee(t, "Dave", &eng, false)
	f.employee(t, "Erin", nil, true)

	apollo := f.project(t, "Apollo")
	zeus := f.project(t, "Zeus")

	f.entry(t, alice, apollo, 90, 9, 1)
	f.entry(t, alice, zeus, 60, 1, 0)
	f.entry(t, bob, apollo, 40, 1, 3)
	f.entry(t, carol, zeus, 50, 2, 0)
	f.entry(t, dave, apollo, 95, 0, 5)
}

func TestReportService_Employees(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeEmployees, report.Filter{})
	require.NoError(t, err)

	assert.Equal(t, report.TypeEmployees, r.Metadata.ReportType)
	assert.Equal(t, 4, r.Metadata.TotalRecords)
	assert.Equal(t, analyticsservice.FormatWeek(week), r.Metadata.WeekAnalyzed)

	rows := r.Data.([]report.EmployeeRow)
	require.Len(t, rows, 4)

	alice := rows[0]
	assert.Equal(t, "Alice", alice.FullName)
	assert.Equal(t, "Backend", alice.Department)
	assert.Equal(t, "—", alice.Position)
	assert.Equal(t, 75, alice.AvgWorkload)
	assert.Equal(t, 10, alice.TasksCompleted)
	assert.Equal(t, 91, alice.Efficiency)
	assert.Equal(t, "Yes", alice.IsActive)

	erin := rows[3]
	assert.Equal(t, "Erin", erin.FullName)
	assert.Equal(t, "—", erin.Department)
	assert.Zero(t, erin.AvgWorkload)
}

func TestReportService_IncludeInactiveAndDepartmentFilter(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeKPI, report.Filter{
		DepartmentIDs:   []int64{f.ids["Engineering"]},
		IncludeInactive: true,
	})
	require.NoError(t, err)

	rows := r.Data.([]report.KPIRow)
	require.Len(t, rows, 2, "descendant departments are included")
	assert.Equal(t, "Alice", rows[0].Employee)
	assert.Equal(t, "Dave", rows[1].Employee)
	assert.Equal(t, 0, rows[1].Efficiency)

	_, err = f.service.Generate(context.Background(), report.TypeKPI, report.Filter{DepartmentIDs: []int64{999}})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestReportService_Workload(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeWorkload, report.Filter{})
	require.NoError(t, err)

	rows := r.Data.([]report.WorkloadRow)
	require.Len(t, rows, 3, "inactive Dave and Erin without entries are skipped")
	assert.Equal(t, "Alice", rows[0].Employee)
	assert.Equal(t, 2, rows[0].ProjectsCount)
	assert.Equal(t, 75, rows[0].AvgWorkload)

	r, err = f.service.Generate(context.Background(), report.TypeWorkload, report.Filter{ProjectIDs: []int64{f.ids["Zeus"]}})
	require.NoError(t, err)

	rows = r.Data.([]report.WorkloadRow)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Len(t, row.Projects, 1)
		assert.Equal(t, "Zeus", row.Projects[0].Project)
	}
}

func TestReportService_Departments(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeDepartments, report.Filter{})
	require.NoError(t, err)

	rows := r.Data.([]report.DepartmentRow)
	require.Len(t, rows, 2)
	assert.Equal(t, f.ids["Engineering"], rows[0].DepartmentID)
	assert.Equal(t, 1, rows[0].EmployeesCount)
	assert.Equal(t, 75, rows[0].AvgWorkload)
	assert.Equal(t, 91, rows[0].Efficiency)
}

func TestReportService_DepartmentsIgnoresInactiveEmployees(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeDepartments, report.Filter{IncludeInactive: true})
	require.NoError(t, err)

	rows := r.Data.([]report.DepartmentRow)
	require.Len(t, rows, 2)
	assert.Equal(t, f.ids["Engineering"], rows[0].DepartmentID)
	assert.Equal(t, 1, rows[0].EmployeesCount)
	assert.Equal(t, 91, rows[0].Efficiency)
	assert.Equal(t, 1, rows[0].TasksOverdue)
}

func TestReportService_Risks(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	r, err := f.service.Generate(context.Background(), report.TypeRisks, report.Filter{})
	require.NoError(t, err)

	rows := r.Data.([]report.RiskRow)
	require.Len(t, rows, 1)
	assert.Equal(t, report.RiskLowEfficiency, rows[0].Type)
	assert.Equal(t, "Bob", rows[0].Employee)
	assert.Equal(t, 25, rows[0].Value)

	r, err = f.service.Generate(context.Background(), report.TypeRisks, report.Filter{IncludeInactive: true})
	require.NoError(t, err)

	rows = r.Data.([]report.RiskRow)
	require.Len(t, rows, 3)
	assert.Equal(t, report.RiskOverload, rows[1].Type)
	assert.Equal(t, "Dave", rows[1].Employee)
	assert.Equal(t, 95, rows[1].Value)
	assert.Equal(t, report.RiskLowEfficiency, rows[2].Type)
}

func TestReportService_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Generate(context.Background(), report.TypeEmployees, report.Filter{})
	assert.ErrorIs(t, err, analytics.ErrNoData)

	f.seed(t)
	_, err = f.service.Generate(context.Background(), report.Type("salary"), report.Filter{})
	assert.ErrorIs(t, err, report.ErrUnsupportedReportType)
}

func TestReportService_Export(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	file, err := f.service.Export(context.Background(), report.ExportRequest{Type: report.TypeWorkload, Format: "xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "report_workload_2024-05-08.xlsx", file.Filename)
	assert.Equal(t, export.NewExcelRenderer().ContentType(), file.ContentType)
	assert.Equal(t, "PK", string(file.Content.Bytes()[:2]))

	file, err = f.service.Export(context.Background(), report.ExportRequest{Type: report.TypeRisks, Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "report_risks_2024-05-08.pdf", file.Filename)
	assert.True(t, strings.HasPrefix(file.Content.String(), "%PDF"))

	_, err = f.service.Export(context.Background(), report.ExportRequest{Type: report.TypeRisks, Format: "docx"})
	assert.ErrorIs(t, err, report.ErrUnsupportedFormat)

	_, err = f.service.Export(context.Background(), report.ExportRequest{Type: report.TypeRisks})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestToTable_WorkloadProjectsJoined(t *testing.T) {
	table := toTable(report.Report{
		Metadata: report.Metadata{ReportType: report.TypeWorkload, WeekAnalyzed: "2024-05-06"},
		Data: []report.WorkloadRow{{
			Employee:   "Alice",
			Department: "Backend",
			Position:   "—",
			Projects:   []report.WorkloadProject{{Project: "Apollo"}, {Project: "Zeus"}},
		}},
	})

	assert.Equal(t, "Workload report, week 2024-05-06", table.Title)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Apollo, Zeus", table.Rows[0][7])
	assert.Len(t, table.Rows[0], len(table.Headers))
	assert.Len(t, table.Numeric, len(table.Headers))
	assert.True(t, table.IsNumeric(3))
	assert.False(t, table.IsNumeric(7))
}

func TestToTable_PhoneColumnIsText(t *testing.T) {
	table := toTable(report.Report{
		Metadata: report.Metadata{ReportType: report.TypeEmployees},
		Data:     []report.EmployeeRow{{ID: 1, FullName: "Alice", Phone: "0501234567"}},
	})

	phone := lo.IndexOf(table.Headers, "Phone")
	require.NotEqual(t, -1, phone)
	assert.False(t, table.IsNumeric(phone))
	assert.True(t, table.IsNumeric(0))
	assert.Equal(t, "0501234567", table.Rows[0][phone])
}
