package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	previousWeek = time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)
	currentWeek  = time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store      *memory.Store
	transactor *memory.Transactor
	service    analytics.AnalyticsService

	departments department.DepartmentRepository
	employees   employee.EmployeeRepository
	projects    project.ProjectRepository
	entries     workload.WorkloadRepository
	kpis        workload.KPIRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{
		store:       store,
		transactor:  &memory.Transactor{},
		departments: memory.NewDepartmentRepository(store),
		employees:   memory.NewEmployeeRepository(store),
		projects:    memory.NewProjectRepository(store),
		entries:     memory.NewWorkloadRepository(store),
		kpis:        memory.NewKPIRepository(store),
	}
	calculator := NewMetricCalculator()
	f.service = NewAnalyticsService(
		NewWeekResolver(f.entries),
		memory.NewAnalyticsRepository(store),
		f.departments,
		f.employees,
		f.kpis,
		f.transactor,
		calculator,
		NewHierarchyAggregator("leadership", calculator),
	)
	return f
}

func (f *fixture) department(t *testing.T, name string, parentID *int64) int64 {
	t.Helper()
	d, err := f.departments.Create(context.Background(), department.Department{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return d.ID
}

func (f *fixture) employee(t *testing.T, name string, departmentID *int64, active bool) int64 {
	t.Helper()
	e, err := f.employees.Create(context.Background(), employee.Employee{
		FullName:     name,
		Email:        name + "@example.com",
		HireDate:     previousWeek,
		IsActive:     active,
		DepartmentID: departmentID,
	})
	require.NoError(t, err)
	return e.ID
}

func (f *fixture) project(t *testing.T, name string, status project.Status) int64 {
	t.Helper()
	p, err := f.projects.Create(context.Background(), project.Project{Name: name, StartDate: previousWeek, Status: status})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) entry(t *testing.T, employeeID, projectID int64, week time.Time, workloadPercent, completed, overdue int) {
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

// seed builds leadership -> {Engineering -> Backend, Sales} with four employees.
func (f *fixture) seed(t *testing.T) map[string]int64 {
	root := f.department(t, "leadership", nil)
	eng := f.department(t, "Engineering", &root)
	backend := f.department(t, "Backend", &eng)
	sales := f.department(t, "Sales", &root)

	alice := f.employee(t, "Alice", &backend, true)
	bob := f.employee(t, "Bob", &sales, true)
	carol := f.employee(t, "Carol", &root, true)
	dave := f.employee(t, "Dave", &eng, false)

	apollo := f.project(t, "Apollo", project.StatusInProgress)
	zeus := f.project(t, "Zeus", project.StatusPlanned)

	f.entry(t, alice, apollo, currentWeek, 90, 9, 1)
	f.entry(t, alice, zeus, currentWeek, 60, 1, 0)
	f.entry(t, bob, apollo, currentWeek, 40, 1, 3)
	f.entry(t, carol, zeus, currentWeek, 50, 2, 0)
	f.entry(t, dave, apollo, currentWeek, 95, 0, 5)
	f.entry(t, alice, apollo, previousWeek, 10, 1, 1)

	return map[string]int64{
		"root": root, "eng": eng, "sales": sales,
		"alice": alice, "bob": bob, "carol": carol, "dave": dave,
		"apollo": apollo,
	}
}

func TestAnalyticsService_NoData(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.GetOverallStats(ctx)
	assert.ErrorIs(t, err, analytics.ErrNoData)

	_, err = f.service.GetDashboard(ctx)
	assert.ErrorIs(t, err, analytics.ErrNoData)

	_, err = f.service.RecalculateKPIs(ctx)
	assert.ErrorIs(t, err, analytics.ErrNoData)
}

func TestAnalyticsService_GetOverallStats(t *testing.T) {
	f := newFixture()
	f.seed(t)

	stats, err := f.service.GetOverallStats(context.Background())
	require.NoError(t, err)

	// All five current-week entries count, including the inactive employee's.
	assert.Equal(t, int64(3), stats.TotalEmployees)
	assert.Equal(t, int64(1), stats.ActiveProjects)
	assert.Equal(t, 67, stats.AvgWorkload)
	assert.Equal(t, 13, stats.CompletedTasks)
	assert.Equal(t, 9, stats.OverdueTasks)
	assert.Equal(t, 59.1, stats.OverallEfficiency)
	assert.Equal(t, "2024-05-06", stats.WeekAnalyzed)
}

func TestAnalyticsService_GetDepartmentStats(t *testing.T) {
	f := newFixture()
	ids := f.seed(t)

	stats, err := f.service.GetDepartmentStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.Departments, 2)

	eng := stats.Departments[0]
	assert.Equal(t, ids["eng"], eng.DepartmentID)
	assert.Equal(t, 1, eng.EmployeesCount, "inactive Dave is excluded")
	assert.Equal(t, 75, eng.AvgWorkload)
	assert.Equal(t, 90.9, eng.Efficiency)

	sales := stats.Departments[1]
	assert.Equal(t, ids["sales"], sales.DepartmentID)
	assert.Equal(t, 25.0, sales.Efficiency)
}

func TestAnalyticsService_GetTopPerformers(t *testing.T) {
	f := newFixture()
	ids := f.seed(t)

	top, err := f.service.GetTopPerformers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top.Top, 2)

	assert.Equal(t, ids["carol"], top.Top[0].ID)
	assert.Equal(t, 100.0, top.Top[0].Efficiency)
	assert.Equal(t, ids["alice"], top.Top[1].ID)
	assert.Equal(t, 11, top.Top[1].TotalTasks)

	all, err := f.service.GetTopPerformers(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all.Top, 3)
}

func TestAnalyticsService_GetProblemAreas(t *testing.T) {
	f := newFixture()
	f.seed(t)

	problems, err := f.service.GetProblemAreas(context.Background())
	require.NoError(t, err)
	require.Len(t, problems, 2)

	overload := problems[0]
	assert.Equal(t, analytics.ProblemOverload, overload.Type)
	assert.Equal(t, analytics.SeverityHigh, overload.Severity)
	assert.Equal(t, 2, overload.Count)
	assert.ElementsMatch(t, []string{"Alice", "Dave"}, overload.Employees)

	low := problems[1]
	assert.Equal(t, analytics.ProblemLowEfficiency, low.Type)
	assert.Equal(t, analytics.SeverityMedium, low.Severity)
	assert.Equal(t, []string{"Bob"}, low.Employees)
}

func TestAnalyticsService_GetLowEfficiencyEmployees(t *testing.T) {
	f := newFixture()
	ids := f.seed(t)

	result, err := f.service.GetLowEfficiencyEmployees(context.Background(), 95)
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, ids["bob"], result[0].ID)
	assert.Equal(t, "Sales", result[0].DepartmentName)
	assert.Equal(t, ids["alice"], result[1].ID)
	assert.Equal(t, 90.9, result[1].Efficiency)
}

func TestAnalyticsService_GetLowEfficiencyEmployees_Threshold(t *testing.T) {
	f := newFixture()
	root := f.department(t, "leadership", nil)
	ops := f.department(t, "Ops", &root)
	apollo := f.project(t, "Apollo", project.StatusInProgress)

	slow := f.employee(t, "Slow", &ops, true)
	f.entry(t, slow, apollo, currentWeek, 50, 3, 6) // 33.3
	edge := f.employee(t, "Edge", &ops, true)
	f.entry(t, edge, apollo, currentWeek, 50, 11999, 8001) // 59.995, shown as 60.0

	tests := []struct {
		name      string
		threshold float64
		want      []int64
	}{
		{"below 60", 60, []int64{slow}},
		{"below 30", 30, []int64{}},
		{"below 60.1", 60.1, []int64{slow, edge}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.GetLowEfficiencyEmployees(context.Background(), tt.threshold)
			require.NoError(t, err)
			ids := make([]int64, 0, len(result))
			for _, e := range result {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAnalyticsService_GetEmployeeAnalytics(t *testing.T) {
	f := newFixture()
	ids := f.seed(t)
	ctx := context.Background()

	_, err := f.kpis.InsertBatch(ctx, []workload.KPIMetric{
		{EmployeeID: ids["alice"], MetricName: workload.MetricEfficiency, MetricValue: 90.9, Period: currentWeek},
		{EmployeeID: ids["alice"], MetricName: workload.MetricEfficiency, MetricValue: 50, Period: previousWeek},
		{EmployeeID: ids["alice"], MetricName: workload.MetricAvgWorkload, MetricValue: 75, Period: currentWeek},
	})
	require.NoError(t, err)

	result, err := f.service.GetEmployeeAnalytics(ctx, ids["alice"])
	require.NoError(t, err)

	assert.Equal(t, "Alice", result.FullName)
	assert.Equal(t, 75, result.CurrentWeek.Workload)
	assert.Equal(t, 90.9, result.CurrentWeek.Efficiency)
	assert.Equal(t, 91, result.CurrentWeek.TaskCompletionRate)
	assert.Equal(t, 2, result.CurrentWeek.ActiveProjects)
	require.Len(t, result.KPIHistory, 2)
	assert.Equal(t, "2024-04-29", result.KPIHistory[0].Period)
	assert.Equal(t, 90.9, result.KPIHistory[1].Value)
	require.Len(t, result.Projects, 2)
	assert.Equal(t, "Apollo", result.Projects[0].Name)
	assert.Equal(t, 90, result.Projects[0].WorkloadShare)

	_, err = f.service.GetEmployeeAnalytics(ctx, 9999)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAnalyticsService_GetDashboard(t *testing.T) {
	f := newFixture()
	f.seed(t)

	dashboard, err := f.service.GetDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-05-06", dashboard.Overall.WeekAnalyzed)
	assert.Len(t, dashboard.Departments.Departments, 2)
	assert.Len(t, dashboard.TopPerformers.Top, 3)
	assert.Len(t, dashboard.Problems, 2)
	assert.False(t, dashboard.Timestamp.IsZero())
}

func TestAnalyticsService_GetDashboard_MissingRoot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.department(t, "A", nil)
	b := f.department(t, "B", &a)
	_, err := f.departments.Update(ctx, department.Department{ID: a, Name: "A", ParentID: &b})
	require.NoError(t, err)

	emp := f.employee(t, "Eve", &a, true)
	proj := f.project(t, "P", project.StatusInProgress)
	f.entry(t, emp, proj, currentWeek, 10, 1, 0)

	_, err = f.service.GetDashboard(ctx)
	assert.ErrorIs(t, err, analytics.ErrMissingRoot)
}

func TestAnalyticsService_RecalculateKPIs(t *testing.T) {
	f := newFixture()
	ids := f.seed(t)
	ctx := context.Background()

	// A stale snapshot for the same week is replaced.
	_, err := f.kpis.InsertBatch(ctx, []workload.KPIMetric{
		{EmployeeID: ids["bob"], MetricName: workload.MetricEfficiency, MetricValue: 1, Period: currentWeek},
	})
	require.NoError(t, err)

	result, err := f.service.RecalculateKPIs(ctx)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-06", result.WeekAnalyzed)
	assert.Equal(t, int64(9), result.Inserted, "three metrics for each of three active employees")
	assert.Equal(t, 1, f.transactor.Calls)

	stored := f.store.KPIs()
	assert.Len(t, stored, 9)

	history, err := f.kpis.History(ctx, ids["bob"], workload.MetricEfficiency)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 25.0, history[0].MetricValue)
}
