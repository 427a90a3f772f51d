package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"golang.org/x/sync/errgroup"
)

const (
	noDepartmentName   = "No department"
	defaultProjectName = "Project"
)

type analyticsServiceImpl struct {
	weekResolver   analytics.WeekResolver
	analyticsRepo  analytics.AnalyticsRepository
	departmentRepo department.DepartmentRepository
	employeeRepo   employee.EmployeeRepository
	kpiRepo        workload.KPIRepository
	transactor     database.Transactor
	calculator     *MetricCalculator
	aggregator     *HierarchyAggregator
	now            func() time.Time
}

func NewAnalyticsService(
	weekResolver analytics.WeekResolver,
	analyticsRepo analytics.AnalyticsRepository,
	departmentRepo department.DepartmentRepository,
	employeeRepo employee.EmployeeRepository,
	kpiRepo workload.KPIRepository,
	transactor database.Transactor,
	calculator *MetricCalculator,
	aggregator *HierarchyAggregator,
) analytics.AnalyticsService {
	return &analyticsServiceImpl{
		weekResolver:   weekResolver,
		analyticsRepo:  analyticsRepo,
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		kpiRepo:        kpiRepo,
		transactor:     transactor,
		calculator:     calculator,
		aggregator:     aggregator,
		now:            time.Now,
	}
}

// GetDashboard resolves the week once and loads the four dashboard blocks in parallel
func (s *analyticsServiceImpl) GetDashboard(ctx context.Context) (analytics.DashboardResponse, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.DashboardResponse{}, err
	}

	var (
		overall     analytics.OverallStats
		departments analytics.DepartmentStatsResponse
		top         analytics.TopPerformersResponse
		problems    []analytics.ProblemArea
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		overall, err = s.overallStats(gCtx, week)
		return err
	})

	g.Go(func() error {
		var err error
		departments, err = s.departmentStats(gCtx, week)
		return err
	})

	g.Go(func() error {
		var err error
		top, err = s.topPerformers(gCtx, week, analytics.DefaultTopPerformersLimit)
		return err
	})

	g.Go(func() error {
		var err error
		problems, err = s.problemAreas(gCtx, week)
		return err
	})

	if err := g.Wait(); err != nil {
		return analytics.DashboardResponse{}, err
	}

	return analytics.DashboardResponse{
		Overall:       overall,
		Departments:   departments,
		TopPerformers: top,
		Problems:      problems,
		Timestamp:     s.now().UTC(),
	}, nil
}

func (s *analyticsServiceImpl) GetOverallStats(ctx context.Context) (analytics.OverallStats, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.OverallStats{}, err
	}
	return s.overallStats(ctx, week)
}

func (s *analyticsServiceImpl) GetDepartmentStats(ctx context.Context) (analytics.DepartmentStatsResponse, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}
	return s.departmentStats(ctx, week)
}

func (s *analyticsServiceImpl) GetTopPerformers(ctx context.Context, limit int) (analytics.TopPerformersResponse, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.TopPerformersResponse{}, err
	}
	return s.topPerformers(ctx, week, limit)
}

func (s *analyticsServiceImpl) GetProblemAreas(ctx context.Context) ([]analytics.ProblemArea, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return nil, err
	}
	return s.problemAreas(ctx, week)
}

func (s *analyticsServiceImpl) GetLowEfficiencyEmployees(ctx context.Context, threshold float64) ([]analytics.LowEfficiencyEmployee, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.activeWeekRows(ctx, week)
	if err != nil {
		return nil, err
	}
	return s.lowEfficiency(rows, threshold), nil
}

func (s *analyticsServiceImpl) GetEmployeeAnalytics(ctx context.Context, employeeID int64) (analytics.EmployeeAnalytics, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return analytics.EmployeeAnalytics{}, err
	}

	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.EmployeeAnalytics{}, err
	}

	rows, err := s.analyticsRepo.EmployeeWeekRows(ctx, employeeID, week)
	if err != nil {
		return analytics.EmployeeAnalytics{}, fmt.Errorf("failed to load employee workload: %w", err)
	}

	history, err := s.kpiRepo.History(ctx, employeeID, workload.MetricEfficiency)
	if err != nil {
		return analytics.EmployeeAnalytics{}, fmt.Errorf("failed to load kpi history: %w", err)
	}

	m := s.calculator.Aggregate(rows)
	completionRate := 0
	if m.TotalTasks > 0 {
		completionRate = RoundInt(m.Efficiency)
	}

	projects := make([]analytics.ProjectContribution, 0, len(rows))
	for _, row := range rows {
		name := row.ProjectName
		if name == "" {
			name = defaultProjectName
		}
		projects = append(projects, analytics.ProjectContribution{
			ProjectID:      row.ProjectID,
			Name:           name,
			WorkloadShare:  row.WorkloadPercent,
			TasksCompleted: row.TasksCompleted,
			TasksOverdue:   row.TasksOverdue,
		})
	}

	kpiHistory := lo.Map(history, func(metric workload.KPIMetric, _ int) analytics.KPIPoint {
		return analytics.KPIPoint{
			Period: FormatWeek(metric.Period),
			Value:  Round1(metric.MetricValue),
		}
	})

	return analytics.EmployeeAnalytics{
		EmployeeID:   emp.ID,
		FullName:     emp.FullName,
		WeekAnalyzed: FormatWeek(week),
		CurrentWeek: analytics.CurrentWeekStats{
			Workload:           RoundInt(m.AvgWorkload),
			Efficiency:         Round1(m.Efficiency),
			TasksCompleted:     m.Completed,
			TasksOverdue:       m.Overdue,
			TaskCompletionRate: completionRate,
			ActiveProjects:     len(lo.UniqBy(rows, func(row analytics.WorkloadRow) int64 { return row.ProjectID })),
		},
		KPIHistory: kpiHistory,
		Projects:   projects,
	}, nil
}

// RecalculateKPIs stores efficiency, average workload and completed tasks of
// every active employee for the latest week, replacing that week's snapshot.
func (s *analyticsServiceImpl) RecalculateKPIs(ctx context.Context) (analytics.KPIRecalculationResult, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return analytics.KPIRecalculationResult{}, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	if err != nil {
		return analytics.KPIRecalculationResult{}, fmt.Errorf("failed to list employees: %w", err)
	}

	rows, err := s.activeWeekRows(ctx, week)
	if err != nil {
		return analytics.KPIRecalculationResult{}, err
	}
	_, byEmployee := s.calculator.GroupByEmployee(rows)

	metrics := make([]workload.KPIMetric, 0, len(employees)*3)
	for _, emp := range employees {
		m := s.calculator.Aggregate(byEmployee[emp.ID])
		metrics = append(metrics,
			workload.KPIMetric{EmployeeID: emp.ID, MetricName: workload.MetricEfficiency, MetricValue: Round1(m.Efficiency), Period: week},
			workload.KPIMetric{EmployeeID: emp.ID, MetricName: workload.MetricAvgWorkload, MetricValue: Round1(m.AvgWorkload), Period: week},
			workload.KPIMetric{EmployeeID: emp.ID, MetricName: workload.MetricTasksCompleted, MetricValue: float64(m.Completed), Period: week},
		)
	}

	var inserted int64
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.kpiRepo.DeletePeriod(txCtx, week); err != nil {
			return err
		}
		n, err := s.kpiRepo.InsertBatch(txCtx, metrics)
		if err != nil {
			return err
		}
		inserted = n
		return nil
	})
	if err != nil {
		return analytics.KPIRecalculationResult{}, fmt.Errorf("failed to store kpi metrics: %w", err)
	}

	slog.Info("KPI metrics recalculated", "week", FormatWeek(week), "inserted", inserted)

	return analytics.KPIRecalculationResult{
		WeekAnalyzed: FormatWeek(week),
		Inserted:     inserted,
	}, nil
}

// ==================== WEEK-SCOPED HELPERS ====================

func (s *analyticsServiceImpl) weekRows(ctx context.Context, week time.Time) ([]analytics.WorkloadRow, error) {
	rows, err := s.analyticsRepo.WeekRows(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load workload entries: %w", err)
	}
	return rows, nil
}

func (s *analyticsServiceImpl) activeWeekRows(ctx context.Context, week time.Time) ([]analytics.WorkloadRow, error) {
	rows, err := s.weekRows(ctx, week)
	if err != nil {
		return nil, err
	}
	return ActiveRows(rows), nil
}

func (s *analyticsServiceImpl) overallStats(ctx context.Context, week time.Time) (analytics.OverallStats, error) {
	rows, err := s.weekRows(ctx, week)
	if err != nil {
		return analytics.OverallStats{}, err
	}

	totalEmployees, err := s.analyticsRepo.CountActiveEmployees(ctx)
	if err != nil {
		return analytics.OverallStats{}, fmt.Errorf("failed to count employees: %w", err)
	}

	activeProjects, err := s.analyticsRepo.CountProjectsInProgress(ctx)
	if err != nil {
		return analytics.OverallStats{}, fmt.Errorf("failed to count projects: %w", err)
	}

	m := s.calculator.Aggregate(rows)

	return analytics.OverallStats{
		TotalEmployees:    totalEmployees,
		ActiveProjects:    activeProjects,
		AvgWorkload:       RoundInt(m.AvgWorkload),
		OverallEfficiency: Round1(m.Efficiency),
		CompletedTasks:    m.Completed,
		OverdueTasks:      m.Overdue,
		WeekAnalyzed:      FormatWeek(week),
	}, nil
}

func (s *analyticsServiceImpl) departmentStats(ctx context.Context, week time.Time) (analytics.DepartmentStatsResponse, error) {
	rows, err := s.activeWeekRows(ctx, week)
	if err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}

	departments, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return analytics.DepartmentStatsResponse{}, fmt.Errorf("failed to list departments: %w", err)
	}

	aggregates, err := s.aggregator.Aggregate(departments, rows)
	if err != nil {
		return analytics.DepartmentStatsResponse{}, err
	}

	stats := lo.Map(aggregates, func(agg analytics.DepartmentAggregate, _ int) analytics.DepartmentStat {
		return analytics.DepartmentStat{
			DepartmentID:   agg.DepartmentID,
			DepartmentName: agg.DepartmentName,
			ParentID:       agg.ParentID,
			EmployeesCount: agg.EmployeesCount,
			AvgWorkload:    RoundInt(agg.Metrics.AvgWorkload),
			Efficiency:     Round1(agg.Metrics.Efficiency),
			TasksCompleted: agg.Metrics.Completed,
			TasksOverdue:   agg.Metrics.Overdue,
		}
	})

	return analytics.DepartmentStatsResponse{
		WeekAnalyzed: FormatWeek(week),
		Departments:  stats,
	}, nil
}

func (s *analyticsServiceImpl) topPerformers(ctx context.Context, week time.Time, limit int) (analytics.TopPerformersResponse, error) {
	if limit <= 0 {
		limit = analytics.DefaultTopPerformersLimit
	}

	rows, err := s.activeWeekRows(ctx, week)
	if err != nil {
		return analytics.TopPerformersResponse{}, err
	}

	order, byEmployee := s.calculator.GroupByEmployee(rows)
	performers := make([]analytics.TopPerformer, 0, len(order))
	for _, id := range order {
		employeeRows := byEmployee[id]
		m := s.calculator.Aggregate(employeeRows)
		if m.TotalTasks == 0 {
			continue
		}
		first := employeeRows[0]
		performers = append(performers, analytics.TopPerformer{
			ID:             id,
			FullName:       first.EmployeeName,
			DepartmentID:   first.DepartmentID,
			Efficiency:     Round1(m.Efficiency),
			AvgWorkload:    RoundInt(m.AvgWorkload),
			TasksCompleted: m.Completed,
			TasksOverdue:   m.Overdue,
			TotalTasks:     m.TotalTasks,
		})
	}

	sort.SliceStable(performers, func(i, j int) bool {
		if performers[i].Efficiency != performers[j].Efficiency {
			return performers[i].Efficiency > performers[j].Efficiency
		}
		return performers[i].ID < performers[j].ID
	})

	if len(performers) > limit {
		performers = performers[:limit]
	}

	return analytics.TopPerformersResponse{
		WeekAnalyzed: FormatWeek(week),
		Top:          performers,
	}, nil
}

func (s *analyticsServiceImpl) problemAreas(ctx context.Context, week time.Time) ([]analytics.ProblemArea, error) {
	rows, err := s.weekRows(ctx, week)
	if err != nil {
		return nil, err
	}

	problems := make([]analytics.ProblemArea, 0, 2)

	overloaded := lo.Filter(rows, func(row analytics.WorkloadRow, _ int) bool {
		return row.WorkloadPercent > analytics.OverloadThreshold
	})
	if len(overloaded) > 0 {
		problems = append(problems, analytics.ProblemArea{
			Type:        analytics.ProblemOverload,
			Severity:    analytics.SeverityHigh,
			Count:       len(overloaded),
			Description: fmt.Sprintf("%d workload entries above %d%%", len(overloaded), analytics.OverloadThreshold),
			Employees: lo.Uniq(lo.Map(overloaded, func(row analytics.WorkloadRow, _ int) string {
				return row.EmployeeName
			})),
		})
	}

	lowEfficiency := s.lowEfficiency(ActiveRows(rows), analytics.DefaultLowEfficiencyThreshold)
	if len(lowEfficiency) > 0 {
		problems = append(problems, analytics.ProblemArea{
			Type:        analytics.ProblemLowEfficiency,
			Severity:    analytics.SeverityMedium,
			Count:       len(lowEfficiency),
			Description: fmt.Sprintf("%d employees with efficiency below %.0f%%", len(lowEfficiency), analytics.DefaultLowEfficiencyThreshold),
			Employees: lo.Map(lowEfficiency, func(e analytics.LowEfficiencyEmployee, _ int) string {
				return e.FullName
			}),
		})
	}

	return problems, nil
}

// lowEfficiency returns employees with at least one task and efficiency below
// threshold, least efficient first.
func (s *analyticsServiceImpl) lowEfficiency(rows []analytics.WorkloadRow, threshold float64) []analytics.LowEfficiencyEmployee {
	order, byEmployee := s.calculator.GroupByEmployee(rows)

	result := make([]analytics.LowEfficiencyEmployee, 0)
	for _, id := range order {
		employeeRows := byEmployee[id]
		m := s.calculator.Aggregate(employeeRows)
		efficiency := Round1(m.Efficiency)
		if m.TotalTasks == 0 || efficiency >= threshold {
			continue
		}
		first := employeeRows[0]
		departmentName := noDepartmentName
		if first.DepartmentName != nil {
			departmentName = *first.DepartmentName
		}
		result = append(result, analytics.LowEfficiencyEmployee{
			ID:             id,
			FullName:       first.EmployeeName,
			DepartmentID:   first.DepartmentID,
			DepartmentName: departmentName,
			Efficiency:     efficiency,
			TasksCompleted: m.Completed,
			TasksOverdue:   m.Overdue,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Efficiency != result[j].Efficiency {
			return result[i].Efficiency < result[j].Efficiency
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// ActiveRows keeps rows of active employees.
func ActiveRows(rows []analytics.WorkloadRow) []analytics.WorkloadRow {
	return lo.Filter(rows, func(row analytics.WorkloadRow, _ int) bool {
		return row.EmployeeActive
	})
}
