package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/staffpulse/analytics-api/internal/pkg/export"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
	analyticsservice "github.com/staffpulse/analytics-api/internal/service/analytics"
)

const (
	missingValue = "—"

	recommendRedistribute = "Redistribute tasks or resources"
	recommendOneToOne     = "Hold a one-to-one or arrange training"
)

type reportServiceImpl struct {
	weekResolver      analytics.WeekResolver
	analyticsRepo     analytics.AnalyticsRepository
	employeeRepo      employee.EmployeeRepository
	departmentRepo    department.DepartmentRepository
	departmentService department.DepartmentService
	calculator        *analyticsservice.MetricCalculator
	aggregator        *analyticsservice.HierarchyAggregator
	renderers         map[report.Format]export.Renderer
	now               func() time.Time
}

func NewReportService(
	weekResolver analytics.WeekResolver,
	analyticsRepo analytics.AnalyticsRepository,
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	departmentService department.DepartmentService,
	calculator *analyticsservice.MetricCalculator,
	aggregator *analyticsservice.HierarchyAggregator,
	excel export.Renderer,
	pdf export.Renderer,
) report.ReportService {
	return &reportServiceImpl{
		weekResolver:      weekResolver,
		analyticsRepo:     analyticsRepo,
		employeeRepo:      employeeRepo,
		departmentRepo:    departmentRepo,
		departmentService: departmentService,
		calculator:        calculator,
		aggregator:        aggregator,
		renderers: map[report.Format]export.Renderer{
			report.FormatExcel: excel,
			report.FormatPDF:   pdf,
		},
		now: time.Now,
	}
}

// reportInput is the data every report is built from: the analyzed week,
// the employees passing the filter and their rows for that week.
type reportInput struct {
	week      time.Time
	employees []employee.EmployeeWithRefs
	rows      map[int64][]analytics.WorkloadRow
	rowOrder  []int64
}

// Generate implements report.ReportService.
func (s *reportServiceImpl) Generate(ctx context.Context, reportType report.Type, filter report.Filter) (report.Report, error) {
	input, err := s.load(ctx, filter)
	if err != nil {
		return report.Report{}, err
	}

	var data any
	var total int
	switch reportType {
	case report.TypeEmployees:
		rows := s.employeesReport(input)
		data, total = rows, len(rows)
	case report.TypeWorkload:
		rows := s.workloadReport(input, filter.ProjectIDs)
		data, total = rows, len(rows)
	case report.TypeKPI:
		rows := s.kpiReport(input)
		data, total = rows, len(rows)
	case report.TypeDepartments:
		rows, err := s.departmentsReport(ctx, input)
		if err != nil {
			return report.Report{}, err
		}
		data, total = rows, len(rows)
	case report.TypeRisks:
		rows := s.risksReport(input)
		data, total = rows, len(rows)
	default:
		return report.Report{}, report.ErrUnsupportedReportType
	}

	return report.Report{
		Metadata: report.Metadata{
			ReportType:   reportType,
			GeneratedAt:  s.now().UTC(),
			TotalRecords: total,
			WeekAnalyzed: analyticsservice.FormatWeek(input.week),
		},
		Data: data,
	}, nil
}

// Export implements report.ReportService.
func (s *reportServiceImpl) Export(ctx context.Context, req report.ExportRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	format, err := report.ParseFormat(req.Format)
	if err != nil {
		return report.ExportFile{}, err
	}
	renderer := s.renderers[format]

	generated, err := s.Generate(ctx, req.Type, req.Filter())
	if err != nil {
		return report.ExportFile{}, err
	}

	table := toTable(generated)
	content, err := renderer.Render(table)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to render %s report: %w", req.Type, err)
	}

	return report.ExportFile{
		Filename:    export.Filename(string(req.Type), generated.Metadata.GeneratedAt, renderer),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func (s *reportServiceImpl) load(ctx context.Context, filter report.Filter) (reportInput, error) {
	week, err := s.weekResolver.LatestWeek(ctx)
	if err != nil {
		return reportInput{}, err
	}

	departmentIDs, err := s.expandDepartments(ctx, filter.DepartmentIDs)
	if err != nil {
		return reportInput{}, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{
		DepartmentIDs: departmentIDs,
		PositionIDs:   filter.PositionIDs,
		ActiveOnly:    !filter.IncludeInactive,
	})
	if err != nil {
		return reportInput{}, fmt.Errorf("failed to list employees: %w", err)
	}

	weekRows, err := s.analyticsRepo.WeekRows(ctx, week)
	if err != nil {
		return reportInput{}, fmt.Errorf("failed to load workload entries: %w", err)
	}

	included := lo.SliceToMap(employees, func(e employee.EmployeeWithRefs) (int64, bool) { return e.ID, true })
	weekRows = lo.Filter(weekRows, func(row analytics.WorkloadRow, _ int) bool { return included[row.EmployeeID] })
	order, byEmployee := s.calculator.GroupByEmployee(weekRows)

	return reportInput{
		week:      week,
		employees: employees,
		rows:      byEmployee,
		rowOrder:  order,
	}, nil
}

// expandDepartments adds every descendant of the requested departments.
func (s *reportServiceImpl) expandDepartments(ctx context.Context, ids []int64) ([]int64, error) {
	var expanded []int64
	for _, id := range ids {
		descendants, err := s.departmentService.DescendantIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, descendants...)
	}
	return lo.Uniq(expanded), nil
}

func (s *reportServiceImpl) employeesReport(input reportInput) []report.EmployeeRow {
	return lo.Map(input.employees, func(e employee.EmployeeWithRefs, _ int) report.EmployeeRow {
		m := s.calculator.Aggregate(input.rows[e.ID])
		return report.EmployeeRow{
			ID:             e.ID,
			FullName:       e.FullName,
			Department:     orMissing(e.DepartmentName),
			Position:       orMissing(e.PositionName),
			Email:          e.Email,
			Phone:          orMissing(e.Phone),
			HireDate:       e.HireDate.Format(validator.DateLayout),
			IsActive:       lo.Ternary(e.IsActive, "Yes", "No"),
			AvgWorkload:    analyticsservice.RoundInt(m.AvgWorkload),
			TasksCompleted: m.Completed,
			TasksOverdue:   m.Overdue,
			Efficiency:     analyticsservice.RoundInt(m.Efficiency),
		}
	})
}

func (s *reportServiceImpl) kpiReport(input reportInput) []report.KPIRow {
	return lo.Map(input.employees, func(e employee.EmployeeWithRefs, _ int) report.KPIRow {
		m := s.calculator.Aggregate(input.rows[e.ID])
		return report.KPIRow{
			EmployeeID:     e.ID,
			Employee:       e.FullName,
			Department:     orMissing(e.DepartmentName),
			Position:       orMissing(e.PositionName),
			AvgWorkload:    analyticsservice.RoundInt(m.AvgWorkload),
			TasksCompleted: m.Completed,
			TasksOverdue:   m.Overdue,
			Efficiency:     analyticsservice.RoundInt(m.Efficiency),
		}
	})
}

// workloadReport lists employees that have entries in the week, optionally
// restricted to the given projects.
func (s *reportServiceImpl) workloadReport(input reportInput, projectIDs []int64) []report.WorkloadRow {
	byID := lo.SliceToMap(input.employees, func(e employee.EmployeeWithRefs) (int64, employee.EmployeeWithRefs) { return e.ID, e })

	result := make([]report.WorkloadRow, 0, len(input.rowOrder))
	for _, id := range input.rowOrder {
		rows := input.rows[id]
		if len(projectIDs) > 0 {
			rows = lo.Filter(rows, func(row analytics.WorkloadRow, _ int) bool { return lo.Contains(projectIDs, row.ProjectID) })
		}
		if len(rows) == 0 {
			continue
		}

		e := byID[id]
		m := s.calculator.Aggregate(rows)
		result = append(result, report.WorkloadRow{
			EmployeeID: id,
			Employee:   e.FullName,
			Department: orMissing(e.DepartmentName),
			Position:   orMissing(e.PositionName),
			Projects: lo.Map(rows, func(row analytics.WorkloadRow, _ int) report.WorkloadProject {
				return report.WorkloadProject{
					ProjectID: row.ProjectID,
					Project:   row.ProjectName,
					Workload:  row.WorkloadPercent,
					Completed: row.TasksCompleted,
					Overdue:   row.TasksOverdue,
				}
			}),
			AvgWorkload:    analyticsservice.RoundInt(m.AvgWorkload),
			TotalCompleted: m.Completed,
			TotalOverdue:   m.Overdue,
			Efficiency:     analyticsservice.RoundInt(m.Efficiency),
			ProjectsCount:  len(rows),
		})
	}
	return result
}

func (s *reportServiceImpl) departmentsReport(ctx context.Context, input reportInput) ([]report.DepartmentRow, error) {
	departments, err := s.departmentRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	var rows []analytics.WorkloadRow
	for _, id := range input.rowOrder {
		rows = append(rows, input.rows[id]...)
	}

	// The roll-up always covers active employees only, whatever the filter says.
	aggregates, err := s.aggregator.Aggregate(departments, analyticsservice.ActiveRows(rows))
	if err != nil {
		return nil, err
	}

	return lo.Map(aggregates, func(agg analytics.DepartmentAggregate, _ int) report.DepartmentRow {
		return report.DepartmentRow{
			DepartmentID:   agg.DepartmentID,
			Department:     agg.DepartmentName,
			EmployeesCount: agg.EmployeesCount,
			AvgWorkload:    analyticsservice.RoundInt(agg.Metrics.AvgWorkload),
			Efficiency:     analyticsservice.RoundInt(agg.Metrics.Efficiency),
			TasksCompleted: agg.Metrics.Completed,
			TasksOverdue:   agg.Metrics.Overdue,
		}
	}), nil
}

func (s *reportServiceImpl) risksReport(input reportInput) []report.RiskRow {
	risks := make([]report.RiskRow, 0)
	for _, e := range input.employees {
		m := s.calculator.Aggregate(input.rows[e.ID])
		if m.AvgWorkload > analytics.OverloadThreshold {
			risks = append(risks, report.RiskRow{
				Type:           report.RiskOverload,
				EmployeeID:     e.ID,
				Employee:       e.FullName,
				Department:     orMissing(e.DepartmentName),
				Value:          analyticsservice.RoundInt(m.AvgWorkload),
				Recommendation: recommendRedistribute,
			})
		}
		if m.TotalTasks > 0 && m.Efficiency < analytics.DefaultLowEfficiencyThreshold {
			risks = append(risks, report.RiskRow{
				Type:           report.RiskLowEfficiency,
				EmployeeID:     e.ID,
				Employee:       e.FullName,
				Department:     orMissing(e.DepartmentName),
				Value:          analyticsservice.RoundInt(m.Efficiency),
				Recommendation: recommendOneToOne,
			})
		}
	}
	return risks
}

func orMissing(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return missingValue
	}
	return *value
}
