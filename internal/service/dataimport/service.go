package dataimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
)

const sampleSize = 3

var errEmailRequired = errors.New("email is required to create a new employee")

type importServiceImpl struct {
	transactor     database.Transactor
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	projectRepo    project.ProjectRepository
	employeeRepo   employee.EmployeeRepository
	workloadRepo   workload.WorkloadRepository
	now            func() time.Time
}

func NewImportService(
	transactor database.Transactor,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	projectRepo project.ProjectRepository,
	employeeRepo employee.EmployeeRepository,
	workloadRepo workload.WorkloadRepository,
) dataimport.ImportService {
	return &importServiceImpl{
		transactor:     transactor,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		projectRepo:    projectRepo,
		employeeRepo:   employeeRepo,
		workloadRepo:   workloadRepo,
		now:            time.Now,
	}
}

// Import implements dataimport.ImportService.
func (s *importServiceImpl) Import(ctx context.Context, req dataimport.ImportRequest) (dataimport.ImportResult, error) {
	importType := lo.Ternary(req.Type == "", dataimport.TypeKanban, req.Type)

	parsed, err := parseFile(req.Filename, req.File)
	if err != nil {
		return dataimport.ImportResult{}, err
	}

	rows, rejected := validateRecords(parsed.records, importType)
	if len(rows) == 0 {
		return dataimport.ImportResult{}, dataimport.ErrNoValidRows
	}

	result := dataimport.ImportResult{
		Rejected: rejected,
		FileInfo: dataimport.FileInfo{
			OriginalName:     filepath.Base(req.Filename),
			RecordsProcessed: len(rows),
		},
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			err := s.writeRow(txCtx, row, importType, today, &result)
			if errors.Is(err, errEmailRequired) {
				result.Rejected = append(result.Rejected, dataimport.RowError{Line: row.Line, Error: err.Error()})
				result.WorkloadEntries.Skipped++
				continue
			}
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Line, err)
			}
		}
		return nil
	})
	if err != nil {
		return dataimport.ImportResult{}, err
	}

	slog.Info("Import completed",
		"file", result.FileInfo.OriginalName,
		"type", importType,
		"rows", len(rows),
		"rejected", len(result.Rejected),
	)

	return result, nil
}

// Validate implements dataimport.ImportService.
func (s *importServiceImpl) Validate(ctx context.Context, req dataimport.ImportRequest) (dataimport.ValidationPreview, error) {
	importType := lo.Ternary(req.Type == "", dataimport.TypeKanban, req.Type)

	parsed, err := parseFile(req.Filename, req.File)
	if err != nil {
		return dataimport.ValidationPreview{}, err
	}

	rows, rejected := validateRecords(parsed.records, importType)
	if len(rows) == 0 {
		return dataimport.ValidationPreview{}, dataimport.ErrNoValidRows
	}

	sample := lo.Map(rows[:min(sampleSize, len(rows))], func(row dataimport.Row, _ int) dataimport.Record {
		return parsed.records[row.Line-1]
	})

	return dataimport.ValidationPreview{
		TotalRecords:  len(rows),
		SampleRecords: sample,
		Columns:       parsed.columns,
		Rejected:      rejected,
	}, nil
}

func (s *importServiceImpl) writeRow(ctx context.Context, row dataimport.Row, importType dataimport.Type, today time.Time, result *dataimport.ImportResult) error {
	existing, found, err := s.findEmployee(ctx, row)
	if err != nil {
		return err
	}
	if !found && row.Email == "" {
		return errEmailRequired
	}

	departmentID, created, err := s.findOrCreateDepartment(ctx, row.Department)
	if err != nil {
		return err
	}
	count(&result.Departments, created)

	positionID, created, err := s.findOrCreatePosition(ctx, row.Position)
	if err != nil {
		return err
	}
	count(&result.Positions, created)

	projectID, created, err := s.findOrCreateProject(ctx, row.Project, today)
	if err != nil {
		return err
	}
	count(&result.Projects, created)

	var employeeID int64
	if found {
		employeeID, err = s.refreshEmployee(ctx, existing, row)
	} else {
		employeeID, err = s.createEmployee(ctx, row, departmentID, positionID, today)
	}
	if err != nil {
		return err
	}
	count(&result.Employees, !found)

	if importType != dataimport.TypeKanban || row.TaskStatus == "" {
		return nil
	}

	created, err = s.upsertWorkload(ctx, row, employeeID, projectID, today)
	if err != nil {
		return err
	}
	if created {
		result.WorkloadEntries.Created++
	} else {
		result.WorkloadEntries.Updated++
	}
	return nil
}

func (s *importServiceImpl) findOrCreateDepartment(ctx context.Context, name string) (int64, bool, error) {
	existing, err := s.departmentRepo.GetByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !isNotFound(err) {
		return 0, false, err
	}

	created, err := s.departmentRepo.Create(ctx, department.Department{Name: name})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

func (s *importServiceImpl) findOrCreatePosition(ctx context.Context, name string) (int64, bool, error) {
	existing, err := s.positionRepo.GetByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !isNotFound(err) {
		return 0, false, err
	}

	created, err := s.positionRepo.Create(ctx, position.Position{Name: name})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

func (s *importServiceImpl) findOrCreateProject(ctx context.Context, name string, today time.Time) (int64, bool, error) {
	existing, err := s.projectRepo.GetByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !isNotFound(err) {
		return 0, false, err
	}

	created, err := s.projectRepo.Create(ctx, project.Project{
		Name:      name,
		StartDate: today,
		Status:    project.StatusPlanned,
	})
	if err != nil {
		return 0, false, err
	}
	return created.ID, true, nil
}

// findEmployee matches by email when the row has one, by full name otherwise.
func (s *importServiceImpl) findEmployee(ctx context.Context, row dataimport.Row) (employee.Employee, bool, error) {
	var (
		existing employee.Employee
		err      error
	)
	if row.Email != "" {
		existing, err = s.employeeRepo.GetByEmail(ctx, row.Email)
	} else {
		existing, err = s.employeeRepo.GetByFullName(ctx, row.FullName)
	}

	switch {
	case err == nil:
		return existing, true, nil
	case isNotFound(err):
		return employee.Employee{}, false, nil
	default:
		return employee.Employee{}, false, err
	}
}

// refreshEmployee gives a matched employee the row's full name.
func (s *importServiceImpl) refreshEmployee(ctx context.Context, existing employee.Employee, row dataimport.Row) (int64, error) {
	if existing.FullName == row.FullName {
		return existing.ID, nil
	}
	existing.FullName = row.FullName
	if _, err := s.employeeRepo.Update(ctx, existing); err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func (s *importServiceImpl) createEmployee(ctx context.Context, row dataimport.Row, departmentID, positionID int64, today time.Time) (int64, error) {
	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		FullName:     row.FullName,
		Email:        row.Email,
		Phone:        lo.EmptyableToPtr(row.Phone),
		HireDate:     today,
		IsActive:     true,
		DepartmentID: &departmentID,
		PositionID:   &positionID,
	})
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// upsertWorkload records one task in the entry of the week the task is due,
// or of the current week when it has no due date.
func (s *importServiceImpl) upsertWorkload(ctx context.Context, row dataimport.Row, employeeID, projectID int64, today time.Time) (bool, error) {
	week := workload.WeekStart(lo.FromPtrOr(row.TaskDueDate, today))
	done := isDone(row.TaskStatus)
	overdue := isOverdue(row, today)

	entry, err := s.workloadRepo.Get(ctx, employeeID, projectID, week)
	if err != nil && !isNotFound(err) {
		return false, err
	}

	if err != nil {
		_, err := s.workloadRepo.Create(ctx, workload.Entry{
			EmployeeID:      employeeID,
			ProjectID:       projectID,
			WeekStartDate:   week,
			WorkloadPercent: row.WorkloadPercent,
			TasksCompleted:  lo.Ternary(done, 1, 0),
			TasksOverdue:    lo.Ternary(overdue, 1, 0),
		})
		return true, err
	}

	switch {
	case done:
		entry.TasksCompleted++
	case overdue:
		entry.TasksOverdue++
	}
	if row.WorkloadPercent > 0 {
		entry.WorkloadPercent = row.WorkloadPercent
	}
	_, err = s.workloadRepo.UpdateCounters(ctx, entry)
	return false, err
}

func count(counters *dataimport.EntityCounters, created bool) {
	if created {
		counters.Created++
	} else {
		counters.Updated++
	}
}

func isNotFound(err error) bool {
	return apperror.KindOf(err) == apperror.KindNotFound
}
