package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
)

type analyticsRepositoryImpl struct {
	db *database.DB
}

func NewAnalyticsRepository(db *database.DB) analytics.AnalyticsRepository {
	return &analyticsRepositoryImpl{db: db}
}

const workloadRowSelect = `
	SELECT w.employee_id, e.full_name, e.is_active, e.department_id, d.name,
		w.project_id, p.name, w.week_start_date, w.workload_percent,
		w.tasks_completed, w.tasks_overdue
	FROM workload_entries w
	JOIN employees e ON e.id = w.employee_id
	JOIN projects p ON p.id = w.project_id
	LEFT JOIN departments d ON d.id = e.department_id
`

func (r *analyticsRepositoryImpl) queryRows(ctx context.Context, where string, args ...interface{}) ([]analytics.WorkloadRow, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, workloadRowSelect+where+` ORDER BY w.employee_id ASC, w.project_id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query workload rows: %w", err)
	}
	defer rows.Close()

	result := make([]analytics.WorkloadRow, 0)
	for rows.Next() {
		var row analytics.WorkloadRow
		if err := rows.Scan(
			&row.EmployeeID, &row.EmployeeName, &row.EmployeeActive, &row.DepartmentID, &row.DepartmentName,
			&row.ProjectID, &row.ProjectName, &row.WeekStartDate, &row.WorkloadPercent,
			&row.TasksCompleted, &row.TasksOverdue,
		); err != nil {
			return nil, fmt.Errorf("failed to scan workload row: %w", err)
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *analyticsRepositoryImpl) WeekRows(ctx context.Context, week time.Time) ([]analytics.WorkloadRow, error) {
	return r.queryRows(ctx, ` WHERE w.week_start_date = $1`, week)
}

func (r *analyticsRepositoryImpl) EmployeeWeekRows(ctx context.Context, employeeID int64, week time.Time) ([]analytics.WorkloadRow, error) {
	return r.queryRows(ctx, ` WHERE w.employee_id = $1 AND w.week_start_date = $2`, employeeID, week)
}

func (r *analyticsRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE is_active = TRUE`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

func (r *analyticsRepositoryImpl) CountProjectsInProgress(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	query := `SELECT COUNT(*) FROM projects WHERE status = $1`
	if err := q.QueryRow(ctx, query, string(project.StatusInProgress)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count projects in progress: %w", err)
	}
	return count, nil
}
