package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
)

type workloadRepositoryImpl struct {
	db *database.DB
}

func NewWorkloadRepository(db *database.DB) workload.WorkloadRepository {
	return &workloadRepositoryImpl{db: db}
}

const entryColumns = `id, employee_id, project_id, week_start_date, workload_percent,
	tasks_completed, tasks_overdue, created_at, updated_at`

func scanEntry(row pgx.Row) (workload.Entry, error) {
	var e workload.Entry
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.ProjectID, &e.WeekStartDate, &e.WorkloadPercent,
		&e.TasksCompleted, &e.TasksOverdue, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *workloadRepositoryImpl) LatestWeek(ctx context.Context) (*time.Time, error) {
	q := GetQuerier(ctx, r.db)

	var week *time.Time
	if err := q.QueryRow(ctx, `SELECT MAX(week_start_date) FROM workload_entries`).Scan(&week); err != nil {
		return nil, fmt.Errorf("failed to get latest week: %w", err)
	}
	return week, nil
}

func (r *workloadRepositoryImpl) Get(ctx context.Context, employeeID, projectID int64, week time.Time) (workload.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM workload_entries
		WHERE employee_id = $1 AND project_id = $2 AND week_start_date = $3
	`

	result, err := scanEntry(q.QueryRow(ctx, query, employeeID, projectID, week))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workload.Entry{}, workload.ErrEntryNotFound
		}
		return workload.Entry{}, fmt.Errorf("failed to get workload entry: %w", err)
	}
	return result, nil
}

func (r *workloadRepositoryImpl) ListMembers(ctx context.Context, projectID int64, week time.Time) ([]workload.MemberEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT w.id, w.employee_id, w.project_id, w.week_start_date, w.workload_percent,
			w.tasks_completed, w.tasks_overdue, w.created_at, w.updated_at,
			e.full_name, e.email, e.department_id, e.position_id
		FROM workload_entries w
		JOIN employees e ON e.id = w.employee_id
		WHERE w.project_id = $1 AND w.week_start_date = $2
		ORDER BY e.full_name ASC, e.id ASC
	`

	rows, err := q.Query(ctx, query, projectID, week)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	members := make([]workload.MemberEntry, 0)
	for rows.Next() {
		var m workload.MemberEntry
		if err := rows.Scan(
			&m.ID, &m.EmployeeID, &m.ProjectID, &m.WeekStartDate, &m.WorkloadPercent,
			&m.TasksCompleted, &m.TasksOverdue, &m.CreatedAt, &m.UpdatedAt,
			&m.FullName, &m.Email, &m.DepartmentID, &m.PositionID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project member: %w", err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return members, nil
}

func (r *workloadRepositoryImpl) Create(ctx context.Context, e workload.Entry) (workload.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO workload_entries (
			employee_id, project_id, week_start_date, workload_percent,
			tasks_completed, tasks_overdue, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + entryColumns

	result, err := scanEntry(q.QueryRow(ctx, query,
		e.EmployeeID, e.ProjectID, e.WeekStartDate, e.WorkloadPercent, e.TasksCompleted, e.TasksOverdue,
	))
	if err != nil {
		return workload.Entry{}, fmt.Errorf("failed to create workload entry: %w", err)
	}
	return result, nil
}

func (r *workloadRepositoryImpl) UpdateCounters(ctx context.Context, e workload.Entry) (workload.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workload_entries
		SET workload_percent = $1, tasks_completed = $2, tasks_overdue = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + entryColumns

	result, err := scanEntry(q.QueryRow(ctx, query, e.WorkloadPercent, e.TasksCompleted, e.TasksOverdue, e.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workload.Entry{}, workload.ErrEntryNotFound
		}
		return workload.Entry{}, fmt.Errorf("failed to update workload entry: %w", err)
	}
	return result, nil
}

func (r *workloadRepositoryImpl) Delete(ctx context.Context, employeeID, projectID int64, week time.Time) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `
		DELETE FROM workload_entries
		WHERE employee_id = $1 AND project_id = $2 AND week_start_date = $3
	`, employeeID, projectID, week)
	if err != nil {
		return fmt.Errorf("failed to delete workload entry: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return workload.ErrEntryNotFound
	}

	return nil
}

type kpiRepositoryImpl struct {
	db *database.DB
}

func NewKPIRepository(db *database.DB) workload.KPIRepository {
	return &kpiRepositoryImpl{db: db}
}

func (r *kpiRepositoryImpl) DeletePeriod(ctx context.Context, period time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM kpi_metrics WHERE period = $1`, period)
	if err != nil {
		return 0, fmt.Errorf("failed to delete kpi period: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

// InsertBatch writes metrics with COPY.
func (r *kpiRepositoryImpl) InsertBatch(ctx context.Context, metrics []workload.KPIMetric) (int64, error) {
	if len(metrics) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	now := time.Now()
	inserted, err := q.CopyFrom(ctx,
		pgx.Identifier{"kpi_metrics"},
		[]string{"employee_id", "metric_name", "metric_value", "period", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(metrics), func(i int) ([]any, error) {
			m := metrics[i]
			return []any{m.EmployeeID, m.MetricName, m.MetricValue, m.Period, now, now}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert kpi metrics: %w", err)
	}
	return inserted, nil
}

func (r *kpiRepositoryImpl) History(ctx context.Context, employeeID int64, metricName string) ([]workload.KPIMetric, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, metric_name, metric_value, period
		FROM kpi_metrics
		WHERE employee_id = $1 AND metric_name = $2
		ORDER BY period ASC
	`

	rows, err := q.Query(ctx, query, employeeID, metricName)
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi history: %w", err)
	}
	defer rows.Close()

	history := make([]workload.KPIMetric, 0)
	for rows.Next() {
		var m workload.KPIMetric
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.MetricName, &m.MetricValue, &m.Period); err != nil {
			return nil, fmt.Errorf("failed to scan kpi metric: %w", err)
		}
		history = append(history, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return history, nil
}
