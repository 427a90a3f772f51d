package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const projectColumns = `id, name, description, start_date, end_date, status, created_at, updated_at`

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	var status string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &status, &p.CreatedAt, &p.UpdatedAt)
	p.Status = project.Status(status)
	return p, err
}

func (r *projectRepositoryImpl) Create(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO projects (name, description, start_date, end_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING ` + projectColumns

	result, err := scanProject(q.QueryRow(ctx, query, p.Name, p.Description, p.StartDate, p.EndDate, string(p.Status)))
	if err != nil {
		return project.Project{}, fmt.Errorf("failed to create project: %w", mapUniqueViolation(err, project.ErrProjectNameExists))
	}
	return result, nil
}

func (r *projectRepositoryImpl) GetByID(ctx context.Context, id int64) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanProject(q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return result, nil
}

func (r *projectRepositoryImpl) GetByName(ctx context.Context, name string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanProject(q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project by name: %w", err)
	}
	return result, nil
}

func (r *projectRepositoryImpl) List(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM projects"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM projects%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		projectColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return projects, total, nil
}

func (r *projectRepositoryImpl) ListByStatus(ctx context.Context, status project.Status) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + projectColumns + ` FROM projects WHERE status = $1 ORDER BY start_date ASC, id ASC`

	rows, err := q.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects by status: %w", err)
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return projects, nil
}

func (r *projectRepositoryImpl) Update(ctx context.Context, p project.Project) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE projects
		SET name = $1, description = $2, start_date = $3, end_date = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + projectColumns

	result, err := scanProject(q.QueryRow(ctx, query, p.Name, p.Description, p.StartDate, p.EndDate, string(p.Status), p.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to update project: %w", mapUniqueViolation(err, project.ErrProjectNameExists))
	}
	return result, nil
}

func (r *projectRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status project.Status) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE projects
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + projectColumns

	result, err := scanProject(q.QueryRow(ctx, query, string(status), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to update project status: %w", err)
	}
	return result, nil
}

// Delete removes the project; its workload entries go with it via ON DELETE CASCADE.
func (r *projectRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM projects WHERE name = $1 AND id <> $2)`
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check project name: %w", err)
	}
	return exists, nil
}

func (r *projectRepositoryImpl) CountByStatus(ctx context.Context) (map[project.Status]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[project.Status]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan project status count: %w", err)
		}
		counts[project.Status(status)] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return counts, nil
}
