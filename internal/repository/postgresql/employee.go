package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, full_name, email, phone, photo_url, hire_date, is_active,
	department_id, position_id, created_at, updated_at`

const employeeWithRefsSelect = `
	SELECT e.id, e.full_name, e.email, e.phone, e.photo_url, e.hire_date, e.is_active,
		e.department_id, e.position_id, e.created_at, e.updated_at,
		d.name, p.name
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN positions p ON p.id = e.position_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.Phone, &e.PhotoURL, &e.HireDate, &e.IsActive,
		&e.DepartmentID, &e.PositionID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanEmployeeWithRefs(row pgx.Row) (employee.EmployeeWithRefs, error) {
	var e employee.EmployeeWithRefs
	err := row.Scan(
		&e.ID, &e.FullName, &e.Email, &e.Phone, &e.PhotoURL, &e.HireDate, &e.IsActive,
		&e.DepartmentID, &e.PositionID, &e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.PositionName,
	)
	return e, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			full_name, email, phone, photo_url, hire_date, is_active,
			department_id, position_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + employeeColumns

	result, err := scanEmployee(q.QueryRow(ctx, query,
		e.FullName, e.Email, e.Phone, e.PhotoURL, e.HireDate, e.IsActive,
		e.DepartmentID, e.PositionID,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", mapUniqueViolation(err, employee.ErrEmailExists))
	}
	return result, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.EmployeeWithRefs, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanEmployeeWithRefs(q.QueryRow(ctx, employeeWithRefsSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeWithRefs{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeWithRefs{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return result, nil
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER($1)`

	result, err := scanEmployee(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by email: %w", err)
	}
	return result, nil
}

// GetByFullName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByFullName(ctx context.Context, fullName string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE full_name = $1 ORDER BY id LIMIT 1`

	result, err := scanEmployee(q.QueryRow(ctx, query, fullName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by name: %w", err)
	}
	return result, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeWithRefs, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argIdx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if len(filter.DepartmentIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.department_id = ANY($%d)", argIdx))
		args = append(args, filter.DepartmentIDs)
		argIdx++
	}

	if len(filter.PositionIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.position_id = ANY($%d)", argIdx))
		args = append(args, filter.PositionIDs)
		argIdx++
	}

	if filter.ActiveOnly {
		conditions = append(conditions, "e.is_active = TRUE")
	}

	query := employeeWithRefsSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.full_name ASC, e.id ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.EmployeeWithRefs, 0)
	for rows.Next() {
		e, err := scanEmployeeWithRefs(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $1, email = $2, phone = $3, photo_url = $4, hire_date = $5,
			is_active = $6, department_id = $7, position_id = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING ` + employeeColumns

	result, err := scanEmployee(q.QueryRow(ctx, query,
		e.FullName, e.Email, e.Phone, e.PhotoURL, e.HireDate,
		e.IsActive, e.DepartmentID, e.PositionID, e.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", mapUniqueViolation(err, employee.ErrEmailExists))
	}
	return result, nil
}

// SetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SetActive(ctx context.Context, id int64, active bool) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + employeeColumns

	result, err := scanEmployee(q.QueryRow(ctx, query, active, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to set employee active flag: %w", err)
	}
	return result, nil
}

// UpdatePhoto implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdatePhoto(ctx context.Context, id int64, photoURL *string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `UPDATE employees SET photo_url = $1, updated_at = NOW() WHERE id = $2`, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to update employee photo: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// ExistsByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) AND id <> $2)`
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee email: %w", err)
	}
	return exists, nil
}

// CountByPosition implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByPosition(ctx context.Context, positionID int64) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE position_id = $1`, positionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees by position: %w", err)
	}
	return count, nil
}
