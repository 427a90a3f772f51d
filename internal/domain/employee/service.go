package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists active employees, optionally filtered by name or email
	ListEmployees(ctx context.Context, search string) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID, active or not
	GetEmployee(ctx context.Context, id int64) (EmployeeResponse, error)

	// CreateEmployee creates an employee with an optional photo
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest, photo *PhotoUpload) (EmployeeResponse, error)

	// UpdateEmployee applies a partial update; a new photo replaces the old one
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest, photo *PhotoUpload) (EmployeeResponse, error)

	// DeactivateEmployee soft deletes an employee
	DeactivateEmployee(ctx context.Context, id int64) (EmployeeResponse, error)

	ActivateEmployee(ctx context.Context, id int64) (EmployeeResponse, error)

	DeletePhoto(ctx context.Context, id int64) (EmployeeResponse, error)

	// ListByDepartment lists active employees of a department, and of its
	// descendants when includeChildren is set
	ListByDepartment(ctx context.Context, departmentID int64, includeChildren bool) ([]EmployeeResponse, error)
}
