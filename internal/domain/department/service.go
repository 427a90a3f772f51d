package department

import "context"

// DepartmentService defines business logic for the department tree
type DepartmentService interface {
	// ListDepartments lists departments with their parent, optionally filtered by name
	ListDepartments(ctx context.Context, search string) ([]DepartmentResponse, error)

	// GetDepartment returns a department with its parent and direct children
	GetDepartment(ctx context.Context, id int64) (DepartmentResponse, error)

	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, req UpdateDepartmentRequest) (DepartmentResponse, error)

	// DeleteDepartment refuses to delete departments that still have children
	DeleteDepartment(ctx context.Context, id int64) error

	// GetHierarchy returns the full tree starting from the root departments
	GetHierarchy(ctx context.Context) ([]DepartmentNode, error)

	// ListOptions returns departments for select inputs; onlyRoots keeps parent-less ones
	ListOptions(ctx context.Context, onlyRoots bool) ([]DepartmentOption, error)

	// DescendantIDs returns id and every department below it
	DescendantIDs(ctx context.Context, id int64) ([]int64, error)
}
