package department

import "context"

type DepartmentRepository interface {
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, id int64) (Department, error)
	GetByName(ctx context.Context, name string) (Department, error)

	// List returns departments ordered by name, filtered by a case-insensitive
	// name match when search is not empty.
	List(ctx context.Context, search string) ([]Department, error)

	Update(ctx context.Context, d Department) (Department, error)
	Delete(ctx context.Context, id int64) error
	CountChildren(ctx context.Context, id int64) (int64, error)

	// ExistsByName checks name uniqueness, ignoring the department excludeID.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}
