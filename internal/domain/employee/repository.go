package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id int64) (EmployeeWithRefs, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetByFullName(ctx context.Context, fullName string) (Employee, error)

	// List returns employees ordered by full name.
	List(ctx context.Context, filter EmployeeFilter) ([]EmployeeWithRefs, error)

	Update(ctx context.Context, e Employee) (Employee, error)
	SetActive(ctx context.Context, id int64, active bool) (Employee, error)
	UpdatePhoto(ctx context.Context, id int64, photoURL *string) error
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	CountByPosition(ctx context.Context, positionID int64) (int64, error)
}
