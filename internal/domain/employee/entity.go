package employee

import "time"

type Employee struct {
	ID           int64
	FullName     string
	Email        string
	Phone        *string
	PhotoURL     *string
	HireDate     time.Time
	IsActive     bool
	DepartmentID *int64
	PositionID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeWithRefs is an employee joined with its department and position names.
type EmployeeWithRefs struct {
	Employee
	DepartmentName *string
	PositionName   *string
}

type EmployeeFilter struct {
	Search        string
	DepartmentIDs []int64
	PositionIDs   []int64
	ActiveOnly    bool
}
