package department

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrDepartmentNotFound   = apperror.NotFound("department not found")
	ErrDepartmentNameExists = apperror.Conflict("department with this name already exists")
	ErrParentNotFound       = apperror.Validation("parent department not found")
	ErrHierarchyCycle       = apperror.Validation("department cannot be its own ancestor")
	ErrHasChildren          = apperror.Validation("cannot delete a department that has child departments")
)
