package employee

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrEmployeeNotFound      = apperror.NotFound("employee not found")
	ErrEmailExists           = apperror.Conflict("email already registered")
	ErrDepartmentNotFound    = apperror.Validation("department not found")
	ErrPositionNotFound      = apperror.Validation("position not found")
	ErrFutureHireDate        = apperror.Validation("hire date cannot be in the future")
	ErrNoPhoto               = apperror.Validation("employee has no photo")
	ErrEmployeeAlreadyActive = apperror.Validation("employee is already active")
)
