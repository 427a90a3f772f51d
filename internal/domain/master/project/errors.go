package project

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrProjectNotFound   = apperror.NotFound("project not found")
	ErrProjectNameExists = apperror.Conflict("project with this name already exists")
	ErrInvalidDateRange  = apperror.Validation("end_date must not be before start_date")
	ErrEmployeeNotFound  = apperror.NotFound("employee not found")
	ErrMemberNotFound    = apperror.NotFound("employee is not assigned to this project")
)
