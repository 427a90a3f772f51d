package position

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrPositionNotFound   = apperror.NotFound("position not found")
	ErrPositionNameExists = apperror.Conflict("position with this name already exists")
	ErrPositionInUse      = apperror.Validation("cannot delete a position that has assigned employees")
)
