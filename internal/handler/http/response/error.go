package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

var detailedErrors atomic.Bool

// SetDetailedErrors makes internal errors carry their cause. Only enable in development.
func SetDetailedErrors(enabled bool) {
	detailedErrors.Store(enabled)
}

// HandleError maps an error to an HTTP response by its apperror kind.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	message := apperror.MessageOf(err)

	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		NotFound(w, orDefault(message, "Resource not found"))
	case apperror.KindConflict:
		Conflict(w, orDefault(message, "Resource already exists"))
	case apperror.KindValidation:
		BadRequest(w, orDefault(message, "Invalid request"), causeOf(err))
	default:
		slog.Error("Unhandled error", "error", err)
		if detailedErrors.Load() {
			InternalServerError(w, err.Error())
			return
		}
		InternalServerError(w, "An unexpected error occurred")
	}
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// causeOf exposes the wrapped cause of a tagged validation error, e.g. a csv parse error.
func causeOf(err error) map[string]string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		return map[string]string{"cause": appErr.Err.Error()}
	}
	return nil
}
