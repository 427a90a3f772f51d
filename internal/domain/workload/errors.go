package workload

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var ErrEntryNotFound = apperror.NotFound("workload entry not found")
