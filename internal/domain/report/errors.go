package report

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	ErrUnsupportedReportType = apperror.Validation("unsupported report type")
	ErrUnsupportedFormat     = apperror.Validation("unsupported export format")
)
