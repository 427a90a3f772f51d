package analytics

import "github.com/staffpulse/analytics-api/internal/pkg/apperror"

var (
	// ErrNoData is returned when no workload entries exist, so there is no week to analyze.
	ErrNoData = apperror.NotFound("no workload data available")

	// ErrMissingRoot is returned when departments exist but none of them is a root.
	ErrMissingRoot = apperror.New(apperror.KindInternal, "department hierarchy has no root department")
)
