package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate builds a report of reportType over the latest week
	Generate(ctx context.Context, reportType Type, filter Filter) (Report, error)

	// Export renders a report into an in-memory Excel or PDF file
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
}
