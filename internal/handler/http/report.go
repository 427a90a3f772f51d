package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
)

type ReportHandler interface {
	GetReport(w http.ResponseWriter, r *http.Request)
	ExportReport(w http.ResponseWriter, r *http.Request)
	QuickExport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// GetReport implements ReportHandler. Filters come from the query:
// departments, positions and projects as id lists, active=false for inactive employees.
func (h *reportHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	reportType, err := report.ParseType(chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	departments, ok := queryIDs(w, r, "departments")
	if !ok {
		return
	}
	positions, ok := queryIDs(w, r, "positions")
	if !ok {
		return
	}
	projects, ok := queryIDs(w, r, "projects")
	if !ok {
		return
	}

	result, err := h.reportService.Generate(r.Context(), reportType, report.Filter{
		DepartmentIDs:   departments,
		PositionIDs:     positions,
		ProjectIDs:      projects,
		IncludeInactive: r.URL.Query().Get("active") == "false",
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportReport implements ReportHandler
func (h *reportHandlerImpl) ExportReport(w http.ResponseWriter, r *http.Request) {
	reportType, err := report.ParseType(chi.URLParam(r, "report_type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req report.ExportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Type = reportType

	h.export(w, r, req)
}

// QuickExport implements ReportHandler
func (h *reportHandlerImpl) QuickExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("type") == "" || query.Get("format") == "" {
		response.BadRequest(w, "Report type and format are required", nil)
		return
	}

	reportType, err := report.ParseType(query.Get("type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.export(w, r, report.ExportRequest{Type: reportType, Format: query.Get("format")})
}

func (h *reportHandlerImpl) export(w http.ResponseWriter, r *http.Request, req report.ExportRequest) {
	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Filename, file.ContentType, file.Content.Bytes())
}
