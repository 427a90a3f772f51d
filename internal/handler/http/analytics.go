package http

import (
	"net/http"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
)

const defaultTopPerformers = 5

type AnalyticsHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	GetOverallStats(w http.ResponseWriter, r *http.Request)
	GetDepartmentStats(w http.ResponseWriter, r *http.Request)
	GetTopPerformers(w http.ResponseWriter, r *http.Request)
	GetProblemAreas(w http.ResponseWriter, r *http.Request)
	GetEmployeeAnalytics(w http.ResponseWriter, r *http.Request)
	RecalculateKPIs(w http.ResponseWriter, r *http.Request)
	GetLowEfficiencyEmployees(w http.ResponseWriter, r *http.Request)
}

type analyticsHandlerImpl struct {
	analyticsService analytics.AnalyticsService
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandlerImpl{analyticsService: analyticsService}
}

// GetDashboard implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetOverallStats implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetOverallStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetOverallStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetDepartmentStats implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetDepartmentStats(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetDepartmentStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetTopPerformers implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetTopPerformers(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetTopPerformers(r.Context(), queryInt(r, "limit", defaultTopPerformers))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetProblemAreas implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetProblemAreas(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.GetProblemAreas(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetEmployeeAnalytics implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetEmployeeAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.analyticsService.GetEmployeeAnalytics(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// RecalculateKPIs implements AnalyticsHandler
func (h *analyticsHandlerImpl) RecalculateKPIs(w http.ResponseWriter, r *http.Request) {
	result, err := h.analyticsService.RecalculateKPIs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "KPI metrics recalculated", result)
}

// GetLowEfficiencyEmployees implements AnalyticsHandler
func (h *analyticsHandlerImpl) GetLowEfficiencyEmployees(w http.ResponseWriter, r *http.Request) {
	threshold := queryFloat(r, "threshold", analytics.DefaultLowEfficiencyThreshold)

	employees, err := h.analyticsService.GetLowEfficiencyEmployees(r.Context(), threshold)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, analytics.LowEfficiencyResponse{
		Employees: employees,
		Threshold: threshold,
		Count:     len(employees),
	})
}
