package http

import (
	"net/http"

	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
	"github.com/staffpulse/analytics-api/internal/service/master"
)

type MasterHandler interface {
	// Position handlers
	ListPositions(w http.ResponseWriter, r *http.Request)
	GetPosition(w http.ResponseWriter, r *http.Request)
	CreatePosition(w http.ResponseWriter, r *http.Request)
	UpdatePosition(w http.ResponseWriter, r *http.Request)
	DeletePosition(w http.ResponseWriter, r *http.Request)
	ListPositionEmployees(w http.ResponseWriter, r *http.Request)

	// Project handlers
	ListProjects(w http.ResponseWriter, r *http.Request)
	GetProject(w http.ResponseWriter, r *http.Request)
	CreateProject(w http.ResponseWriter, r *http.Request)
	UpdateProject(w http.ResponseWriter, r *http.Request)
	UpdateProjectStatus(w http.ResponseWriter, r *http.Request)
	DeleteProject(w http.ResponseWriter, r *http.Request)
	GetProjectStatistics(w http.ResponseWriter, r *http.Request)
	ListActiveProjects(w http.ResponseWriter, r *http.Request)

	// Project member handlers
	ListProjectMembers(w http.ResponseWriter, r *http.Request)
	AddProjectMember(w http.ResponseWriter, r *http.Request)
	RemoveProjectMember(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== POSITION HANDLERS ====================

func (h *masterHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListPositions(r.Context(), position.ListPositionsRequest{
		Page:   queryInt(r, "page", 0),
		Limit:  queryInt(r, "limit", 0),
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) GetPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.masterService.GetPosition(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req position.CreatePositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.masterService.CreatePosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Position created successfully", result)
}

func (h *masterHandlerImpl) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req position.UpdatePositionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.masterService.UpdatePosition(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Position updated successfully", result)
}

func (h *masterHandlerImpl) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.masterService.DeletePosition(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Position deleted successfully", nil)
}

func (h *masterHandlerImpl) ListPositionEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.masterService.ListPositionEmployees(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ==================== PROJECT HANDLERS ====================

func (h *masterHandlerImpl) ListProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.masterService.ListProjects(r.Context(), project.ListProjectsRequest{
		Page:   queryInt(r, "page", 0),
		Limit:  queryInt(r, "limit", 0),
		Search: query.Get("search"),
		Status: query.Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.masterService.GetProject(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.masterService.CreateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Project created successfully", result)
}

func (h *masterHandlerImpl) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req project.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.masterService.UpdateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Project updated successfully", result)
}

func (h *masterHandlerImpl) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req project.UpdateProjectStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.masterService.UpdateProjectStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Project status updated", result)
}

func (h *masterHandlerImpl) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.masterService.DeleteProject(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Project deleted successfully", nil)
}

func (h *masterHandlerImpl) GetProjectStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.GetProjectStatistics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) ListActiveProjects(w http.ResponseWriter, r *http.Request) {
	result, err := h.masterService.ListActiveProjects(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ==================== PROJECT MEMBER HANDLERS ====================

func (h *masterHandlerImpl) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.masterService.ListProjectMembers(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *masterHandlerImpl) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req project.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ProjectID = id

	result, err := h.masterService.AddProjectMember(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee added to project", result)
}

func (h *masterHandlerImpl) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	projectID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := urlID(w, r, "employeeId")
	if !ok {
		return
	}

	if err := h.masterService.RemoveProjectMember(r.Context(), projectID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee removed from project", nil)
}
