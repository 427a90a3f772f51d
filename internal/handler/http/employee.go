package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/handler/http/response"
)

const maxEmployeeFormSize = 10 << 20

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeactivateEmployee(w http.ResponseWriter, r *http.Request)
	ActivateEmployee(w http.ResponseWriter, r *http.Request)
	DeletePhoto(w http.ResponseWriter, r *http.Request)
	ListByDepartment(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.ListEmployees(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateEmployee implements EmployeeHandler. The body is JSON, or multipart
// with the JSON in field "data" and an optional "photo" file.
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	photo, closePhoto, ok := decodeEmployeeBody(w, r, &req)
	if !ok {
		return
	}
	defer closePhoto()

	result, err := h.employeeService.CreateEmployee(r.Context(), req, photo)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created successfully", result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	photo, closePhoto, ok := decodeEmployeeBody(w, r, &req)
	if !ok {
		return
	}
	defer closePhoto()
	req.ID = id

	result, err := h.employeeService.UpdateEmployee(r.Context(), req, photo)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeactivateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.DeactivateEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, employee.DeactivateEmployeeResponse{
		Message:  "Employee deactivated",
		Employee: result,
	})
}

// ActivateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) ActivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.ActivateEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee activated", result)
}

// DeletePhoto implements EmployeeHandler
func (h *employeeHandlerImpl) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.DeletePhoto(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Photo deleted", result)
}

// ListByDepartment implements EmployeeHandler
func (h *employeeHandlerImpl) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.ListByDepartment(r.Context(), id, queryBool(r, "includeChildren"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// decodeEmployeeBody fills dst and returns the uploaded photo, if any. The
// returned close func is always safe to call.
func decodeEmployeeBody(w http.ResponseWriter, r *http.Request, dst any) (*employee.PhotoUpload, func(), bool) {
	noop := func() {}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, decodeJSON(w, r, dst)
	}

	if err := r.ParseMultipartForm(maxEmployeeFormSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, noop, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return nil, noop, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return nil, noop, false
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil, noop, true
	}

	return &employee.PhotoUpload{File: file, Filename: header.Filename}, func() { _ = file.Close() }, true
}
