package project

import (
	"strings"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required,min=3,max=255"`
	Description *string `json:"description"`
	StartDate   string  `json:"start_date" validate:"required,isodate"`
	EndDate     *string `json:"end_date" validate:"omitempty,isodate"`
	Status      string  `json:"status" validate:"omitempty,oneof=planned in_progress completed cancelled"`
}

func (r *CreateProjectRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateDateRange(r.StartDate, r.EndDate)
}

type UpdateProjectRequest struct {
	ID          int64   `json:"-"`
	Name        *string `json:"name" validate:"omitempty,min=3,max=255"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date" validate:"omitempty,isodate"`
	EndDate     *string `json:"end_date" validate:"omitempty,isodate"`
	Status      *string `json:"status" validate:"omitempty,oneof=planned in_progress completed cancelled"`
}

func (r *UpdateProjectRequest) Validate() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	return validator.Struct(r)
}

type UpdateProjectStatusRequest struct {
	ID     int64  `json:"-"`
	Status string `json:"status" validate:"required,oneof=planned in_progress completed cancelled"`
}

func (r *UpdateProjectStatusRequest) Validate() error {
	return validator.Struct(r)
}

func validateDateRange(start string, end *string) error {
	if end == nil || *end == "" {
		return nil
	}
	startDate, _ := validator.IsValidDate(start)
	endDate, _ := validator.IsValidDate(*end)
	if endDate.Before(startDate) {
		return ErrInvalidDateRange
	}
	return nil
}

type ListProjectsRequest struct {
	Page   int
	Limit  int
	Search string
	Status string
}

type ProjectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListProjectsResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination common.Pagination `json:"pagination"`
}

type ProjectStatistics struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"byStatus"`
}

func NewProjectResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate.Format(validator.DateLayout),
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(validator.DateLayout)
		resp.EndDate = &end
	}
	return resp
}

// ========== Project members ==========

type AddMemberRequest struct {
	ProjectID  int64 `json:"-"`
	EmployeeID int64 `json:"employee_id" validate:"required,gt=0"`
}

func (r *AddMemberRequest) Validate() error {
	return validator.Struct(r)
}

type MemberEmployee struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	DepartmentID *int64 `json:"department_id"`
	PositionID   *int64 `json:"position_id"`
}

type MemberResponse struct {
	Employee        MemberEmployee `json:"employee"`
	WeekStartDate   string         `json:"week_start_date"`
	WorkloadPercent int            `json:"workload_percent"`
	TasksCompleted  int            `json:"tasks_completed"`
	TasksOverdue    int            `json:"tasks_overdue"`
}
