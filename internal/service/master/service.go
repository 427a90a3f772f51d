package master

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type MasterService interface {
	// Position operations
	ListPositions(ctx context.Context, req position.ListPositionsRequest) (position.ListPositionsResponse, error)
	GetPosition(ctx context.Context, id int64) (position.PositionResponse, error)
	CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error)
	UpdatePosition(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error)
	DeletePosition(ctx context.Context, id int64) error
	ListPositionEmployees(ctx context.Context, id int64) ([]employee.EmployeeResponse, error)

	// Project operations
	ListProjects(ctx context.Context, req project.ListProjectsRequest) (project.ListProjectsResponse, error)
	GetProject(ctx context.Context, id int64) (project.ProjectResponse, error)
	CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error)
	UpdateProject(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error)
	UpdateProjectStatus(ctx context.Context, req project.UpdateProjectStatusRequest) (project.ProjectResponse, error)
	DeleteProject(ctx context.Context, id int64) error
	GetProjectStatistics(ctx context.Context) (project.ProjectStatistics, error)
	ListActiveProjects(ctx context.Context) ([]project.ProjectResponse, error)

	// Project member operations
	ListProjectMembers(ctx context.Context, projectID int64) ([]project.MemberResponse, error)
	AddProjectMember(ctx context.Context, req project.AddMemberRequest) (project.MemberResponse, error)
	RemoveProjectMember(ctx context.Context, projectID, employeeID int64) error
}

type masterServiceImpl struct {
	positionRepo position.PositionRepository
	projectRepo  project.ProjectRepository
	employeeRepo employee.EmployeeRepository
	workloadRepo workload.WorkloadRepository
	now          func() time.Time
}

func NewMasterService(
	positionRepo position.PositionRepository,
	projectRepo project.ProjectRepository,
	employeeRepo employee.EmployeeRepository,
	workloadRepo workload.WorkloadRepository,
) MasterService {
	return &masterServiceImpl{
		positionRepo: positionRepo,
		projectRepo:  projectRepo,
		employeeRepo: employeeRepo,
		workloadRepo: workloadRepo,
		now:          time.Now,
	}
}

// ==================== POSITION OPERATIONS ====================

func (s *masterServiceImpl) ListPositions(ctx context.Context, req position.ListPositionsRequest) (position.ListPositionsResponse, error) {
	page, limit := common.NormalizePage(req.Page, req.Limit)

	positions, total, err := s.positionRepo.List(ctx, position.PositionFilter{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: common.Offset(page, limit),
	})
	if err != nil {
		return position.ListPositionsResponse{}, err
	}

	return position.ListPositionsResponse{
		Positions:  lo.Map(positions, func(p position.Position, _ int) position.PositionResponse { return position.NewPositionResponse(p) }),
		Pagination: common.NewPagination(total, page, limit),
	}, nil
}

func (s *masterServiceImpl) GetPosition(ctx context.Context, id int64) (position.PositionResponse, error) {
	entity, err := s.positionRepo.GetByID(ctx, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(entity), nil
}

func (s *masterServiceImpl) CreatePosition(ctx context.Context, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	exists, err := s.positionRepo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return position.PositionResponse{}, err
	}
	if exists {
		return position.PositionResponse{}, position.ErrPositionNameExists
	}

	created, err := s.positionRepo.Create(ctx, position.Position{Name: req.Name})
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(created), nil
}

func (s *masterServiceImpl) UpdatePosition(ctx context.Context, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	existing, err := s.positionRepo.GetByID(ctx, req.ID)
	if err != nil {
		return position.PositionResponse{}, err
	}

	exists, err := s.positionRepo.ExistsByName(ctx, req.Name, req.ID)
	if err != nil {
		return position.PositionResponse{}, err
	}
	if exists {
		return position.PositionResponse{}, position.ErrPositionNameExists
	}

	existing.Name = req.Name
	updated, err := s.positionRepo.Update(ctx, existing)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(updated), nil
}

func (s *masterServiceImpl) DeletePosition(ctx context.Context, id int64) error {
	if _, err := s.positionRepo.GetByID(ctx, id); err != nil {
		return err
	}

	assigned, err := s.employeeRepo.CountByPosition(ctx, id)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return position.ErrPositionInUse
	}

	return s.positionRepo.Delete(ctx, id)
}

func (s *masterServiceImpl) ListPositionEmployees(ctx context.Context, id int64) ([]employee.EmployeeResponse, error) {
	if _, err := s.positionRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{PositionIDs: []int64{id}, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return lo.Map(employees, func(e employee.EmployeeWithRefs, _ int) employee.EmployeeResponse {
		return employee.NewEmployeeResponse(e)
	}), nil
}

// ==================== PROJECT OPERATIONS ====================

func (s *masterServiceImpl) ListProjects(ctx context.Context, req project.ListProjectsRequest) (project.ListProjectsResponse, error) {
	page, limit := common.NormalizePage(req.Page, req.Limit)

	filter := project.ProjectFilter{
		Search: strings.TrimSpace(req.Search),
		Limit:  limit,
		Offset: common.Offset(page, limit),
	}
	if req.Status != "" {
		status := project.Status(req.Status)
		if !status.IsValid() {
			return project.ListProjectsResponse{}, validator.ValidationErrors{{Field: "status", Message: "status must be one of planned, in_progress, completed, cancelled"}}
		}
		filter.Status = &status
	}

	projects, total, err := s.projectRepo.List(ctx, filter)
	if err != nil {
		return project.ListProjectsResponse{}, err
	}

	return project.ListProjectsResponse{
		Projects:   lo.Map(projects, func(p project.Project, _ int) project.ProjectResponse { return project.NewProjectResponse(p) }),
		Pagination: common.NewPagination(total, page, limit),
	}, nil
}

func (s *masterServiceImpl) GetProject(ctx context.Context, id int64) (project.ProjectResponse, error) {
	entity, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(entity), nil
}

func (s *masterServiceImpl) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	exists, err := s.projectRepo.ExistsByName(ctx, req.Name, 0)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if exists {
		return project.ProjectResponse{}, project.ErrProjectNameExists
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	entity := project.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     parseOptionalDate(req.EndDate),
		Status:      project.StatusPlanned,
	}
	if req.Status != "" {
		entity.Status = project.Status(req.Status)
	}

	created, err := s.projectRepo.Create(ctx, entity)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(created), nil
}

func (s *masterServiceImpl) UpdateProject(ctx context.Context, req project.UpdateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	existing, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return project.ProjectResponse{}, err
	}

	if req.Name != nil && *req.Name != existing.Name {
		exists, err := s.projectRepo.ExistsByName(ctx, *req.Name, req.ID)
		if err != nil {
			return project.ProjectResponse{}, err
		}
		if exists {
			return project.ProjectResponse{}, project.ErrProjectNameExists
		}
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = req.Description
	}
	if req.StartDate != nil {
		existing.StartDate, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		existing.EndDate = parseOptionalDate(req.EndDate)
	}
	if req.Status != nil {
		existing.Status = project.Status(*req.Status)
	}

	if existing.EndDate != nil && existing.EndDate.Before(existing.StartDate) {
		return project.ProjectResponse{}, project.ErrInvalidDateRange
	}

	updated, err := s.projectRepo.Update(ctx, existing)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(updated), nil
}

func (s *masterServiceImpl) UpdateProjectStatus(ctx context.Context, req project.UpdateProjectStatusRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	updated, err := s.projectRepo.UpdateStatus(ctx, req.ID, project.Status(req.Status))
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(updated), nil
}

func (s *masterServiceImpl) DeleteProject(ctx context.Context, id int64) error {
	return s.projectRepo.Delete(ctx, id)
}

func (s *masterServiceImpl) GetProjectStatistics(ctx context.Context) (project.ProjectStatistics, error) {
	counts, err := s.projectRepo.CountByStatus(ctx)
	if err != nil {
		return project.ProjectStatistics{}, err
	}

	stats := project.ProjectStatistics{ByStatus: make(map[project.Status]int64, len(project.Statuses))}
	for _, status := range project.Statuses {
		stats.ByStatus[status] = counts[status]
		stats.Total += counts[status]
	}
	return stats, nil
}

func (s *masterServiceImpl) ListActiveProjects(ctx context.Context) ([]project.ProjectResponse, error) {
	projects, err := s.projectRepo.ListByStatus(ctx, project.StatusInProgress)
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p project.Project, _ int) project.ProjectResponse { return project.NewProjectResponse(p) }), nil
}

// ==================== PROJECT MEMBER OPERATIONS ====================

func (s *masterServiceImpl) ListProjectMembers(ctx context.Context, projectID int64) ([]project.MemberResponse, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	week, err := s.workloadRepo.LatestWeek(ctx)
	if err != nil {
		return nil, err
	}
	if week == nil {
		return []project.MemberResponse{}, nil
	}

	members, err := s.workloadRepo.ListMembers(ctx, projectID, *week)
	if err != nil {
		return nil, err
	}
	return lo.Map(members, func(m workload.MemberEntry, _ int) project.MemberResponse {
		return toMemberResponse(m)
	}), nil
}

// AddProjectMember assigns an employee to the project for the latest week.
// An existing assignment is returned unchanged.
func (s *masterServiceImpl) AddProjectMember(ctx context.Context, req project.AddMemberRequest) (project.MemberResponse, error) {
	if err := req.Validate(); err != nil {
		return project.MemberResponse{}, err
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return project.MemberResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return project.MemberResponse{}, project.ErrEmployeeNotFound
		}
		return project.MemberResponse{}, err
	}

	week, err := s.memberWeek(ctx)
	if err != nil {
		return project.MemberResponse{}, err
	}

	entry, err := s.workloadRepo.Get(ctx, req.EmployeeID, req.ProjectID, week)
	if errors.Is(err, workload.ErrEntryNotFound) {
		entry, err = s.workloadRepo.Create(ctx, workload.Entry{
			EmployeeID:    req.EmployeeID,
			ProjectID:     req.ProjectID,
			WeekStartDate: week,
		})
	}
	if err != nil {
		return project.MemberResponse{}, fmt.Errorf("failed to assign employee to project: %w", err)
	}

	return toMemberResponse(workload.MemberEntry{
		Entry:        entry,
		FullName:     emp.FullName,
		Email:        emp.Email,
		DepartmentID: emp.DepartmentID,
		PositionID:   emp.PositionID,
	}), nil
}

func (s *masterServiceImpl) RemoveProjectMember(ctx context.Context, projectID, employeeID int64) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return err
	}

	week, err := s.workloadRepo.LatestWeek(ctx)
	if err != nil {
		return err
	}
	if week == nil {
		return project.ErrMemberNotFound
	}

	if err := s.workloadRepo.Delete(ctx, employeeID, projectID, *week); err != nil {
		if errors.Is(err, workload.ErrEntryNotFound) {
			return project.ErrMemberNotFound
		}
		return err
	}
	return nil
}

// memberWeek is the latest week with data, or the current week when there is none.
func (s *masterServiceImpl) memberWeek(ctx context.Context) (time.Time, error) {
	week, err := s.workloadRepo.LatestWeek(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if week == nil {
		return workload.WeekStart(s.now()), nil
	}
	return *week, nil
}

// ==================== HELPER FUNCTIONS ====================

func parseOptionalDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	date, ok := validator.IsValidDate(*raw)
	if !ok {
		return nil
	}
	return &date
}

func toMemberResponse(m workload.MemberEntry) project.MemberResponse {
	return project.MemberResponse{
		Employee: project.MemberEmployee{
			ID:           m.EmployeeID,
			FullName:     m.FullName,
			Email:        m.Email,
			DepartmentID: m.DepartmentID,
			PositionID:   m.PositionID,
		},
		WeekStartDate:   m.WeekStartDate.Format(validator.DateLayout),
		WorkloadPercent: m.WorkloadPercent,
		TasksCompleted:  m.TasksCompleted,
		TasksOverdue:    m.TasksOverdue,
	}
}
