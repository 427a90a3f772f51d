package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
	"github.com/staffpulse/analytics-api/internal/service/file"
)

type EmployeeServiceImpl struct {
	transactor        database.Transactor
	employeeRepo      employee.EmployeeRepository
	departmentRepo    department.DepartmentRepository
	positionRepo      position.PositionRepository
	departmentService department.DepartmentService
	fileService       file.FileService
	now               func() time.Time
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	departmentService department.DepartmentService,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:        transactor,
		employeeRepo:      employeeRepo,
		departmentRepo:    departmentRepo,
		positionRepo:      positionRepo,
		departmentService: departmentService,
		fileService:       fileService,
		now:               time.Now,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, search string) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{Search: search, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return lo.Map(employees, func(e employee.EmployeeWithRefs, _ int) employee.EmployeeResponse {
		return employee.NewEmployeeResponse(e)
	}), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest, photo *employee.PhotoUpload) (employee.EmployeeResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.ensureReferences(ctx, req.DepartmentID, req.PositionID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)
	entity := employee.Employee{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		HireDate:     hireDate,
		IsActive:     lo.FromPtrOr(req.IsActive, true),
		DepartmentID: req.DepartmentID,
		PositionID:   req.PositionID,
	}

	var createdID int64
	var photoURL string
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := s.employeeRepo.Create(ctx, entity)
		if err != nil {
			return err
		}
		createdID = created.ID

		if photo == nil {
			return nil
		}
		photoURL, err = s.fileService.UploadEmployeePhoto(ctx, created.ID, photo.File, photo.Filename)
		if err != nil {
			return err
		}
		return s.employeeRepo.UpdatePhoto(ctx, created.ID, &photoURL)
	})
	if err != nil {
		s.discardFile(ctx, photoURL)
		return employee.EmployeeResponse{}, err
	}

	return s.GetEmployee(ctx, createdID)
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest, photo *employee.PhotoUpload) (employee.EmployeeResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	updated := existing.Employee

	if req.FullName != nil {
		updated.FullName = *req.FullName
	}
	if req.Email != nil && *req.Email != existing.Email {
		exists, err := s.employeeRepo.ExistsByEmail(ctx, *req.Email, req.ID)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmailExists
		}
		updated.Email = *req.Email
	}
	if req.Phone != nil {
		updated.Phone = req.Phone
	}
	if req.HireDate != nil {
		updated.HireDate, _ = validator.IsValidDate(*req.HireDate)
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if req.DepartmentID != nil {
		updated.DepartmentID = req.DepartmentID
	}
	if req.PositionID != nil {
		updated.PositionID = req.PositionID
	}

	if err := s.ensureReferences(ctx, req.DepartmentID, req.PositionID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var newPhotoURL string
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if photo != nil {
			url, err := s.fileService.UploadEmployeePhoto(ctx, req.ID, photo.File, photo.Filename)
			if err != nil {
				return err
			}
			newPhotoURL = url
			updated.PhotoURL = &newPhotoURL
		}
		_, err := s.employeeRepo.Update(ctx, updated)
		return err
	})
	if err != nil {
		s.discardFile(ctx, newPhotoURL)
		return employee.EmployeeResponse{}, err
	}

	if photo != nil && existing.PhotoURL != nil {
		s.discardFile(ctx, *existing.PhotoURL)
	}

	return s.GetEmployee(ctx, req.ID)
}

// DeactivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeactivateEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	if _, err := s.employeeRepo.SetActive(ctx, id, false); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetEmployee(ctx, id)
}

// ActivateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ActivateEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if existing.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeAlreadyActive
	}

	if _, err := s.employeeRepo.SetActive(ctx, id, true); err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.GetEmployee(ctx, id)
}

// DeletePhoto implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeletePhoto(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if existing.PhotoURL == nil {
		return employee.EmployeeResponse{}, employee.ErrNoPhoto
	}

	if err := s.employeeRepo.UpdatePhoto(ctx, id, nil); err != nil {
		return employee.EmployeeResponse{}, err
	}
	s.discardFile(ctx, *existing.PhotoURL)

	return s.GetEmployee(ctx, id)
}

// ListByDepartment implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListByDepartment(ctx context.Context, departmentID int64, includeChildren bool) ([]employee.EmployeeResponse, error) {
	ids := []int64{departmentID}
	if includeChildren {
		var err error
		ids, err = s.departmentService.DescendantIDs(ctx, departmentID)
		if err != nil {
			return nil, err
		}
	} else if _, err := s.departmentRepo.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.List(ctx, employee.EmployeeFilter{DepartmentIDs: ids, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return lo.Map(employees, func(e employee.EmployeeWithRefs, _ int) employee.EmployeeResponse {
		return employee.NewEmployeeResponse(e)
	}), nil
}

// ensureReferences checks that the referenced department and position exist.
func (s *EmployeeServiceImpl) ensureReferences(ctx context.Context, departmentID, positionID *int64) error {
	if departmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *departmentID); err != nil {
			if errors.Is(err, department.ErrDepartmentNotFound) {
				return employee.ErrDepartmentNotFound
			}
			return fmt.Errorf("failed to check department: %w", err)
		}
	}
	if positionID != nil {
		if _, err := s.positionRepo.GetByID(ctx, *positionID); err != nil {
			if errors.Is(err, position.ErrPositionNotFound) {
				return employee.ErrPositionNotFound
			}
			return fmt.Errorf("failed to check position: %w", err)
		}
	}
	return nil
}

// discardFile removes an uploaded file, logging instead of failing.
func (s *EmployeeServiceImpl) discardFile(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.fileService.DeleteFile(ctx, url); err != nil {
		slog.Warn("Failed to delete employee photo", "url", url, "error", err)
	}
}
