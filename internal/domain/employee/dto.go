package employee

import (
	"io"
	"strings"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FullName     string  `json:"full_name" validate:"required,min=5,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=50,phone"`
	HireDate     string  `json:"hire_date" validate:"required,isodate"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	PositionID   *int64  `json:"position_id" validate:"omitempty,gt=0"`
	IsActive     *bool   `json:"is_active"`
}

func (r *CreateEmployeeRequest) Validate(now time.Time) error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	if err := validator.Struct(r); err != nil {
		return err
	}
	return validateHireDate(r.HireDate, now)
}

type UpdateEmployeeRequest struct {
	ID           int64   `json:"-"`
	FullName     *string `json:"full_name" validate:"omitempty,min=5,max=255"`
	Email        *string `json:"email" validate:"omitempty,email,max=255"`
	Phone        *string `json:"phone" validate:"omitempty,max=50,phone"`
	HireDate     *string `json:"hire_date" validate:"omitempty,isodate"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	PositionID   *int64  `json:"position_id" validate:"omitempty,gt=0"`
	IsActive     *bool   `json:"is_active"`
}

func (r *UpdateEmployeeRequest) Validate(now time.Time) error {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.HireDate != nil {
		return validateHireDate(*r.HireDate, now)
	}
	return nil
}

func validateHireDate(raw string, now time.Time) error {
	hireDate, ok := validator.IsValidDate(raw)
	if !ok {
		return validator.ValidationErrors{{Field: "hire_date", Message: "hire_date must be a date in YYYY-MM-DD format"}}
	}
	if hireDate.After(now) {
		return ErrFutureHireDate
	}
	return nil
}

// PhotoUpload carries an uploaded photo from the transport layer.
type PhotoUpload struct {
	File     io.Reader
	Filename string
}

type EmployeeResponse struct {
	ID           int64       `json:"id"`
	FullName     string      `json:"full_name"`
	Email        string      `json:"email"`
	Phone        *string     `json:"phone"`
	PhotoURL     *string     `json:"photo_url"`
	HireDate     string      `json:"hire_date"`
	IsActive     bool        `json:"is_active"`
	DepartmentID *int64      `json:"department_id"`
	PositionID   *int64      `json:"position_id"`
	Department   *common.Ref `json:"department"`
	Position     *common.Ref `json:"position"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// DeactivateEmployeeResponse is returned by the soft delete.
type DeactivateEmployeeResponse struct {
	Message  string           `json:"message"`
	Employee EmployeeResponse `json:"employee"`
}

// NewEmployeeResponse maps an employee and its joined names to the API shape.
func NewEmployeeResponse(e EmployeeWithRefs) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		Phone:        e.Phone,
		PhotoURL:     e.PhotoURL,
		HireDate:     e.HireDate.Format(validator.DateLayout),
		IsActive:     e.IsActive,
		DepartmentID: e.DepartmentID,
		PositionID:   e.PositionID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.DepartmentID != nil && e.DepartmentName != nil {
		resp.Department = &common.Ref{ID: *e.DepartmentID, Name: *e.DepartmentName}
	}
	if e.PositionID != nil && e.PositionName != nil {
		resp.Position = &common.Ref{ID: *e.PositionID, Name: *e.PositionName}
	}
	return resp
}
