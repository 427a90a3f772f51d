package department

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

func (r *CreateDepartmentRequest) Validate() error {
	return validator.Struct(r)
}

// OptionalParent distinguishes an absent parent_id from an explicit null.
type OptionalParent struct {
	Set   bool
	Value *int64
}

func (p *OptionalParent) UnmarshalJSON(data []byte) error {
	p.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	p.Value = &id
	return nil
}

type UpdateDepartmentRequest struct {
	ID       int64          `json:"-"`
	Name     *string        `json:"name" validate:"omitempty,min=2,max=100"`
	ParentID OptionalParent `json:"parent_id"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		errs = append(errs, fieldErrs...)
	}
	if r.ParentID.Value != nil && *r.ParentID.Value <= 0 {
		errs.Add("parent_id", "parent_id must be greater than 0")
	}
	return errs.OrNil()
}

type DepartmentResponse struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	ParentID  *int64       `json:"parent_id"`
	Parent    *common.Ref  `json:"parent"`
	Children  []common.Ref `json:"children,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// DepartmentNode is one node of the department tree.
type DepartmentNode struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	ParentID *int64           `json:"parent_id"`
	Children []DepartmentNode `json:"children"`
}

// DepartmentOption is the compact form used by select inputs.
type DepartmentOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}
