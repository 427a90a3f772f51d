package position

import (
	"strings"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/common"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
)

type CreatePositionRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100,lettername"`
}

func (r *CreatePositionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdatePositionRequest struct {
	ID   int64  `json:"-"`
	Name string `json:"name" validate:"required,min=2,max=100,lettername"`
}

func (r *UpdatePositionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type ListPositionsRequest struct {
	Page   int
	Limit  int
	Search string
}

type PositionResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListPositionsResponse struct {
	Positions  []PositionResponse `json:"positions"`
	Pagination common.Pagination  `json:"pagination"`
}

func NewPositionResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
