package project

import "time"

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var Statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) IsValid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

type Project struct {
	ID          int64
	Name        string
	Description *string
	StartDate   time.Time
	EndDate     *time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectFilter struct {
	Search string
	Status *Status
	Limit  int
	Offset int
}
