package position

import "time"

type Position struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PositionFilter struct {
	Search string
	Limit  int
	Offset int
}
