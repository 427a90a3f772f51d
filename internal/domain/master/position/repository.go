package position

import "context"

type PositionRepository interface {
	Create(ctx context.Context, position Position) (Position, error)
	GetByID(ctx context.Context, id int64) (Position, error)
	GetByName(ctx context.Context, name string) (Position, error)

	// List returns one page of positions ordered by name and the total match count.
	List(ctx context.Context, filter PositionFilter) ([]Position, int64, error)

	Update(ctx context.Context, position Position) (Position, error)
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}
