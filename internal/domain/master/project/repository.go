package project

import "context"

type ProjectRepository interface {
	Create(ctx context.Context, p Project) (Project, error)
	GetByID(ctx context.Context, id int64) (Project, error)
	GetByName(ctx context.Context, name string) (Project, error)

	// List returns one page of projects, newest first, and the total match count.
	List(ctx context.Context, filter ProjectFilter) ([]Project, int64, error)

	// ListByStatus returns projects in status ordered by start date.
	ListByStatus(ctx context.Context, status Status) ([]Project, error)

	Update(ctx context.Context, p Project) (Project, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Project, error)
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
