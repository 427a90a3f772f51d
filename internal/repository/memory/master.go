package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
)

type positionRepository struct {
	store *Store
}

func NewPositionRepository(store *Store) position.PositionRepository {
	return &positionRepository{store: store}
}

func (r *positionRepository) Create(ctx context.Context, p position.Position) (position.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p.ID = r.store.nextID()
	p.CreatedAt = r.store.now()
	p.UpdatedAt = p.CreatedAt
	r.store.positions[p.ID] = p
	return p, nil
}

func (r *positionRepository) GetByID(ctx context.Context, id int64) (position.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.positions[id]
	if !ok {
		return position.Position{}, position.ErrPositionNotFound
	}
	return p, nil
}

func (r *positionRepository) GetByName(ctx context.Context, name string) (position.Position, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.positions {
		if p.Name == name {
			return p, nil
		}
	}
	return position.Position{}, position.ErrPositionNotFound
}

func (r *positionRepository) List(ctx context.Context, filter position.PositionFilter) ([]position.Position, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]position.Position, 0)
	for _, p := range r.store.positions {
		if search == "" || strings.Contains(strings.ToLower(p.Name), search) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *positionRepository) Update(ctx context.Context, p position.Position) (position.Position, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.positions[p.ID]
	if !ok {
		return position.Position{}, position.ErrPositionNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.store.now()
	r.store.positions[p.ID] = p
	return p, nil
}

func (r *positionRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.positions[id]; !ok {
		return position.ErrPositionNotFound
	}
	delete(r.store.positions, id)
	return nil
}

func (r *positionRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.positions {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type projectRepository struct {
	store *Store
}

func NewProjectRepository(store *Store) project.ProjectRepository {
	return &projectRepository{store: store}
}

func (r *projectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p.ID = r.store.nextID()
	p.CreatedAt = r.store.now()
	p.UpdatedAt = p.CreatedAt
	r.store.projects[p.ID] = p
	return p, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.projects[id]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	return p, nil
}

func (r *projectRepository) GetByName(ctx context.Context, name string) (project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.projects {
		if p.Name == name {
			return p, nil
		}
	}
	return project.Project{}, project.ErrProjectNotFound
}

func (r *projectRepository) List(ctx context.Context, filter project.ProjectFilter) ([]project.Project, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]project.Project, 0)
	for _, p := range r.store.projects {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if search != "" {
			inName := strings.Contains(strings.ToLower(p.Name), search)
			inDescription := p.Description != nil && strings.Contains(strings.ToLower(*p.Description), search)
			if !inName && !inDescription {
				continue
			}
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	return paginate(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (r *projectRepository) ListByStatus(ctx context.Context, status project.Status) ([]project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]project.Project, 0)
	for _, p := range r.store.projects {
		if p.Status == status {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *projectRepository) Update(ctx context.Context, p project.Project) (project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.projects[p.ID]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.store.now()
	r.store.projects[p.ID] = p
	return p, nil
}

func (r *projectRepository) UpdateStatus(ctx context.Context, id int64, status project.Status) (project.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.projects[id]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	p.Status = status
	p.UpdatedAt = r.store.now()
	r.store.projects[id] = p
	return p, nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.projects[id]; !ok {
		return project.ErrProjectNotFound
	}
	delete(r.store.projects, id)
	for entryID, e := range r.store.entries {
		if e.ProjectID == id {
			delete(r.store.entries, entryID)
		}
	}
	return nil
}

func (r *projectRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.projects {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *projectRepository) CountByStatus(ctx context.Context) (map[project.Status]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	counts := make(map[project.Status]int64)
	for _, p := range r.store.projects {
		counts[p.Status]++
	}
	return counts, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
