package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/staffpulse/analytics-api/internal/domain/department"
)

type departmentRepository struct {
	store *Store
}

func NewDepartmentRepository(store *Store) department.DepartmentRepository {
	return &departmentRepository{store: store}
}

func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	d.ID = r.store.nextID()
	d.CreatedAt = r.store.now()
	d.UpdatedAt = d.CreatedAt
	r.store.departments[d.ID] = d
	return d, nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	d, ok := r.store.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, d := range r.store.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (r *departmentRepository) List(ctx context.Context, search string) ([]department.Department, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search = strings.ToLower(search)
	result := make([]department.Department, 0, len(r.store.departments))
	for _, d := range r.store.departments {
		if search != "" && !strings.Contains(strings.ToLower(d.Name), search) {
			continue
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *departmentRepository) Update(ctx context.Context, d department.Department) (department.Department, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.departments[d.ID]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = r.store.now()
	r.store.departments[d.ID] = d
	return d, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.departments[id]; !ok {
		return department.ErrDepartmentNotFound
	}
	delete(r.store.departments, id)

	for childID, child := range r.store.departments {
		if child.HasParent(id) {
			child.ParentID = nil
			r.store.departments[childID] = child
		}
	}
	for empID, e := range r.store.employees {
		if e.DepartmentID != nil && *e.DepartmentID == id {
			e.DepartmentID = nil
			r.store.employees[empID] = e
		}
	}
	return nil
}

func (r *departmentRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, d := range r.store.departments {
		if d.HasParent(id) {
			count++
		}
	}
	return count, nil
}

func (r *departmentRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, d := range r.store.departments {
		if d.Name == name && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}
