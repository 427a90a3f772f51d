package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) withRefs(e employee.Employee) employee.EmployeeWithRefs {
	result := employee.EmployeeWithRefs{Employee: e}
	if e.DepartmentID != nil {
		if d, ok := r.store.departments[*e.DepartmentID]; ok {
			result.DepartmentName = &d.Name
		}
	}
	if e.PositionID != nil {
		if p, ok := r.store.positions[*e.PositionID]; ok {
			result.PositionName = &p.Name
		}
	}
	return result
}

func (r *employeeRepository) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID()
	e.CreatedAt = r.store.now()
	e.UpdatedAt = e.CreatedAt
	r.store.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (employee.EmployeeWithRefs, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.EmployeeWithRefs{}, employee.ErrEmployeeNotFound
	}
	return r.withRefs(e), nil
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.employees {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepository) GetByFullName(ctx context.Context, fullName string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var (
		found employee.Employee
		ok    bool
	)
	for _, e := range r.store.employees {
		if e.FullName == fullName && (!ok || e.ID < found.ID) {
			found, ok = e, true
		}
	}
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return found, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeWithRefs, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	result := make([]employee.EmployeeWithRefs, 0)
	for _, e := range r.store.employees {
		if filter.ActiveOnly && !e.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.FullName), search) && !strings.Contains(strings.ToLower(e.Email), search) {
			continue
		}
		if len(filter.DepartmentIDs) > 0 && (e.DepartmentID == nil || !lo.Contains(filter.DepartmentIDs, *e.DepartmentID)) {
			continue
		}
		if len(filter.PositionIDs) > 0 && (e.PositionID == nil || !lo.Contains(filter.PositionIDs, *e.PositionID)) {
			continue
		}
		result = append(result, r.withRefs(e))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FullName != result[j].FullName {
			return result[i].FullName < result[j].FullName
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *employeeRepository) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = r.store.now()
	r.store.employees[e.ID] = e
	return e, nil
}

func (r *employeeRepository) SetActive(ctx context.Context, id int64, active bool) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.IsActive = active
	e.UpdatedAt = r.store.now()
	r.store.employees[id] = e
	return e, nil
}

func (r *employeeRepository) UpdatePhoto(ctx context.Context, id int64, photoURL *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.store.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.PhotoURL = photoURL
	r.store.employees[id] = e
	return nil
}

func (r *employeeRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, e := range r.store.employees {
		if strings.EqualFold(e.Email, email) && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *employeeRepository) CountByPosition(ctx context.Context, positionID int64) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, e := range r.store.employees {
		if e.PositionID != nil && *e.PositionID == positionID {
			count++
		}
	}
	return count, nil
}
