package memory

import (
	"context"
	"sort"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
)

type workloadRepository struct {
	store *Store
}

func NewWorkloadRepository(store *Store) workload.WorkloadRepository {
	return &workloadRepository{store: store}
}

func (r *workloadRepository) LatestWeek(ctx context.Context) (*time.Time, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *time.Time
	for _, e := range r.store.entries {
		if latest == nil || e.WeekStartDate.After(*latest) {
			week := e.WeekStartDate
			latest = &week
		}
	}
	return latest, nil
}

func (r *workloadRepository) find(employeeID, projectID int64, week time.Time) (workload.Entry, bool) {
	for _, e := range r.store.entries {
		if e.EmployeeID == employeeID && e.ProjectID == projectID && e.WeekStartDate.Equal(week) {
			return e, true
		}
	}
	return workload.Entry{}, false
}

func (r *workloadRepository) Get(ctx context.Context, employeeID, projectID int64, week time.Time) (workload.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.find(employeeID, projectID, week)
	if !ok {
		return workload.Entry{}, workload.ErrEntryNotFound
	}
	return e, nil
}

func (r *workloadRepository) ListMembers(ctx context.Context, projectID int64, week time.Time) ([]workload.MemberEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]workload.MemberEntry, 0)
	for _, e := range r.store.entries {
		if e.ProjectID != projectID || !e.WeekStartDate.Equal(week) {
			continue
		}
		emp := r.store.employees[e.EmployeeID]
		result = append(result, workload.MemberEntry{
			Entry:        e,
			FullName:     emp.FullName,
			Email:        emp.Email,
			DepartmentID: emp.DepartmentID,
			PositionID:   emp.PositionID,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (r *workloadRepository) Create(ctx context.Context, e workload.Entry) (workload.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID()
	e.CreatedAt = r.store.now()
	e.UpdatedAt = e.CreatedAt
	r.store.entries[e.ID] = e
	return e, nil
}

func (r *workloadRepository) UpdateCounters(ctx context.Context, e workload.Entry) (workload.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.entries[e.ID]
	if !ok {
		return workload.Entry{}, workload.ErrEntryNotFound
	}
	existing.WorkloadPercent = e.WorkloadPercent
	existing.TasksCompleted = e.TasksCompleted
	existing.TasksOverdue = e.TasksOverdue
	existing.UpdatedAt = r.store.now()
	r.store.entries[e.ID] = existing
	return existing, nil
}

func (r *workloadRepository) Delete(ctx context.Context, employeeID, projectID int64, week time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e, ok := r.find(employeeID, projectID, week)
	if !ok {
		return workload.ErrEntryNotFound
	}
	delete(r.store.entries, e.ID)
	return nil
}

type kpiRepository struct {
	store *Store
}

func NewKPIRepository(store *Store) workload.KPIRepository {
	return &kpiRepository{store: store}
}

func (r *kpiRepository) DeletePeriod(ctx context.Context, period time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.kpis[:0]
	var deleted int64
	for _, m := range r.store.kpis {
		if m.Period.Equal(period) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	r.store.kpis = kept
	return deleted, nil
}

func (r *kpiRepository) InsertBatch(ctx context.Context, metrics []workload.KPIMetric) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, m := range metrics {
		m.ID = r.store.nextID()
		r.store.kpis = append(r.store.kpis, m)
	}
	return int64(len(metrics)), nil
}

func (r *kpiRepository) History(ctx context.Context, employeeID int64, metricName string) ([]workload.KPIMetric, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]workload.KPIMetric, 0)
	for _, m := range r.store.kpis {
		if m.EmployeeID == employeeID && m.MetricName == metricName {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period.Before(result[j].Period) })
	return result, nil
}

type analyticsRepository struct {
	store *Store
}

func NewAnalyticsRepository(store *Store) analytics.AnalyticsRepository {
	return &analyticsRepository{store: store}
}

func (r *analyticsRepository) rows(match func(workload.Entry) bool) []analytics.WorkloadRow {
	result := make([]analytics.WorkloadRow, 0)
	for _, e := range r.store.entries {
		if !match(e) {
			continue
		}
		emp := r.store.employees[e.EmployeeID]
		row := analytics.WorkloadRow{
			EmployeeID:      e.EmployeeID,
			EmployeeName:    emp.FullName,
			EmployeeActive:  emp.IsActive,
			DepartmentID:    emp.DepartmentID,
			ProjectID:       e.ProjectID,
			ProjectName:     r.store.projects[e.ProjectID].Name,
			WeekStartDate:   e.WeekStartDate,
			WorkloadPercent: e.WorkloadPercent,
			TasksCompleted:  e.TasksCompleted,
			TasksOverdue:    e.TasksOverdue,
		}
		if emp.DepartmentID != nil {
			if d, ok := r.store.departments[*emp.DepartmentID]; ok {
				row.DepartmentName = &d.Name
			}
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].ProjectID < result[j].ProjectID
	})
	return result
}

func (r *analyticsRepository) WeekRows(ctx context.Context, week time.Time) ([]analytics.WorkloadRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.rows(func(e workload.Entry) bool { return e.WeekStartDate.Equal(week) }), nil
}

func (r *analyticsRepository) EmployeeWeekRows(ctx context.Context, employeeID int64, week time.Time) ([]analytics.WorkloadRow, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.rows(func(e workload.Entry) bool {
		return e.EmployeeID == employeeID && e.WeekStartDate.Equal(week)
	}), nil
}

func (r *analyticsRepository) CountActiveEmployees(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, e := range r.store.employees {
		if e.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *analyticsRepository) CountProjectsInProgress(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, p := range r.store.projects {
		if p.Status == project.StatusInProgress {
			count++
		}
	}
	return count, nil
}
