// Package memory holds map-backed repository implementations used by service
// and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
)

// Store is the shared state behind all memory repositories.
type Store struct {
	mu          sync.RWMutex
	seq         int64
	departments map[int64]department.Department
	employees   map[int64]employee.Employee
	positions   map[int64]position.Position
	projects    map[int64]project.Project
	entries     map[int64]workload.Entry
	kpis        []workload.KPIMetric
	now         func() time.Time
}

func NewStore() *Store {
	return &Store{
		departments: make(map[int64]department.Department),
		employees:   make(map[int64]employee.Employee),
		positions:   make(map[int64]position.Position),
		projects:    make(map[int64]project.Project),
		entries:     make(map[int64]workload.Entry),
		now:         time.Now,
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// KPIs returns a copy of the stored KPI metrics.
func (s *Store) KPIs() []workload.KPIMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]workload.KPIMetric(nil), s.kpis...)
}

// Transactor runs fn directly; the memory store has no rollback.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
