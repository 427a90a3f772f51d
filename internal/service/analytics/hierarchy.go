package analytics

import (
	"sort"

	"github.com/samber/lo"
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/department"
)

// HierarchyAggregator rolls workload rows up to the top-level departments,
// the direct children of the hierarchy root.
type HierarchyAggregator struct {
	rootName   string
	calculator *MetricCalculator
}

func NewHierarchyAggregator(rootName string, calculator *MetricCalculator) *HierarchyAggregator {
	return &HierarchyAggregator{
		rootName:   rootName,
		calculator: calculator,
	}
}

// Aggregate returns one entry per top-level department, including departments
// without rows, sorted by efficiency then average workload, both descending.
// Rows whose department chain does not end at a top-level department (root
// staff, dangling parents, cycles, no department) are not attributed anywhere.
func (a *HierarchyAggregator) Aggregate(departments []department.Department, rows []analytics.WorkloadRow) ([]analytics.DepartmentAggregate, error) {
	if len(departments) == 0 {
		return []analytics.DepartmentAggregate{}, nil
	}

	root, ok := a.FindRoot(departments)
	if !ok {
		return nil, analytics.ErrMissingRoot
	}

	topLevel := lo.Filter(departments, func(d department.Department, _ int) bool {
		return d.HasParent(root.ID)
	})

	resolver := newTopLevelResolver(departments, root.ID)

	type bucket struct {
		employees map[int64]struct{}
		rows      []analytics.WorkloadRow
	}
	buckets := make(map[int64]*bucket, len(topLevel))

	for _, row := range rows {
		if row.DepartmentID == nil {
			continue
		}
		topID, ok := resolver.resolve(*row.DepartmentID)
		if !ok {
			continue
		}
		b, exists := buckets[topID]
		if !exists {
			b = &bucket{employees: make(map[int64]struct{})}
			buckets[topID] = b
		}
		b.employees[row.EmployeeID] = struct{}{}
		b.rows = append(b.rows, row)
	}

	result := make([]analytics.DepartmentAggregate, 0, len(topLevel))
	for _, d := range topLevel {
		agg := analytics.DepartmentAggregate{
			DepartmentID:   d.ID,
			DepartmentName: d.Name,
			ParentID:       d.ParentID,
		}
		if b, exists := buckets[d.ID]; exists {
			agg.EmployeesCount = len(b.employees)
			agg.Metrics = a.calculator.Aggregate(b.rows)
		}
		result = append(result, agg)
	}

	// Order by the displayed values: efficiency to 1 decimal, workload to an integer.
	sort.SliceStable(result, func(i, j int) bool {
		ei, ej := Round1(result[i].Metrics.Efficiency), Round1(result[j].Metrics.Efficiency)
		if ei != ej {
			return ei > ej
		}
		wi, wj := RoundInt(result[i].Metrics.AvgWorkload), RoundInt(result[j].Metrics.AvgWorkload)
		if wi != wj {
			return wi > wj
		}
		return result[i].DepartmentID < result[j].DepartmentID
	})

	return result, nil
}

// FindRoot returns the parent-less department with the configured root name,
// falling back to the parent-less department with the lowest id.
func (a *HierarchyAggregator) FindRoot(departments []department.Department) (department.Department, bool) {
	roots := lo.Filter(departments, func(d department.Department, _ int) bool {
		return d.IsRoot()
	})
	if len(roots) == 0 {
		return department.Department{}, false
	}
	if named, found := lo.Find(roots, func(d department.Department) bool {
		return d.Name == a.rootName
	}); found {
		return named, true
	}
	return lo.MinBy(roots, func(a, b department.Department) bool {
		return a.ID < b.ID
	}), true
}

type resolution struct {
	topID int64
	ok    bool
}

// topLevelResolver maps a department to its top-level ancestor. Results are
// memoized for every department visited on a walk.
type topLevelResolver struct {
	byID   map[int64]department.Department
	rootID int64
	cache  map[int64]resolution
}

func newTopLevelResolver(departments []department.Department, rootID int64) *topLevelResolver {
	return &topLevelResolver{
		byID: lo.SliceToMap(departments, func(d department.Department) (int64, department.Department) {
			return d.ID, d
		}),
		rootID: rootID,
		cache:  make(map[int64]resolution, len(departments)),
	}
}

func (r *topLevelResolver) resolve(id int64) (int64, bool) {
	if res, cached := r.cache[id]; cached {
		return res.topID, res.ok
	}

	var (
		res     resolution
		path    []int64
		visited = make(map[int64]struct{})
		current = id
	)

	for {
		if cachedRes, cached := r.cache[current]; cached {
			res = cachedRes
			break
		}
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}

		dept, exists := r.byID[current]
		if !exists || current == r.rootID {
			path = append(path, current)
			break
		}
		path = append(path, current)

		if dept.ParentID == nil {
			break
		}
		if *dept.ParentID == r.rootID {
			res = resolution{topID: current, ok: true}
			break
		}
		current = *dept.ParentID
	}

	for _, visitedID := range path {
		r.cache[visitedID] = res
	}
	r.cache[id] = res

	return res.topID, res.ok
}
