package analytics

import (
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
)

// MetricCalculator derives completion, workload and efficiency figures from
// workload rows. It is used for single employees, projects and department buckets alike.
type MetricCalculator struct{}

func NewMetricCalculator() *MetricCalculator {
	return &MetricCalculator{}
}

func (c *MetricCalculator) Aggregate(rows []analytics.WorkloadRow) analytics.Metrics {
	var m analytics.Metrics
	if len(rows) == 0 {
		return m
	}

	workloadSum := 0
	for _, row := range rows {
		m.Completed += row.TasksCompleted
		m.Overdue += row.TasksOverdue
		workloadSum += row.WorkloadPercent
	}

	m.TotalTasks = m.Completed + m.Overdue
	m.AvgWorkload = float64(workloadSum) / float64(len(rows))
	m.Efficiency = efficiency(m.Completed, m.TotalTasks)

	return m
}

// GroupByEmployee buckets rows per employee, keeping first-seen order.
func (c *MetricCalculator) GroupByEmployee(rows []analytics.WorkloadRow) ([]int64, map[int64][]analytics.WorkloadRow) {
	order := make([]int64, 0)
	groups := make(map[int64][]analytics.WorkloadRow)
	for _, row := range rows {
		if _, seen := groups[row.EmployeeID]; !seen {
			order = append(order, row.EmployeeID)
		}
		groups[row.EmployeeID] = append(groups[row.EmployeeID], row)
	}
	return order, groups
}

func efficiency(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
