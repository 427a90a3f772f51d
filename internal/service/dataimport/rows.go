package dataimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	validator.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"01/02/2006",
}

var doneStatuses = []string{"готово", "done", "completed"}

// validateRecords normalizes every record. Invalid ones are reported with
// their 1-based data row number and left out of the result.
func validateRecords(records []dataimport.Record, importType dataimport.Type) ([]dataimport.Row, []dataimport.RowError) {
	rows := make([]dataimport.Row, 0, len(records))
	rejected := make([]dataimport.RowError, 0)
	for i, record := range records {
		row, err := validateRecord(record, importType, i+1)
		if err != nil {
			rejected = append(rejected, dataimport.RowError{Line: i + 1, Error: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rejected
}

func validateRecord(record dataimport.Record, importType dataimport.Type, line int) (dataimport.Row, error) {
	required := []string{"full_name", "project"}
	if importType == dataimport.TypeKanban {
		required = append(required, "task_status")
	}
	for _, field := range required {
		if validator.IsEmpty(record[field]) {
			return dataimport.Row{}, fmt.Errorf("missing required field: %s", field)
		}
	}

	row := dataimport.Row{
		Line:       line,
		FullName:   strings.TrimSpace(record["full_name"]),
		Email:      strings.ToLower(strings.TrimSpace(record["email"])),
		Phone:      strings.TrimSpace(record["phone"]),
		Department: orUnspecified(record["department"]),
		Position:   orUnspecified(record["position"]),
		Project:    strings.TrimSpace(record["project"]),
		TaskStatus: strings.TrimSpace(record["task_status"]),
	}

	if row.Email != "" && !validator.IsValidEmail(row.Email) {
		return dataimport.Row{}, fmt.Errorf("invalid email: %s", row.Email)
	}

	if raw := strings.TrimSpace(record["task_due_date"]); raw != "" {
		due, ok := parseDate(raw)
		if !ok {
			return dataimport.Row{}, fmt.Errorf("invalid task_due_date: %s", raw)
		}
		row.TaskDueDate = &due
	}

	if raw := strings.TrimSpace(record["workload_percent"]); raw != "" {
		percent, err := strconv.Atoi(raw)
		if err != nil || percent < 0 || percent > 100 {
			return dataimport.Row{}, fmt.Errorf("invalid workload_percent: %s", raw)
		}
		row.WorkloadPercent = percent
	}

	return row, nil
}

func orUnspecified(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return dataimport.UnspecifiedName
}

// parseDate accepts common textual layouts and Excel serial day numbers.
func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func isDone(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	for _, done := range doneStatuses {
		if status == done {
			return true
		}
	}
	return false
}

// isOverdue reports a not-done task whose due date is before today.
func isOverdue(row dataimport.Row, today time.Time) bool {
	if row.TaskDueDate == nil || isDone(row.TaskStatus) {
		return false
	}
	return row.TaskDueDate.Before(today)
}
