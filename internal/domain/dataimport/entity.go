package dataimport

import "time"

type Type string

const (
	TypeKanban    Type = "kanban"
	TypeEmployees Type = "employees"
)

func ParseType(raw string) (Type, error) {
	switch Type(raw) {
	case "":
		return TypeKanban, nil
	case TypeKanban, TypeEmployees:
		return Type(raw), nil
	default:
		return "", ErrUnsupportedImportType
	}
}

const (
	MaxFileSize       = 10 << 20
	UnspecifiedName   = "Не указан"
	DefaultProjectTag = "Project"
)

// Record is one parsed input row keyed by normalized column name.
type Record map[string]string

// Row is a validated and normalized record ready to be written.
type Row struct {
	Line            int
	FullName        string
	Email           string
	Phone           string
	Department      string
	Position        string
	Project         string
	TaskStatus      string
	TaskDueDate     *time.Time
	WorkloadPercent int
}

// RowError reports why an input row was skipped. Line is 1-based over data rows.
type RowError struct {
	Line  int    `json:"row"`
	Error string `json:"error"`
}
