package dataimport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
)

type templateColumn struct {
	name    string
	example string
}

var templates = map[dataimport.Type][]templateColumn{
	dataimport.TypeKanban: {
		{"full_name", "Иванов Иван Иванович"},
		{"email", "ivanov@company.ru"},
		{"department", "Разработка"},
		{"position", "Backend разработчик"},
		{"project", "Дипломный проект"},
		{"task_status", "Готово"},
		{"task_due_date", "2024-01-20"},
		{"phone", "+79111234567"},
	},
	dataimport.TypeEmployees: {
		{"full_name", "Петрова Анна Сергеевна"},
		{"email", "petrova@company.ru"},
		{"department", "Тестирование"},
		{"position", "QA инженер"},
		{"project", "Мобильное приложение"},
		{"phone", "+79117654321"},
	},
}

// Template implements dataimport.ImportService. format defaults to json.
func (s *importServiceImpl) Template(importType dataimport.Type, format string) (dataimport.Template, error) {
	if importType == "" {
		importType = dataimport.TypeKanban
	}
	columns, ok := templates[importType]
	if !ok {
		return dataimport.Template{}, dataimport.ErrUnsupportedImportType
	}

	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", "json":
		content, err := templateJSON(columns)
		if err != nil {
			return dataimport.Template{}, err
		}
		return dataimport.Template{
			Filename:    fmt.Sprintf("template_%s.json", importType),
			ContentType: "application/json",
			Content:     content,
		}, nil
	case "csv":
		content, err := templateCSV(columns)
		if err != nil {
			return dataimport.Template{}, err
		}
		return dataimport.Template{
			Filename:    fmt.Sprintf("template_%s.csv", importType),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		return dataimport.Template{}, dataimport.ErrUnsupportedTemplate
	}
}

// templateJSON writes a one-element array keeping the column order.
func templateJSON(columns []templateColumn) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[\n  {\n")
	for i, column := range columns {
		key, err := json.Marshal(column.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(column.example)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "    %s: %s", key, value)
		if i < len(columns)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  }\n]\n")
	return buf.Bytes(), nil
}

func templateCSV(columns []templateColumn) ([]byte, error) {
	header := make([]string, len(columns))
	example := make([]string, len(columns))
	for i, column := range columns {
		header[i] = column.name
		example[i] = column.example
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{header, example}); err != nil {
		return nil, fmt.Errorf("failed to write csv template: %w", err)
	}
	return buf.Bytes(), nil
}

// Status implements dataimport.ImportService.
func (s *importServiceImpl) Status() dataimport.StatusResponse {
	return dataimport.StatusResponse{
		Service:          "import",
		Status:           "active",
		SupportedFormats: []string{"xlsx", "xls", "csv", "json"},
		ImportTypes:      []dataimport.Type{dataimport.TypeKanban, dataimport.TypeEmployees},
		MaxFileSize:      fmt.Sprintf("%dMB", dataimport.MaxFileSize>>20),
	}
}
