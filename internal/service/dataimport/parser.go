package dataimport

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/xuri/excelize/v2"
)

// parsedFile holds the records of an uploaded file in header order.
type parsedFile struct {
	columns []string
	records []dataimport.Record
}

// parseFile dispatches on the file extension and normalizes column names.
func parseFile(filename string, r io.Reader) (parsedFile, error) {
	data, err := readLimited(r)
	if err != nil {
		return parsedFile{}, err
	}

	var parsed parsedFile
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "xlsx", "xls":
		parsed, err = parseExcel(data)
	case "csv":
		parsed, err = parseCSV(data)
	case "json":
		parsed, err = parseJSON(data)
	default:
		return parsedFile{}, dataimport.ErrUnsupportedFileType
	}
	if err != nil {
		return parsedFile{}, err
	}

	if len(parsed.records) == 0 {
		return parsedFile{}, dataimport.ErrEmptyFile
	}
	return parsed, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, dataimport.MaxFileSize+1))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindValidation, "failed to read file", err)
	}
	if len(data) > dataimport.MaxFileSize {
		return nil, dataimport.ErrFileTooLarge
	}
	return data, nil
}

// parseExcel reads the first sheet. Cells are taken raw so date cells arrive
// as Excel serial numbers.
func parseExcel(data []byte) (parsedFile, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return parsedFile{}, apperror.Wrap(apperror.KindValidation, "failed to open spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return parsedFile{}, dataimport.ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return parsedFile{}, apperror.Wrap(apperror.KindValidation, "failed to read spreadsheet rows", err)
	}
	return fromGrid(rows), nil
}

func parseCSV(data []byte) (parsedFile, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return parsedFile{}, apperror.Wrap(apperror.KindValidation, "failed to parse csv", err)
	}
	return fromGrid(rows), nil
}

// fromGrid treats the first row as the header. Blank rows are dropped.
func fromGrid(rows [][]string) parsedFile {
	if len(rows) == 0 {
		return parsedFile{}
	}

	columns := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		columns[i] = normalizeColumn(header)
	}

	parsed := parsedFile{columns: nonEmpty(columns)}
	for _, row := range rows[1:] {
		record := make(dataimport.Record)
		for i, value := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				record[columns[i]] = value
			}
		}
		if len(record) > 0 {
			parsed.records = append(parsed.records, record)
		}
	}
	return parsed
}

// parseJSON accepts an array of objects or an object with a data array.
func parseJSON(data []byte) (parsedFile, error) {
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return parsedFile{}, apperror.Wrap(apperror.KindValidation, "failed to parse json", err)
		}
		if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Data == nil {
			return parsedFile{}, dataimport.ErrInvalidJSONShape
		}
		items = wrapped.Data
	}

	var parsed parsedFile
	seen := make(map[string]bool)
	for _, item := range items {
		record := make(dataimport.Record)
		for key, value := range item {
			column := normalizeColumn(key)
			if column == "" {
				continue
			}
			if !seen[column] {
				seen[column] = true
				parsed.columns = append(parsed.columns, column)
			}
			if s := stringify(value); s != "" {
				record[column] = s
			}
		}
		if len(record) > 0 {
			parsed.records = append(parsed.records, record)
		}
	}
	return parsed, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	nonColumnChars = regexp.MustCompile(`[^a-z0-9_]`)
)

// normalizeColumn turns "Full Name" into "full_name".
func normalizeColumn(header string) string {
	column := strings.ToLower(strings.TrimSpace(header))
	column = whitespaceRun.ReplaceAllString(column, "_")
	return nonColumnChars.ReplaceAllString(column, "")
}

func nonEmpty(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
