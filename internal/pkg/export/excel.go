package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	excelSheet       = "Report"
	excelColumnWidth = 25
)

type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{}
}

func (r *ExcelRenderer) Extension() string {
	return "xlsx"
}

func (r *ExcelRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes one sheet with a bold, filterable header row.
func (r *ExcelRenderer) Render(t Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), excelSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, header := range t.Headers {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}

	for i, row := range t.Rows {
		for col, value := range row {
			var cell any = value
			if t.IsNumeric(col) {
				cell = numericValue(value)
			}
			if err := setCell(f, col+1, i+2, cell); err != nil {
				return nil, err
			}
		}
	}

	if len(t.Headers) > 0 {
		lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column: %w", err)
		}
		if err := f.SetColWidth(excelSheet, "A", lastCol, excelColumnWidth); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}

		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		if err := f.SetCellStyle(excelSheet, "A1", lastCol+"1", bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		if err := f.AutoFilter(excelSheet, "A1:"+lastCol+"1", nil); err != nil {
			return nil, fmt.Errorf("failed to add autofilter: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetCellValue(excelSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// numericValue converts a cell of a numeric column. Placeholders and
// non-finite values stay text.
func numericValue(value string) any {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return value
}
