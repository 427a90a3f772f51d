// Package export renders tabular reports into in-memory Excel and PDF files.
package export

import (
	"bytes"
	"fmt"
	"time"
)

// Table is a rendered-ready report: a title, a header row and string cells.
// Numeric marks the columns written as numbers where the format supports it;
// every other column stays text.
type Table struct {
	Title       string
	Headers     []string
	Rows        [][]string
	Numeric     []bool
	GeneratedAt time.Time
}

// IsNumeric reports whether column col holds numbers.
func (t Table) IsNumeric(col int) bool {
	return col < len(t.Numeric) && t.Numeric[col]
}

// NumericColumns builds a Numeric mask of width n with cols set.
func NumericColumns(n int, cols ...int) []bool {
	mask := make([]bool, n)
	for _, col := range cols {
		if col >= 0 && col < n {
			mask[col] = true
		}
	}
	return mask
}

// Renderer turns a table into a file kept in memory.
type Renderer interface {
	Render(t Table) (*bytes.Buffer, error)
	Extension() string
	ContentType() string
}

// Filename returns report_<name>_<YYYY-MM-DD>.<ext>.
func Filename(name string, date time.Time, r Renderer) string {
	return fmt.Sprintf("report_%s_%s.%s", name, date.Format("2006-01-02"), r.Extension())
}
