package dataimport

import (
	"strings"
	"testing"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeColumn(t *testing.T) {
	cases := map[string]string{
		"Full Name":        "full_name",
		"  TASK   status ": "task_status",
		"E-mail":           "email",
		"task_due_date":    "task_due_date",
		"Отдел":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeColumn(in), "normalizeColumn(%q)", in)
	}
}

func TestParseFile_CSV(t *testing.T) {
	input := "\xef\xbb\xbfFull Name,E-mail,Project\nAlice, alice@example.com ,Apollo\n,,\nBob,,Zeus\n"

	parsed, err := parseFile("tasks.CSV", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"full_name", "email", "project"}, parsed.columns)
	require.Len(t, parsed.records, 2, "blank rows are dropped")
	assert.Equal(t, dataimport.Record{"full_name": "Alice", "email": "alice@example.com", "project": "Apollo"}, parsed.records[0])
	assert.Equal(t, dataimport.Record{"full_name": "Bob", "project": "Zeus"}, parsed.records[1])
}

func TestParseFile_JSON(t *testing.T) {
	parsed, err := parseFile("a.json", strings.NewReader(`[{"Full Name": "Alice", "workload_percent": 40, "active": true, "phone": null}]`))
	require.NoError(t, err)
	require.Len(t, parsed.records, 1)
	assert.Equal(t, dataimport.Record{"full_name": "Alice", "workload_percent": "40", "active": "true"}, parsed.records[0])

	parsed, err = parseFile("b.json", strings.NewReader(`{"data": [{"full_name": "Bob"}, {"full_name": "Carol"}]}`))
	require.NoError(t, err)
	assert.Len(t, parsed.records, 2)

	_, err = parseFile("c.json", strings.NewReader(`{"rows": []}`))
	assert.ErrorIs(t, err, dataimport.ErrInvalidJSONShape)

	_, err = parseFile("d.json", strings.NewReader(`[1, 2]`))
	assert.ErrorIs(t, err, dataimport.ErrInvalidJSONShape)

	_, err = parseFile("e.json", strings.NewReader(`{"data": [`))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = parseFile("f.json", strings.NewReader(`[]`))
	assert.ErrorIs(t, err, dataimport.ErrEmptyFile)
}

func TestParseFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Full Name", "Project", "Task Status", "Task Due Date"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Alice", "Apollo", "done", 45311}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	parsed, err := parseFile("board.xlsx", buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"full_name", "project", "task_status", "task_due_date"}, parsed.columns)
	require.Len(t, parsed.records, 1)
	assert.Equal(t, "45311", parsed.records[0]["task_due_date"])

	due, ok := parseDate(parsed.records[0]["task_due_date"])
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), due)
}

func TestParseFile_Rejects(t *testing.T) {
	_, err := parseFile("notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, dataimport.ErrUnsupportedFileType)

	_, err = parseFile("empty.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, dataimport.ErrEmptyFile)

	_, err = parseFile("broken.xlsx", strings.NewReader("not a zip"))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	big := strings.NewReader(strings.Repeat("a", dataimport.MaxFileSize+1))
	_, err = parseFile("big.csv", big)
	assert.ErrorIs(t, err, dataimport.ErrFileTooLarge)
}
