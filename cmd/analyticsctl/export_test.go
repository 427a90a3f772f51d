package main

import (
	"testing"

	"github.com/staffpulse/analytics-api/internal/domain/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOptions_Request(t *testing.T) {
	opts := exportOptions{
		reportType:      "KPI",
		format:          "pdf",
		departments:     "1,2",
		projects:        "7",
		includeInactive: true,
	}

	req, err := opts.request()
	require.NoError(t, err)

	assert.Equal(t, report.TypeKPI, req.Type)
	assert.Equal(t, "pdf", req.Format)
	assert.Equal(t, []int64{1, 2}, req.Departments)
	assert.Empty(t, req.Positions)
	assert.Equal(t, []int64{7}, req.Projects)
	assert.True(t, req.Filter().IncludeInactive)
}

func TestExportOptions_RequestErrors(t *testing.T) {
	_, err := exportOptions{reportType: "salaries"}.request()
	assert.ErrorIs(t, err, report.ErrUnsupportedReportType)

	_, err = exportOptions{reportType: "kpi", departments: "1,x"}.request()
	assert.ErrorContains(t, err, "invalid --departments")
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
		{"import"},
		{"export"},
		{"kpi", "recalculate"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
