package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/export"
	"github.com/staffpulse/analytics-api/internal/pkg/storage"
	"github.com/staffpulse/analytics-api/internal/repository/memory"
	analyticsservice "github.com/staffpulse/analytics-api/internal/service/analytics"
	importservice "github.com/staffpulse/analytics-api/internal/service/dataimport"
	departmentservice "github.com/staffpulse/analytics-api/internal/service/department"
	employeeservice "github.com/staffpulse/analytics-api/internal/service/employee"
	"github.com/staffpulse/analytics-api/internal/service/file"
	"github.com/staffpulse/analytics-api/internal/service/master"
	reportservice "github.com/staffpulse/analytics-api/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootDepartment = "leadership"

type testServer struct {
	router      *chi.Mux
	store       *memory.Store
	departments department.DepartmentRepository
	employees   employee.EmployeeRepository
	projects    project.ProjectRepository
	entries     workload.WorkloadRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	transactor := &memory.Transactor{}
	s := &testServer{
		store:       store,
		departments: memory.NewDepartmentRepository(store),
		employees:   memory.NewEmployeeRepository(store),
		projects:    memory.NewProjectRepository(store),
		entries:     memory.NewWorkloadRepository(store),
	}
	positions := memory.NewPositionRepository(store)
	analyticsRepo := memory.NewAnalyticsRepository(store)

	fileStorage, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	calculator := analyticsservice.NewMetricCalculator()
	aggregator := analyticsservice.NewHierarchyAggregator(rootDepartment, calculator)
	weekResolver := analyticsservice.NewWeekResolver(s.entries)
	departmentService := departmentservice.NewDepartmentService(s.departments)

	handlers := Handlers{
		Analytics: NewAnalyticsHandler(analyticsservice.NewAnalyticsService(
			weekResolver, analyticsRepo, s.departments, s.employees,
			memory.NewKPIRepository(store), transactor, calculator, aggregator,
		)),
		Department: NewDepartmentHandler(departmentService),
		Employee: NewEmployeeHandler(employeeservice.NewEmployeeService(
			transactor, s.employees, s.departments, positions, departmentService,
			file.NewFileService(fileStorage),
		)),
		Master: NewMasterHandler(master.NewMasterService(positions, s.projects, s.employees, s.entries)),
		Report: NewReportHandler(reportservice.NewReportService(
			weekResolver, analyticsRepo, s.employees, s.departments, departmentService,
			calculator, aggregator, export.NewExcelRenderer(), export.NewPDFRenderer(""),
		)),
		Import: NewImportHandler(importservice.NewImportService(
			transactor, s.departments, positions, s.projects, s.employees, s.entries,
		)),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = NewRouter(logger, RouterOptions{AllowedOrigins: []string{"*"}, UploadsDir: fileStorage.BasePath()}, handlers)
	return s
}

// seed stores one week of entries for two employees under the root department.
func (s *testServer) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	week := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	root, err := s.departments.Create(ctx, department.Department{Name: rootDepartment})
	require.NoError(t, err)
	sales, err := s.departments.Create(ctx, department.Department{Name: "Sales", ParentID: &root.ID})
	require.NoError(t, err)

	apollo, err := s.projects.Create(ctx, project.Project{Name: "Apollo", StartDate: week, Status: project.StatusInProgress})
	require.NoError(t, err)

	for _, e := range []struct {
		name    string
		load    int
		done    int
		overdue int
	}{
		{"Alice Smith", 95, 8, 2},
		{"Bob Jones", 40, 1, 4},
	} {
		emp, err := s.employees.Create(ctx, employee.Employee{
			FullName:     e.name,
			Email:        strings.ToLower(strings.Fields(e.name)[0]) + "@example.com",
			HireDate:     week.AddDate(-1, 0, 0),
			IsActive:     true,
			DepartmentID: &sales.ID,
		})
		require.NoError(t, err)
		_, err = s.entries.Create(ctx, workload.Entry{
			EmployeeID:      emp.ID,
			ProjectID:       apollo.ID,
			WeekStartDate:   week,
			WorkloadPercent: e.load,
			TasksCompleted:  e.done,
			TasksOverdue:    e.overdue,
		})
		require.NoError(t, err)
	}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Departments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/departments", strings.NewReader(`{"name":"Engineering"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Engineering", created.Name)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/departments", strings.NewReader(`{"name":"Engineering"}`), "application/json")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "CONFLICT", decodeEnvelope(t, rec).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/departments/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing department", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/departments/999", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/departments?search=eng", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
		assert.Len(t, list, 1)
	})
}

func TestRouter_CreateEmployeeValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/employees", strings.NewReader(`{"full_name":"Al","email":"nope"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRouter_AnalyticsWithoutData(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard/overall", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Analytics(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	rec := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard/overall", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeEnvelope(t, rec).Success)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/dashboard/top-performers?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var top struct {
		Top []map[string]any `json:"top"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &top))
	assert.Len(t, top.Top, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/employee/abc/analytics", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/analytics/reports/low-efficiency?threshold=50", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var low struct {
		Threshold float64 `json:"threshold"`
		Count     int     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &low))
	assert.Equal(t, 50.0, low.Threshold)
	assert.Equal(t, 1, low.Count)
}

func TestRouter_LowEfficiencyThresholdFallback(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	for _, raw := range []string{"Inf", "-Inf", "Infinity", "NaN", "0", "-5", "abc"} {
		t.Run(raw, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/analytics/reports/low-efficiency?threshold="+raw, nil, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var low struct {
				Threshold float64 `json:"threshold"`
				Count     int     `json:"count"`
			}
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &low))
			assert.Equal(t, 60.0, low.Threshold)
			assert.Equal(t, 1, low.Count)
		})
	}
}

func TestRouter_Reports(t *testing.T) {
	s := newTestServer(t)
	s.seed(t)

	t.Run("generate", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reports/risks", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var r struct {
			Metadata struct {
				ReportType   string `json:"report_type"`
				TotalRecords int    `json:"total_records"`
			} `json:"metadata"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &r))
		assert.Equal(t, "risks", r.Metadata.ReportType)
		assert.Equal(t, 2, r.Metadata.TotalRecords)
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reports/salaries", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("quick export requires parameters", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reports/quick-export?type=kpi", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("quick export excel", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/reports/quick-export?type=kpi&format=excel", nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, export.NewExcelRenderer().ContentType(), rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("export pdf", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/reports/export/employees", strings.NewReader(`{"format":"pdf"}`), "application/json")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("export unknown format", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/reports/export/employees", strings.NewReader(`{"format":"docx"}`), "application/json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func multipartUpload(t *testing.T, filename, content, importType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if importType != "" {
		require.NoError(t, writer.WriteField("import_type", importType))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestRouter_Import(t *testing.T) {
	s := newTestServer(t)
	const csv = "Full Name,Email,Department,Project,Task Status,Task Due Date\n" +
		"Alice Smith,alice@example.com,Engineering,Apollo,done,2024-05-07\n" +
		",bob@example.com,Sales,Zeus,done,\n"

	t.Run("validate", func(t *testing.T) {
		body, contentType := multipartUpload(t, "tasks.csv", csv, "kanban")
		rec := s.do(t, http.MethodPost, "/api/v1/import/import/validate", body, contentType)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var preview struct {
			TotalRecords int              `json:"total_records"`
			Rejected     []map[string]any `json:"rejected"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &preview))
		assert.Equal(t, 1, preview.TotalRecords)
		assert.Len(t, preview.Rejected, 1)
	})

	t.Run("import", func(t *testing.T) {
		body, contentType := multipartUpload(t, "tasks.csv", csv, "")
		rec := s.do(t, http.MethodPost, "/api/v1/import/import", body, contentType)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result struct {
			Employees struct {
				Created int `json:"created"`
			} `json:"employees"`
		}
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &result))
		assert.Equal(t, 1, result.Employees.Created)

		_, err := s.employees.GetByEmail(context.Background(), "alice@example.com")
		assert.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		require.NoError(t, writer.WriteField("import_type", "kanban"))
		require.NoError(t, writer.Close())

		rec := s.do(t, http.MethodPost, "/api/v1/import/import", body, writer.FormDataContentType())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		body, contentType := multipartUpload(t, "tasks.txt", csv, "")
		rec := s.do(t, http.MethodPost, "/api/v1/import/import", body, contentType)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_ImportTemplates(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/import/import/templates/kanban/csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "template_kanban.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "full_name"))

	rec = s.do(t, http.MethodGet, "/api/v1/import/import/templates/employees", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "template_employees.json")

	rec = s.do(t, http.MethodGet, "/api/v1/import/import/templates/kanban/xml", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/import/import/status", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		MaxFileSize string `json:"max_file_size"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &status))
	assert.Equal(t, "10MB", status.MaxFileSize)
}
