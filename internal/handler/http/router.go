package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions carries the cross-cutting settings of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	// UploadsDir is served read-only under /uploads. Empty disables it.
	UploadsDir string
	// RateLimit is applied to /api/v1 when set.
	RateLimit func(http.Handler) http.Handler
}

// Handlers groups every resource handler mounted under /api/v1.
type Handlers struct {
	Analytics  AnalyticsHandler
	Department DepartmentHandler
	Employee   EmployeeHandler
	Master     MasterHandler
	Report     ReportHandler
	Import     ImportHandler
}

func NewRouter(logger *slog.Logger, opts RouterOptions, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Route("/analytics", func(r chi.Router) {
			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", h.Analytics.GetDashboard)
				r.Get("/overall", h.Analytics.GetOverallStats)
				r.Get("/departments", h.Analytics.GetDepartmentStats)
				r.Get("/top-performers", h.Analytics.GetTopPerformers)
				r.Get("/problems", h.Analytics.GetProblemAreas)
			})
			r.Get("/employee/{id}/analytics", h.Analytics.GetEmployeeAnalytics)
			r.Post("/kpi/recalculate", h.Analytics.RecalculateKPIs)
			r.Get("/reports/low-efficiency", h.Analytics.GetLowEfficiencyEmployees)
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.Department.ListDepartments)
			r.Post("/", h.Department.CreateDepartment)
			r.Get("/hierarchy", h.Department.GetHierarchy)
			r.Get("/select", h.Department.ListOptions)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Department.GetDepartment)
				r.Put("/", h.Department.UpdateDepartment)
				r.Delete("/", h.Department.DeleteDepartment)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.Employee.ListEmployees)
			r.Post("/", h.Employee.CreateEmployee)
			r.Get("/department/{id}", h.Employee.ListByDepartment)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Employee.GetEmployee)
				r.Put("/", h.Employee.UpdateEmployee)
				r.Delete("/", h.Employee.DeactivateEmployee)
				r.Patch("/activate", h.Employee.ActivateEmployee)
				r.Delete("/photo", h.Employee.DeletePhoto)
			})
		})

		r.Route("/positions", func(r chi.Router) {
			r.Get("/", h.Master.ListPositions)
			r.Post("/", h.Master.CreatePosition)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Master.GetPosition)
				r.Put("/", h.Master.UpdatePosition)
				r.Delete("/", h.Master.DeletePosition)
				r.Get("/employees", h.Master.ListPositionEmployees)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Master.ListProjects)
			r.Post("/", h.Master.CreateProject)
			r.Get("/statistics", h.Master.GetProjectStatistics)
			r.Get("/active", h.Master.ListActiveProjects)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Master.GetProject)
				r.Put("/", h.Master.UpdateProject)
				r.Delete("/", h.Master.DeleteProject)
				r.Patch("/status", h.Master.UpdateProjectStatus)
				r.Get("/employees", h.Master.ListProjectMembers)
				r.Post("/employees", h.Master.AddProjectMember)
				r.Delete("/employees/{employeeId}", h.Master.RemoveProjectMember)
			})
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/quick-export", h.Report.QuickExport)
			r.Post("/export/{report_type}", h.Report.ExportReport)
			r.Get("/{type}", h.Report.GetReport)
		})

		r.Route("/import/import", func(r chi.Router) {
			r.Post("/", h.Import.Import)
			r.Post("/validate", h.Import.Validate)
			r.Get("/status", h.Import.Status)
			r.Get("/templates/{type}", h.Import.Template)
			r.Get("/templates/{type}/{format}", h.Import.Template)
		})
	})

	return r
}
