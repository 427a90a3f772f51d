// Package app wires repositories and services for the API server and the CLI.
package app

import (
	"fmt"

	"github.com/staffpulse/analytics-api/internal/config"
	"github.com/staffpulse/analytics-api/internal/domain/analytics"
	"github.com/staffpulse/analytics-api/internal/domain/dataimport"
	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/report"
	appHTTP "github.com/staffpulse/analytics-api/internal/handler/http"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"github.com/staffpulse/analytics-api/internal/pkg/export"
	"github.com/staffpulse/analytics-api/internal/pkg/storage"
	"github.com/staffpulse/analytics-api/internal/repository/postgresql"
	analyticsService "github.com/staffpulse/analytics-api/internal/service/analytics"
	importService "github.com/staffpulse/analytics-api/internal/service/dataimport"
	departmentService "github.com/staffpulse/analytics-api/internal/service/department"
	employeeService "github.com/staffpulse/analytics-api/internal/service/employee"
	"github.com/staffpulse/analytics-api/internal/service/file"
	"github.com/staffpulse/analytics-api/internal/service/master"
	reportService "github.com/staffpulse/analytics-api/internal/service/report"
)

type Services struct {
	Analytics  analytics.AnalyticsService
	Department department.DepartmentService
	Employee   employee.EmployeeService
	Master     master.MasterService
	Report     report.ReportService
	Import     dataimport.ImportService
	// UploadsDir is where employee photos are stored.
	UploadsDir string
}

func NewServices(cfg *config.Config, db *database.DB) (*Services, error) {
	transactor := postgresql.NewTransactor(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	workloadRepo := postgresql.NewWorkloadRepository(db)
	kpiRepo := postgresql.NewKPIRepository(db)
	analyticsRepo := postgresql.NewAnalyticsRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	calculator := analyticsService.NewMetricCalculator()
	aggregator := analyticsService.NewHierarchyAggregator(cfg.Analytics.RootDepartment, calculator)
	weekResolver := analyticsService.NewWeekResolver(workloadRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo)

	return &Services{
		Analytics: analyticsService.NewAnalyticsService(
			weekResolver,
			analyticsRepo,
			departmentRepo,
			employeeRepo,
			kpiRepo,
			transactor,
			calculator,
			aggregator,
		),
		Department: departmentSvc,
		Employee: employeeService.NewEmployeeService(
			transactor,
			employeeRepo,
			departmentRepo,
			positionRepo,
			departmentSvc,
			file.NewFileService(fileStorage),
		),
		Master: master.NewMasterService(positionRepo, projectRepo, employeeRepo, workloadRepo),
		Report: reportService.NewReportService(
			weekResolver,
			analyticsRepo,
			employeeRepo,
			departmentRepo,
			departmentSvc,
			calculator,
			aggregator,
			export.NewExcelRenderer(),
			export.NewPDFRenderer(cfg.Report.PDFFontPath),
		),
		Import: importService.NewImportService(
			transactor,
			departmentRepo,
			positionRepo,
			projectRepo,
			employeeRepo,
			workloadRepo,
		),
		UploadsDir: fileStorage.BasePath(),
	}, nil
}

// Handlers builds the HTTP handlers over the services.
func (s *Services) Handlers() appHTTP.Handlers {
	return appHTTP.Handlers{
		Analytics:  appHTTP.NewAnalyticsHandler(s.Analytics),
		Department: appHTTP.NewDepartmentHandler(s.Department),
		Employee:   appHTTP.NewEmployeeHandler(s.Employee),
		Master:     appHTTP.NewMasterHandler(s.Master),
		Report:     appHTTP.NewReportHandler(s.Report),
		Import:     appHTTP.NewImportHandler(s.Import),
	}
}
