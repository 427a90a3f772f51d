package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/domain/master/project"
	"github.com/staffpulse/analytics-api/internal/domain/workload"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDepartmentRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewDepartmentRepository(setup.DB)

	root, err := repo.Create(ctx, department.Department{Name: "Руководство"})
	require.NoError(t, err)

	child, err := repo.Create(ctx, department.Department{Name: "Engineering", ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *child.ParentID)

	_, err = repo.Create(ctx, department.Department{Name: "Engineering"})
	assert.ErrorIs(t, err, department.ErrDepartmentNameExists)

	count, err := repo.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := repo.List(ctx, "engin")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Engineering", list[0].Name)

	exists, err := repo.ExistsByName(ctx, "Engineering", child.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Delete(ctx, root.ID))
	orphan, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)

	_, err = repo.GetByID(ctx, root.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}

func TestEmployeeRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	depts := postgresql.NewDepartmentRepository(setup.DB)
	positions := postgresql.NewPositionRepository(setup.DB)
	repo := postgresql.NewEmployeeRepository(setup.DB)

	dept, err := depts.Create(ctx, department.Department{Name: "Sales"})
	require.NoError(t, err)
	pos, err := positions.Create(ctx, position.Position{Name: "Manager"})
	require.NoError(t, err)

	created, err := repo.Create(ctx, employee.Employee{
		FullName:     "Ivan Petrov",
		Email:        "ivan@example.com",
		HireDate:     date("2023-01-10"),
		IsActive:     true,
		DepartmentID: &dept.ID,
		PositionID:   &pos.ID,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, employee.Employee{FullName: "Other Person", Email: "ivan@example.com", HireDate: date("2023-01-10")})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DepartmentName)
	assert.Equal(t, "Sales", *got.DepartmentName)
	assert.Equal(t, "Manager", *got.PositionName)

	list, err := repo.List(ctx, employee.EmployeeFilter{DepartmentIDs: []int64{dept.ID}, ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	deactivated, err := repo.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	list, err = repo.List(ctx, employee.EmployeeFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := repo.CountByPosition(ctx, pos.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProjectRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewProjectRepository(setup.DB)

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := repo.Create(ctx, project.Project{Name: name, StartDate: date("2024-01-01"), Status: project.StatusInProgress})
		require.NoError(t, err)
	}

	page, total, err := repo.List(ctx, project.ProjectFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[project.StatusInProgress])

	end := date("2023-01-01")
	_, err = repo.Create(ctx, project.Project{Name: "Broken", StartDate: date("2024-01-01"), EndDate: &end, Status: project.StatusPlanned})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestWorkloadAndKPIRepositories(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	employees := postgresql.NewEmployeeRepository(setup.DB)
	projects := postgresql.NewProjectRepository(setup.DB)
	entries := postgresql.NewWorkloadRepository(setup.DB)
	kpis := postgresql.NewKPIRepository(setup.DB)
	analyticsRepo := postgresql.NewAnalyticsRepository(setup.DB)
	transactor := postgresql.NewTransactor(setup.DB)

	latest, err := entries.LatestWeek(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	emp, err := employees.Create(ctx, employee.Employee{FullName: "Anna Smirnova", Email: "anna@example.com", HireDate: date("2022-05-01"), IsActive: true})
	require.NoError(t, err)
	proj, err := projects.Create(ctx, project.Project{Name: "Portal", StartDate: date("2024-01-01"), Status: project.StatusInProgress})
	require.NoError(t, err)

	week := date("2024-03-04")
	_, err = entries.Create(ctx, workload.Entry{EmployeeID: emp.ID, ProjectID: proj.ID, WeekStartDate: week, WorkloadPercent: 90, TasksCompleted: 8, TasksOverdue: 2})
	require.NoError(t, err)

	_, err = entries.Create(ctx, workload.Entry{EmployeeID: emp.ID, ProjectID: proj.ID, WeekStartDate: week})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	latest, err = entries.LatestWeek(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, latest.Equal(week))

	rows, err := analyticsRepo.WeekRows(ctx, week)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Portal", rows[0].ProjectName)
	assert.Nil(t, rows[0].DepartmentName)

	inProgress, err := analyticsRepo.CountProjectsInProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inProgress)

	err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := kpis.DeletePeriod(ctx, week); err != nil {
			return err
		}
		_, err := kpis.InsertBatch(ctx, []workload.KPIMetric{
			{EmployeeID: emp.ID, MetricName: workload.MetricEfficiency, MetricValue: 80, Period: week},
		})
		return err
	})
	require.NoError(t, err)

	history, err := kpis.History(ctx, emp.ID, workload.MetricEfficiency)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 80.0, history[0].MetricValue)

	failure := errors.New("abort")
	err = transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := kpis.DeletePeriod(ctx, week); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	history, err = kpis.History(ctx, emp.ID, workload.MetricEfficiency)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
