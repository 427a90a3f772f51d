package employee

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/staffpulse/analytics-api/internal/domain/department"
	"github.com/staffpulse/analytics-api/internal/domain/employee"
	"github.com/staffpulse/analytics-api/internal/domain/master/position"
	"github.com/staffpulse/analytics-api/internal/pkg/apperror"
	"github.com/staffpulse/analytics-api/internal/pkg/storage"
	"github.com/staffpulse/analytics-api/internal/repository/memory"
	departmentservice "github.com/staffpulse/analytics-api/internal/service/department"
	"github.com/staffpulse/analytics-api/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc         *EmployeeServiceImpl
	storage     *storage.LocalStorage
	departments department.DepartmentRepository
	positions   position.PositionRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	store := memory.NewStore()
	departments := memory.NewDepartmentRepository(store)
	positions := memory.NewPositionRepository(store)
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	svc := NewEmployeeService(
		&memory.Transactor{},
		memory.NewEmployeeRepository(store),
		departments,
		positions,
		departmentservice.NewDepartmentService(departments),
		file.NewFileService(local),
	).(*EmployeeServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC) }

	return fixture{svc: svc, storage: local, departments: departments, positions: positions}
}

func (f fixture) department(t *testing.T, name string, parentID *int64) int64 {
	t.Helper()
	d, err := f.departments.Create(context.Background(), department.Department{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return d.ID
}

func photo(t *testing.T) *employee.PhotoUpload {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 800, 600))))
	return &employee.PhotoUpload{File: buf, Filename: "avatar.png"}
}

func validRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FullName: "Ivan Petrov",
		Email:    "  Ivan.Petrov@Example.com ",
		HireDate: "2023-02-01",
	}
}

func TestCreateEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deptID := f.department(t, "Sales", nil)

	req := validRequest()
	req.DepartmentID = &deptID

	created, err := f.svc.CreateEmployee(ctx, req, nil)
	require.NoError(t, err)
	assert.Equal(t, "ivan.petrov@example.com", created.Email)
	assert.Equal(t, "2023-02-01", created.HireDate)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.Department)
	assert.Equal(t, "Sales", created.Department.Name)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.svc.CreateEmployee(ctx, validRequest(), nil)
		assert.ErrorIs(t, err, employee.ErrEmailExists)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("unknown department", func(t *testing.T) {
		req := validRequest()
		req.Email = "other@example.com"
		missing := int64(999)
		req.DepartmentID = &missing
		_, err := f.svc.CreateEmployee(ctx, req, nil)
		assert.ErrorIs(t, err, employee.ErrDepartmentNotFound)
	})

	t.Run("future hire date", func(t *testing.T) {
		req := validRequest()
		req.Email = "future@example.com"
		req.HireDate = "2024-06-11"
		_, err := f.svc.CreateEmployee(ctx, req, nil)
		assert.ErrorIs(t, err, employee.ErrFutureHireDate)
	})

	t.Run("bad phone", func(t *testing.T) {
		req := validRequest()
		req.Email = "phone@example.com"
		phone := "call me"
		req.Phone = &phone
		_, err := f.svc.CreateEmployee(ctx, req, nil)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestCreateEmployee_WithPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, validRequest(), photo(t))
	require.NoError(t, err)
	require.NotNil(t, created.PhotoURL)
	assert.True(t, strings.HasPrefix(*created.PhotoURL, "/uploads/employees/"))

	path, ok := f.storage.PathFromURL(*created.PhotoURL)
	require.True(t, ok)
	exists, err := f.storage.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("replace photo removes the old file", func(t *testing.T) {
		updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID}, photo(t))
		require.NoError(t, err)
		assert.NotEqual(t, *created.PhotoURL, *updated.PhotoURL)

		exists, err := f.storage.Exists(ctx, path)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete photo", func(t *testing.T) {
		cleared, err := f.svc.DeletePhoto(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, cleared.PhotoURL)

		_, err = f.svc.DeletePhoto(ctx, created.ID)
		assert.ErrorIs(t, err, employee.ErrNoPhoto)
	})
}

func TestUpdateEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateEmployee(ctx, validRequest(), nil)
	require.NoError(t, err)
	second := validRequest()
	second.Email = "anna@example.com"
	second.FullName = "Anna Smirnova"
	other, err := f.svc.CreateEmployee(ctx, second, nil)
	require.NoError(t, err)

	taken := "ANNA@example.com"
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: first.ID, Email: &taken}, nil)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	name := "Ivan Sergeevich Petrov"
	updated, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: first.ID, FullName: &name}, nil)
	require.NoError(t, err)
	assert.Equal(t, name, updated.FullName)
	assert.Equal(t, first.Email, updated.Email)

	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: other.ID + 100, FullName: &name}, nil)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeactivateAndActivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateEmployee(ctx, validRequest(), nil)
	require.NoError(t, err)

	deactivated, err := f.svc.DeactivateEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	list, err := f.svc.ListEmployees(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	// inactive employees stay reachable by id
	got, err := f.svc.GetEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	activated, err := f.svc.ActivateEmployee(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	_, err = f.svc.ActivateEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyActive)
}

func TestListByDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root := f.department(t, "Руководство", nil)
	eng := f.department(t, "Engineering", &root)
	backend := f.department(t, "Backend", &eng)

	for i, deptID := range []int64{eng, backend} {
		req := validRequest()
		req.Email = []string{"eng@example.com", "back@example.com"}[i]
		req.FullName = []string{"Boris Engineer", "Alexei Backend"}[i]
		req.DepartmentID = &deptID
		_, err := f.svc.CreateEmployee(ctx, req, nil)
		require.NoError(t, err)
	}

	direct, err := f.svc.ListByDepartment(ctx, eng, false)
	require.NoError(t, err)
	require.Len(t, direct, 1)
	assert.Equal(t, "Boris Engineer", direct[0].FullName)

	withChildren, err := f.svc.ListByDepartment(ctx, eng, true)
	require.NoError(t, err)
	require.Len(t, withChildren, 2)
	assert.Equal(t, "Alexei Backend", withChildren[0].FullName)

	_, err = f.svc.ListByDepartment(ctx, 999, true)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	_, err = f.svc.ListByDepartment(ctx, 999, false)
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
}
