package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

type mockEmployeeRepo struct {
	items      map[string]*models.Employee
	listResult []models.Employee
	listTotal  int
	created    []*models.Employee
	deleted    []string
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	if employee, ok := m.items[id]; ok {
		cp := *employee
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	employee.ID = "generated"
	m.created = append(m.created, employee)
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	if _, ok := m.items[employee.ID]; !ok {
		return sql.ErrNoRows
	}
	m.items[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockInvalidator struct {
	patterns []string
}

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func TestEmployeeServiceCreate(t *testing.T) {
	t.Run("creates and invalidates report caches", func(t *testing.T) {
		repo := &mockEmployeeRepo{items: map[string]*models.Employee{}}
		invalidator := &mockInvalidator{}
		svc := NewEmployeeService(repo, invalidator, nil, nil)

		employee, err := svc.Create(context.Background(), EmployeeRequest{
			Name: "Ana", DailyWage: dec("100"), OvertimeRate: dec("10"), BankDailyAmount: dec("40"),
		})
		require.NoError(t, err)
		assert.Equal(t, "generated", employee.ID)
		require.Len(t, invalidator.patterns, 1)
		assert.Equal(t, "report:*", invalidator.patterns[0])
	})

	t.Run("rejects missing name", func(t *testing.T) {
		svc := NewEmployeeService(&mockEmployeeRepo{}, nil, nil, nil)
		_, err := svc.Create(context.Background(), EmployeeRequest{DailyWage: dec("100")})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		svc := NewEmployeeService(&mockEmployeeRepo{}, nil, nil, nil)
		_, err := svc.Create(context.Background(), EmployeeRequest{Name: "Ana", DailyWage: dec("-1")})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})
}

func TestEmployeeServiceUpdate(t *testing.T) {
	t.Run("unknown id is not found", func(t *testing.T) {
		repo := &mockEmployeeRepo{items: map[string]*models.Employee{}}
		svc := NewEmployeeService(repo, nil, nil, nil)

		_, err := svc.Update(context.Background(), "missing", EmployeeRequest{Name: "Ana"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})

	t.Run("persists rate changes", func(t *testing.T) {
		repo := &mockEmployeeRepo{items: map[string]*models.Employee{
			"e1": {ID: "e1", Name: "Ana", DailyWage: dec("100")},
		}}
		invalidator := &mockInvalidator{}
		svc := NewEmployeeService(repo, invalidator, nil, nil)

		updated, err := svc.Update(context.Background(), "e1", EmployeeRequest{
			Name: "Ana", DailyWage: dec("120"), OvertimeRate: dec("12"), BankDailyAmount: dec("40"),
		})
		require.NoError(t, err)
		assert.True(t, updated.DailyWage.Equal(dec("120")))
		assert.NotEmpty(t, invalidator.patterns)
	})
}

func TestEmployeeServiceDelete(t *testing.T) {
	repo := &mockEmployeeRepo{items: map[string]*models.Employee{
		"e1": {ID: "e1", Name: "Ana"},
	}}
	invalidator := &mockInvalidator{}
	svc := NewEmployeeService(repo, invalidator, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "e1"))
	assert.Equal(t, []string{"e1"}, repo.deleted)
	assert.NotEmpty(t, invalidator.patterns)

	err := svc.Delete(context.Background(), "e1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
