package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

type mockAttendanceRepo struct {
	upserted   []*models.Attendance
	listResult []models.AttendanceDetail
	deleted    []string
	deleteErr  error
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	record.ID = "generated"
	m.upserted = append(m.upserted, record)
	cp := *record
	return &cp, nil
}

func (m *mockAttendanceRepo) ListRange(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	return m.listResult, nil
}

func (m *mockAttendanceRepo) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func TestAttendanceServiceMark(t *testing.T) {
	employees := &mockEmployeeRepo{items: map[string]*models.Employee{
		"e1": {ID: "e1", Name: "Ana"},
	}}

	t.Run("records a day and invalidates caches", func(t *testing.T) {
		repo := &mockAttendanceRepo{}
		invalidator := &mockInvalidator{}
		svc := NewAttendanceService(repo, employees, invalidator, nil, nil)

		stored, err := svc.Mark(context.Background(), AttendanceRequest{
			Date: "2025-03-01", EmployeeID: "e1", Present: true, OvertimeHours: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, "generated", stored.ID)
		assert.True(t, stored.Present)
		require.Len(t, invalidator.patterns, 1)
		assert.Equal(t, "report:*", invalidator.patterns[0])
	})

	t.Run("unknown employee is not found", func(t *testing.T) {
		svc := NewAttendanceService(&mockAttendanceRepo{}, employees, nil, nil, nil)
		_, err := svc.Mark(context.Background(), AttendanceRequest{Date: "2025-03-01", EmployeeID: "ghost"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		svc := NewAttendanceService(&mockAttendanceRepo{}, employees, nil, nil, nil)
		_, err := svc.Mark(context.Background(), AttendanceRequest{Date: "01/03/2025", EmployeeID: "e1"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})

	t.Run("rejects negative overtime", func(t *testing.T) {
		svc := NewAttendanceService(&mockAttendanceRepo{}, employees, nil, nil, nil)
		_, err := svc.Mark(context.Background(), AttendanceRequest{Date: "2025-03-01", EmployeeID: "e1", OvertimeHours: -1})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})
}

func TestAttendanceServiceList(t *testing.T) {
	repo := &mockAttendanceRepo{listResult: []models.AttendanceDetail{
		detail("e1", "Ana", day(1), nil),
	}}
	svc := NewAttendanceService(repo, &mockEmployeeRepo{}, nil, nil, nil)

	t.Run("returns rows for a valid range", func(t *testing.T) {
		rows, err := svc.List(context.Background(), AttendanceListRequest{From: "2025-03-01", To: "2025-03-31"})
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		_, err := svc.List(context.Background(), AttendanceListRequest{From: "2025-03-31", To: "2025-03-01"})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	})
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.True(t, from.Before(to))

	_, _, err = ParseDateRange("2025-03-01", "not-a-date")
	require.Error(t, err)

	// Single-day ranges are allowed: from == to.
	_, _, err = ParseDateRange("2025-03-01", "2025-03-01")
	assert.NoError(t, err)
}
