package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "daily_wage", "overtime_rate", "bank_daily_amount", "created_at", "updated_at"}).
		AddRow("e1", "Ana", "100", "10", "40", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, daily_wage, overtime_rate, bank_daily_amount, created_at, updated_at FROM employees WHERE 1=1 ORDER BY name ASC LIMIT 100 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM employees WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.EmployeeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Ana", list[0].Name)
	assert.True(t, list[0].DailyWage.Equal(decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT id, name, daily_wage, overtime_rate, bank_daily_amount.+LOWER\\(name\\) LIKE \\$1").
		WithArgs("%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "daily_wage", "overtime_rate", "bank_daily_amount", "created_at", "updated_at"}))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("%ana%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.EmployeeFilter{Search: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WithArgs(sqlmock.AnyArg(), "Ana", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	employee := &models.Employee{
		Name:            "Ana",
		DailyWage:       decimal.NewFromInt(100),
		OvertimeRate:    decimal.NewFromInt(10),
		BankDailyAmount: decimal.NewFromInt(40),
	}
	require.NoError(t, repo.Create(context.Background(), employee))
	assert.NotEmpty(t, employee.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Employee{ID: "missing", Name: "Ana"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("DELETE FROM employees WHERE id").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1"))

	mock.ExpectExec("DELETE FROM employees WHERE id").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
