package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fleetops/fleet-payroll-api/internal/models"
)

// EmployeeRepository manages persistence for employees.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs an EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// List returns employees matching filters along with total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	base := "FROM employees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "name"
	}
	allowedSorts := map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, daily_wage, overtime_rate, bank_daily_amount, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, column, order, size, offset)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}

	return employees, total, nil
}

// FindByID fetches an employee by ID.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, name, daily_wage, overtime_rate, bank_daily_amount, created_at, updated_at FROM employees WHERE id = $1`
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, id); err != nil {
		return nil, err
	}
	return &employee, nil
}

// Create inserts a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	employee.CreatedAt = now
	employee.UpdatedAt = now
	const query = `INSERT INTO employees (id, name, daily_wage, overtime_rate, bank_daily_amount, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, employee.ID, employee.Name, employee.DailyWage, employee.OvertimeRate, employee.BankDailyAmount, employee.CreatedAt, employee.UpdatedAt); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update persists employee field changes.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET name = $2, daily_wage = $3, overtime_rate = $4, bank_daily_amount = $5, updated_at = $6 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, employee.ID, employee.Name, employee.DailyWage, employee.OvertimeRate, employee.BankDailyAmount, employee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an employee. Attendance keeps the stale reference; reports
// skip or label it.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
