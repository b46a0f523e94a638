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

// AttendanceRepository handles persistence for daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts or updates the record for (employee, date). The unique
// constraint on that pair makes concurrent writes converge on one row.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, date, employee_id, boat_id, overtime_boat_id, present, is_half_day, overtime_hours, extra_amount, extra_reason, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (employee_id, date)
DO UPDATE SET boat_id = EXCLUDED.boat_id, overtime_boat_id = EXCLUDED.overtime_boat_id, present = EXCLUDED.present,
	is_half_day = EXCLUDED.is_half_day, overtime_hours = EXCLUDED.overtime_hours, extra_amount = EXCLUDED.extra_amount,
	extra_reason = EXCLUDED.extra_reason, updated_at = EXCLUDED.updated_at
RETURNING id, date, employee_id, boat_id, overtime_boat_id, present, is_half_day, overtime_hours, extra_amount, extra_reason, created_at, updated_at`
	var stored models.Attendance
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.Date, record.EmployeeID, record.BoatID, record.OvertimeBoatID,
		record.Present, record.IsHalfDay, record.OvertimeHours, record.ExtraAmount,
		record.ExtraReason, record.CreatedAt, record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// ListRange returns attendance rows for an inclusive date range joined with
// employee and boat display data. Left joins keep rows whose employee or
// boat was deleted; the engine decides whether to skip or label them.
// Natural order is by date, then insertion order.
func (r *AttendanceRepository) ListRange(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	base := `FROM attendance a
LEFT JOIN employees e ON e.id = a.employee_id
LEFT JOIN boats b ON b.id = a.boat_id`
	where := []string{"a.date >= $1", "a.date <= $2"}
	args := []interface{}{filter.From, filter.To}
	if filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("a.employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.BoatID != "" {
		where = append(where, fmt.Sprintf("a.boat_id = $%d", len(args)+1))
		args = append(args, filter.BoatID)
	}

	query := fmt.Sprintf(`SELECT a.id, a.date, a.employee_id, a.boat_id, a.overtime_boat_id, a.present, a.is_half_day,
	a.overtime_hours, a.extra_amount, a.extra_reason, a.created_at, a.updated_at,
	e.name AS employee_name, e.daily_wage, e.overtime_rate, e.bank_daily_amount, b.name AS boat_name
	%s WHERE %s ORDER BY a.date ASC, a.created_at ASC`, base, strings.Join(where, " AND "))

	var rows []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// Delete removes one attendance record. Returns sql.ErrNoRows when the id
// does not exist.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
