package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attendance is one employee's record for a calendar day. At most one row
// exists per (employee, date); writes for the same key update in place.
// ExtraAmount is a signed ad-hoc adjustment independent of presence, so a
// bonus can be paid on a day off. OvertimeBoatID tracks where overtime was
// worked when it differs from the day assignment.
type Attendance struct {
	ID             string          `db:"id" json:"id"`
	Date           time.Time       `db:"date" json:"date"`
	EmployeeID     string          `db:"employee_id" json:"employee_id"`
	BoatID         *string         `db:"boat_id" json:"boat_id,omitempty"`
	OvertimeBoatID *string         `db:"overtime_boat_id" json:"overtime_boat_id,omitempty"`
	Present        bool            `db:"present" json:"present"`
	IsHalfDay      bool            `db:"is_half_day" json:"is_half_day"`
	OvertimeHours  float64         `db:"overtime_hours" json:"overtime_hours"`
	ExtraAmount    decimal.Decimal `db:"extra_amount" json:"extra_amount"`
	ExtraReason    *string         `db:"extra_reason" json:"extra_reason,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// AttendanceDetail extends a record with its employee's name and rates and
// the boat name, all nullable because either side may have been deleted
// after the attendance was logged.
type AttendanceDetail struct {
	Attendance
	EmployeeName    *string             `db:"employee_name" json:"employee_name,omitempty"`
	DailyWage       decimal.NullDecimal `db:"daily_wage" json:"-"`
	OvertimeRate    decimal.NullDecimal `db:"overtime_rate" json:"-"`
	BankDailyAmount decimal.NullDecimal `db:"bank_daily_amount" json:"-"`
	BoatName        *string             `db:"boat_name" json:"boat_name,omitempty"`
}

// AttendanceFilter narrows a date-range query. From and To are inclusive.
type AttendanceFilter struct {
	From       time.Time
	To         time.Time
	EmployeeID string
	BoatID     string
}
