package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a crew member with the wage rates every report derives from.
// DailyWage and BankDailyAmount are per-day amounts, OvertimeRate is per
// hour. Rate changes apply to all subsequent report computations; past
// reports are not stored.
type Employee struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	DailyWage       decimal.Decimal `db:"daily_wage" json:"daily_wage"`
	OvertimeRate    decimal.Decimal `db:"overtime_rate" json:"overtime_rate"`
	BankDailyAmount decimal.Decimal `db:"bank_daily_amount" json:"bank_daily_amount"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// EmployeeFilter captures filtering options for listing employees.
type EmployeeFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
