package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisEntry is one payable day's cost breakdown within a boat analysis.
type AnalysisEntry struct {
	Date         time.Time       `json:"date"`
	EmployeeName string          `json:"employee_name"`
	DailyCost    decimal.Decimal `json:"daily_cost"`
	OvertimeCost decimal.Decimal `json:"overtime_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// BoatAnalysis summarises all payable days for one boat over a date range.
type BoatAnalysis struct {
	BoatName  string          `json:"boat_name"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Entries   []AnalysisEntry `json:"analysis_data"`
}

// ExpenseLine is a cost breakdown with the boat label attached. BoatName is
// the boat's current name, a placeholder embedding the stale id when the boat
// was deleted, or a dash when the record carried no boat at all.
type ExpenseLine struct {
	Date         time.Time       `json:"date"`
	EmployeeName string          `json:"employee_name"`
	BoatName     string          `json:"boat_name"`
	DailyCost    decimal.Decimal `json:"daily_cost"`
	OvertimeCost decimal.Decimal `json:"overtime_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// ExpenseReport is the flat expense listing plus its grand total.
type ExpenseReport struct {
	TotalSum decimal.Decimal `json:"total_sum"`
	Results  []ExpenseLine   `json:"results"`
}

// PayrollLine is one employee's totals for a payroll period, after the
// bank/cash split. BankPay + CashPay always equals GrandTotal exactly.
type PayrollLine struct {
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       string          `json:"employee_name"`
	DaysWorked         decimal.Decimal `json:"days_worked"`
	TotalWage          decimal.Decimal `json:"total_wage"`
	TotalOvertimeHours float64         `json:"total_overtime_hours"`
	TotalOvertime      decimal.Decimal `json:"total_overtime"`
	TotalExtra         decimal.Decimal `json:"total_extra"`
	ExtraReasons       string          `json:"extra_reasons,omitempty"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	BankPay            decimal.Decimal `json:"bank_pay"`
	CashPay            decimal.Decimal `json:"cash_pay"`
}

// PayrollReport is the payroll for every employee active in the period.
type PayrollReport struct {
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Payments  []PayrollLine `json:"payments"`
}
