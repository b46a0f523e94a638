package service

import (
	"github.com/shopspring/decimal"

	"github.com/fleetops/fleet-payroll-api/internal/models"
)

var (
	decimalHalf = decimal.New(5, -1)
	decimalOne  = decimal.NewFromInt(1)
)

// Payable reports whether a day contributes anything to pay: presence, a
// half day, or a nonzero extra adjustment. A record with only an extra
// amount earns no wage but the extra still flows into payroll.
func Payable(rec *models.Attendance) bool {
	return rec.Present || rec.IsHalfDay || !rec.ExtraAmount.IsZero()
}

// Multiplier returns the fraction of a full day's wage earned. Half-day
// overrides present.
func Multiplier(rec *models.Attendance) decimal.Decimal {
	switch {
	case rec.IsHalfDay:
		return decimalHalf
	case rec.Present:
		return decimalOne
	default:
		return decimal.Zero
	}
}

// DayCost is the wage breakdown of a single attendance record.
type DayCost struct {
	Daily    decimal.Decimal
	Overtime decimal.Decimal
}

// Total is the wage plus overtime cost, without the extra adjustment.
func (c DayCost) Total() decimal.Decimal {
	return c.Daily.Add(c.Overtime)
}

// ComputeDayCost derives the daily and overtime cost for one record.
// Overtime is costed regardless of presence since it is authorised
// separately; it can sit on a half day or a recorded-absent day. Missing
// employee rates count as zero, never as an error.
func ComputeDayCost(rec *models.AttendanceDetail) DayCost {
	daily := nullableDecimal(rec.DailyWage).Mul(Multiplier(&rec.Attendance))
	overtime := decimal.NewFromFloat(rec.OvertimeHours).Mul(nullableDecimal(rec.OvertimeRate))
	return DayCost{Daily: daily, Overtime: overtime}
}

// LineTotal is the day's full contribution including the extra adjustment.
func LineTotal(rec *models.AttendanceDetail) decimal.Decimal {
	return ComputeDayCost(rec).Total().Add(rec.ExtraAmount)
}

// SplitBankCash divides a period's earnings into a bank leg and a cash leg.
// The bank entitlement is bankDaily scaled by days worked; whatever is left
// becomes cash, rounded down to the nearest multiple of step with the bank
// absorbing the remainder. A negative cash target is clamped to zero: the
// bank cannot be paid more than was earned. The returned pair always sums to
// grandTotal exactly.
func SplitBankCash(grandTotal, bankDaily, daysWorked decimal.Decimal, step int64) (bank, cash decimal.Decimal) {
	targetBank := bankDaily.Mul(daysWorked)
	targetCash := grandTotal.Sub(targetBank)
	if targetCash.IsNegative() {
		return grandTotal, decimal.Zero
	}
	if step <= 0 {
		return targetBank, targetCash
	}
	remainder := targetCash.Mod(decimal.NewFromInt(step))
	cash = targetCash.Sub(remainder)
	bank = grandTotal.Sub(cash)
	return bank, cash
}

func nullableDecimal(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
