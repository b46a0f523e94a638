package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/fleet-payroll-api/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestPayable(t *testing.T) {
	tests := []struct {
		name string
		rec  models.Attendance
		want bool
	}{
		{"present full day", models.Attendance{Present: true}, true},
		{"half day not marked present", models.Attendance{IsHalfDay: true}, true},
		{"absent with bonus", models.Attendance{ExtraAmount: dec("25")}, true},
		{"absent with deduction", models.Attendance{ExtraAmount: dec("-10")}, true},
		{"absent with overtime only", models.Attendance{OvertimeHours: 3}, false},
		{"empty record", models.Attendance{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Payable(&tt.rec))
		})
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name string
		rec  models.Attendance
		want string
	}{
		{"present", models.Attendance{Present: true}, "1"},
		{"half day", models.Attendance{IsHalfDay: true}, "0.5"},
		{"half day overrides present", models.Attendance{Present: true, IsHalfDay: true}, "0.5"},
		{"absent", models.Attendance{}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, dec(tt.want).Equal(Multiplier(&tt.rec)), "got %s", Multiplier(&tt.rec))
		})
	}
}

func TestComputeDayCost(t *testing.T) {
	t.Run("present with overtime", func(t *testing.T) {
		rec := models.AttendanceDetail{
			Attendance:   models.Attendance{Present: true, OvertimeHours: 2},
			DailyWage:    nullDec("100"),
			OvertimeRate: nullDec("10"),
		}
		cost := ComputeDayCost(&rec)
		assert.True(t, dec("100").Equal(cost.Daily))
		assert.True(t, dec("20").Equal(cost.Overtime))
		assert.True(t, dec("120").Equal(cost.Total()))
	})

	t.Run("half day halves the wage only", func(t *testing.T) {
		rec := models.AttendanceDetail{
			Attendance:   models.Attendance{IsHalfDay: true, OvertimeHours: 1.5},
			DailyWage:    nullDec("100"),
			OvertimeRate: nullDec("10"),
		}
		cost := ComputeDayCost(&rec)
		assert.True(t, dec("50").Equal(cost.Daily))
		assert.True(t, dec("15").Equal(cost.Overtime))
	})

	t.Run("overtime costed on a non-payable day", func(t *testing.T) {
		rec := models.AttendanceDetail{
			Attendance:   models.Attendance{OvertimeHours: 4},
			DailyWage:    nullDec("100"),
			OvertimeRate: nullDec("12.5"),
		}
		cost := ComputeDayCost(&rec)
		assert.True(t, cost.Daily.IsZero())
		assert.True(t, dec("50").Equal(cost.Overtime))
	})

	t.Run("missing rates count as zero", func(t *testing.T) {
		rec := models.AttendanceDetail{
			Attendance: models.Attendance{Present: true, OvertimeHours: 2},
		}
		cost := ComputeDayCost(&rec)
		assert.True(t, cost.Daily.IsZero())
		assert.True(t, cost.Overtime.IsZero())
	})
}

func TestLineTotal(t *testing.T) {
	rec := models.AttendanceDetail{
		Attendance:   models.Attendance{Present: true, OvertimeHours: 2, ExtraAmount: dec("-30")},
		DailyWage:    nullDec("100"),
		OvertimeRate: nullDec("10"),
	}
	assert.True(t, dec("90").Equal(LineTotal(&rec)))
}

func TestSplitBankCash(t *testing.T) {
	tests := []struct {
		name       string
		grandTotal string
		bankDaily  string
		daysWorked string
		step       int64
		wantBank   string
		wantCash   string
	}{
		{
			// 100 wage + 2h * 10 overtime; bank target 40, cash 80 -> 50 after rounding.
			name:       "single present day with overtime",
			grandTotal: "120", bankDaily: "40", daysWorked: "1", step: 50,
			wantBank: "70", wantCash: "50",
		},
		{
			// Half day earns 50; bank target 20, cash 30 rounds to 0.
			name:       "half day cash rounds to zero",
			grandTotal: "50", bankDaily: "40", daysWorked: "0.5", step: 50,
			wantBank: "50", wantCash: "0",
		},
		{
			// Bank entitlement exceeds earnings; cash clamps at zero.
			name:       "negative cash target clamps",
			grandTotal: "30", bankDaily: "40", daysWorked: "1", step: 50,
			wantBank: "30", wantCash: "0",
		},
		{
			name:       "cash already a multiple of step",
			grandTotal: "240", bankDaily: "40", daysWorked: "1", step: 50,
			wantBank: "40", wantCash: "200",
		},
		{
			name:       "zero step disables rounding",
			grandTotal: "123", bankDaily: "40", daysWorked: "1", step: 0,
			wantBank: "40", wantCash: "83",
		},
		{
			name:       "multi-day period",
			grandTotal: "1075", bankDaily: "40", daysWorked: "9.5", step: 50,
			wantBank: "425", wantCash: "650",
		},
		{
			name:       "everything zero",
			grandTotal: "0", bankDaily: "0", daysWorked: "0", step: 50,
			wantBank: "0", wantCash: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bank, cash := SplitBankCash(dec(tt.grandTotal), dec(tt.bankDaily), dec(tt.daysWorked), tt.step)
			assert.True(t, dec(tt.wantBank).Equal(bank), "bank: want %s got %s", tt.wantBank, bank)
			assert.True(t, dec(tt.wantCash).Equal(cash), "cash: want %s got %s", tt.wantCash, cash)
		})
	}
}

func TestSplitBankCashAlwaysSumsToTotal(t *testing.T) {
	totals := []string{"0", "17", "49.99", "50", "120", "333.33", "1075", "99999"}
	bankDailies := []string{"0", "40", "75.5", "200"}
	days := []string{"0", "0.5", "1", "9.5", "22"}

	for _, gt := range totals {
		for _, bd := range bankDailies {
			for _, dw := range days {
				bank, cash := SplitBankCash(dec(gt), dec(bd), dec(dw), 50)
				require.True(t, dec(gt).Equal(bank.Add(cash)),
					"total %s bankDaily %s days %s: bank %s + cash %s", gt, bd, dw, bank, cash)
				require.False(t, cash.IsNegative())
				require.True(t, cash.Mod(dec("50")).IsZero() || bank.Equal(dec(gt)),
					"cash %s not aligned to step", cash)
			}
		}
	}
}
