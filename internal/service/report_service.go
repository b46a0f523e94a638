package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type attendanceReader interface {
	ListRange(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
}

type boatReader interface {
	FindByID(ctx context.Context, id string) (*models.Boat, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type cacheLookupObserver interface {
	ObserveCacheLookup(hit bool)
}

// ReportConfig tunes the aggregation engine.
type ReportConfig struct {
	CashRoundingStep int64
	CacheEnabled     bool
	CacheTTL         time.Duration
}

// ReportService is the payroll and expense aggregation engine. Every report
// is a single read-only pass over the attendance rows of a bounded date
// range with per-call accumulators, so concurrent requests need no
// coordination.
type ReportService struct {
	attendance attendanceReader
	boats      boatReader
	cache      reportCache
	metrics    cacheLookupObserver
	cfg        ReportConfig
	logger     *zap.Logger
}

// NewReportService constructs the engine.
func NewReportService(attendance attendanceReader, boats boatReader, cache reportCache, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if cfg.CashRoundingStep <= 0 {
		cfg.CashRoundingStep = 50
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{attendance: attendance, boats: boats, cache: cache, cfg: cfg, logger: logger}
}

// SetMetrics attaches cache hit/miss instrumentation.
func (s *ReportService) SetMetrics(metrics cacheLookupObserver) {
	s.metrics = metrics
}

// BoatAnalysis summarises all payable days for one boat over an inclusive
// date range. A boat with no payable records yields an empty analysis, not
// an error; an unknown boat id is NotFound.
func (s *ReportService) BoatAnalysis(ctx context.Context, boatID string, from, to time.Time) (*models.BoatAnalysis, error) {
	boat, err := s.boats.FindByID(ctx, boatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "boat not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load boat")
	}

	key := fmt.Sprintf("report:boat:%s:%s:%s", boatID, from.Format(dateLayout), to.Format(dateLayout))
	if cached := s.fromCache(ctx, key, &models.BoatAnalysis{}); cached != nil {
		return cached.(*models.BoatAnalysis), nil
	}

	rows, err := s.attendance.ListRange(ctx, models.AttendanceFilter{From: from, To: to, BoatID: boatID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	analysis := &models.BoatAnalysis{BoatName: boat.Name, TotalCost: decimal.Zero, Entries: make([]models.AnalysisEntry, 0, len(rows))}
	for i := range rows {
		row := &rows[i]
		if row.EmployeeName == nil || !Payable(&row.Attendance) {
			continue
		}
		cost := ComputeDayCost(row)
		total := cost.Total().Add(row.ExtraAmount)
		analysis.Entries = append(analysis.Entries, models.AnalysisEntry{
			Date:         row.Date,
			EmployeeName: *row.EmployeeName,
			DailyCost:    cost.Daily,
			OvertimeCost: cost.Overtime,
			TotalCost:    total,
		})
		analysis.TotalCost = analysis.TotalCost.Add(total)
	}

	s.toCache(ctx, key, analysis)
	return analysis, nil
}

// ExpenseReport lists every payable day across boats and employees for an
// inclusive range, optionally narrowed by boat and/or employee. Filters that
// match nothing yield an empty report rather than an error. Records whose
// employee was deleted are skipped; a deleted boat degrades to a placeholder
// label keeping the stale id traceable.
func (s *ReportService) ExpenseReport(ctx context.Context, from, to time.Time, boatID, employeeID string) (*models.ExpenseReport, error) {
	key := fmt.Sprintf("report:expenses:%s:%s:%s:%s", from.Format(dateLayout), to.Format(dateLayout), boatID, employeeID)
	if cached := s.fromCache(ctx, key, &models.ExpenseReport{}); cached != nil {
		return cached.(*models.ExpenseReport), nil
	}

	rows, err := s.attendance.ListRange(ctx, models.AttendanceFilter{From: from, To: to, BoatID: boatID, EmployeeID: employeeID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	report := &models.ExpenseReport{TotalSum: decimal.Zero, Results: make([]models.ExpenseLine, 0, len(rows))}
	for i := range rows {
		row := &rows[i]
		if row.EmployeeName == nil || !Payable(&row.Attendance) {
			continue
		}
		cost := ComputeDayCost(row)
		total := cost.Total().Add(row.ExtraAmount)
		report.Results = append(report.Results, models.ExpenseLine{
			Date:         row.Date,
			EmployeeName: *row.EmployeeName,
			BoatName:     boatLabel(row),
			DailyCost:    cost.Daily,
			OvertimeCost: cost.Overtime,
			TotalCost:    total,
		})
		report.TotalSum = report.TotalSum.Add(total)
	}

	s.toCache(ctx, key, report)
	return report, nil
}

// Payroll computes one line per employee active in the inclusive range,
// applying the bank/cash split to each. Employees with no payable day and no
// extras are omitted entirely. Lines appear in the order employees first
// occur in the attendance rows.
func (s *ReportService) Payroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error) {
	key := fmt.Sprintf("report:payroll:%s:%s", from.Format(dateLayout), to.Format(dateLayout))
	if cached := s.fromCache(ctx, key, &models.PayrollReport{}); cached != nil {
		return cached.(*models.PayrollReport), nil
	}

	rows, err := s.attendance.ListRange(ctx, models.AttendanceFilter{From: from, To: to})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	type accumulator struct {
		name          string
		bankDaily     decimal.Decimal
		daysWorked    decimal.Decimal
		totalWage     decimal.Decimal
		overtimeHours float64
		totalOvertime decimal.Decimal
		totalExtra    decimal.Decimal
		reasons       []string
		seenReasons   map[string]struct{}
	}

	order := make([]string, 0)
	byEmployee := make(map[string]*accumulator)

	for i := range rows {
		row := &rows[i]
		if row.EmployeeName == nil {
			continue
		}
		acc, ok := byEmployee[row.EmployeeID]
		if !ok {
			acc = &accumulator{
				name:          *row.EmployeeName,
				bankDaily:     nullableDecimal(row.BankDailyAmount),
				daysWorked:    decimal.Zero,
				totalWage:     decimal.Zero,
				totalOvertime: decimal.Zero,
				totalExtra:    decimal.Zero,
				seenReasons:   map[string]struct{}{},
			}
			byEmployee[row.EmployeeID] = acc
			order = append(order, row.EmployeeID)
		}

		if Payable(&row.Attendance) {
			cost := ComputeDayCost(row)
			acc.daysWorked = acc.daysWorked.Add(Multiplier(&row.Attendance))
			acc.totalWage = acc.totalWage.Add(cost.Daily)
			acc.totalOvertime = acc.totalOvertime.Add(cost.Overtime)
			acc.overtimeHours += row.OvertimeHours
		}
		if !row.ExtraAmount.IsZero() {
			acc.totalExtra = acc.totalExtra.Add(row.ExtraAmount)
			if row.ExtraReason != nil {
				if reason := strings.TrimSpace(*row.ExtraReason); reason != "" {
					if _, seen := acc.seenReasons[reason]; !seen {
						acc.seenReasons[reason] = struct{}{}
						acc.reasons = append(acc.reasons, reason)
					}
				}
			}
		}
	}

	report := &models.PayrollReport{StartDate: from, EndDate: to, Payments: make([]models.PayrollLine, 0, len(order))}
	for _, employeeID := range order {
		acc := byEmployee[employeeID]
		if acc.daysWorked.IsZero() && acc.totalExtra.IsZero() {
			continue
		}
		grandTotal := acc.totalWage.Add(acc.totalOvertime).Add(acc.totalExtra)
		bank, cash := SplitBankCash(grandTotal, acc.bankDaily, acc.daysWorked, s.cfg.CashRoundingStep)
		report.Payments = append(report.Payments, models.PayrollLine{
			EmployeeID:         employeeID,
			EmployeeName:       acc.name,
			DaysWorked:         acc.daysWorked,
			TotalWage:          acc.totalWage,
			TotalOvertimeHours: acc.overtimeHours,
			TotalOvertime:      acc.totalOvertime,
			TotalExtra:         acc.totalExtra,
			ExtraReasons:       strings.Join(acc.reasons, ", "),
			GrandTotal:         grandTotal,
			BankPay:            bank,
			CashPay:            cash,
		})
	}

	s.toCache(ctx, key, report)
	return report, nil
}

func boatLabel(row *models.AttendanceDetail) string {
	switch {
	case row.BoatName != nil:
		return *row.BoatName
	case row.BoatID != nil:
		return fmt.Sprintf("deleted boat (%s)", *row.BoatID)
	default:
		return "-"
	}
}

func (s *ReportService) fromCache(ctx context.Context, key string, dest interface{}) interface{} {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return nil
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveCacheLookup(false)
		}
		return nil
	}
	if s.metrics != nil {
		s.metrics.ObserveCacheLookup(true)
	}
	return dest
}

func (s *ReportService) toCache(ctx context.Context, key string, value interface{}) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
