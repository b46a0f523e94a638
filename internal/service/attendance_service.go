package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error)
	ListRange(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
	Delete(ctx context.Context, id string) error
}

type employeeFinder interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// AttendanceService coordinates the daily attendance log the aggregation
// engine reads from.
type AttendanceService struct {
	repo      attendanceRepository
	employees employeeFinder
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, employees employeeFinder, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, employees: employees, cache: cache, validator: validate, logger: logger}
}

// AttendanceRequest is the upsert payload for one (employee, date).
type AttendanceRequest struct {
	Date           string          `json:"date" validate:"required"`
	EmployeeID     string          `json:"employee_id" validate:"required"`
	BoatID         *string         `json:"boat_id"`
	OvertimeBoatID *string         `json:"overtime_boat_id"`
	Present        bool            `json:"present"`
	IsHalfDay      bool            `json:"is_half_day"`
	OvertimeHours  float64         `json:"overtime_hours" validate:"gte=0"`
	ExtraAmount    decimal.Decimal `json:"extra_amount"`
	ExtraReason    *string         `json:"extra_reason"`
}

// AttendanceListRequest describes a range query.
type AttendanceListRequest struct {
	From       string `json:"from" validate:"required"`
	To         string `json:"to" validate:"required"`
	EmployeeID string `json:"employee_id"`
	BoatID     string `json:"boat_id"`
}

// Mark records attendance for an employee and day. Writing the same
// (employee, date) again updates the existing record instead of duplicating
// it.
func (s *AttendanceService) Mark(ctx context.Context, req AttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}

	record := &models.Attendance{
		Date:           date,
		EmployeeID:     req.EmployeeID,
		BoatID:         req.BoatID,
		OvertimeBoatID: req.OvertimeBoatID,
		Present:        req.Present,
		IsHalfDay:      req.IsHalfDay,
		OvertimeHours:  req.OvertimeHours,
		ExtraAmount:    req.ExtraAmount,
		ExtraReason:    req.ExtraReason,
	}
	stored, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}
	s.invalidateReports(ctx)
	return stored, nil
}

// List returns attendance rows for an inclusive date range.
func (s *AttendanceService) List(ctx context.Context, req AttendanceListRequest) ([]models.AttendanceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid filter")
	}
	from, to, err := ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRange(ctx, models.AttendanceFilter{
		From:       from,
		To:         to,
		EmployeeID: req.EmployeeID,
		BoatID:     req.BoatID,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// Remove deletes one attendance record.
func (s *AttendanceService) Remove(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "attendance id required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *AttendanceService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, reportCachePattern); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

func parseDate(raw string) (time.Time, error) {
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return date.UTC(), nil
}

// ParseDateRange parses an inclusive date range and rejects inverted bounds.
func ParseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid from date, expected YYYY-MM-DD")
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid to date, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date range end precedes start")
	}
	return from, to, nil
}
