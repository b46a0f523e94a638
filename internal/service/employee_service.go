package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

// reportCachePattern matches every cached report; any write to the data the
// engine reads invalidates them all.
const reportCachePattern = "report:*"

type employeeRepository interface {
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EmployeeService coordinates employee roster management.
type EmployeeService struct {
	repo      employeeRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService constructs the employee service.
func NewEmployeeService(repo employeeRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// EmployeeListRequest describes listing filters.
type EmployeeListRequest struct {
	Search    string `json:"search"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// EmployeeRequest is the create/update payload. Wage fields are daily
// amounts except OvertimeRate (per hour).
type EmployeeRequest struct {
	Name            string          `json:"name" validate:"required"`
	DailyWage       decimal.Decimal `json:"daily_wage"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	BankDailyAmount decimal.Decimal `json:"bank_daily_amount"`
}

func (r EmployeeRequest) validateAmounts() error {
	if r.DailyWage.IsNegative() || r.OvertimeRate.IsNegative() || r.BankDailyAmount.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "wage amounts must not be negative")
	}
	return nil
}

// List returns paginated employees.
func (s *EmployeeService) List(ctx context.Context, req EmployeeListRequest) ([]models.Employee, *models.Pagination, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 100
	}
	filter := models.EmployeeFilter{
		Search:    req.Search,
		Page:      page,
		PageSize:  size,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return employees, pagination, nil
}

// Get fetches one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load employee")
	}
	return employee, nil
}

// Create registers a new employee.
func (s *EmployeeService) Create(ctx context.Context, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := req.validateAmounts(); err != nil {
		return nil, err
	}
	employee := &models.Employee{
		Name:            req.Name,
		DailyWage:       req.DailyWage,
		OvertimeRate:    req.OvertimeRate,
		BankDailyAmount: req.BankDailyAmount,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create employee")
	}
	s.invalidateReports(ctx)
	return employee, nil
}

// Update edits an existing employee's name or rates. Rate changes flow into
// every report computed afterwards.
func (s *EmployeeService) Update(ctx context.Context, id string, req EmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := req.validateAmounts(); err != nil {
		return nil, err
	}
	employee := &models.Employee{
		ID:              id,
		Name:            req.Name,
		DailyWage:       req.DailyWage,
		OvertimeRate:    req.OvertimeRate,
		BankDailyAmount: req.BankDailyAmount,
	}
	if err := s.repo.Update(ctx, employee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update employee")
	}
	s.invalidateReports(ctx)
	return s.Get(ctx, id)
}

// Delete removes an employee. Their attendance history stays behind as
// orphaned rows the reports skip.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete employee")
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *EmployeeService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, reportCachePattern); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
