package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
)

type boatRepository interface {
	List(ctx context.Context, filter models.BoatFilter) ([]models.Boat, int, error)
	FindByID(ctx context.Context, id string) (*models.Boat, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, boat *models.Boat) error
	Update(ctx context.Context, boat *models.Boat) error
	Delete(ctx context.Context, id string) error
}

// BoatService coordinates fleet management.
type BoatService struct {
	repo      boatRepository
	cache     cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBoatService constructs the boat service.
func NewBoatService(repo boatRepository, cache cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BoatService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoatService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// BoatListRequest describes listing filters.
type BoatListRequest struct {
	Search    string `json:"search"`
	Page      int    `json:"page"`
	PageSize  int    `json:"page_size"`
	SortOrder string `json:"sort_order"`
}

// BoatRequest is the create/update payload.
type BoatRequest struct {
	Name string `json:"name" validate:"required"`
}

// List returns paginated boats.
func (s *BoatService) List(ctx context.Context, req BoatListRequest) ([]models.Boat, *models.Pagination, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 100
	}
	filter := models.BoatFilter{
		Search:    req.Search,
		Page:      page,
		PageSize:  size,
		SortOrder: req.SortOrder,
	}
	boats, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list boats")
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return boats, pagination, nil
}

// Get fetches one boat.
func (s *BoatService) Get(ctx context.Context, id string) (*models.Boat, error) {
	boat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "boat not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load boat")
	}
	return boat, nil
}

// Create registers a new boat. Names are unique across the fleet.
func (s *BoatService) Create(ctx context.Context, req BoatRequest) (*models.Boat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check boat name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "boat name already in use")
	}
	boat := &models.Boat{Name: req.Name}
	if err := s.repo.Create(ctx, boat); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create boat")
	}
	s.invalidateReports(ctx)
	return boat, nil
}

// Update renames a boat.
func (s *BoatService) Update(ctx context.Context, id string, req BoatRequest) (*models.Boat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	exists, err := s.repo.ExistsByName(ctx, req.Name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check boat name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "boat name already in use")
	}
	boat := &models.Boat{ID: id, Name: req.Name}
	if err := s.repo.Update(ctx, boat); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "boat not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update boat")
	}
	s.invalidateReports(ctx)
	return s.Get(ctx, id)
}

// Delete removes a boat. Attendance logged against it keeps the stale id and
// expense reports show a placeholder label.
func (s *BoatService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "boat not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete boat")
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *BoatService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, reportCachePattern); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
