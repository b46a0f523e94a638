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

// BoatRepository manages persistence for boats.
type BoatRepository struct {
	db *sqlx.DB
}

// NewBoatRepository constructs a BoatRepository.
func NewBoatRepository(db *sqlx.DB) *BoatRepository {
	return &BoatRepository{db: db}
}

// List returns boats matching filters along with total count.
func (r *BoatRepository) List(ctx context.Context, filter models.BoatFilter) ([]models.Boat, int, error) {
	base := "FROM boats WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, name, created_at, updated_at %s ORDER BY name %s LIMIT %d OFFSET %d", base, order, size, offset)
	var boats []models.Boat
	if err := r.db.SelectContext(ctx, &boats, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list boats: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count boats: %w", err)
	}

	return boats, total, nil
}

// FindByID fetches a boat by ID.
func (r *BoatRepository) FindByID(ctx context.Context, id string) (*models.Boat, error) {
	const query = `SELECT id, name, created_at, updated_at FROM boats WHERE id = $1`
	var boat models.Boat
	if err := r.db.GetContext(ctx, &boat, query, id); err != nil {
		return nil, err
	}
	return &boat, nil
}

// ExistsByName checks if another boat already uses the name.
func (r *BoatRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM boats WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check boat name: %w", err)
	}
	return true, nil
}

// Create inserts a new boat.
func (r *BoatRepository) Create(ctx context.Context, boat *models.Boat) error {
	now := time.Now().UTC()
	if boat.ID == "" {
		boat.ID = uuid.NewString()
	}
	boat.CreatedAt = now
	boat.UpdatedAt = now
	const query = `INSERT INTO boats (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, boat.ID, boat.Name, boat.CreatedAt, boat.UpdatedAt); err != nil {
		return fmt.Errorf("create boat: %w", err)
	}
	return nil
}

// Update renames a boat.
func (r *BoatRepository) Update(ctx context.Context, boat *models.Boat) error {
	boat.UpdatedAt = time.Now().UTC()
	const query = `UPDATE boats SET name = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, boat.ID, boat.Name, boat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update boat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update boat: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a boat. Attendance rows keep the stale boat id and expense
// reports render it as a placeholder label.
func (r *BoatRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM boats WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete boat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete boat: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
