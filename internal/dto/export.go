package dto

import (
	"time"

	"github.com/fleetops/fleet-payroll-api/internal/models"
)

// ExportRequest asks for a rendered report file.
type ExportRequest struct {
	Type       models.ExportType   `json:"type" validate:"required"`
	Format     models.ExportFormat `json:"format" validate:"required"`
	From       string              `json:"from" validate:"required"`
	To         string              `json:"to" validate:"required"`
	BoatID     string              `json:"boat_id"`
	EmployeeID string              `json:"employee_id"`
}

// ExportJobResponse acknowledges an accepted export job.
type ExportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ExportStatus `json:"status"`
}

// ExportStatusResponse reports job progress and, once finished, a signed
// download link.
type ExportStatusResponse struct {
	ID          string              `json:"id"`
	Status      models.ExportStatus `json:"status"`
	DownloadURL string              `json:"download_url,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	Error       string              `json:"error,omitempty"`
}
