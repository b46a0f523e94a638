package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/fleet-payroll-api/internal/dto"
	"github.com/fleetops/fleet-payroll-api/internal/models"
	"github.com/fleetops/fleet-payroll-api/internal/service"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

// ExportBackend is what the handler needs from the export service.
type ExportBackend interface {
	CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler exposes report export endpoints.
type ExportHandler struct {
	exports ExportBackend
}

// NewExportHandler constructs handler.
func NewExportHandler(exports ExportBackend) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Create godoc
// @Summary Queue a report export
// @Tags Exports
// @Accept json
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	job, err := h.exports.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	status, err := h.exports.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download a rendered export via signed token
// @Tags Exports
// @Param token path string true "Signed token"
// @Success 200
// @Router /exports/download/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.exports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, download.File); err != nil {
		_ = c.Error(err)
	}
}
