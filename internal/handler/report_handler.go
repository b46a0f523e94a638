package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/fleet-payroll-api/internal/models"
	"github.com/fleetops/fleet-payroll-api/internal/service"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

// ReportEngine is the aggregation surface the handler exposes over HTTP.
type ReportEngine interface {
	BoatAnalysis(ctx context.Context, boatID string, from, to time.Time) (*models.BoatAnalysis, error)
	ExpenseReport(ctx context.Context, from, to time.Time, boatID, employeeID string) (*models.ExpenseReport, error)
	Payroll(ctx context.Context, from, to time.Time) (*models.PayrollReport, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	engine ReportEngine
}

// NewReportHandler constructs handler.
func NewReportHandler(engine ReportEngine) *ReportHandler {
	return &ReportHandler{engine: engine}
}

// BoatAnalysis godoc
// @Summary Cost analysis for one boat
// @Tags Reports
// @Produce json
// @Param id path string true "Boat ID"
// @Param from query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param to query string true "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} response.Envelope
// @Router /reports/boats/{id}/analysis [get]
func (h *ReportHandler) BoatAnalysis(c *gin.Context) {
	from, to, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	analysis, err := h.engine.BoatAnalysis(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis, nil)
}

// Expenses godoc
// @Summary Expense report across boats and employees
// @Tags Reports
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param to query string true "End date (YYYY-MM-DD, inclusive)"
// @Param boatId query string false "Boat filter"
// @Param employeeId query string false "Employee filter"
// @Success 200 {object} response.Envelope
// @Router /reports/expenses [get]
func (h *ReportHandler) Expenses(c *gin.Context) {
	from, to, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.engine.ExpenseReport(c.Request.Context(), from, to, c.Query("boatId"), c.Query("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Payroll godoc
// @Summary Payroll with bank/cash split per employee
// @Tags Reports
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param to query string true "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} response.Envelope
// @Router /reports/payroll [get]
func (h *ReportHandler) Payroll(c *gin.Context) {
	from, to, err := service.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.engine.Payroll(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
