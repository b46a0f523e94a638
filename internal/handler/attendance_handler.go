package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/fleet-payroll-api/internal/service"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

// AttendanceHandler exposes the daily attendance log.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Mark godoc
// @Summary Record attendance for an employee and day
// @Description Writing the same employee and date again updates the existing record.
// @Tags Attendance
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	record, err := h.attendance.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List godoc
// @Summary List attendance for a date range
// @Tags Attendance
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD, inclusive)"
// @Param to query string true "End date (YYYY-MM-DD, inclusive)"
// @Param employeeId query string false "Employee filter"
// @Param boatId query string false "Boat filter"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	req := service.AttendanceListRequest{
		From:       c.Query("from"),
		To:         c.Query("to"),
		EmployeeID: c.Query("employeeId"),
		BoatID:     c.Query("boatId"),
	}
	rows, err := h.attendance.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Delete godoc
// @Summary Remove one attendance record
// @Tags Attendance
// @Param id path string true "Attendance ID"
// @Success 204
// @Router /attendance/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
