package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/fleet-payroll-api/internal/service"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

// EmployeeHandler exposes employee roster endpoints.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

// NewEmployeeHandler constructs handler.
func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Produce json
// @Param search query string false "Name filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	req := service.EmployeeListRequest{
		Search:    c.Query("search"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	employees, pagination, err := h.employees.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employees, pagination)
}

// Get godoc
// @Summary Get one employee
// @Tags Employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Create godoc
// @Summary Register an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	employee, err := h.employees.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, employee)
}

// Update godoc
// @Summary Update an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, employee, nil)
}

// Delete godoc
// @Summary Remove an employee
// @Tags Employees
// @Param id path string true "Employee ID"
// @Success 204
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func queryInt(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
