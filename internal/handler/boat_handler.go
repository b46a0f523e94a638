package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/fleet-payroll-api/internal/service"
	appErrors "github.com/fleetops/fleet-payroll-api/pkg/errors"
	"github.com/fleetops/fleet-payroll-api/pkg/response"
)

// BoatHandler exposes fleet endpoints.
type BoatHandler struct {
	boats *service.BoatService
}

// NewBoatHandler constructs handler.
func NewBoatHandler(boats *service.BoatService) *BoatHandler {
	return &BoatHandler{boats: boats}
}

// List godoc
// @Summary List boats
// @Tags Boats
// @Produce json
// @Param search query string false "Name filter"
// @Success 200 {object} response.Envelope
// @Router /boats [get]
func (h *BoatHandler) List(c *gin.Context) {
	req := service.BoatListRequest{
		Search:    c.Query("search"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
		SortOrder: c.Query("sortOrder"),
	}
	boats, pagination, err := h.boats.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boats, pagination)
}

// Get godoc
// @Summary Get one boat
// @Tags Boats
// @Produce json
// @Param id path string true "Boat ID"
// @Success 200 {object} response.Envelope
// @Router /boats/{id} [get]
func (h *BoatHandler) Get(c *gin.Context) {
	boat, err := h.boats.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boat, nil)
}

// Create godoc
// @Summary Register a boat
// @Tags Boats
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /boats [post]
func (h *BoatHandler) Create(c *gin.Context) {
	var req service.BoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	boat, err := h.boats.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, boat)
}

// Update godoc
// @Summary Rename a boat
// @Tags Boats
// @Accept json
// @Produce json
// @Param id path string true "Boat ID"
// @Success 200 {object} response.Envelope
// @Router /boats/{id} [put]
func (h *BoatHandler) Update(c *gin.Context) {
	var req service.BoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	boat, err := h.boats.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boat, nil)
}

// Delete godoc
// @Summary Remove a boat
// @Tags Boats
// @Param id path string true "Boat ID"
// @Success 204
// @Router /boats/{id} [delete]
func (h *BoatHandler) Delete(c *gin.Context) {
	if err := h.boats.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
