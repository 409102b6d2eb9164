package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetrent/service-reservation/internal/application"
)

// VehicleHandler handles HTTP requests for the fleet inventory.
type VehicleHandler struct {
	service *application.FleetService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *application.FleetService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// RegisterRoutes registers the vehicle and fleet routes on the given router group.
func (h *VehicleHandler) RegisterRoutes(r *gin.RouterGroup) {
	vehicles := r.Group("/api/v1/vehicles")
	{
		vehicles.POST("", h.AddVehicle)
		vehicles.GET("", h.ListVehicles)
		vehicles.POST("/search", h.Search)
		vehicles.GET("/:id", h.GetVehicle)
		vehicles.DELETE("/:id", h.RemoveVehicle)
		vehicles.GET("/:id/free-periods", h.FreePeriods)
	}
	r.GET("/api/v1/fleet/stats", h.Stats)
}

// AddVehicle handles POST /api/v1/vehicles.
func (h *VehicleHandler) AddVehicle(c *gin.Context) {
	var req application.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddVehicle(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// ListVehicles handles GET /api/v1/vehicles.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	Success(c, h.service.ListVehicles(c.Request.Context()))
}

// GetVehicle handles GET /api/v1/vehicles/:id.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// RemoveVehicle handles DELETE /api/v1/vehicles/:id.
func (h *VehicleHandler) RemoveVehicle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveVehicle(c.Request.Context(), id); err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"id": id, "removed": true})
}

// Search handles POST /api/v1/vehicles/search.
func (h *VehicleHandler) Search(c *gin.Context) {
	var req application.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

type freePeriodsQuery struct {
	Start time.Time `form:"start" binding:"required"`
	End   time.Time `form:"end" binding:"required"`
}

// FreePeriods handles GET /api/v1/vehicles/:id/free-periods?start=&end=.
// Both bounds are RFC 3339 timestamps.
func (h *VehicleHandler) FreePeriods(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q freePeriodsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.FreePeriods(c.Request.Context(), id, q.Start, q.End)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// Stats handles GET /api/v1/fleet/stats.
func (h *VehicleHandler) Stats(c *gin.Context) {
	Success(c, h.service.Stats(c.Request.Context()))
}
