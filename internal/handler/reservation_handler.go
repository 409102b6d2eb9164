package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetrent/service-reservation/internal/application"
)

// ReservationHandler handles HTTP requests for reservation operations.
type ReservationHandler struct {
	service *application.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *application.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// RegisterRoutes registers all reservation routes on the given router group.
func (h *ReservationHandler) RegisterRoutes(r *gin.RouterGroup) {
	reservations := r.Group("/api/v1/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("/:id", h.GetReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.POST("/:id/complete", h.CompleteReservation)
		reservations.PUT("/:id/dates", h.RescheduleReservation)
	}
}

// CreateReservation handles POST /api/v1/reservations.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req application.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReservation(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// GetReservation handles GET /api/v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetReservation(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// CancelReservation handles POST /api/v1/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.CancelReservation(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// CompleteReservation handles POST /api/v1/reservations/:id/complete.
func (h *ReservationHandler) CompleteReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.CompleteReservation(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// RescheduleReservation handles PUT /api/v1/reservations/:id/dates.
func (h *ReservationHandler) RescheduleReservation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RescheduleReservation(c.Request.Context(), id, req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}
