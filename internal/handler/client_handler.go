package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fleetrent/service-reservation/internal/application"
)

// ClientHandler handles HTTP requests for clients.
type ClientHandler struct {
	service *application.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(service *application.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// RegisterRoutes registers all client routes on the given router group.
func (h *ClientHandler) RegisterRoutes(r *gin.RouterGroup) {
	clients := r.Group("/api/v1/clients")
	{
		clients.POST("", h.CreateClient)
		clients.GET("/:id", h.GetClient)
		clients.PATCH("/:id", h.UpdateContact)
		clients.GET("/:id/history", h.History)
	}
}

// CreateClient handles POST /api/v1/clients.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req application.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateClient(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, result)
}

// GetClient handles GET /api/v1/clients/:id.
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.GetClient(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// UpdateContact handles PATCH /api/v1/clients/:id.
func (h *ClientHandler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req application.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}

// History handles GET /api/v1/clients/:id/history.
func (h *ClientHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, result)
}
