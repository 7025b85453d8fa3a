package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/service"
	"github.com/safewalk/safewalk-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for safe-route evaluation
type RouteHandler struct {
	service *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(service *service.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

// SafeRoute handles POST /api/v1/routes/safe
func (h *RouteHandler) SafeRoute(c *gin.Context) {
	var req models.SafeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Expected JSON body with start/end or candidates")
		return
	}

	result, err := h.service.SafeRoute(&req)
	if err != nil {
		// Missing geometry and bad constants are caller errors.
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, result)
}
