package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/safewalk/safewalk-backend-go/internal/middleware"
	"github.com/safewalk/safewalk-backend-go/internal/models"
	"github.com/safewalk/safewalk-backend-go/internal/service"
	"github.com/safewalk/safewalk-backend-go/pkg/response"
)

// AuditHandler handles HTTP requests for audit submission and listing
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// SubmitAudit handles POST /api/v1/audits
func (h *AuditHandler) SubmitAudit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User authentication failed")
		return
	}

	var sub models.AuditSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		response.BadRequest(c, "Expected JSON body")
		return
	}

	audit, err := h.service.Submit(userID, &sub)
	if err != nil {
		response.InternalError(c, "Failed to store audit")
		return
	}

	result := gin.H{
		"message":          "Audit submitted",
		"id":               audit.ID,
		"band":             audit.TimeBand,
		"calculated_score": audit.SafetyScore,
	}
	if audit.SafetyScore == nil {
		result["note"] = "Score unavailable; saved as null."
	}
	c.JSON(http.StatusCreated, response.Response{Code: 0, Message: "success", Data: result})
}

// ListMine handles GET /api/v1/audits/mine
func (h *AuditHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "User authentication failed")
		return
	}

	audits, err := h.service.ListByOwner(userID)
	if err != nil {
		response.InternalError(c, "Failed to list audits")
		return
	}

	response.Success(c, gin.H{
		"data":  audits,
		"count": len(audits),
	})
}
