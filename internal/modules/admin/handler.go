package admin

import (
	"errors"
	"net/http"
	"strconv"

	"imagencali/internal/domain"
	"imagencali/internal/pkg/response"
	"imagencali/internal/repository"

	"github.com/gin-gonic/gin"
)

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/audit", h.ListAudit)
	admin.PUT("/users/:id/status", h.SetUserStatus)
}

func (h *Handler) ListAudit(c *gin.Context) {
	filter := repository.AuditFilter{
		Action: c.Query("action"),
	}
	if v := c.Query("userId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be an integer")
			return
		}
		filter.UserID = &id
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.service.ListAudit(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "AUDIT_FAILED", "Failed to list audit entries")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

func (h *Handler) SetUserStatus(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "User id must be an integer")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status must be active or disabled")
		return
	}

	actorID := c.GetInt64("user_id")
	user, err := h.service.SetUserStatus(c.Request.Context(), actorID, userID, domain.UserStatus(req.Status), c.ClientIP())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "No user with that id")
			return
		}
		response.Error(c, http.StatusInternalServerError, "STATUS_UPDATE_FAILED", "Failed to update user status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}
