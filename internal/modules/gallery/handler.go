package gallery

import (
	"net/http"

	"imagencali/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/gallery", h.List)
}

func (h *Handler) List(c *gin.Context) {
	images, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "GALLERY_FAILED", "Failed to list images")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"images": images,
		"count":  len(images),
	})
}
