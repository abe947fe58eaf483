package upload

import (
	"errors"
	"io"
	"net/http"

	"imagencali/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{service: service, maxBytes: maxBytes}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, uploadLimit gin.HandlerFunc) {
	protected.POST("/upload", uploadLimit, h.Upload)
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("imageData")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "MISSING_FILE", "No image provided")
		return
	}
	if file.Size > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the size limit")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_FILE", "Could not read uploaded file")
		return
	}

	userID := c.GetInt64("user_id")
	result, err := h.service.Upload(c.Request.Context(), userID, data, c.PostForm("prompt"), c.PostForm("style"))
	if err != nil {
		switch {
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Image exceeds the size limit")
		case errors.Is(err, ErrUnsupportedType):
			response.Error(c, http.StatusBadRequest, "UNSUPPORTED_TYPE", "Only JPEG, PNG and WebP images are accepted")
		case errors.Is(err, ErrImageTooLarge):
			response.Error(c, http.StatusBadRequest, "IMAGE_TOO_LARGE", "Image dimensions exceed the limit")
		case errors.Is(err, ErrInvalidImage):
			response.Error(c, http.StatusBadRequest, "INVALID_IMAGE", "File could not be decoded as an image")
		default:
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store image")
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}
