package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

type addPhotoRequest struct {
	application.AddPhotoRequest
	uploadFields
}

// PhotoHandler handles HTTP requests for photo operations.
type PhotoHandler struct {
	service *application.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(service *application.PhotoService) *PhotoHandler {
	return &PhotoHandler{service: service}
}

// RegisterRoutes registers all photo routes.
func (h *PhotoHandler) RegisterRoutes(r *gin.RouterGroup) {
	photos := r.Group("/api/v1/photos")
	{
		photos.GET("", h.ListPhotos)
		photos.POST("", h.AddPhoto)
		photos.GET("/stream", h.StreamPhotos)
		photos.GET("/:id", h.GetPhoto)
		photos.PATCH("/:id", h.UpdatePhoto)
		photos.DELETE("/:id", h.DeletePhoto)
		photos.PUT("/:id/favorite", h.SetFavorite)
		photos.GET("/:id/file", h.PhotoFile)
	}
}

// AddPhoto handles POST /api/v1/photos.
func (h *PhotoHandler) AddPhoto(c *gin.Context) {
	var req addPhotoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	src, err := mediaSource(c, req.uploadFields)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.AddPhoto(c.Request.Context(), src, req.AddPhotoRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListPhotos handles GET /api/v1/photos.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	result, err := h.service.ListPhotos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StreamPhotos handles GET /api/v1/photos/stream.
func (h *PhotoHandler) StreamPhotos(c *gin.Context) {
	ch, err := h.service.WatchPhotos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "photos", ch)
}

// GetPhoto handles GET /api/v1/photos/:id.
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	id, ok := parseID(c, "photo")
	if !ok {
		return
	}

	result, err := h.service.GetPhoto(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdatePhoto handles PATCH /api/v1/photos/:id.
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
	id, ok := parseID(c, "photo")
	if !ok {
		return
	}

	var req application.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePhotoDetails(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetFavorite handles PUT /api/v1/photos/:id/favorite.
func (h *PhotoHandler) SetFavorite(c *gin.Context) {
	id, ok := parseID(c, "photo")
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetPhotoFavorite(c.Request.Context(), id, *req.IsFavorite)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePhoto handles DELETE /api/v1/photos/:id.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
	id, ok := parseID(c, "photo")
	if !ok {
		return
	}

	if err := h.service.DeletePhoto(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// PhotoFile handles GET /api/v1/photos/:id/file.
func (h *PhotoHandler) PhotoFile(c *gin.Context) {
	id, ok := parseID(c, "photo")
	if !ok {
		return
	}

	path, err := h.service.PhotoFile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.File(path)
}
