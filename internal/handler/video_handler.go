package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

type addVideoRequest struct {
	application.AddVideoRequest
	uploadFields
}

// VideoHandler handles HTTP requests for video operations.
type VideoHandler struct {
	service *application.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(service *application.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// RegisterRoutes registers all video routes.
func (h *VideoHandler) RegisterRoutes(r *gin.RouterGroup) {
	videos := r.Group("/api/v1/videos")
	{
		videos.GET("", h.ListVideos)
		videos.POST("", h.AddVideo)
		videos.GET("/stream", h.StreamVideos)
		videos.GET("/:id", h.GetVideo)
		videos.PATCH("/:id", h.UpdateVideo)
		videos.DELETE("/:id", h.DeleteVideo)
		videos.PUT("/:id/favorite", h.SetFavorite)
		videos.GET("/:id/file", h.VideoFile)
	}
}

// AddVideo handles POST /api/v1/videos.
func (h *VideoHandler) AddVideo(c *gin.Context) {
	var req addVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	src, err := mediaSource(c, req.uploadFields)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.AddVideo(c.Request.Context(), src, req.AddVideoRequest)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListVideos handles GET /api/v1/videos.
func (h *VideoHandler) ListVideos(c *gin.Context) {
	result, err := h.service.ListVideos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StreamVideos handles GET /api/v1/videos/stream.
func (h *VideoHandler) StreamVideos(c *gin.Context) {
	ch, err := h.service.WatchVideos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "videos", ch)
}

// GetVideo handles GET /api/v1/videos/:id.
func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := parseID(c, "video")
	if !ok {
		return
	}

	result, err := h.service.GetVideo(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateVideo handles PATCH /api/v1/videos/:id.
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	id, ok := parseID(c, "video")
	if !ok {
		return
	}

	var req application.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateVideo(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetFavorite handles PUT /api/v1/videos/:id/favorite.
func (h *VideoHandler) SetFavorite(c *gin.Context) {
	id, ok := parseID(c, "video")
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetVideoFavorite(c.Request.Context(), id, *req.IsFavorite)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteVideo handles DELETE /api/v1/videos/:id.
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id, ok := parseID(c, "video")
	if !ok {
		return
	}

	if err := h.service.DeleteVideo(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}

// VideoFile handles GET /api/v1/videos/:id/file.
func (h *VideoHandler) VideoFile(c *gin.Context) {
	id, ok := parseID(c, "video")
	if !ok {
		return
	}

	path, err := h.service.VideoFile(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.File(path)
}
