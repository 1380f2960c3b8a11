package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

// BookmarkHandler handles HTTP requests for saved links.
type BookmarkHandler struct {
	service *application.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler.
func NewBookmarkHandler(service *application.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{service: service}
}

// RegisterRoutes registers all bookmark routes.
func (h *BookmarkHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookmarks := r.Group("/api/v1/bookmarks")
	{
		bookmarks.GET("", h.ListBookmarks)
		bookmarks.POST("", h.SaveBookmark)
		bookmarks.GET("/categories", h.Categories)
		bookmarks.GET("/exists", h.Exists)
		bookmarks.GET("/stream", h.StreamBookmarks)
		bookmarks.GET("/:id", h.GetBookmark)
		bookmarks.PATCH("/:id", h.UpdateBookmark)
		bookmarks.DELETE("/:id", h.DeleteBookmark)
		bookmarks.PUT("/:id/favorite", h.SetFavorite)
	}
}

// SaveBookmark handles POST /api/v1/bookmarks.
func (h *BookmarkHandler) SaveBookmark(c *gin.Context) {
	var req application.SaveBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SaveBookmark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookmarks handles GET /api/v1/bookmarks?category=.
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	result, err := h.service.ListBookmarks(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Categories handles GET /api/v1/bookmarks/categories.
func (h *BookmarkHandler) Categories(c *gin.Context) {
	result, err := h.service.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Exists handles GET /api/v1/bookmarks/exists?url=.
func (h *BookmarkHandler) Exists(c *gin.Context) {
	url := c.Query("url")
	exists, err := h.service.BookmarkExists(c.Request.Context(), url)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"url": url, "exists": exists})
}

// StreamBookmarks handles GET /api/v1/bookmarks/stream?category=.
func (h *BookmarkHandler) StreamBookmarks(c *gin.Context) {
	ch, err := h.service.WatchBookmarks(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "bookmarks", ch)
}

// GetBookmark handles GET /api/v1/bookmarks/:id.
func (h *BookmarkHandler) GetBookmark(c *gin.Context) {
	id, ok := parseID(c, "bookmark")
	if !ok {
		return
	}

	result, err := h.service.GetBookmark(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBookmark handles PATCH /api/v1/bookmarks/:id.
func (h *BookmarkHandler) UpdateBookmark(c *gin.Context) {
	id, ok := parseID(c, "bookmark")
	if !ok {
		return
	}

	var req application.UpdateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateBookmark(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SetFavorite handles PUT /api/v1/bookmarks/:id/favorite.
func (h *BookmarkHandler) SetFavorite(c *gin.Context) {
	id, ok := parseID(c, "bookmark")
	if !ok {
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SetBookmarkFavorite(c.Request.Context(), id, *req.IsFavorite)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBookmark handles DELETE /api/v1/bookmarks/:id.
func (h *BookmarkHandler) DeleteBookmark(c *gin.Context) {
	id, ok := parseID(c, "bookmark")
	if !ok {
		return
	}

	if err := h.service.DeleteBookmark(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": id, "deleted": true})
}
