package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/application"
	"github.com/Kilat-Pet-Delivery/service-pawconnect/internal/response"
)

type interestsRequest struct {
	Interests []string `json:"interests"`
}

type interestRequest struct {
	Interest string `json:"interest" binding:"required"`
}

// ProfileHandler handles HTTP requests for the pet profile.
type ProfileHandler struct {
	service *application.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *application.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// RegisterRoutes registers all profile routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/api/v1/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.SaveProfile)
		profile.PATCH("", h.PatchProfile)
		profile.DELETE("", h.ClearProfile)
		profile.GET("/stream", h.StreamProfile)
		profile.PUT("/interests", h.UpdateInterests)
		profile.POST("/interests", h.AddInterest)
		profile.DELETE("/interests/:interest", h.RemoveInterest)
		profile.POST("/image", h.UpdateImage)
		profile.GET("/image", h.Image)
	}
}

// GetProfile handles GET /api/v1/profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	result, err := h.service.GetProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SaveProfile handles PUT /api/v1/profile.
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req application.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SaveProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PatchProfile handles PATCH /api/v1/profile.
func (h *ProfileHandler) PatchProfile(c *gin.Context) {
	var req application.PatchProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PatchProfile(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ClearProfile handles DELETE /api/v1/profile.
func (h *ProfileHandler) ClearProfile(c *gin.Context) {
	if err := h.service.ClearProfile(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"cleared": true})
}

// StreamProfile handles GET /api/v1/profile/stream.
func (h *ProfileHandler) StreamProfile(c *gin.Context) {
	ch, err := h.service.WatchProfile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	streamSSE(c, "profile", ch)
}

// UpdateInterests handles PUT /api/v1/profile/interests.
func (h *ProfileHandler) UpdateInterests(c *gin.Context) {
	var req interestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateInterests(c.Request.Context(), req.Interests)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddInterest handles POST /api/v1/profile/interests.
func (h *ProfileHandler) AddInterest(c *gin.Context) {
	var req interestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddInterest(c.Request.Context(), req.Interest)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveInterest handles DELETE /api/v1/profile/interests/:interest.
func (h *ProfileHandler) RemoveInterest(c *gin.Context) {
	result, err := h.service.RemoveInterest(c.Request.Context(), c.Param("interest"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateImage handles POST /api/v1/profile/image.
func (h *ProfileHandler) UpdateImage(c *gin.Context) {
	var req uploadFields
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	src, err := mediaSource(c, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.UpdateProfileImage(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Image handles GET /api/v1/profile/image.
func (h *ProfileHandler) Image(c *gin.Context) {
	path, err := h.service.ProfileImage(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.File(path)
}
