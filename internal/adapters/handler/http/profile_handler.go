package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type ProfileHandler struct {
	svc *services.ProfileService
}

func NewProfileHandler(svc *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type subjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type settingsRequest struct {
	Timezone      *string `json:"timezone"`
	Theme         *string `json:"theme"`
	DisplayName   *string `json:"display_name"`
	Notifications *bool   `json:"notifications"`
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.Get)
	router.GET("/settings", h.Settings)
	router.PATCH("/settings", h.UpdateSettings)

	subjects := router.Group("/subjects")
	{
		subjects.GET("", h.Subjects)
		subjects.POST("", h.AddSubject)
		subjects.PUT("/:id", h.UpdateSubject)
		subjects.DELETE("/:id", h.DeleteSubject)
	}
}

// Get godoc
// @Summary  Account, settings and subjects of the caller
// @Tags     profile
// @Produce  json
// @Success  200 {object} domain.Profile
// @Security BearerAuth
// @Router   /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Subjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	subjects, err := h.svc.Subjects(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

func (h *ProfileHandler) AddSubject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	subject, err := h.svc.AddSubject(c.Request.Context(), userID, req.Name, req.Category)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}

func (h *ProfileHandler) UpdateSubject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	subject, err := h.svc.UpdateSubject(c.Request.Context(), userID, id, req.Name, req.Category)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

func (h *ProfileHandler) DeleteSubject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSubject(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) Settings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	settings, err := h.svc.Settings(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary  Change timezone, theme, display name or notifications
// @Tags     profile
// @Accept   json
// @Produce  json
// @Param    settings body settingsRequest true "Fields to change"
// @Success  200 {object} domain.Settings
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /settings [patch]
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), services.UpdateSettingsInput{
		UserID:        userID,
		Timezone:      req.Timezone,
		Theme:         req.Theme,
		DisplayName:   req.DisplayName,
		Notifications: req.Notifications,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
