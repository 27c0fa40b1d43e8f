package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type FocusHandler struct {
	svc *services.FocusService
}

func NewFocusHandler(svc *services.FocusService) *FocusHandler {
	return &FocusHandler{svc: svc}
}

type startFocusRequest struct {
	Subject        string `json:"subject"`
	SessionMinutes int    `json:"session_minutes" binding:"required"`
	BreakMinutes   int    `json:"break_minutes" binding:"required"`
}

func (h *FocusHandler) RegisterRoutes(router *gin.RouterGroup) {
	focus := router.Group("/focus")
	{
		focus.GET("", h.Status)
		focus.GET("/stats", h.Stats)
		focus.POST("/start", h.Start)
		focus.POST("/pause", h.transition(h.svc.Pause))
		focus.POST("/resume", h.transition(h.svc.Resume))
		focus.POST("/reset", h.transition(h.svc.Reset))
	}
}

// Status godoc
// @Summary  Current focus timer with its remaining time
// @Tags     focus
// @Produce  json
// @Success  200 {object} domain.FocusStatus
// @Security BearerAuth
// @Router   /focus [get]
func (h *FocusHandler) Status(c *gin.Context) {
	h.transition(h.svc.Status)(c)
}

func (h *FocusHandler) Stats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Start godoc
// @Summary  Start a focus countdown
// @Tags     focus
// @Accept   json
// @Produce  json
// @Param    session body startFocusRequest true "25, 45 or 60 minutes of focus and 5, 10 or 15 of break"
// @Success  200 {object} domain.FocusStatus
// @Failure  409 {object} map[string]string
// @Security BearerAuth
// @Router   /focus/start [post]
func (h *FocusHandler) Start(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req startFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	status, err := h.svc.Start(c.Request.Context(), services.StartFocusInput{
		UserID:         userID,
		Subject:        req.Subject,
		SessionMinutes: req.SessionMinutes,
		BreakMinutes:   req.BreakMinutes,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

type focusCall func(ctx context.Context, userID string) (*domain.FocusStatus, error)

// transition adapts the body-less timer operations to a handler.
func (h *FocusHandler) transition(call focusCall) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}

		status, err := call(c.Request.Context(), userID)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
