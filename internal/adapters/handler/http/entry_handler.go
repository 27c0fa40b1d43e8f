package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type EntryHandler struct {
	svc *services.EntryService
}

func NewEntryHandler(svc *services.EntryService) *EntryHandler {
	return &EntryHandler{
		svc: svc,
	}
}

type createEntryRequest struct {
	HabitID string `json:"habit_id" binding:"required"`
	// CompletionDate is YYYY-MM-DD or RFC3339; empty means today.
	CompletionDate string `json:"completion_date"`
	Notes          string `json:"notes"`
}

type updateEntryRequest struct {
	Notes   string `json:"notes"`
	Version int    `json:"version" binding:"required"`
}

type toggleRequest struct {
	Weekday *int `json:"weekday" binding:"required"`
}

func (h *EntryHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.ListByHabit)
		entries.GET("/sync", h.Sync)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
	}
	router.POST("/habits/:id/toggle", h.Toggle)
}

func (h *EntryHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	var day time.Time
	if req.CompletionDate != "" {
		parsed, err := parseDate(req.CompletionDate)
		if err != nil {
			badRequest(c, "invalid completion_date format, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	entry, err := h.svc.Create(c.Request.Context(), services.CreateEntryInput{
		HabitID:        req.HabitID,
		UserID:         userID,
		CompletionDate: day,
		Notes:          req.Notes,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Toggle flips the completion of a day of the current week, Monday being 0.
func (h *EntryHandler) Toggle(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.svc.ToggleDay(c.Request.Context(), services.ToggleDayInput{
		HabitID: c.Param("id"),
		UserID:  userID,
		Weekday: *req.Weekday,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EntryHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entry, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.svc.Update(c.Request.Context(), services.UpdateEntryInput{
		ID:      c.Param("id"),
		UserID:  userID,
		Notes:   req.Notes,
		Version: req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByHabit defaults to the last 30 days.
func (h *EntryHandler) ListByHabit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	habitID := c.Query("habit_id")
	if habitID == "" {
		badRequest(c, "habit_id is required")
		return
	}

	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	list, err := h.svc.ListByHabitID(c.Request.Context(), habitID, userID, domain.CalendarDate(from), domain.CalendarDate(to))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *EntryHandler) Sync(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lastSync, ok := syncSince(c)
	if !ok {
		return
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}
