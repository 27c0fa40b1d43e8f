package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type HabitHandler struct {
	svc   *services.HabitService
	stats *services.StatsService
}

func NewHabitHandler(svc *services.HabitService, stats *services.StatsService) *HabitHandler {
	return &HabitHandler{
		svc:   svc,
		stats: stats,
	}
}

type createHabitRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
	ReminderTime string `json:"reminder_time"`
	WeeklyGoal   int    `json:"weekly_goal"`
}

type updateHabitRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
	ReminderTime *string `json:"reminder_time"`
	WeeklyGoal   int     `json:"weekly_goal"`
	Version      int     `json:"version" binding:"required"`
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/sync", h.Sync)
		habits.PUT("/order", h.Reorder)
		habits.GET("/:id", h.Get)
		habits.GET("/:id/report", h.Report)
		habits.PUT("/:id", h.Update)
		habits.POST("/:id/archive", h.Archive)
		habits.POST("/:id/restore", h.Restore)
		habits.DELETE("/:id", h.Delete)
	}
}

// Create godoc
// @Summary  Create a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    habit body createHabitRequest true "Habit"
// @Success  201 {object} domain.Habit
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /habits [post]
func (h *HabitHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	habit, err := h.svc.Create(c.Request.Context(), services.CreateHabitInput{
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Color:        req.Color,
		Icon:         req.Icon,
		ReminderTime: req.ReminderTime,
		WeeklyGoal:   req.WeeklyGoal,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// List godoc
// @Summary  List habits with their current week and streaks
// @Tags     habits
// @Produce  json
// @Success  200 {array} domain.HabitView
// @Security BearerAuth
// @Router   /habits [get]
func (h *HabitHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *HabitHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *HabitHandler) Report(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.stats.GetHabitReport(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Sync godoc
// @Summary  Habits changed after last_sync, tombstones included
// @Tags     habits
// @Produce  json
// @Param    last_sync query string false "RFC3339 timestamp"
// @Security BearerAuth
// @Router   /habits/sync [get]
func (h *HabitHandler) Sync(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lastSync, ok := syncSince(c)
	if !ok {
		return
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   deltas,
		"timestamp": time.Now().UTC(),
	})
}

// Update godoc
// @Summary  Update a habit
// @Tags     habits
// @Accept   json
// @Produce  json
// @Param    id    path string             true "Habit id"
// @Param    habit body updateHabitRequest true "Changed fields and the version read"
// @Success  200 {object} domain.Habit
// @Failure  409 {object} map[string]string
// @Security BearerAuth
// @Router   /habits/{id} [put]
func (h *HabitHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	habit, err := h.svc.Update(c.Request.Context(), services.UpdateHabitInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Color:        req.Color,
		Icon:         req.Icon,
		ReminderTime: req.ReminderTime,
		WeeklyGoal:   req.WeeklyGoal,
		Version:      req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Archive(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	habit, err := h.svc.Archive(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Restore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	habit, err := h.svc.Restore(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Reorder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.svc.Reorder(c.Request.Context(), userID, req.IDs); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) Delete(c *gin.Context) {
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
