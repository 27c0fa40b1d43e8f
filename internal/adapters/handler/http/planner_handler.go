package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type PlannerHandler struct {
	svc *services.PlannerService
}

func NewPlannerHandler(svc *services.PlannerService) *PlannerHandler {
	return &PlannerHandler{svc: svc}
}

type createSessionRequest struct {
	Date    string `json:"date" binding:"required"`
	Start   string `json:"start" binding:"required"`
	End     string `json:"end" binding:"required"`
	Subject string `json:"subject" binding:"required"`
}

type updateSessionRequest struct {
	Date    *string `json:"date"`
	Start   *string `json:"start"`
	End     *string `json:"end"`
	Subject *string `json:"subject"`
}

func (h *PlannerHandler) RegisterRoutes(router *gin.RouterGroup) {
	planner := router.Group("/planner")
	{
		planner.GET("", h.ListByDay)
		planner.GET("/week", h.ListByWeek)
		planner.POST("", h.Create)
		planner.PATCH("/:id", h.Update)
		planner.DELETE("/:id", h.Delete)
	}
}

// dayOrToday reads ?date, falling back to the current UTC date.
func dayOrToday(c *gin.Context) (time.Time, bool) {
	day, ok := dateQuery(c, "date")
	if !ok {
		return time.Time{}, false
	}
	if day.IsZero() {
		day = time.Now().UTC()
	}
	return day, true
}

// ListByDay godoc
// @Summary  Study sessions planned on a day
// @Tags     planner
// @Produce  json
// @Param    date query string false "Day (YYYY-MM-DD), today by default"
// @Success  200 {array} domain.StudySession
// @Security BearerAuth
// @Router   /planner [get]
func (h *PlannerHandler) ListByDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	day, ok := dayOrToday(c)
	if !ok {
		return
	}

	sessions, err := h.svc.ListByDay(c.Request.Context(), userID, day)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *PlannerHandler) ListByWeek(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	day, ok := dayOrToday(c)
	if !ok {
		return
	}

	week, err := h.svc.ListByWeek(c.Request.Context(), userID, day)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *PlannerHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "invalid date format, expected YYYY-MM-DD")
		return
	}

	session, err := h.svc.Create(c.Request.Context(), services.CreateSessionInput{
		UserID:  userID,
		Date:    date,
		Start:   req.Start,
		End:     req.End,
		Subject: req.Subject,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *PlannerHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateSessionInput{
		ID:      id,
		UserID:  userID,
		Start:   req.Start,
		End:     req.End,
		Subject: req.Subject,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(c, "invalid date format, expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}

	session, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *PlannerHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
