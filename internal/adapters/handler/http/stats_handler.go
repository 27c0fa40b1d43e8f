package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/weekly", h.GetWeeklyStats)
}

// GetWeeklyStats defaults to the seven days ending today.
func (h *StatsHandler) GetWeeklyStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	endDate, ok := dateQuery(c, "end_date")
	if !ok {
		return
	}
	startDate, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}

	if endDate.IsZero() {
		endDate = time.Now().UTC()
	}
	if startDate.IsZero() {
		startDate = endDate.AddDate(0, 0, -6)
	}

	stats, err := h.svc.GetWeeklyStats(c.Request.Context(), domain.StatsInput{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
