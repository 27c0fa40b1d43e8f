package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.Get)
	router.GET("/icons", h.Icons)
}

// Get godoc
// @Summary  Best streak, today's tasks, upcoming tasks and focus totals
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} domain.Dashboard
// @Security BearerAuth
// @Router   /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// Icons lists the habit icons a client may pick from.
func (h *DashboardHandler) Icons(c *gin.Context) {
	c.JSON(http.StatusOK, domain.Icons())
}
