package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Title    string `json:"title" binding:"required"`
	Subject  string `json:"subject"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date" binding:"required"`
}

type updateTaskRequest struct {
	Title    *string `json:"title"`
	Subject  *string `json:"subject"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	DueDate  *string `json:"due_date"`
}

type completeTaskRequest struct {
	Done *bool `json:"done" binding:"required"`
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.GET("/today", h.Today)
		tasks.GET("/upcoming", h.Upcoming)
		tasks.GET("/:id", h.Get)
		tasks.PATCH("/:id", h.Update)
		tasks.POST("/:id/complete", h.Complete)
		tasks.DELETE("/:id", h.Delete)
	}
}

// List godoc
// @Summary  List tasks, or the tasks due on a day
// @Tags     tasks
// @Produce  json
// @Param    date query string false "Due date (YYYY-MM-DD)"
// @Success  200 {array} domain.Task
// @Security BearerAuth
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	day, ok := dateQuery(c, "date")
	if !ok {
		return
	}

	var (
		tasks []domain.Task
		err   error
	)
	if day.IsZero() {
		tasks, err = h.svc.List(c.Request.Context(), userID)
	} else {
		tasks, err = h.svc.DueOn(c.Request.Context(), userID, day)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Today(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.svc.Today(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Upcoming lists the open tasks by due date, 5 unless ?limit says otherwise.
func (h *TaskHandler) Upcoming(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit := 5
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	tasks, err := h.svc.Upcoming(c.Request.Context(), userID, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create godoc
// @Summary  Create a task
// @Tags     tasks
// @Accept   json
// @Produce  json
// @Param    task body createTaskRequest true "Task"
// @Success  201 {object} domain.Task
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		badRequest(c, "invalid due_date format, expected YYYY-MM-DD")
		return
	}

	task, err := h.svc.Create(c.Request.Context(), services.CreateTaskInput{
		UserID:   userID,
		Title:    req.Title,
		Subject:  req.Subject,
		Priority: req.Priority,
		DueDate:  due,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateTaskInput{
		ID:       id,
		UserID:   userID,
		Title:    req.Title,
		Subject:  req.Subject,
		Status:   req.Status,
		Priority: req.Priority,
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			badRequest(c, "invalid due_date format, expected YYYY-MM-DD")
			return
		}
		input.DueDate = &due
	}

	task, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	task, err := h.svc.SetCompleted(c.Request.Context(), userID, id, *req.Done)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
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
