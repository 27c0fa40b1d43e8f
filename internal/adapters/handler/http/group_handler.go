package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

// RoomServer keeps a websocket connection subscribed to a broadcast room.
type RoomServer interface {
	Serve(w http.ResponseWriter, r *http.Request, room, userID string) error
}

type GroupHandler struct {
	svc  *services.GroupService
	live RoomServer
}

func NewGroupHandler(svc *services.GroupService, live RoomServer) *GroupHandler {
	return &GroupHandler{
		svc:  svc,
		live: live,
	}
}

type groupNameRequest struct {
	Name string `json:"name" binding:"required"`
}

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type sharedTaskRequest struct {
	Title    string `json:"title" binding:"required"`
	Assignee string `json:"assignee" binding:"required"`
	DueDate  string `json:"due_date" binding:"required"`
}

type sharedTaskPatchRequest struct {
	Title    *string `json:"title"`
	Status   *string `json:"status"`
	Assignee *string `json:"assignee"`
	DueDate  *string `json:"due_date"`
}

type messageRequest struct {
	Message    string `json:"message"`
	Attachment string `json:"attachment"`
}

func (h *GroupHandler) RegisterRoutes(router *gin.RouterGroup) {
	groups := router.Group("/groups")
	{
		groups.GET("", h.List)
		groups.POST("", h.Create)
		groups.GET("/:id", h.Get)
		groups.PATCH("/:id", h.Rename)
		groups.POST("/:id/picture", h.CyclePicture)
		groups.POST("/:id/members", h.AddMember)
		groups.POST("/:id/tasks", h.AddTask)
		groups.PATCH("/:id/tasks/:task", h.UpdateTask)
		groups.POST("/:id/messages", h.SendMessage)
		groups.GET("/:id/ws", h.Live)
	}
}

func (h *GroupHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	groups, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// Create godoc
// @Summary  Create a study group with the caller as first member
// @Tags     groups
// @Accept   json
// @Produce  json
// @Param    group body groupNameRequest true "Group name"
// @Success  201 {object} domain.Group
// @Security BearerAuth
// @Router   /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req groupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	group, err := h.svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	group, err := h.svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) Rename(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req groupNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	group, err := h.svc.Rename(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) CyclePicture(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	group, err := h.svc.CyclePicture(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	group, err := h.svc.AddMember(c.Request.Context(), userID, c.Param("id"), req.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) AddTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req sharedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		badRequest(c, "invalid due_date format, expected YYYY-MM-DD")
		return
	}

	task, err := h.svc.AddTask(c.Request.Context(), services.AddSharedTaskInput{
		UserID:   userID,
		GroupID:  c.Param("id"),
		Title:    req.Title,
		Assignee: req.Assignee,
		DueDate:  due,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *GroupHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := intParam(c, "task")
	if !ok {
		return
	}

	var req sharedTaskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	patch := domain.SharedTaskPatch{
		Title:    req.Title,
		Status:   req.Status,
		Assignee: req.Assignee,
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			badRequest(c, "invalid due_date format, expected YYYY-MM-DD")
			return
		}
		patch.DueDate = &due
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), services.UpdateSharedTaskInput{
		UserID:  userID,
		GroupID: c.Param("id"),
		TaskID:  taskID,
		Patch:   patch,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *GroupHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	msg, err := h.svc.SendMessage(c.Request.Context(), services.SendMessageInput{
		UserID:     userID,
		GroupID:    c.Param("id"),
		Message:    req.Message,
		Attachment: req.Attachment,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Live upgrades to a websocket that streams the events of one group. Browsers
// cannot set headers on the handshake, so the token may come as ?access_token.
func (h *GroupHandler) Live(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	if err := h.svc.Authorize(c.Request.Context(), userID, groupID); err != nil {
		handleError(c, err)
		return
	}

	// the upgrader has already answered when Serve fails
	if err := h.live.Serve(c.Writer, c.Request, services.GroupRoom(groupID), userID); err != nil {
		_ = c.Error(err)
	}
}
