package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

type NoteHandler struct {
	svc *services.NoteService
}

func NewNoteHandler(svc *services.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

type createNoteRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Subject   string `json:"subject"`
	Image     string `json:"image"`
	ImageHint string `json:"image_hint"`
}

type updateNoteRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Subject   *string `json:"subject"`
	Image     *string `json:"image"`
	ImageHint *string `json:"image_hint"`
}

type chapterRequest struct {
	Title string `json:"title" binding:"required"`
}

type sectionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func (h *NoteHandler) RegisterRoutes(router *gin.RouterGroup) {
	notes := router.Group("/notes")
	{
		notes.GET("", h.List)
		notes.POST("", h.Create)
		notes.GET("/:id", h.Get)
		notes.PATCH("/:id", h.Update)
		notes.DELETE("/:id", h.Delete)

		notes.POST("/:id/chapters", h.AddChapter)
		notes.GET("/:id/chapters/:chapter", h.GetChapter)
		notes.PATCH("/:id/chapters/:chapter", h.RenameChapter)
		notes.DELETE("/:id/chapters/:chapter", h.DeleteChapter)

		notes.POST("/:id/chapters/:chapter/sections", h.CreateSection)
		notes.PUT("/:id/chapters/:chapter/sections/:section", h.UpdateSection)
		notes.DELETE("/:id/chapters/:chapter/sections/:section", h.DeleteSection)
	}
}

// List godoc
// @Summary  List notes filtered by subject or subject category
// @Tags     notes
// @Produce  json
// @Param    subject query string false "Subject or category, All for every note"
// @Success  200 {array} domain.Note
// @Security BearerAuth
// @Router   /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notes, err := h.svc.List(c.Request.Context(), userID, c.Query("subject"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	note, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	note, err := h.svc.Create(c.Request.Context(), services.CreateNoteInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Subject:   req.Subject,
		Image:     req.Image,
		ImageHint: req.ImageHint,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	note, err := h.svc.Update(c.Request.Context(), services.UpdateNoteInput{
		ID:        id,
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Subject:   req.Subject,
		Image:     req.Image,
		ImageHint: req.ImageHint,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Delete(c *gin.Context) {
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

// chapterParams reads the note and chapter ids of a chapter route.
func chapterParams(c *gin.Context) (noteID, chapterID int, ok bool) {
	if noteID, ok = intParam(c, "id"); !ok {
		return 0, 0, false
	}
	if chapterID, ok = intParam(c, "chapter"); !ok {
		return 0, 0, false
	}
	return noteID, chapterID, true
}

func (h *NoteHandler) GetChapter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, chapterID, ok := chapterParams(c)
	if !ok {
		return
	}

	chapter, err := h.svc.GetChapter(c.Request.Context(), userID, noteID, chapterID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *NoteHandler) AddChapter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	chapter, err := h.svc.AddChapter(c.Request.Context(), userID, noteID, req.Title)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *NoteHandler) RenameChapter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, chapterID, ok := chapterParams(c)
	if !ok {
		return
	}

	var req chapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	chapter, err := h.svc.RenameChapter(c.Request.Context(), userID, noteID, chapterID, req.Title)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *NoteHandler) DeleteChapter(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, chapterID, ok := chapterParams(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteChapter(c.Request.Context(), userID, noteID, chapterID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NoteHandler) CreateSection(c *gin.Context) {
	h.saveSection(c, 0, http.StatusCreated)
}

func (h *NoteHandler) UpdateSection(c *gin.Context) {
	sectionID, ok := intParam(c, "section")
	if !ok {
		return
	}
	h.saveSection(c, sectionID, http.StatusOK)
}

func (h *NoteHandler) saveSection(c *gin.Context, sectionID, status int) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, chapterID, ok := chapterParams(c)
	if !ok {
		return
	}

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	section, err := h.svc.SaveSection(c.Request.Context(), userID, noteID, chapterID, domain.Section{
		ID:      sectionID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(status, section)
}

func (h *NoteHandler) DeleteSection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	noteID, chapterID, ok := chapterParams(c)
	if !ok {
		return
	}
	sectionID, ok := intParam(c, "section")
	if !ok {
		return
	}

	if err := h.svc.DeleteSection(c.Request.Context(), userID, noteID, chapterID, sectionID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
