package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/learnify-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

var errorStatus = []struct {
	status int
	errs   []error
}{
	{http.StatusNotFound, []error{
		domain.ErrHabitNotFound, domain.ErrEntryNotFound, domain.ErrTaskNotFound,
		domain.ErrNoteNotFound, domain.ErrChapterNotFound, domain.ErrSectionNotFound,
		domain.ErrSessionNotFound, domain.ErrSubjectNotFound, domain.ErrGroupNotFound,
		domain.ErrSharedTaskNotFound, domain.ErrUserNotFound,
	}},
	{http.StatusConflict, []error{
		domain.ErrHabitConflict, domain.ErrEntryConflict, domain.ErrDocumentConflict,
		domain.ErrEmailAlreadyExists, domain.ErrAlreadyMember, domain.ErrHabitArchived,
		domain.ErrFocusRunning, domain.ErrFocusNotRunning, domain.ErrFocusNotPaused,
	}},
	{http.StatusForbidden, []error{
		domain.ErrNotGroupMember,
	}},
	{http.StatusUnauthorized, []error{
		domain.ErrInvalidCredentials, services.ErrInvalidToken,
	}},
	{http.StatusBadRequest, []error{
		domain.ErrHabitTitleEmpty, domain.ErrHabitTitleTooLong, domain.ErrHabitDescTooLong,
		domain.ErrHabitInvalidUserID, domain.ErrInvalidColor, domain.ErrInvalidWeeklyGoal,
		domain.ErrInvalidReminder, domain.ErrInvalidEntry, domain.ErrInvalidWeekday,
		domain.ErrInvalidStatsRange, domain.ErrInvalidEmail, domain.ErrPasswordTooShort,
		domain.ErrTaskTitleEmpty, domain.ErrTaskDueDateMissing, domain.ErrInvalidTaskStatus,
		domain.ErrInvalidTaskPriority, domain.ErrNoteTitleEmpty, domain.ErrChapterTitleEmpty,
		domain.ErrSectionTitleEmpty, domain.ErrInvalidSessionTime, domain.ErrSessionSubjectEmpty,
		domain.ErrSessionDateMissing, domain.ErrInvalidSessionLength, domain.ErrInvalidBreakLength,
		domain.ErrSubjectFieldsRequired, domain.ErrInvalidTimezone, domain.ErrInvalidTheme,
		domain.ErrGroupNameEmpty, domain.ErrSharedTaskFields, domain.ErrUnknownAssignee,
		domain.ErrInvalidSharedStatus, domain.ErrEmptyMessage, domain.ErrGroupMemberIncomplete,
	}},
}

// handleError answers with the status that matches err. Anything unknown is
// attached to the context for the request logger and hidden behind a 500.
func handleError(c *gin.Context, err error) {
	for _, group := range errorStatus {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				c.JSON(group.status, gin.H{"error": err.Error()})
				return
			}
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// currentUser reads the authenticated user. A missing id means the route was
// mounted without the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

// parseDate accepts a calendar date (YYYY-MM-DD) or an RFC3339 timestamp.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(domain.DateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// dateQuery parses an optional date query parameter. ok is false after an
// error response was written.
func dateQuery(c *gin.Context, name string) (t time.Time, ok bool) {
	v := c.Query(name)
	if v == "" {
		return time.Time{}, true
	}
	t, err := parseDate(v)
	if err != nil {
		badRequest(c, "invalid "+name+" format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// syncSince parses the last_sync parameter of the delta endpoints.
func syncSince(c *gin.Context) (time.Time, bool) {
	v := c.Query("last_sync")
	if v == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		badRequest(c, "invalid last_sync format, use RFC3339")
		return time.Time{}, false
	}
	return t, true
}
