package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func createHabit(t *testing.T, s *testServer, token, title string) domain.Habit {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/habits", token, map[string]any{
		"title":       title,
		"icon":        "book",
		"weekly_goal": 7,
	})
	requireStatus(t, w, http.StatusCreated)
	return decode[domain.Habit](t, w)
}

func TestCreateHabit(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	t.Run("Success: 201 Created", func(t *testing.T) {
		habit := createHabit(t, s, token, "Read")

		assert.NotEmpty(t, habit.ID)
		assert.Equal(t, "u1", habit.UserID)
		assert.Equal(t, 1, habit.Version)
	})

	t.Run("Fail: missing title", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/habits", token, `{"description": "no title"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: invalid weekly goal", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/habits", token, map[string]any{"title": "Run", "weekly_goal": 9})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: no token", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/habits", "", map[string]any{"title": "Run"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHabitLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")
	other := s.user(t, "u2", "Grace")

	habit := createHabit(t, s, token, "Read")
	path := "/api/v1/habits/" + habit.ID

	t.Run("Get returns the week view", func(t *testing.T) {
		w := s.do(t, http.MethodGet, path, token, nil)
		requireStatus(t, w, http.StatusOK)

		view := decode[domain.HabitView](t, w)
		assert.Equal(t, "Read", view.Title)
		assert.Zero(t, view.WeekProgress)
	})

	t.Run("Another user sees no such habit", func(t *testing.T) {
		w := s.do(t, http.MethodGet, path, other, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Update with current version", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, token, map[string]any{"title": "Read more", "version": habit.Version})
		requireStatus(t, w, http.StatusOK)

		updated := decode[domain.Habit](t, w)
		assert.Equal(t, "Read more", updated.Title)
		assert.Equal(t, habit.Version+1, updated.Version)
	})

	t.Run("Update with stale version conflicts", func(t *testing.T) {
		w := s.do(t, http.MethodPut, path, token, map[string]any{"title": "Stale", "version": habit.Version})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Archive then restore", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path+"/archive", token, nil)
		requireStatus(t, w, http.StatusOK)
		assert.NotNil(t, decode[domain.Habit](t, w).ArchivedAt)

		w = s.do(t, http.MethodPost, path+"/restore", token, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Nil(t, decode[domain.Habit](t, w).ArchivedAt)
	})

	t.Run("Report", func(t *testing.T) {
		w := s.do(t, http.MethodGet, path+"/report", token, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, habit.ID, decode[domain.HabitReport](t, w).HabitID)
	})

	t.Run("Delete then 404", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, path, token, nil)
		requireStatus(t, w, http.StatusNoContent)

		w = s.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListAndReorderHabits(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	first := createHabit(t, s, token, "Read")
	second := createHabit(t, s, token, "Run")

	w := s.do(t, http.MethodPut, "/api/v1/habits/order", token, map[string]any{"ids": []string{second.ID, first.ID}})
	requireStatus(t, w, http.StatusNoContent)

	w = s.do(t, http.MethodGet, "/api/v1/habits", token, nil)
	requireStatus(t, w, http.StatusOK)

	list := decode[[]domain.HabitView](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSyncHabits(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")
	createHabit(t, s, token, "Read")

	t.Run("Without last_sync returns everything", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/habits/sync", token, nil)
		requireStatus(t, w, http.StatusOK)

		body := decode[struct {
			Changes []domain.Habit `json:"changes"`
		}](t, w)
		assert.Len(t, body.Changes, 1)
	})

	t.Run("Invalid last_sync", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/habits/sync?last_sync=yesterday", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
