package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func createTask(t *testing.T, s *testServer, token, title, due string) domain.Task {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]any{
		"title":    title,
		"subject":  "Calculus",
		"priority": "High",
		"due_date": due,
	})
	requireStatus(t, w, http.StatusCreated)
	return decode[domain.Task](t, w)
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	task := createTask(t, s, token, "Problem set 4", "2026-05-02")
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, domain.TaskNotStarted, task.Status)
	path := "/api/v1/tasks/1"

	t.Run("Validation errors", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]any{"title": "x", "due_date": "2026-05-02", "priority": "Urgent"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]any{"title": "x", "due_date": "May 2nd"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Patch status keeps completion in step", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, token, map[string]any{"status": "Done"})
		requireStatus(t, w, http.StatusOK)
		assert.True(t, decode[domain.Task](t, w).IsCompleted)
	})

	t.Run("Uncomplete goes back to Not Started", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path+"/complete", token, map[string]any{"done": false})
		requireStatus(t, w, http.StatusOK)

		got := decode[domain.Task](t, w)
		assert.False(t, got.IsCompleted)
		assert.Equal(t, domain.TaskNotStarted, got.Status)
	})

	t.Run("Invalid id", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Delete then 404", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, path, token, nil)
		requireStatus(t, w, http.StatusNoContent)

		w = s.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTaskQueries(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")
	today := time.Now().UTC().Format(domain.DateLayout)

	createTask(t, s, token, "Later", "2099-01-01")
	createTask(t, s, token, "Now", today)
	createTask(t, s, token, "Old", "2020-01-01")

	t.Run("List sorted by due date", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks", token, nil)
		requireStatus(t, w, http.StatusOK)

		tasks := decode[[]domain.Task](t, w)
		require.Len(t, tasks, 3)
		assert.Equal(t, []string{"Old", "Now", "Later"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
	})

	t.Run("Due on a date", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks?date=2099-01-01", token, nil)
		requireStatus(t, w, http.StatusOK)

		tasks := decode[[]domain.Task](t, w)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Later", tasks[0].Title)
	})

	t.Run("Today", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks/today", token, nil)
		requireStatus(t, w, http.StatusOK)

		tasks := decode[[]domain.Task](t, w)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Now", tasks[0].Title)
	})

	t.Run("Upcoming with limit", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/tasks/upcoming?limit=2", token, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Len(t, decode[[]domain.Task](t, w), 2)

		w = s.do(t, http.MethodGet, "/api/v1/tasks/upcoming?limit=zero", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Tasks are per user", func(t *testing.T) {
		other := s.user(t, "u2", "Grace")
		w := s.do(t, http.MethodGet, "/api/v1/tasks", other, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Empty(t, decode[[]domain.Task](t, w))
	})
}
