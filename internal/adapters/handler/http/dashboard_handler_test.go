package http_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")
	today := time.Now().UTC().Format(domain.DateLayout)

	done := createTask(t, s, token, "Done today", today)
	createTask(t, s, token, "Open today", today)
	requireStatus(t, s.do(t, http.MethodPost, "/api/v1/tasks/1/complete", token, map[string]any{"done": true}), http.StatusOK)

	w := s.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	requireStatus(t, w, http.StatusOK)

	dashboard := decode[domain.Dashboard](t, w)
	assert.Equal(t, 2, dashboard.TasksToday)
	assert.Equal(t, 1, dashboard.TasksDoneToday)
	assert.Zero(t, dashboard.BestStreak)
	for _, task := range dashboard.Upcoming {
		assert.NotEqual(t, done.ID, task.ID, "completed tasks are not upcoming")
	}
}

func TestIcons(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	w := s.do(t, http.MethodGet, "/api/v1/icons", token, nil)
	requireStatus(t, w, http.StatusOK)
	assert.Len(t, decode[[]domain.IconInfo](t, w), len(domain.Icons()))
}
