package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterHTTP "github.com/comitanigiacomo/learnify-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/learnify-engine/internal/adapters/realtime"
	"github.com/comitanigiacomo/learnify-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

// noopScheduler drops streak jobs; stored streaks are not under test here.
type noopScheduler struct{}

func (noopScheduler) Enqueue(string) {}

type testServer struct {
	router *gin.Engine
	users  *repository.InMemoryUserRepository
	tokens *services.TokenService
	hub    *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	users := repository.NewInMemoryUserRepository()
	habits := repository.NewInMemoryHabitRepository()
	entries := repository.NewInMemoryEntryRepository()
	documents := repository.NewInMemoryDocumentStore()
	hub := realtime.NewHub(nil, logger)
	t.Cleanup(hub.Close)

	tokens := services.NewTokenService("test-secret", "learnify-test", time.Hour, users)
	profile := services.NewProfileService(documents, users, logger)
	habitSvc := services.NewHabitService(habits, entries, noopScheduler{}, profile)
	stats := services.NewStatsService(habits, entries, profile)
	tasks := services.NewTaskService(documents, profile, logger)
	focus := services.NewFocusService(documents, logger)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(services.NewAuthService(users, tokens)),
		HabitHandler:     adapterHTTP.NewHabitHandler(habitSvc, stats),
		EntryHandler:     adapterHTTP.NewEntryHandler(services.NewEntryService(entries, habits, noopScheduler{}, profile)),
		StatsHandler:     adapterHTTP.NewStatsHandler(stats),
		TaskHandler:      adapterHTTP.NewTaskHandler(tasks),
		NoteHandler:      adapterHTTP.NewNoteHandler(services.NewNoteService(documents, profile, logger)),
		PlannerHandler:   adapterHTTP.NewPlannerHandler(services.NewPlannerService(documents, logger)),
		FocusHandler:     adapterHTTP.NewFocusHandler(focus),
		ProfileHandler:   adapterHTTP.NewProfileHandler(profile),
		GroupHandler:     adapterHTTP.NewGroupHandler(services.NewGroupService(documents, users, hub, logger), hub),
		DashboardHandler: adapterHTTP.NewDashboardHandler(services.NewDashboardService(habitSvc, tasks, focus)),
		Tokens:           tokens,
		Logger:           logger,
		StartTime:        time.Now(),
	})

	return &testServer{router: router, users: users, tokens: tokens, hub: hub}
}

// user creates an account directly in the repository and returns its bearer token.
func (s *testServer) user(t *testing.T, id, name string) string {
	t.Helper()
	u, err := domain.NewUser(id, id+"@learnify.test", name)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), u))

	token, err := s.tokens.GenerateToken(id)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
