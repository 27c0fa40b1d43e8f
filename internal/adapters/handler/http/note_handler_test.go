package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func TestNoteTree(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	w := s.do(t, http.MethodPost, "/api/v1/notes", token, map[string]any{"title": "Limits", "subject": "Calculus"})
	requireStatus(t, w, http.StatusCreated)
	note := decode[domain.Note](t, w)
	assert.Equal(t, 1, note.ID)
	assert.NotEmpty(t, note.Image)

	w = s.do(t, http.MethodPost, "/api/v1/notes/1/chapters", token, map[string]any{"title": "Definitions"})
	requireStatus(t, w, http.StatusCreated)
	chapter := decode[domain.Chapter](t, w)
	assert.Equal(t, 1, chapter.ID)

	sections := "/api/v1/notes/1/chapters/1/sections"

	t.Run("Create and replace a section", func(t *testing.T) {
		w := s.do(t, http.MethodPost, sections, token, map[string]any{"title": "Epsilon delta", "content": "draft"})
		requireStatus(t, w, http.StatusCreated)
		assert.Equal(t, 1, decode[domain.Section](t, w).ID)

		w = s.do(t, http.MethodPut, sections+"/1", token, map[string]any{"title": "Epsilon delta", "content": "final"})
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "final", decode[domain.Section](t, w).Content)

		w = s.do(t, http.MethodPut, sections+"/9", token, map[string]any{"title": "Missing"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Rename chapter", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/notes/1/chapters/1", token, map[string]any{"title": "Basics"})
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Basics", decode[domain.Chapter](t, w).Title)
	})

	t.Run("Get chapter holds its sections", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/notes/1/chapters/1", token, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Len(t, decode[domain.Chapter](t, w).Sections, 1)
	})

	t.Run("Delete section then chapter", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, sections+"/1", token, nil)
		requireStatus(t, w, http.StatusNoContent)

		w = s.do(t, http.MethodDelete, "/api/v1/notes/1/chapters/1", token, nil)
		requireStatus(t, w, http.StatusNoContent)

		w = s.do(t, http.MethodGet, "/api/v1/notes/1/chapters/1", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Update and delete the note", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, "/api/v1/notes/1", token, map[string]any{"content": "updated"})
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "updated", decode[domain.Note](t, w).Content)

		w = s.do(t, http.MethodPatch, "/api/v1/notes/1", token, map[string]any{"title": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodDelete, "/api/v1/notes/1", token, nil)
		requireStatus(t, w, http.StatusNoContent)

		w = s.do(t, http.MethodGet, "/api/v1/notes/1", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListNotesBySubject(t *testing.T) {
	s := newTestServer(t)
	token := s.user(t, "u1", "Ada")

	for _, n := range []map[string]any{
		{"title": "Limits", "subject": "Calculus"},
		{"title": "Optics", "subject": "Physics"},
		{"title": "Rome", "subject": "World History"},
	} {
		requireStatus(t, s.do(t, http.MethodPost, "/api/v1/notes", token, n), http.StatusCreated)
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{filter: "", want: []string{"Limits", "Optics", "Rome"}},
		{filter: "All", want: []string{"Limits", "Optics", "Rome"}},
		{filter: "Physics", want: []string{"Optics"}},
		{filter: "Math", want: []string{"Limits"}},
		{filter: "Chemistry", want: []string{}},
	}

	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/v1/notes?subject="+tt.filter, token, nil)
			requireStatus(t, w, http.StatusOK)

			titles := []string{}
			for _, n := range decode[[]domain.Note](t, w) {
				titles = append(titles, n.Title)
			}
			require.Equal(t, tt.want, titles)
		})
	}
}
