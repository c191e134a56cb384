package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pathfinderai/pathfinder/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps each text to a fixed vector.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[text], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, f.vectors[text])
	}
	return out, nil
}

func (f *fakeEmbedder) Close() error { return nil }

func TestHandleGetAlumni_InvalidID(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alumni/not-a-uuid", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListMentorships_InvalidID(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alumni/42/mentorships", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMatchAlumni_RequiresSkills(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/alumni/match", MatchAlumniRequest{Skills: []string{" ", ""}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListAlumni_RejectsBadFilter(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alumni?mentorship_available=maybe", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListEvents_RejectsBadLimit(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alumni/events?limit=-5", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRerankMentors_OrdersByEmbeddingSimilarity(t *testing.T) {
	closeMatch := db.Alumni{ID: uuid.New(), Name: "Priya", Skills: "Go, Postgres, Kubernetes"}
	farMatch := db.Alumni{ID: uuid.New(), Name: "Marcus", Skills: "Illustration, Typography"}

	s := newTestServer(t, &stubModel{})
	s.embedder = &fakeEmbedder{vectors: map[string][]float32{
		"Go, Kubernetes":           {1, 0},
		"Go, Postgres, Kubernetes": {0.9, 0.1},
		"Illustration, Typography": {0, 1},
	}}

	ranked := s.rerankMentors(context.Background(), []string{"Go", "Kubernetes"}, []db.Alumni{farMatch, closeMatch})
	require.Len(t, ranked, 2)
	assert.Equal(t, "Priya", ranked[0].Name)
	assert.Equal(t, "Marcus", ranked[1].Name)
}

func TestRerankMentors_EmbedderFailureKeepsOverlapOrder(t *testing.T) {
	first := db.Alumni{ID: uuid.New(), Name: "Priya"}
	second := db.Alumni{ID: uuid.New(), Name: "Marcus"}

	s := newTestServer(t, &stubModel{})
	s.embedder = &fakeEmbedder{err: errors.New("backend down")}

	ranked := s.rerankMentors(context.Background(), []string{"Go"}, []db.Alumni{first, second})
	require.Len(t, ranked, 2)
	assert.Equal(t, "Priya", ranked[0].Name)
	assert.Equal(t, "Marcus", ranked[1].Name)
}

func TestHandleRequestMentorship_RequiresAuth(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/alumni/mentorships", MentorshipRequest{MentorID: uuid.New()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
