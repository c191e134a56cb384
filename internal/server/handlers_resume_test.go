package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleResumeSkills(t *testing.T) {
	s := newTestServer(t, &stubModel{response: "Go, SQL, communication."})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/resume/skills", ResumeSkillsRequest{ResumeText: "worked on backend systems"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Go, SQL, communication.", body["skills"])
}

func TestHandleResumeSkills_RequiresText(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/resume/skills", ResumeSkillsRequest{ResumeText: " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGapAnalysis(t *testing.T) {
	s := newTestServer(t, &stubModel{response: "Missing Kubernetes experience."})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/resume/gap-analysis", GapAnalysisRequest{
		ResumeText:     "Backend engineer, Go and Postgres.",
		JobDescription: "Looking for a platform engineer with Kubernetes.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Missing Kubernetes experience.", body["analysis"])
	// No embedder configured, so the score is omitted rather than faked.
	_, hasScore := body["similarity_score"]
	assert.False(t, hasScore)
}

func TestHandleGapAnalysis_RequiresBothTexts(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/resume/gap-analysis", GapAnalysisRequest{ResumeText: "resume only"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGapAnalysis_ModelError(t *testing.T) {
	s := newTestServer(t, &stubModel{err: errors.New("backend down")})
	mux := s.routes()

	w := postJSON(t, mux, "/api/v1/resume/gap-analysis", GapAnalysisRequest{
		ResumeText:     "resume",
		JobDescription: "job",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandleResumeUpload_UnsupportedType(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	buf, contentType := multipartFile(t, "file", "resume.exe", []byte("binary"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unsupported file type.")
}

func TestHandleResumeUpload_TxtPassesThrough(t *testing.T) {
	s := newTestServer(t, &stubModel{response: "Go, distributed systems."})
	mux := s.routes()

	content := []byte("Senior backend engineer with ten years of Go experience.")
	buf, contentType := multipartFile(t, "file", "resume.txt", content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, string(content), body["resume_text"])
	assert.Equal(t, "Go, distributed systems.", body["skills"])
	// No embedder configured, so no embedding vector is attached.
	_, hasEmbedding := body["embedding"]
	assert.False(t, hasEmbedding)
}

func TestHandleResumeUpload_SkillsFailureStillReturnsText(t *testing.T) {
	s := newTestServer(t, &stubModel{err: errors.New("backend down")})
	mux := s.routes()

	content := []byte("Data analyst with SQL and Python experience.")
	buf, contentType := multipartFile(t, "file", "resume.txt", content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, string(content), body["resume_text"])
	_, hasSkills := body["skills"]
	assert.False(t, hasSkills)
}

func TestHandleResumeUpload_MissingFile(t *testing.T) {
	s := newTestServer(t, &stubModel{})
	mux := s.routes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resume/upload", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
