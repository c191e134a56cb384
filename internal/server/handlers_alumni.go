package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pathfinderai/pathfinder/internal/db"
	"github.com/pathfinderai/pathfinder/internal/embeddings"
	"github.com/pathfinderai/pathfinder/internal/server/middleware"
)

// MatchAlumniRequest carries the skills to match mentors against.
type MatchAlumniRequest struct {
	Skills []string `json:"skills"`
	Limit  int      `json:"limit"`
}

// MentorshipRequest carries a mentorship request from the authenticated
// student.
type MentorshipRequest struct {
	MentorID uuid.UUID `json:"mentor_id"`
	Notes    string    `json:"notes"`
}

func queryInt(r *http.Request, key string, fallback int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// handleListAlumni lists alumni profiles, optionally filtered to
// mentorship-available ones.
func (s *Server) handleListAlumni(w http.ResponseWriter, r *http.Request) {
	filters := db.AlumniFilters{}

	if v := r.URL.Query().Get("mentorship_available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "mentorship_available must be a boolean")
			return
		}
		filters.MentorshipAvailable = &available
	}

	var ok bool
	if filters.Offset, ok = queryInt(r, "offset", 0); !ok {
		s.errorResponse(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	if filters.Limit, ok = queryInt(r, "limit", 0); !ok {
		s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	alumni, err := s.db.ListAlumni(r.Context(), filters)
	if err != nil {
		log.Printf("Failed to list alumni: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list alumni")
		return
	}
	if alumni == nil {
		alumni = []db.Alumni{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"alumni": alumni})
}

// handleGetAlumni loads one alumni profile.
func (s *Server) handleGetAlumni(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid alumni ID")
		return
	}

	alumni, err := s.db.GetAlumni(r.Context(), id)
	if err != nil {
		log.Printf("Failed to get alumni: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load alumni")
		return
	}
	if alumni == nil {
		s.errorResponse(w, http.StatusNotFound, "Alumni not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, alumni)
}

// handleMatchAlumni finds available mentors whose skills overlap the
// request.
func (s *Server) handleMatchAlumni(w http.ResponseWriter, r *http.Request) {
	var req MatchAlumniRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	skills := make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		if strings.TrimSpace(skill) != "" {
			skills = append(skills, skill)
		}
	}
	if len(skills) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one skill is required")
		return
	}

	matches, err := s.db.MatchAlumni(r.Context(), skills, req.Limit)
	if err != nil {
		log.Printf("Failed to match alumni: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to match alumni")
		return
	}
	matches = s.rerankMentors(r.Context(), skills, matches)
	if matches == nil {
		matches = []db.Alumni{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": matches})
}

// rerankMentors reorders skill-overlap matches by embedding similarity
// between the requested skills and each mentor's skills. Without an
// embedder, or when embedding fails, the overlap order stands.
func (s *Server) rerankMentors(ctx context.Context, skills []string, mentors []db.Alumni) []db.Alumni {
	if s.embedder == nil || len(mentors) < 2 {
		return mentors
	}

	texts := make([]string, 0, len(mentors)+1)
	texts = append(texts, strings.Join(skills, ", "))
	for _, m := range mentors {
		texts = append(texts, m.Skills)
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		log.Printf("Failed to embed mentor skills: %v", err)
		return mentors
	}

	byID := make(map[string]db.Alumni, len(mentors))
	candidates := make(map[string][]float32, len(mentors))
	for i, m := range mentors {
		id := m.ID.String()
		byID[id] = m
		candidates[id] = vectors[i+1]
	}
	ranked := embeddings.TopMatches(vectors[0], candidates, len(mentors))
	out := make([]db.Alumni, 0, len(ranked))
	for _, match := range ranked {
		out = append(out, byID[match.ID])
	}
	return out
}

// handleListMentorships lists the mentorships where the alumni is the
// mentor.
func (s *Server) handleListMentorships(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid alumni ID")
		return
	}

	mentorships, err := s.db.ListMentorships(r.Context(), id)
	if err != nil {
		log.Printf("Failed to list mentorships: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list mentorships")
		return
	}
	if mentorships == nil {
		mentorships = []db.Mentorship{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"mentorships": mentorships})
}

// handleRequestMentorship creates a pending mentorship request from the
// authenticated user.
func (s *Server) handleRequestMentorship(w http.ResponseWriter, r *http.Request) {
	studentID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MentorshipRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.MentorID == uuid.Nil {
		s.errorResponse(w, http.StatusBadRequest, "mentor_id is required")
		return
	}

	mentor, err := s.db.GetAlumni(r.Context(), req.MentorID)
	if err != nil {
		log.Printf("Failed to load mentor: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to request mentorship")
		return
	}
	if mentor == nil {
		s.errorResponse(w, http.StatusNotFound, "Mentor not found")
		return
	}

	id, err := s.db.RequestMentorship(r.Context(), studentID, req.MentorID, req.Notes)
	if err != nil {
		log.Printf("Failed to request mentorship: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to request mentorship")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id, "status": "pending"})
}

// handleListJobOpenings lists active job openings posted by alumni.
func (s *Server) handleListJobOpenings(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	openings, err := s.db.ListJobOpenings(r.Context(), offset, limit)
	if err != nil {
		log.Printf("Failed to list job openings: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list job openings")
		return
	}
	if openings == nil {
		openings = []db.JobOpening{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"job_openings": openings})
}

// handleListEvents lists active alumni-hosted events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	events, err := s.db.ListEvents(r.Context(), offset, limit)
	if err != nil {
		log.Printf("Failed to list events: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list events")
		return
	}
	if events == nil {
		events = []db.Event{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"events": events})
}
