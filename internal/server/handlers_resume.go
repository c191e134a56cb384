package server

import (
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pathfinderai/pathfinder/internal/embeddings"
	"github.com/pathfinderai/pathfinder/internal/extract"
)

// ResumeSkillsRequest carries resume text for the skills summary.
type ResumeSkillsRequest struct {
	ResumeText string `json:"resume_text"`
}

// GapAnalysisRequest carries a resume and a job description to compare.
type GapAnalysisRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// handleResumeUpload extracts plain text from an uploaded resume
// document and enriches the response with a skills summary and an
// embedding vector. PDF, DOCX, PPTX, and TXT are accepted; the
// enrichments are omitted when their model calls fail.
func (s *Server) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if !s.cfg.ExtensionAllowed(header.Filename) {
		s.errorResponse(w, http.StatusBadRequest, "Unsupported file type.")
		return
	}
	if header.Size > s.cfg.MaxUploadSize {
		s.errorResponse(w, http.StatusBadRequest, "File too large.")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path, err := s.saveUpload(file, "resume", ext)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	defer removeUpload(path)

	extractor, ok := extract.ForFile(path, s.pipeline.OCR)
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Unsupported file type.")
		return
	}
	text := strings.TrimSpace(extractor.ExtractText(path).Text)
	if len(text) < minResumeTextChars {
		s.errorResponse(w, http.StatusBadRequest, "Could not extract enough text from the resume.")
		return
	}

	response := map[string]any{"resume_text": text}
	if skills, err := s.career.ExtractSkills(r.Context(), text); err == nil {
		response["skills"] = skills
	} else {
		log.Printf("Failed to summarize resume skills: %v", err)
	}
	if s.embedder != nil {
		if vector, err := s.embedder.Embed(r.Context(), text); err == nil {
			response["embedding"] = vector
		} else {
			log.Printf("Failed to embed resume text: %v", err)
		}
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleResumeSkills summarizes the key skills in a resume.
func (s *Server) handleResumeSkills(w http.ResponseWriter, r *http.Request) {
	var req ResumeSkillsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume_text is required")
		return
	}

	skills, err := s.career.ExtractSkills(r.Context(), req.ResumeText)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Unable to extract skills. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"skills": skills})
}

// handleGapAnalysis compares a resume against a job description. The
// written analysis comes from the text model; the similarity score comes
// from embedding cosine similarity and is omitted when embedding fails.
func (s *Server) handleGapAnalysis(w http.ResponseWriter, r *http.Request) {
	var req GapAnalysisRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" || strings.TrimSpace(req.JobDescription) == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume_text and job_description are required")
		return
	}

	analysis, err := s.career.AnalyzeGap(r.Context(), req.ResumeText, req.JobDescription)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Unable to analyze the gap. Please try again.")
		return
	}

	response := map[string]any{"analysis": analysis}
	if score, ok := s.similarityScore(r, req.ResumeText, req.JobDescription); ok {
		response["similarity_score"] = score
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// similarityScore embeds both texts and converts their cosine similarity
// into a 0-100 score.
func (s *Server) similarityScore(r *http.Request, resumeText, jobDescription string) (int, bool) {
	if s.embedder == nil {
		return 0, false
	}

	vectors, err := s.embedder.EmbedBatch(r.Context(), []string{resumeText, jobDescription})
	if err != nil || len(vectors) != 2 {
		log.Printf("Failed to embed gap-analysis texts: %v", err)
		return 0, false
	}
	similarity := embeddings.CosineSimilarity(vectors[0], vectors[1])
	return int(math.Round(similarity * 100)), true
}
