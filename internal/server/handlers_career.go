package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pathfinderai/pathfinder/internal/career"
	"github.com/pathfinderai/pathfinder/internal/db"
	"github.com/pathfinderai/pathfinder/internal/extract"
	"github.com/pathfinderai/pathfinder/internal/transcript"
)

const (
	// maxProjectFiles caps one project-files upload batch.
	maxProjectFiles = 20
	// maxStoredFileText caps extracted text persisted or returned per file.
	maxStoredFileText = 15000
	// minResumeTextChars is the least text a resume PDF must yield.
	minResumeTextChars = 10
	// multipartOverhead covers boundaries and part headers when capping a
	// request body against the file size limit.
	multipartOverhead = 10 << 10
)

// ImportCourseGradesRequest carries pasted transcript text.
type ImportCourseGradesRequest struct {
	RawText string `json:"raw_text"`
}

// ExtractCoursesRequest carries raw text for the names-only extraction.
type ExtractCoursesRequest struct {
	RawText string `json:"raw_text"`
}

// AnalyzeCourseworkRequest carries the inputs of the coursework analysis.
type AnalyzeCourseworkRequest struct {
	CourseGrades    []transcript.CourseRecord `json:"course_grades"`
	ResumeText      string                    `json:"resume_text"`
	Projects        []string                  `json:"projects"`
	JobAreaInterest string                    `json:"job_area_interest"`
}

// ExtractProfileRequest carries the inputs of the profile extraction.
type ExtractProfileRequest struct {
	ResumeText        string                    `json:"resume_text"`
	CourseGrades      []transcript.CourseRecord `json:"course_grades"`
	CourseworkRawText string                    `json:"coursework_raw_text"`
	Projects          []string                  `json:"projects"`
}

// DashboardRequest carries the inputs of the combined dashboard build.
type DashboardRequest struct {
	ExtractProfileRequest
	JobAreaInterest string `json:"job_area_interest"`
}

// CompanySuggestionsRequest carries the profile facts for company matching.
type CompanySuggestionsRequest struct {
	Coursework []string `json:"coursework"`
	Projects   []string `json:"projects"`
	Interests  []string `json:"interests"`
	TargetRole string   `json:"target_role"`
	Limit      int      `json:"limit"`
}

// RoadmapRequest carries the inputs of the learning roadmap generation.
type RoadmapRequest struct {
	ResumeText string `json:"resume_text"`
	TargetRole string `json:"target_role"`
}

// SaveProfileRequest carries a full dashboard profile to persist.
type SaveProfileRequest struct {
	Email           string               `json:"email"`
	Name            string               `json:"name"`
	AcademicTitle   string               `json:"academic_title"`
	ResumeText      string               `json:"resume_text"`
	TechnicalSkills []db.SkillEntry      `json:"technical_skills"`
	SoftSkills      []db.SkillEntry      `json:"soft_skills"`
	Courses         []db.CourseworkEntry `json:"courses"`
	ProfileProjects []db.ProjectEntry    `json:"profile_projects"`
	CareerInterests []string             `json:"career_interests"`
	Documents       []db.DocumentEntry   `json:"documents"`
}

// CareerInterestsRequest carries a replacement interest list.
type CareerInterestsRequest struct {
	Email     string   `json:"email"`
	Interests []string `json:"interests"`
}

// projectFileResult is the per-file outcome of a project-files upload.
type projectFileResult struct {
	Filename string `json:"filename"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// truncateRunes shortens s to at most limit runes.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// saveUpload writes one multipart file into the upload directory under a
// random name. The caller removes the file.
func (s *Server) saveUpload(file multipart.File, prefix, ext string) (string, error) {
	path := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// formFile reads the single "file" upload with the request body capped
// near the configured upload size, so oversized bodies are rejected
// before the multipart payload is parsed.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusBadRequest, "File too large.")
		} else {
			s.errorResponse(w, http.StatusBadRequest, "A file upload named 'file' is required")
		}
		return nil, nil, false
	}
	return file, header, true
}

func removeUpload(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove upload %s: %v", path, err)
	}
}

// handleImportCourseGradesPDF extracts course records from an uploaded
// transcript PDF.
func (s *Server) handleImportCourseGradesPDF(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.errorResponse(w, http.StatusBadRequest, "Only PDF files are supported.")
		return
	}
	if header.Size > s.cfg.MaxUploadSize {
		s.errorResponse(w, http.StatusBadRequest, "File too large.")
		return
	}

	path, err := s.saveUpload(file, "transcript", ".pdf")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	defer removeUpload(path)

	result, err := s.pipeline.ImportFromPDF(r.Context(), path)
	if err != nil {
		if errors.Is(err, transcript.ErrNotEnoughText) {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to process the transcript")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"course_grades":          result.Records,
		"extracted_text_preview": truncateRunes(result.RawText, 500),
		"extracted_text":         truncateRunes(result.RawText, 8000),
	})
}

// handleImportProjectFiles extracts text from a batch of project
// documents. Failures are reported per file; the request itself only
// fails on malformed input.
func (s *Server) handleImportProjectFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProjectFiles*(s.cfg.MaxUploadSize+multipartOverhead))
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "At least one file upload named 'files' is required")
		return
	}
	if len(files) > maxProjectFiles {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Too many files (max %d).", maxProjectFiles))
		return
	}

	results := make([]projectFileResult, 0, len(files))
	for _, header := range files {
		results = append(results, s.importProjectFile(header))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) importProjectFile(header *multipart.FileHeader) projectFileResult {
	result := projectFileResult{Filename: header.Filename}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf", ".pptx", ".docx":
	default:
		result.Error = "Unsupported file type. Use PDF, PPTX, or DOCX."
		return result
	}
	if header.Size > s.cfg.MaxUploadSize {
		result.Error = "File too large."
		return result
	}

	file, err := header.Open()
	if err != nil {
		result.Error = "Could not read the uploaded file."
		return result
	}
	defer file.Close()

	path, err := s.saveUpload(file, "project", ext)
	if err != nil {
		result.Error = "Could not store the uploaded file."
		return result
	}
	defer removeUpload(path)

	extractor, ok := extract.ForFile(path, s.pipeline.OCR)
	if !ok {
		result.Error = "Unsupported file type. Use PDF, PPTX, or DOCX."
		return result
	}
	text := strings.TrimSpace(extractor.ExtractText(path).Text)
	if text == "" {
		result.Error = "Could not extract text from this file."
		return result
	}
	result.Text = truncateRunes(text, maxStoredFileText)
	return result
}

// handleExtractResumePDF extracts plain text from an uploaded resume PDF.
func (s *Server) handleExtractResumePDF(w http.ResponseWriter, r *http.Request) {
	file, header, ok := s.formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.errorResponse(w, http.StatusBadRequest, "Only PDF files are supported.")
		return
	}
	if header.Size > s.cfg.MaxUploadSize {
		s.errorResponse(w, http.StatusBadRequest, "File too large.")
		return
	}

	path, err := s.saveUpload(file, "resume", ".pdf")
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store uploaded file")
		return
	}
	defer removeUpload(path)

	extractor := &extract.PDFExtractor{OCR: s.pipeline.OCR}
	text := strings.TrimSpace(extractor.ExtractText(path).Text)
	if len(text) < minResumeTextChars {
		s.errorResponse(w, http.StatusBadRequest, "Could not extract enough text from the resume PDF.")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"resume_text": text})
}

// handleImportCourseGrades extracts course records from pasted text.
func (s *Server) handleImportCourseGrades(w http.ResponseWriter, r *http.Request) {
	var req ImportCourseGradesRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "raw_text is required")
		return
	}

	records := s.pipeline.ImportFromText(r.Context(), req.RawText)
	if records == nil {
		records = []transcript.CourseRecord{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"course_grades": records})
}

// handleExtractCourses extracts course names only from pasted text.
func (s *Server) handleExtractCourses(w http.ResponseWriter, r *http.Request) {
	var req ExtractCoursesRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "raw_text is required")
		return
	}

	courses := s.pipeline.Generative.CourseNames(r.Context(), req.RawText)
	if courses == nil {
		courses = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"courses": courses})
}

// handleAnalyzeCoursework runs the coursework analysis.
func (s *Server) handleAnalyzeCoursework(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeCourseworkRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	analysis := s.career.AnalyzeCoursework(r.Context(), career.AnalyzeInput{
		CourseGrades:    req.CourseGrades,
		ResumeText:      req.ResumeText,
		Projects:        req.Projects,
		JobAreaInterest: req.JobAreaInterest,
	})
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleExtractProfile extracts a dashboard profile from resume and
// coursework inputs.
func (s *Server) handleExtractProfile(w http.ResponseWriter, r *http.Request) {
	var req ExtractProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	profile := s.career.ExtractProfile(r.Context(), career.ProfileInput{
		ResumeText:        req.ResumeText,
		CourseGrades:      req.CourseGrades,
		CourseworkRawText: req.CourseworkRawText,
		Projects:          req.Projects,
	})
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleDashboard runs the analysis and profile extraction together.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var req DashboardRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	dashboard, err := s.career.BuildDashboard(r.Context(), career.ProfileInput{
		ResumeText:        req.ResumeText,
		CourseGrades:      req.CourseGrades,
		CourseworkRawText: req.CourseworkRawText,
		Projects:          req.Projects,
	}, req.JobAreaInterest)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to build the dashboard")
		return
	}
	s.jsonResponse(w, http.StatusOK, dashboard)
}

// handleCompanySuggestions suggests employers matching the profile.
func (s *Server) handleCompanySuggestions(w http.ResponseWriter, r *http.Request) {
	var req CompanySuggestionsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	suggestions := s.career.SuggestCompanies(r.Context(), career.SuggestInput{
		Coursework: req.Coursework,
		Projects:   req.Projects,
		Interests:  req.Interests,
		TargetRole: req.TargetRole,
		Limit:      req.Limit,
	})
	s.jsonResponse(w, http.StatusOK, suggestions)
}

// handleRoadmap generates a learning roadmap from a resume.
func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req RoadmapRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume_text is required")
		return
	}

	roadmap, err := s.career.GenerateRoadmap(r.Context(), req.ResumeText, req.TargetRole)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Unable to generate roadmap. Please try again.")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"roadmap": roadmap})
}

// handleSaveProfile persists the full dashboard profile.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		s.errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	err := s.db.SaveProfile(r.Context(), db.SaveProfileInput{
		Email:           req.Email,
		Name:            req.Name,
		AcademicTitle:   req.AcademicTitle,
		ResumeText:      req.ResumeText,
		TechnicalSkills: req.TechnicalSkills,
		SoftSkills:      req.SoftSkills,
		Courses:         req.Courses,
		Projects:        req.ProfileProjects,
		CareerInterests: req.CareerInterests,
		Documents:       req.Documents,
	})
	if err != nil {
		log.Printf("Failed to save profile: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Profile saved"})
}

// handleGetProfile loads the stored profile for an email.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	stored, err := s.db.GetProfile(r.Context(), email)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	s.jsonResponse(w, http.StatusOK, stored)
}

// handleSaveCareerInterests replaces the stored interest list.
func (s *Server) handleSaveCareerInterests(w http.ResponseWriter, r *http.Request) {
	var req CareerInterestsRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		s.errorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.db.SaveCareerInterests(r.Context(), req.Email, req.Interests); err != nil {
		log.Printf("Failed to save career interests: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to save career interests")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Career interests saved"})
}

// handleRelatedJobs ranks catalog jobs against the stored profile.
func (s *Server) handleRelatedJobs(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.errorResponse(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	jobs, err := s.db.RelatedJobs(r.Context(), email, limit)
	if err != nil {
		log.Printf("Failed to match jobs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to match jobs")
		return
	}
	if jobs == nil {
		jobs = []db.ScoredJob{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}
