package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathfinderai/pathfinder/internal/career"
	"github.com/pathfinderai/pathfinder/internal/config"
	"github.com/pathfinderai/pathfinder/internal/db"
	"github.com/pathfinderai/pathfinder/internal/embeddings"
	"github.com/pathfinderai/pathfinder/internal/extract"
	"github.com/pathfinderai/pathfinder/internal/llm"
	"github.com/pathfinderai/pathfinder/internal/server/middleware"
	"github.com/pathfinderai/pathfinder/internal/server/ratelimit"
	"github.com/pathfinderai/pathfinder/internal/transcript"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	cfg         *config.Config
	db          *db.DB
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	llmClient llm.Client
	career    *career.Service
	pipeline  *transcript.Pipeline
	embedder  embeddings.Embedder
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	// Connect to database and apply the schema
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := cfg.EnsureUploadDir(); err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder, err := embeddings.NewGeminiEmbedder(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		db:        database,
		llmClient: llmClient,
		career:    &career.Service{Client: llmClient},
		pipeline: &transcript.Pipeline{
			Tables:     &extract.GeometryTableExtractor{},
			OCR:        extract.NewTesseractOCR(),
			Generative: &transcript.Generative{Client: llmClient},
		},
		embedder: embedder,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for model-backed extraction
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /api/v1/auth/signup", s.authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", s.authHandler.Login)

	authMW := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("PUT /api/v1/auth/password", authMW(http.HandlerFunc(s.handleUpdatePassword)))

	// Document extraction
	mux.HandleFunc("POST /api/v1/career/import-course-grades-pdf", s.handleImportCourseGradesPDF)
	mux.HandleFunc("POST /api/v1/career/import-course-grades", s.handleImportCourseGrades)
	mux.HandleFunc("POST /api/v1/career/extract-courses", s.handleExtractCourses)
	mux.HandleFunc("POST /api/v1/career/import-project-files", s.handleImportProjectFiles)
	mux.HandleFunc("POST /api/v1/career/extract-resume-pdf", s.handleExtractResumePDF)

	// Model-backed analysis
	mux.HandleFunc("POST /api/v1/career/analyze-coursework", s.handleAnalyzeCoursework)
	mux.HandleFunc("POST /api/v1/career/extract-profile", s.handleExtractProfile)
	mux.HandleFunc("POST /api/v1/career/dashboard", s.handleDashboard)
	mux.HandleFunc("POST /api/v1/career/company-suggestions", s.handleCompanySuggestions)
	mux.HandleFunc("POST /api/v1/career/roadmap", s.handleRoadmap)

	// Profile persistence
	mux.HandleFunc("POST /api/v1/career/save-profile", s.handleSaveProfile)
	mux.HandleFunc("GET /api/v1/career/profile", s.handleGetProfile)
	mux.HandleFunc("PUT /api/v1/career/profile/career-interests", s.handleSaveCareerInterests)
	mux.HandleFunc("GET /api/v1/career/related-jobs", s.handleRelatedJobs)

	// Resume tools
	mux.HandleFunc("POST /api/v1/resume/upload", s.handleResumeUpload)
	mux.HandleFunc("POST /api/v1/resume/skills", s.handleResumeSkills)
	mux.HandleFunc("POST /api/v1/resume/gap-analysis", s.handleGapAnalysis)

	// Alumni network
	mux.HandleFunc("GET /api/v1/alumni", s.handleListAlumni)
	mux.HandleFunc("GET /api/v1/alumni/job-openings", s.handleListJobOpenings)
	mux.HandleFunc("GET /api/v1/alumni/events", s.handleListEvents)
	mux.HandleFunc("GET /api/v1/alumni/{id}", s.handleGetAlumni)
	mux.HandleFunc("GET /api/v1/alumni/{id}/mentorships", s.handleListMentorships)
	mux.HandleFunc("POST /api/v1/alumni/match", s.handleMatchAlumni)
	mux.Handle("POST /api/v1/alumni/mentorships", authMW(http.HandlerFunc(s.handleRequestMentorship)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.embedder != nil {
		_ = s.embedder.Close()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			// Set rate limit headers
			s.setRateLimitHeaders(w, info)
			// Return 429 Too Many Requests
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword resolves the authenticated user and delegates to
// the auth handler.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	// Log rate limit hit
	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
