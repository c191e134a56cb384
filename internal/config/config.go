// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultMaxUploadSize is the upload cap enforced before any parsing begins.
const DefaultMaxUploadSize = 15 * 1024 * 1024 // 15 MiB

// Config holds application settings loaded from environment variables.
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string // Gemini API key

	UploadDir     string
	MaxUploadSize int64

	// AllowedExtensions are the upload extensions accepted at the API
	// boundary (lowercase, leading dot included).
	AllowedExtensions []string
}

// Load builds a Config from environment variables. DATABASE_URL and
// GEMINI_API_KEY are required; everything else falls back to a default.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              8080,
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		APIKey:            os.Getenv("GEMINI_API_KEY"),
		UploadDir:         os.Getenv("UPLOAD_DIR"),
		MaxUploadSize:     DefaultMaxUploadSize,
		AllowedExtensions: []string{".pdf", ".docx", ".pptx", ".txt"},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if sizeStr := os.Getenv("MAX_UPLOAD_SIZE"); sizeStr != "" {
		size, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE: %v", err)
		}
		cfg.MaxUploadSize = size
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(os.TempDir(), "pathfinder-uploads")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required but not set")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.MaxUploadSize < 1 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	return nil
}

// EnsureUploadDir creates the upload directory if it does not already exist.
func (c *Config) EnsureUploadDir() error {
	if err := os.MkdirAll(c.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory %s: %w", c.UploadDir, err)
	}
	return nil
}

// ExtensionAllowed reports whether a filename carries one of the allowed
// upload extensions.
func (c *Config) ExtensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
