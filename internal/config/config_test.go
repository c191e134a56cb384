package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pathfinder_test")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "")
	t.Setenv("MAX_UPLOAD_SIZE", "")
	t.Setenv("UPLOAD_DIR", filepath.Join(t.TempDir(), "uploads"))

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, int64(15*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, []string{".pdf", ".docx", ".pptx", ".txt"}, cfg.AllowedExtensions)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pathfinder_test")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pathfinder_test")
	t.Setenv("GEMINI_API_KEY", "test-key")

	tests := []struct {
		name string
		port string
	}{
		{"not a number", "abc"},
		{"zero", "0"},
		{"too large", "70000"},
		{"negative", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", tt.port)
			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_CustomUploadSize(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pathfinder_test")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("MAX_UPLOAD_SIZE", "1048576")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
}

func TestLoad_InvalidUploadSize(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pathfinder_test")
	t.Setenv("GEMINI_API_KEY", "test-key")

	for _, size := range []string{"abc", "0", "-5"} {
		t.Setenv("MAX_UPLOAD_SIZE", size)
		cfg, err := Load()
		assert.Error(t, err, "size %q", size)
		assert.Nil(t, cfg)
	}
}

func TestEnsureUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	cfg := &Config{UploadDir: dir}

	err := cfg.EnsureUploadDir()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestExtensionAllowed(t *testing.T) {
	cfg := &Config{AllowedExtensions: []string{".pdf", ".docx", ".pptx", ".txt"}}

	tests := []struct {
		filename string
		want     bool
	}{
		{"transcript.pdf", true},
		{"Transcript.PDF", true},
		{"slides.pptx", true},
		{"resume.docx", true},
		{"notes.txt", true},
		{"archive.zip", false},
		{"script.exe", false},
		{"noextension", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ExtensionAllowed(tt.filename))
		})
	}
}
