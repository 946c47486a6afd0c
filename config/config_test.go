package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prakharstech/VideoCreation/types"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Script.MinScenes != 4 || cfg.Script.MaxScenes != 6 {
		t.Errorf("scene range = [%d,%d], want defaults [4,6]", cfg.Script.MinScenes, cfg.Script.MaxScenes)
	}
	if cfg.Narration.Mode != "per_scene" {
		t.Errorf("narration mode = %q", cfg.Narration.Mode)
	}
	if cfg.Pipeline.SceneConcurrency <= 0 {
		t.Errorf("scene concurrency = %d", cfg.Pipeline.SceneConcurrency)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
script:
  target_duration_sec: 90
video:
  width: 1920
  height: 1080
narration:
  mode: whole_script
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Script.TargetSec != 90 {
		t.Errorf("target = %f", cfg.Script.TargetSec)
	}
	if cfg.Video.Width != 1920 || cfg.Video.Height != 1080 {
		t.Errorf("resolution = %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Narration.Mode != "whole_script" {
		t.Errorf("mode = %q", cfg.Narration.Mode)
	}
	// untouched sections keep their defaults
	if cfg.Video.FPS != 24 {
		t.Errorf("fps = %d, want default 24", cfg.Video.FPS)
	}
}

func TestLoadFloorsUnusableValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := `
script:
  max_retries: 0
video:
  timeout_sec: 0
narration:
  timeout_sec: -5
pipeline:
  scene_concurrency: 0
upload:
  title_max_chars: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Script.MaxRetries < 1 {
		t.Errorf("max_retries = %d, want at least 1", cfg.Script.MaxRetries)
	}
	if cfg.Video.TimeoutSec < 1 {
		t.Errorf("video timeout = %d, want a positive bound", cfg.Video.TimeoutSec)
	}
	if cfg.Narration.TimeoutSec < 1 {
		t.Errorf("narration timeout = %d, want a positive bound", cfg.Narration.TimeoutSec)
	}
	if cfg.Pipeline.SceneConcurrency < 1 {
		t.Errorf("scene_concurrency = %d, want at least 1", cfg.Pipeline.SceneConcurrency)
	}
	if cfg.Upload.TitleMaxChars < 10 {
		t.Errorf("title_max_chars = %d, want at least 10", cfg.Upload.TitleMaxChars)
	}
}

func TestLoadMalformedFileIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml {{"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var cfgErr *types.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestLoadCredentialsPrefersGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("GOOGLE_API_KEY", "goog")
	if got := LoadCredentials().GeminiAPIKey; got != "gem" {
		t.Errorf("GeminiAPIKey = %q, want GEMINI_API_KEY first", got)
	}

	t.Setenv("GEMINI_API_KEY", "")
	if got := LoadCredentials().GeminiAPIKey; got != "goog" {
		t.Errorf("GeminiAPIKey = %q, want GOOGLE_API_KEY fallback", got)
	}
}
