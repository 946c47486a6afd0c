package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// installFakeEngine puts a scripted edge-tts first on PATH for one test
func installFakeEngine(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "edge-tts")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestEdgeTTSKillsHungEngineAtTimeout(t *testing.T) {
	installFakeEngine(t, "exec sleep 5")
	cfg := config.Default()
	cfg.Narration.TimeoutSec = 1
	cfg.Narration.MaxRetries = 1
	e := NewEdgeTTS(cfg)

	start := time.Now()
	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	elapsed := time.Since(start)

	var backendErr *types.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("want BackendError from hung engine, got %v", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("Synthesize ran %s, not bounded by the 1s timeout", elapsed)
	}
}

func TestEdgeTTSNoBackoffAfterFinalAttempt(t *testing.T) {
	installFakeEngine(t, "echo voice unavailable >&2; exit 1")
	cfg := config.Default()
	cfg.Narration.MaxRetries = 1
	e := NewEdgeTTS(cfg)

	start := time.Now()
	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("want error from failing engine")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("final attempt took %s, should surface without a trailing backoff", elapsed)
	}
	if !strings.Contains(err.Error(), "voice unavailable") {
		t.Errorf("engine stderr not carried in error: %v", err)
	}
}

func TestEdgeTTSCancelledContextReportsCause(t *testing.T) {
	installFakeEngine(t, "exit 0")
	e := NewEdgeTTS(config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.Synthesize(ctx, "hello", filepath.Join(t.TempDir(), "out.mp3"))

	var backendErr *types.BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("want BackendError, got %v", err)
	}
	if backendErr.Cause == nil {
		t.Fatal("cancelled run reported a nil cause")
	}
	if !errors.Is(backendErr.Cause, context.Canceled) {
		t.Errorf("cause = %v, want context.Canceled", backendErr.Cause)
	}
}
