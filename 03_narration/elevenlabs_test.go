package narration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

func newTestElevenLabs(t *testing.T, handler http.HandlerFunc) *ElevenLabs {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Narration.MaxRetries = 1
	cfg.Narration.MinOutputBytes = 10
	e := NewElevenLabs(cfg, "test-key")
	e.baseURL = srv.URL
	return e
}

func TestElevenLabsWritesAudio(t *testing.T) {
	e := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "test-key" {
			t.Error("api key header not sent")
		}
		w.Write([]byte("mp3 bytes mp3 bytes"))
	})

	out := filepath.Join(t.TempDir(), "scene_001.mp3")
	if err := e.Synthesize(context.Background(), "hello", out); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "mp3 bytes mp3 bytes" {
		t.Errorf("audio not written: %q, %v", data, err)
	}
}

func TestElevenLabsRejectsTinyBody(t *testing.T) {
	e := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("nope"))
	})

	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil || !strings.Contains(err.Error(), "not valid audio") {
		t.Errorf("tiny body not rejected: %v", err)
	}
}

func TestElevenLabsNoBackoffAfterFinalAttempt(t *testing.T) {
	e := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	start := time.Now()
	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	if err == nil {
		t.Fatal("want error from failing backend")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("final attempt took %s, should surface without a trailing backoff", elapsed)
	}
	if !strings.Contains(err.Error(), "HTTP 429") {
		t.Errorf("status not carried in error: %v", err)
	}
}

func TestElevenLabsCancelledContextReportsCause(t *testing.T) {
	e := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {})

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
