package narration

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// EdgeTTS is the fallback backend: the free edge-tts CLI, no API key needed
type EdgeTTS struct {
	cfg *config.Config
}

// NewEdgeTTS creates the fallback backend
func NewEdgeTTS(cfg *config.Config) *EdgeTTS {
	return &EdgeTTS{cfg: cfg}
}

func (e *EdgeTTS) Name() string { return "edge-tts" }

// Synthesize shells out to edge-tts to write outFile
func (e *EdgeTTS) Synthesize(ctx context.Context, text, outFile string) error {
	if _, err := exec.LookPath("edge-tts"); err != nil {
		return &types.BackendError{
			Backend: "edge-tts",
			Cause:   fmt.Errorf("edge-tts not found on PATH (pip install edge-tts): %w", err),
		}
	}

	var lastErr error
	for attempt := 1; attempt <= e.cfg.Narration.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		attemptCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.Narration.TimeoutSec)*time.Second)
		cmd := exec.CommandContext(attemptCtx, "edge-tts",
			"--voice", e.cfg.Narration.FallbackVoice,
			"--text", text,
			"--write-media", outFile,
		)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		// a child process holding stderr open must not stall the kill
		cmd.WaitDelay = 5 * time.Second
		err := cmd.Run()
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("%w: %s", err, stderr.String())
			log.Printf("[narration] edge-tts attempt %d failed: %v", attempt, err)
			if attempt < e.cfg.Narration.MaxRetries {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
			}
			continue
		}
		return nil
	}
	return &types.BackendError{Backend: "edge-tts", Cause: lastErr}
}
