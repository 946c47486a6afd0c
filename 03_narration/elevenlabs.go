package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// ElevenLabs is the primary TTS backend, called over its REST API
type ElevenLabs struct {
	cfg        *config.Config
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabs creates the primary backend
func NewElevenLabs(cfg *config.Config, apiKey string) *ElevenLabs {
	return &ElevenLabs{
		cfg:     cfg,
		apiKey:  apiKey,
		baseURL: "https://api.elevenlabs.io",
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Narration.TimeoutSec) * time.Second,
		},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to speech and writes the MP3 to outFile
func (e *ElevenLabs) Synthesize(ctx context.Context, text, outFile string) error {
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, e.cfg.Narration.VoiceID)

	var lastErr error
	for attempt := 1; attempt <= e.cfg.Narration.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		if err := e.doRequest(ctx, url, text, outFile); err != nil {
			lastErr = err
			log.Printf("[narration] elevenlabs attempt %d failed: %v", attempt, err)
			if attempt < e.cfg.Narration.MaxRetries {
				time.Sleep(time.Duration(attempt) * 2 * time.Second)
			}
			continue
		}
		return nil
	}
	return &types.BackendError{Backend: "elevenlabs", Cause: lastErr}
}

func (e *ElevenLabs) doRequest(ctx context.Context, url, text, outFile string) error {
	bodyBytes, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.cfg.Narration.ModelID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d from elevenlabs: %s", resp.StatusCode, msg)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	// A 401/429 sometimes comes back as a tiny non-audio body
	if len(data) < e.cfg.Narration.MinOutputBytes {
		return fmt.Errorf("elevenlabs returned %d bytes — not valid audio", len(data))
	}
	return os.WriteFile(outFile, data, 0644)
}
