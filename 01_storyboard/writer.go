package storyboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// Writer generates the script and storyboard via Gemini
type Writer struct {
	cfg      *config.Config
	generate func(ctx context.Context, prompt string) (string, error)
}

// New creates a storyboard Writer backed by a Gemini client
func New(cfg *config.Config, client *genai.Client) *Writer {
	w := &Writer{cfg: cfg}
	w.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.Script.GeminiModel,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseMIMEType: "application/json",
			})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return w
}

// Run sends the rendered prompt to Gemini and parses the structured result.
// Backend failures are retried a bounded number of times with backoff; a
// response that does not match the storyboard contract is a SchemaError and
// is surfaced immediately.
func (w *Writer) Run(ctx context.Context, title string) (*types.Storyboard, error) {
	prompt, err := BuildPrompt(title, w.cfg.Script.TargetSec, w.cfg.Script.MinScenes, w.cfg.Script.MaxScenes)
	if err != nil {
		return nil, err
	}

	log.Printf("[storyboard] Generating script + storyboard via Gemini (%s)...", w.cfg.Script.GeminiModel)

	var lastErr error
	for attempt := 1; attempt <= w.cfg.Script.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, time.Duration(w.cfg.Script.TimeoutSec)*time.Second)
		content, err := w.generate(callCtx, prompt)
		cancel()

		if err != nil {
			lastErr = &types.BackendError{Backend: "gemini", Cause: err}
			if ctx.Err() != nil {
				return nil, lastErr
			}
			log.Printf("[storyboard] Attempt %d failed: %v", attempt, err)
			if attempt < w.cfg.Script.MaxRetries {
				time.Sleep(time.Duration(attempt*w.cfg.Script.RetryBaseDelay) * time.Second)
			}
			continue
		}

		sb, err := Parse(title, content, w.cfg.Script.TargetSec, w.cfg.Script.MinScenes, w.cfg.Script.MaxScenes)
		if err != nil {
			var schemaErr *types.SchemaError
			if errors.As(err, &schemaErr) {
				return nil, err
			}
			lastErr = err
			continue
		}

		log.Printf("[storyboard] ✅ Storyboard ready: %d scenes, ~%.0f seconds", len(sb.Scenes), sb.TotalSec)
		return sb, nil
	}
	return nil, lastErr
}

// raw JSON shape the backend is instructed to return
type storyboardJSON struct {
	Script     string      `json:"script"`
	Storyboard []sceneJSON `json:"storyboard"`
}

type sceneJSON struct {
	SceneIndex       int     `json:"scene_index"`
	SceneText        string  `json:"scene_text"`
	ImageDescription string  `json:"image_description"`
	DurationSec      float64 `json:"duration_seconds"`
	SuggestedShots   string  `json:"suggested_shots"`
}

// Parse validates the backend response against the storyboard contract and
// returns a normalized Storyboard. The backend is not trusted: keys, scene
// count and per-scene fields are all re-checked here. Scene indices are
// re-numbered to a contiguous 1-based sequence in array order; a scene count
// outside the configured range is a SchemaError, never silently truncated
// or padded.
func Parse(title, content string, targetSec float64, minScenes, maxScenes int) (*types.Storyboard, error) {
	content = cleanJSON(content)

	var raw storyboardJSON
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &types.SchemaError{Msg: "response is not valid JSON", Cause: err}
	}
	if strings.TrimSpace(raw.Script) == "" {
		return nil, &types.SchemaError{Msg: `missing or empty "script" key`}
	}
	if raw.Storyboard == nil {
		return nil, &types.SchemaError{Msg: `missing "storyboard" key`}
	}

	var scenes []types.Scene
	for _, s := range raw.Storyboard {
		text := strings.TrimSpace(s.SceneText)
		if text == "" {
			continue
		}
		scenes = append(scenes, types.Scene{
			Text:             text,
			ImageDescription: strings.TrimSpace(s.ImageDescription),
			DurationSec:      s.DurationSec,
			SuggestedShots:   strings.TrimSpace(s.SuggestedShots),
		})
	}

	if len(scenes) < minScenes || len(scenes) > maxScenes {
		return nil, &types.SchemaError{
			Msg: fmt.Sprintf("storyboard has %d usable scenes, want %d-%d", len(scenes), minScenes, maxScenes),
		}
	}

	evenSplit := targetSec / float64(len(scenes))
	var total float64
	for i := range scenes {
		scenes[i].Index = i + 1
		if scenes[i].DurationSec <= 0 {
			scenes[i].DurationSec = evenSplit
		}
		if scenes[i].ImageDescription == "" {
			scenes[i].ImageDescription = scenes[i].Text + " — cinematic, visually expressive, 16:9 composition"
		}
		total += scenes[i].DurationSec
	}

	return &types.Storyboard{
		Title:    title,
		Script:   strings.TrimSpace(raw.Script),
		TotalSec: total,
		Scenes:   scenes,
	}, nil
}

// cleanJSON strips markdown fences if the model wraps its response in ```json ... ```
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
