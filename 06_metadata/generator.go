package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

const systemPrompt = `You are an expert YouTube SEO strategist.
Generate compelling upload metadata for a short narrated video.

You MUST respond with ONLY valid JSON — no markdown, no explanation, no preamble.

The JSON must have exactly these fields:
- "title": string (max 70 chars, engaging but honest)
- "description": string (~200 words, SEO-rich, ends with a subscribe call to action)
- "tags": array of strings (mix of broad and specific tags)`

// VideoMetadata holds the upload metadata for one video
type VideoMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	CategoryID  string   `json:"category_id"`
	Visibility  string   `json:"visibility"`
}

// Generator creates upload metadata via Gemini
type Generator struct {
	cfg      *config.Config
	generate func(ctx context.Context, prompt string) (string, error)
}

// New creates a metadata Generator
func New(cfg *config.Config, client *genai.Client) *Generator {
	g := &Generator{cfg: cfg}
	g.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.Upload.GeminiModel,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseMIMEType:  "application/json",
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return g
}

// Run generates the upload metadata for a finished video
func (g *Generator) Run(ctx context.Context, sb *types.Storyboard) (*VideoMetadata, error) {
	log.Println("[metadata] Generating upload metadata via Gemini...")

	callCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	content, err := g.generate(callCtx, buildMetadataPrompt(sb))
	if err != nil {
		return nil, &types.BackendError{Backend: "gemini", Cause: err}
	}
	content = cleanJSON(content)

	var raw VideoMetadata
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, &types.SchemaError{Msg: "parse metadata JSON", Cause: err}
	}

	title := clampTitle(raw.Title, g.cfg.Upload.TitleMaxChars)
	tags := raw.Tags
	if len(tags) > g.cfg.Upload.TagsCount {
		tags = tags[:g.cfg.Upload.TagsCount]
	}

	meta := &VideoMetadata{
		Title:       title,
		Description: raw.Description,
		Tags:        tags,
		CategoryID:  g.cfg.Upload.CategoryID,
		Visibility:  g.cfg.Upload.Visibility,
	}
	log.Printf("[metadata] ✅ Title: %q (%d tags)", meta.Title, len(meta.Tags))
	return meta, nil
}

// clampTitle truncates on rune boundaries so a multi-byte title is never
// cut mid-character
func clampTitle(title string, maxChars int) string {
	r := []rune(title)
	if len(r) <= maxChars {
		return title
	}
	return string(r[:maxChars-3]) + "..."
}

func buildMetadataPrompt(sb *types.Storyboard) string {
	var b strings.Builder
	b.WriteString("Generate upload metadata for this video.\n\n")
	b.WriteString(fmt.Sprintf("VIDEO TOPIC: %s\n", sb.Title))
	b.WriteString(fmt.Sprintf("DURATION: %.0f seconds\n\n", sb.TotalSec))
	b.WriteString("SCRIPT:\n")
	b.WriteString(sb.Script)
	b.WriteString("\n\nRespond ONLY with valid JSON.")
	return b.String()
}

func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
