package visuals

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// Generator requests AI images from Gemini, one per scene.
// It never propagates a fatal error: image generation is the least reliable
// step of the pipeline, so any terminal failure comes back as a Failed
// result and the scene degrades to a black placeholder frame downstream.
type Generator struct {
	cfg      *config.Config
	generate func(ctx context.Context, prompt string) ([]byte, string, error)
}

// New creates an image Generator backed by a Gemini client
func New(cfg *config.Config, client *genai.Client) *Generator {
	g := &Generator{cfg: cfg}
	g.generate = func(ctx context.Context, prompt string) ([]byte, string, error) {
		resp, err := client.Models.GenerateContent(ctx, cfg.Image.GeminiModel,
			genai.Text(prompt),
			&genai.GenerateContentConfig{
				ResponseModalities: []string{"IMAGE"},
			})
		if err != nil {
			return nil, "", err
		}
		return extractInlineImage(resp)
	}
	return g
}

// Generate produces image bytes for one scene's visual description
func (g *Generator) Generate(ctx context.Context, scene types.Scene) types.ImageResult {
	prompt := enhancePrompt(scene.ImageDescription, scene.SuggestedShots)
	log.Printf("[visuals] Scene %d: generating image: %q", scene.Index, truncate(prompt, 60))

	var lastErr error
	for attempt := 1; attempt <= g.cfg.Image.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, time.Duration(g.cfg.Image.TimeoutSec)*time.Second)
		data, mime, err := g.generate(callCtx, prompt)
		cancel()

		if err == nil {
			log.Printf("[visuals] ✅ Scene %d image ready (%d bytes)", scene.Index, len(data))
			return types.ImageResult{Data: data, MIMEType: mime}
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		log.Printf("[visuals] Attempt %d failed for scene %d: %v", attempt, scene.Index, err)
		if attempt < g.cfg.Image.MaxRetries {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}

	log.Printf("[visuals] ⚠️  Scene %d image generation failed: %v — will use black placeholder", scene.Index, lastErr)
	return types.ImageResult{Failed: true, Reason: lastErr.Error()}
}

// extractInlineImage pulls the first inline image blob out of a Gemini response
func extractInlineImage(resp *genai.GenerateContentResponse) ([]byte, string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, "", fmt.Errorf("gemini returned no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, part.InlineData.MIMEType, nil
		}
	}
	return nil, "", fmt.Errorf("no inline image data in gemini response")
}

// enhancePrompt adds quality/composition modifiers to the scene description
func enhancePrompt(description, shot string) string {
	base := description
	if shot != "" {
		base = fmt.Sprintf("%s shot: %s", shot, description)
	}
	return base + " — high quality, photorealistic illustration, cinematic lighting, 16:9, no text, no watermark"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
