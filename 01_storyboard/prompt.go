package storyboard

import (
	"fmt"
	"strings"

	"github.com/prakharstech/VideoCreation/types"
)

const promptTemplate = `You are a professional video scriptwriter and storyboard artist.

Write a short video about:
"%s"

Target total length: about %.0f seconds.

You MUST respond with ONLY valid JSON — no preamble, no markdown, no explanation.

The JSON object must have exactly these two keys:
- "script": the full voiceover script as one flowing string, cinematic, engaging, natural, as if spoken by a narrator.
- "storyboard": an array of %d to %d scene objects.

Each scene object in "storyboard" must have:
- "scene_index": integer scene number starting at 1
- "scene_text": the exact narration for this scene (1-4 sentences, non-empty)
- "image_description": a concise visual description of what is on screen. ONLY visuals, no dialogue, no camera directions.
- "duration_seconds": a float, how long this scene stays on screen
- "suggested_shots": a short shot hint like "wide", "medium", "close-up", "aerial" or "POV"

Rules:
- The scene narrations in order must together read as the full script.
- duration_seconds across all scenes should add up to roughly %.0f seconds.
- Return ONLY valid JSON. DO NOT wrap it in markdown. DO NOT add commentary.`

// BuildPrompt renders the fixed storyboard instruction template for a run.
// The scene count is derived from the target duration and clamped to the
// configured range.
func BuildPrompt(title string, targetSec float64, minScenes, maxScenes int) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &types.ConfigError{Msg: "title must not be empty"}
	}
	if targetSec <= 0 {
		return "", &types.ConfigError{Msg: fmt.Sprintf("target duration must be positive, got %.1f", targetSec)}
	}
	if minScenes <= 0 || maxScenes < minScenes {
		return "", &types.ConfigError{Msg: fmt.Sprintf("bad scene range [%d,%d]", minScenes, maxScenes)}
	}
	return fmt.Sprintf(promptTemplate, title, targetSec, minScenes, maxScenes, targetSec), nil
}
