package storyboard

import (
	"errors"
	"strings"
	"testing"

	"github.com/prakharstech/VideoCreation/types"
)

func TestBuildPromptRequestsExactKeys(t *testing.T) {
	prompt, err := BuildPrompt("Morning routines", 40, 4, 6)
	if err != nil {
		t.Fatalf("BuildPrompt failed: %v", err)
	}

	for _, want := range []string{
		`"script"`,
		`"storyboard"`,
		`"scene_index"`,
		`"scene_text"`,
		`"image_description"`,
		`"duration_seconds"`,
		`"suggested_shots"`,
		"ONLY valid JSON",
		"Morning routines",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, "4 to 6") {
		t.Errorf("prompt does not state the scene range: %s", prompt)
	}
}

func TestBuildPromptConfigErrors(t *testing.T) {
	cases := []struct {
		name      string
		title     string
		targetSec float64
		min, max  int
	}{
		{"empty title", "", 40, 4, 6},
		{"whitespace title", "   ", 40, 4, 6},
		{"zero duration", "ok", 0, 4, 6},
		{"negative duration", "ok", -3, 4, 6},
		{"inverted range", "ok", 40, 6, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildPrompt(tc.title, tc.targetSec, tc.min, tc.max)
			var cfgErr *types.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("want ConfigError, got %v", err)
			}
		})
	}
}
