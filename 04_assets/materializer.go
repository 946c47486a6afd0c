package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/prakharstech/VideoCreation/types"
)

// probeTimeout bounds one ffprobe call; measuring a clip takes milliseconds
const probeTimeout = 30 * time.Second

// Store persists scene artifacts under the run directory, keyed by scene
// index: images/scene_NNN.png and audio/scene_NNN.mp3 (or a single
// audio/narration.mp3 in whole-script mode).
type Store struct {
	runDir    string
	imagesDir string
	audioDir  string
}

// New creates the asset store layout for one run
func New(runDir string) (*Store, error) {
	s := &Store{
		runDir:    runDir,
		imagesDir: filepath.Join(runDir, "images"),
		audioDir:  filepath.Join(runDir, "audio"),
	}
	for _, dir := range []string{s.imagesDir, s.audioDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, &types.MaterializationError{Msg: "create asset dir " + dir, Cause: err}
		}
	}
	return s, nil
}

// AudioPath returns the index-addressed location for one scene's narration
func (s *Store) AudioPath(index int) string {
	return filepath.Join(s.audioDir, fmt.Sprintf("scene_%03d.mp3", index))
}

// ScriptAudioPath returns the location of the whole-script narration track
func (s *Store) ScriptAudioPath() string {
	return filepath.Join(s.audioDir, "narration.mp3")
}

// WriteImage persists one scene's image result. A failed result marks the
// scene as a placeholder instead of writing a file; the renderer turns
// placeholder scenes into black frames.
func (s *Store) WriteImage(scene *types.Scene, res types.ImageResult) error {
	if res.Failed {
		scene.ImagePlaceholder = true
		scene.ImageFile = ""
		return nil
	}
	out := filepath.Join(s.imagesDir, fmt.Sprintf("scene_%03d%s", scene.Index, extForMIME(res.MIMEType)))
	if err := os.WriteFile(out, res.Data, 0644); err != nil {
		return &types.MaterializationError{Msg: fmt.Sprintf("write image for scene %d", scene.Index), Cause: err}
	}
	scene.ImageFile = out
	return nil
}

// MeasureAudio records the real narration duration for a scene. When
// ffprobe is unavailable the storyboard's declared duration stays in
// effect with a warning.
func (s *Store) MeasureAudio(ctx context.Context, scene *types.Scene, audioFile string) {
	scene.AudioFile = audioFile
	dur, err := probeDuration(ctx, audioFile)
	if err != nil {
		log.Printf("[assets] Warning: could not measure audio for scene %d, keeping storyboard estimate: %v", scene.Index, err)
		scene.AudioDurationSec = scene.DurationSec
		return
	}
	scene.AudioDurationSec = dur
}

// AlignDurations reconciles on-screen time against measured narration:
// in per-scene mode each scene is shown for as long as its clip plays
func (s *Store) AlignDurations(sb *types.Storyboard) {
	var total float64
	for i := range sb.Scenes {
		if sb.Scenes[i].AudioDurationSec > 0 {
			sb.Scenes[i].DurationSec = sb.Scenes[i].AudioDurationSec
		}
		total += sb.Scenes[i].DurationSec
	}
	sb.TotalSec = total
}

// Verify checks the asset-store invariant before rendering: every scene has
// either a real image file or an explicit placeholder flag. A violation is
// a Materializer bug, not a backend failure — the image client always
// returns something.
func (s *Store) Verify(sb *types.Storyboard) error {
	for _, scene := range sb.Scenes {
		if scene.ImagePlaceholder {
			continue
		}
		if scene.ImageFile == "" {
			return &types.MaterializationError{Msg: fmt.Sprintf("scene %d has no image and no placeholder flag", scene.Index)}
		}
		if _, err := os.Stat(scene.ImageFile); err != nil {
			return &types.MaterializationError{Msg: fmt.Sprintf("scene %d image missing from disk", scene.Index), Cause: err}
		}
	}
	return nil
}

// WriteManifest saves the per-scene artifact manifest for the run
func (s *Store) WriteManifest(sb *types.Storyboard) error {
	data, err := json.MarshalIndent(sb, "", "  ")
	if err != nil {
		return &types.MaterializationError{Msg: "marshal manifest", Cause: err}
	}
	out := filepath.Join(s.runDir, "manifest.json")
	if err := os.WriteFile(out, data, 0644); err != nil {
		return &types.MaterializationError{Msg: "write manifest", Cause: err}
	}
	log.Printf("[assets] 📝 Manifest written to %s", out)
	return nil
}

// probeDuration uses ffprobe to get accurate audio duration in seconds
func probeDuration(ctx context.Context, audioFile string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	out, err := exec.CommandContext(callCtx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

func extForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
