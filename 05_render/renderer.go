package render

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// Renderer assembles the final video with ffmpeg: one still-image segment
// per scene shown for its duration, concatenated in storyboard order, then
// muxed with the narration track. Encoder failures are deterministic, so
// nothing here retries; ffmpeg's stderr is carried inside the RenderError.
type Renderer struct {
	cfg *config.Config
}

// New creates a Renderer
func New(cfg *config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Run builds the timeline and invokes ffmpeg to produce outFile.
// audioFiles is either one whole-script track or the per-scene clips in
// storyboard order.
func (r *Renderer) Run(ctx context.Context, sb *types.Storyboard, audioFiles []string, runDir, outFile string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return &types.RenderError{Msg: "ffmpeg not found on PATH", Cause: err}
	}
	if len(sb.Scenes) == 0 {
		return &types.RenderError{Msg: "no scenes to render"}
	}
	if len(audioFiles) == 0 {
		return &types.RenderError{Msg: "no audio track to render"}
	}

	segDir := filepath.Join(runDir, "segments")
	if err := os.MkdirAll(segDir, 0755); err != nil {
		return &types.RenderError{Msg: "create segments dir", Cause: err}
	}

	// Step 1: one silent segment per scene
	log.Printf("[render] Building %d scene segments...", len(sb.Scenes))
	var segments []string
	for _, scene := range sb.Scenes {
		seg := filepath.Join(segDir, fmt.Sprintf("seg_%03d.mp4", scene.Index))
		args := r.segmentArgs(scene, seg)
		if err := r.runFFmpeg(ctx, args); err != nil {
			return wrapRender(fmt.Sprintf("segment for scene %d", scene.Index), err)
		}
		segments = append(segments, seg)
	}

	// Step 2: concatenate segments into one silent video
	log.Println("[render] Concatenating segments...")
	silentVideo := filepath.Join(segDir, "video_raw.mp4")
	if err := r.concat(ctx, segments, filepath.Join(segDir, "segments.txt"), silentVideo); err != nil {
		return wrapRender("concatenate segments", err)
	}

	// Step 3: single audio track
	audioTrack := audioFiles[0]
	if len(audioFiles) > 1 {
		log.Println("[render] Concatenating narration clips...")
		audioTrack = filepath.Join(segDir, "audio_final.mp3")
		if err := r.concat(ctx, audioFiles, filepath.Join(segDir, "audio.txt"), audioTrack); err != nil {
			return wrapRender("concatenate audio", err)
		}
	}

	// Step 4: mux video + audio into the final file
	log.Println("[render] Muxing video + audio...")
	err := r.runFFmpeg(ctx, []string{"-y",
		"-i", silentVideo,
		"-i", audioTrack,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		outFile,
	})
	if err != nil {
		return wrapRender("mux video+audio", err)
	}

	log.Printf("[render] ✅ Final video ready: %s", outFile)
	return nil
}

// segmentArgs builds the ffmpeg invocation for one scene: a scaled still
// image looped for the scene duration, or a lavfi black frame when the
// scene degraded to a placeholder.
func (r *Renderer) segmentArgs(scene types.Scene, outFile string) []string {
	w, h, fps := r.cfg.Video.Width, r.cfg.Video.Height, r.cfg.Video.FPS
	dur := scene.DurationSec
	if dur <= 0 {
		dur = 5.0
	}

	if scene.ImagePlaceholder || scene.ImageFile == "" {
		return []string{"-y",
			"-f", "lavfi",
			"-i", fmt.Sprintf("color=black:s=%dx%d:d=%.3f", w, h, dur),
			"-t", fmt.Sprintf("%.3f", dur),
			"-r", fmt.Sprintf("%d", fps),
			"-c:v", "libx264",
			"-preset", "fast",
			"-pix_fmt", "yuv420p",
			outFile,
		}
	}
	return []string{"-y",
		"-loop", "1",
		"-i", scene.ImageFile,
		"-t", fmt.Sprintf("%.3f", dur),
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1", w, h, w, h),
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		outFile,
	}
}

// concat joins media files in order with the ffmpeg concat demuxer
func (r *Renderer) concat(ctx context.Context, files []string, listFile, outFile string) error {
	if err := os.WriteFile(listFile, []byte(buildConcatList(files)), 0644); err != nil {
		return err
	}
	return r.runFFmpeg(ctx, []string{"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
		"-c", "copy",
		outFile,
	})
}

// buildConcatList renders the concat demuxer list file contents
func buildConcatList(files []string) string {
	var sb strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		fmt.Fprintf(&sb, "file '%s'\n", abs)
	}
	return sb.String()
}

// runFFmpeg invokes one bounded ffmpeg call; a wedged encoder is killed
// after video.timeout_sec
func (r *Renderer) runFFmpeg(ctx context.Context, args []string) error {
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Video.TimeoutSec)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(callCtx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second
	if err := cmd.Run(); err != nil {
		return &types.RenderError{Msg: "ffmpeg " + strings.Join(args, " "), Output: stderr.String(), Cause: err}
	}
	return nil
}

func wrapRender(step string, err error) error {
	if re, ok := err.(*types.RenderError); ok {
		re.Msg = step + ": " + re.Msg
		return re
	}
	return &types.RenderError{Msg: step, Cause: err}
}
