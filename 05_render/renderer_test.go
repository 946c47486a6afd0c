package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

func TestSegmentArgsRealImage(t *testing.T) {
	r := New(config.Default())
	scene := types.Scene{Index: 1, ImageFile: "/run/images/scene_001.png", DurationSec: 6.5}

	args := strings.Join(r.segmentArgs(scene, "/run/segments/seg_001.mp4"), " ")
	for _, want := range []string{
		"-loop 1",
		"-i /run/images/scene_001.png",
		"-t 6.500",
		"scale=1280:720",
		"-pix_fmt yuv420p",
		"libx264",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("args missing %q: %s", want, args)
		}
	}
}

func TestSegmentArgsPlaceholderIsBlackFrame(t *testing.T) {
	r := New(config.Default())
	scene := types.Scene{Index: 2, ImagePlaceholder: true, DurationSec: 4}

	args := strings.Join(r.segmentArgs(scene, "/run/segments/seg_002.mp4"), " ")
	if !strings.Contains(args, "lavfi") {
		t.Errorf("placeholder segment does not use lavfi: %s", args)
	}
	if !strings.Contains(args, "color=black:s=1280x720:d=4.000") {
		t.Errorf("placeholder segment not a black frame at target resolution: %s", args)
	}
	if strings.Contains(args, "-loop") {
		t.Errorf("placeholder segment should not loop an image: %s", args)
	}
}

func TestSegmentArgsDefaultsNonPositiveDuration(t *testing.T) {
	r := New(config.Default())
	scene := types.Scene{Index: 1, ImageFile: "img.png", DurationSec: 0}

	args := strings.Join(r.segmentArgs(scene, "out.mp4"), " ")
	if !strings.Contains(args, "-t 5.000") {
		t.Errorf("zero duration not defaulted: %s", args)
	}
}

func TestBuildConcatListOrdersFiles(t *testing.T) {
	list := buildConcatList([]string{"/a/seg_001.mp4", "/a/seg_002.mp4"})
	lines := strings.Split(strings.TrimSpace(list), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines: %q", len(lines), list)
	}
	if lines[0] != "file '/a/seg_001.mp4'" || lines[1] != "file '/a/seg_002.mp4'" {
		t.Errorf("concat list wrong: %q", list)
	}
}

func TestRunFFmpegKillsHungEncoderAtTimeout(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexec sleep 5\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	cfg := config.Default()
	cfg.Video.TimeoutSec = 1
	r := New(cfg)

	start := time.Now()
	err := r.runFFmpeg(context.Background(), []string{"-version"})
	elapsed := time.Since(start)

	var renderErr *types.RenderError
	if !errors.As(err, &renderErr) {
		t.Fatalf("want RenderError from hung encoder, got %v", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("runFFmpeg ran %s, not bounded by the 1s timeout", elapsed)
	}
}

func TestRenderErrorCarriesEncoderOutput(t *testing.T) {
	err := &types.RenderError{Msg: "mux video+audio", Output: "Unknown encoder 'libx264'"}
	if !strings.Contains(err.Error(), "Unknown encoder 'libx264'") {
		t.Errorf("encoder diagnostics not surfaced verbatim: %s", err.Error())
	}
}
