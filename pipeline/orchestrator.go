package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	assets "github.com/prakharstech/VideoCreation/04_assets"
	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// StoryboardWriter turns a title into a script plus ordered scene list
type StoryboardWriter interface {
	Run(ctx context.Context, title string) (*types.Storyboard, error)
}

// ImageGenerator produces image bytes (or an explicit failure) for one scene
type ImageGenerator interface {
	Generate(ctx context.Context, scene types.Scene) types.ImageResult
}

// NarrationSynthesizer writes spoken audio for text to a file
type NarrationSynthesizer interface {
	Synthesize(ctx context.Context, text, outFile string) error
}

// VideoRenderer assembles scene assets and audio into the final video
type VideoRenderer interface {
	Run(ctx context.Context, sb *types.Storyboard, audioFiles []string, runDir, outFile string) error
}

// Orchestrator sequences the pipeline stages for one run:
// init → scripting → asset_generation → rendering → done, with failed
// reachable from any stage. It owns the in-memory run state and the
// per-scene fallback policy: a failed image degrades that scene to a
// placeholder and the run continues; a failed narration aborts the run.
type Orchestrator struct {
	cfg      *config.Config
	writer   StoryboardWriter
	images   ImageGenerator
	narrator NarrationSynthesizer
	renderer VideoRenderer
	runDir   string
}

// New wires the orchestrator
func New(cfg *config.Config, writer StoryboardWriter, images ImageGenerator, narrator NarrationSynthesizer, renderer VideoRenderer, runDir string) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		writer:   writer,
		images:   images,
		narrator: narrator,
		renderer: renderer,
		runDir:   runDir,
	}
}

// Run executes one full pipeline run. The returned state is always
// populated; err is non-nil exactly when state.Stage is failed.
func (o *Orchestrator) Run(ctx context.Context, runID, title, outFile string) (*types.RunState, error) {
	state := &types.RunState{
		RunID:      runID,
		Title:      title,
		OutputFile: outFile,
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
		Stage:      types.StageInit,
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		o.saveState(state)
	}()

	// ─────────────────────────────────────────────
	// STAGE 1: Scripting
	// ─────────────────────────────────────────────
	log.Println("━━━ STAGE 1: Scripting ━━━")
	state.Stage = types.StageScripting
	sb, err := o.writer.Run(ctx, title)
	if err != nil {
		return o.fail(state, "scripting", err)
	}
	state.Storyboard = sb
	o.saveJSON("storyboard.json", sb)

	// ─────────────────────────────────────────────
	// STAGE 2: Asset generation
	// ─────────────────────────────────────────────
	log.Println("━━━ STAGE 2: Asset generation ━━━")
	state.Stage = types.StageAssetGeneration
	store, err := assets.New(o.runDir)
	if err != nil {
		return o.fail(state, "asset_generation", err)
	}

	audioFiles, err := o.generateAssets(ctx, sb, store)
	if err != nil {
		return o.fail(state, "asset_generation", err)
	}
	state.AudioFile = audioFiles[0]

	if o.cfg.Narration.Mode != "whole_script" {
		store.AlignDurations(sb)
	}
	for _, scene := range sb.Scenes {
		if scene.ImagePlaceholder {
			state.DegradedScenes = append(state.DegradedScenes, scene.Index)
		}
	}
	if err := store.Verify(sb); err != nil {
		return o.fail(state, "asset_generation", err)
	}
	if err := store.WriteManifest(sb); err != nil {
		return o.fail(state, "asset_generation", err)
	}

	// ─────────────────────────────────────────────
	// STAGE 3: Rendering
	// ─────────────────────────────────────────────
	log.Println("━━━ STAGE 3: Rendering ━━━")
	state.Stage = types.StageRendering
	if err := o.renderer.Run(ctx, sb, audioFiles, o.runDir, outFile); err != nil {
		// assets stay on disk for inspection
		return o.fail(state, "rendering", err)
	}

	state.Stage = types.StageDone
	if state.Degraded() {
		log.Printf("⚠️  Done with degraded scenes (placeholder images): %v", state.DegradedScenes)
	}
	return state, nil
}

// generateAssets fans out per-scene image and narration work, bounded by the
// configured concurrency, and joins before returning. Scene slots are
// pre-sized and each worker touches only its own scene, so no lock is
// needed. Returns the ordered audio file list for the renderer.
func (o *Orchestrator) generateAssets(ctx context.Context, sb *types.Storyboard, store *assets.Store) ([]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	limit := o.cfg.Pipeline.SceneConcurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	wholeScript := o.cfg.Narration.Mode == "whole_script"

	if wholeScript {
		g.Go(func() error {
			out := store.ScriptAudioPath()
			if err := o.narrator.Synthesize(gctx, sb.Script, out); err != nil {
				return fmt.Errorf("narration: %w", err)
			}
			log.Printf("[pipeline] ✅ Whole-script narration ready: %s", out)
			return nil
		})
	}

	for i := range sb.Scenes {
		scene := &sb.Scenes[i]
		g.Go(func() error {
			res := o.images.Generate(gctx, *scene)
			if err := store.WriteImage(scene, res); err != nil {
				return err
			}

			if !wholeScript {
				out := store.AudioPath(scene.Index)
				if err := o.narrator.Synthesize(gctx, scene.Text, out); err != nil {
					return fmt.Errorf("narration for scene %d: %w", scene.Index, err)
				}
				store.MeasureAudio(gctx, scene, out)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if wholeScript {
		return []string{store.ScriptAudioPath()}, nil
	}
	audioFiles := make([]string, len(sb.Scenes))
	for i, scene := range sb.Scenes {
		audioFiles[i] = scene.AudioFile
	}
	return audioFiles, nil
}

func (o *Orchestrator) fail(state *types.RunState, stage string, err error) (*types.RunState, error) {
	state.Stage = types.StageFailed
	state.Error = fmt.Sprintf("stage %s: %v", stage, err)
	return state, fmt.Errorf("stage %s: %w", stage, err)
}

func (o *Orchestrator) saveState(state *types.RunState) {
	o.saveJSON("run_state.json", state)
}

func (o *Orchestrator) saveJSON(name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal %s: %v", name, err)
		return
	}
	path := filepath.Join(o.runDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
