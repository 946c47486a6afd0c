package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	storyboard "github.com/prakharstech/VideoCreation/01_storyboard"
	visuals "github.com/prakharstech/VideoCreation/02_visuals"
	narration "github.com/prakharstech/VideoCreation/03_narration"
	render "github.com/prakharstech/VideoCreation/05_render"
	metadata "github.com/prakharstech/VideoCreation/06_metadata"
	upload "github.com/prakharstech/VideoCreation/07_upload"
	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/pipeline"
	"github.com/prakharstech/VideoCreation/types"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

func main() {
	// Load .env for local dev; real deployments set env directly
	_ = godotenv.Load()

	title := flag.String("title", "", "Title or seed text for the storyboard/script (required)")
	out := flag.String("out", "", "Output video filename, e.g. out.mp4 (required)")
	configPath := flag.String("config", "pipeline.yaml", "Path to the YAML config file")
	doUpload := flag.Bool("upload", false, "Publish the finished video to YouTube")
	flag.Parse()

	if err := run(*title, *out, *configPath, *doUpload); err != nil {
		log.Printf("❌ Pipeline failed: %v", err)
		os.Exit(1)
	}
}

func run(title, out, configPath string, doUpload bool) error {
	if strings.TrimSpace(title) == "" {
		return &types.ConfigError{Msg: "--title is required"}
	}
	if out == "" {
		return &types.ConfigError{Msg: "--out is required"}
	}
	if !videoExtensions[strings.ToLower(filepath.Ext(out))] {
		return &types.ConfigError{Msg: fmt.Sprintf("--out %q must end in a video extension (.mp4, .mov, .mkv, .webm)", out)}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	creds := config.LoadCredentials()
	if creds.GeminiAPIKey == "" {
		return &types.ConfigError{Msg: "GEMINI_API_KEY (or GOOGLE_API_KEY) is required"}
	}

	// Stop issuing new backend calls promptly on Ctrl-C; in-flight calls
	// are abandoned via the context.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  creds.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &types.ConfigError{Msg: fmt.Sprintf("init gemini client: %v", err)}
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return &types.ConfigError{Msg: fmt.Sprintf("create run dir %s: %v", runDir, err)}
	}

	log.Printf("🎬 Pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Run dir: %s", runDir)

	orch := pipeline.New(cfg,
		storyboard.New(cfg, client),
		visuals.New(cfg, client),
		narration.New(cfg, creds),
		render.New(cfg),
		runDir,
	)

	state, err := orch.Run(ctx, runID, title, out)
	if err != nil {
		return err
	}

	log.Printf("✅ Pipeline complete! Video: %s", out)
	if state.Degraded() {
		log.Printf("⚠️  Scenes with placeholder images: %v", state.DegradedScenes)
	}
	// The final output path is the only stdout write
	fmt.Println(out)

	if doUpload {
		log.Println("━━━ STAGE 4: YouTube upload ━━━")
		meta, err := metadata.New(cfg, client).Run(ctx, state.Storyboard)
		if err != nil {
			return fmt.Errorf("stage upload: %w", err)
		}
		videoID, videoURL, err := upload.New(cfg, creds).Run(ctx, out, meta)
		if err != nil {
			return fmt.Errorf("stage upload: %w", err)
		}
		if err := upload.LogUpload(runDir, videoID, videoURL, out, meta); err != nil {
			log.Printf("Warning: could not save upload log: %v", err)
		}
	}
	return nil
}
