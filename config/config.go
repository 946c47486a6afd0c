package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prakharstech/VideoCreation/types"
)

type Config struct {
	Script    ScriptConfig    `yaml:"script"`
	Image     ImageConfig     `yaml:"image"`
	Narration NarrationConfig `yaml:"narration"`
	Video     VideoConfig     `yaml:"video"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Upload    UploadConfig    `yaml:"upload"`
	Paths     PathsConfig     `yaml:"paths"`
}

type ScriptConfig struct {
	GeminiModel    string  `yaml:"gemini_model"`
	TargetSec      float64 `yaml:"target_duration_sec"`
	MinScenes      int     `yaml:"min_scenes"`
	MaxScenes      int     `yaml:"max_scenes"`
	TimeoutSec     int     `yaml:"timeout_sec"`
	MaxRetries     int     `yaml:"max_retries"`
	RetryBaseDelay int     `yaml:"retry_base_delay_sec"`
}

type ImageConfig struct {
	GeminiModel string `yaml:"gemini_model"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	MaxRetries  int    `yaml:"max_retries"`
}

type NarrationConfig struct {
	Mode           string `yaml:"mode"` // per_scene | whole_script
	VoiceID        string `yaml:"voice_id"`
	ModelID        string `yaml:"model_id"`
	FallbackVoice  string `yaml:"fallback_voice"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	MaxRetries     int    `yaml:"max_retries"`
	MinOutputBytes int    `yaml:"min_output_bytes"`
}

type VideoConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	FPS        int `yaml:"fps"`
	TimeoutSec int `yaml:"timeout_sec"`
}

type PipelineConfig struct {
	SceneConcurrency int `yaml:"scene_concurrency"`
}

type UploadConfig struct {
	GeminiModel       string `yaml:"gemini_model"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	TitleMaxChars     int    `yaml:"title_max_chars"`
	TagsCount         int    `yaml:"tags_count"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	DefaultLanguage   string `yaml:"default_language"`
}

type PathsConfig struct {
	Output string `yaml:"output"`
}

// Credentials are read from the environment exactly once at startup and
// passed into component constructors. No component does its own env lookup.
type Credentials struct {
	GeminiAPIKey        string
	ElevenLabsAPIKey    string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeRefreshToken string
}

// Default returns the built-in configuration used when no config file exists
func Default() *Config {
	return &Config{
		Script: ScriptConfig{
			GeminiModel:    "gemini-2.5-flash",
			TargetSec:      40,
			MinScenes:      4,
			MaxScenes:      6,
			TimeoutSec:     90,
			MaxRetries:     3,
			RetryBaseDelay: 2,
		},
		Image: ImageConfig{
			GeminiModel: "gemini-2.5-flash-image",
			TimeoutSec:  120,
			MaxRetries:  3,
		},
		Narration: NarrationConfig{
			Mode:           "per_scene",
			VoiceID:        "R2e83kjR96zNPDiAnQl3",
			ModelID:        "eleven_multilingual_v2",
			FallbackVoice:  "en-US-GuyNeural",
			TimeoutSec:     60,
			MaxRetries:     3,
			MinOutputBytes: 1000,
		},
		Video: VideoConfig{
			Width:      1280,
			Height:     720,
			FPS:        24,
			TimeoutSec: 300,
		},
		Pipeline: PipelineConfig{
			SceneConcurrency: 2,
		},
		Upload: UploadConfig{
			GeminiModel:       "gemini-2.5-flash",
			Visibility:        "private",
			CategoryID:        "22",
			TitleMaxChars:     70,
			TagsCount:         30,
			NotifySubscribers: false,
			MadeForKids:       false,
			DefaultLanguage:   "en",
		},
		Paths: PathsConfig{
			Output: "output",
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is fine —
// the defaults make --title/--out a complete invocation on their own.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, &types.ConfigError{Msg: fmt.Sprintf("read %s: %v", path, err)}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &types.ConfigError{Msg: fmt.Sprintf("parse %s: %v", path, err)}
	}
	cfg.clamp()
	return cfg, nil
}

// clamp floors values a retry, timeout or fan-out loop cannot run with
func (c *Config) clamp() {
	if c.Script.MaxRetries < 1 {
		c.Script.MaxRetries = 1
	}
	if c.Image.MaxRetries < 1 {
		c.Image.MaxRetries = 1
	}
	if c.Narration.MaxRetries < 1 {
		c.Narration.MaxRetries = 1
	}
	if c.Pipeline.SceneConcurrency < 1 {
		c.Pipeline.SceneConcurrency = 1
	}
	if c.Script.TimeoutSec < 1 {
		c.Script.TimeoutSec = 90
	}
	if c.Image.TimeoutSec < 1 {
		c.Image.TimeoutSec = 120
	}
	if c.Narration.TimeoutSec < 1 {
		c.Narration.TimeoutSec = 60
	}
	if c.Video.TimeoutSec < 1 {
		c.Video.TimeoutSec = 300
	}
	if c.Upload.TitleMaxChars < 10 {
		c.Upload.TitleMaxChars = 10
	}
}

// LoadCredentials reads API keys from the environment
func LoadCredentials() Credentials {
	return Credentials{
		GeminiAPIKey:        firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		ElevenLabsAPIKey:    os.Getenv("ELEVENLABS_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeRefreshToken: os.Getenv("YOUTUBE_REFRESH_TOKEN"),
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
