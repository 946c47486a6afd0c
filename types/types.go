package types

// Scene is one storyboard unit: caption, image prompt, duration, shot hint.
// The materialization fields are filled in during asset generation.
type Scene struct {
	Index            int     `json:"scene_index"`
	Text             string  `json:"scene_text"`
	ImageDescription string  `json:"image_description"`
	DurationSec      float64 `json:"duration_seconds"`
	SuggestedShots   string  `json:"suggested_shots"`

	ImageFile        string  `json:"image_file,omitempty"`
	ImagePlaceholder bool    `json:"image_placeholder,omitempty"`
	AudioFile        string  `json:"audio_file,omitempty"`
	AudioDurationSec float64 `json:"audio_duration_sec,omitempty"`
}

// Storyboard is the full structured result of the scripting stage
type Storyboard struct {
	Title    string  `json:"title"`
	Script   string  `json:"script"`
	TotalSec float64 `json:"total_sec"`
	Scenes   []Scene `json:"scenes"`
}

// ImageResult is what the image client hands back for one scene.
// Failed results never abort the run; the scene degrades to a placeholder.
type ImageResult struct {
	Data     []byte
	MIMEType string
	Failed   bool
	Reason   string
}

// Stage names for the run state machine
type Stage string

const (
	StageInit            Stage = "init"
	StageScripting       Stage = "scripting"
	StageAssetGeneration Stage = "asset_generation"
	StageRendering       Stage = "rendering"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// RunState tracks the full state of one pipeline run
type RunState struct {
	RunID          string      `json:"run_id"`
	Title          string      `json:"title"`
	OutputFile     string      `json:"output_file"`
	StartedAt      string      `json:"started_at"`
	CompletedAt    string      `json:"completed_at"`
	Stage          Stage       `json:"stage"`
	Storyboard     *Storyboard `json:"storyboard,omitempty"`
	AudioFile      string      `json:"audio_file,omitempty"`
	DegradedScenes []int       `json:"degraded_scenes,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// Degraded reports whether any scene fell back to a placeholder image
func (s *RunState) Degraded() bool {
	return len(s.DegradedScenes) > 0
}
