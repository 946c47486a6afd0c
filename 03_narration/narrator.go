package narration

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prakharstech/VideoCreation/config"
	"github.com/prakharstech/VideoCreation/types"
)

// Backend synthesizes speech for one piece of text into an audio file
type Backend interface {
	Name() string
	Synthesize(ctx context.Context, text, outFile string) error
}

// Narrator walks an explicit ordered list of TTS backends: ElevenLabs when
// an API key is configured, then the keyless edge-tts engine. A BackendError
// moves on to the next attempt; anything else aborts. Narration is
// essential — if every backend fails the run fails.
type Narrator struct {
	backends []Backend
}

// New builds the backend chain from the startup credentials
func New(cfg *config.Config, creds config.Credentials) *Narrator {
	var backends []Backend
	if creds.ElevenLabsAPIKey != "" {
		backends = append(backends, NewElevenLabs(cfg, creds.ElevenLabsAPIKey))
	} else {
		log.Println("[narration] ELEVENLABS_API_KEY not set — using edge-tts only")
	}
	backends = append(backends, NewEdgeTTS(cfg))
	return &Narrator{backends: backends}
}

// NewWithBackends wires an explicit attempt list
func NewWithBackends(backends ...Backend) *Narrator {
	return &Narrator{backends: backends}
}

// Synthesize writes spoken audio for text to outFile using the first
// backend that succeeds
func (n *Narrator) Synthesize(ctx context.Context, text, outFile string) error {
	var attempts []string
	for _, b := range n.backends {
		if ctx.Err() != nil {
			return &types.BackendError{Backend: "narration", Cause: ctx.Err()}
		}
		err := b.Synthesize(ctx, text, outFile)
		if err == nil {
			return nil
		}
		var backendErr *types.BackendError
		if !errors.As(err, &backendErr) {
			return err
		}
		log.Printf("[narration] ⚠️  %s failed: %v — trying next backend", b.Name(), err)
		attempts = append(attempts, fmt.Sprintf("%s: %v", b.Name(), err))
	}
	return &types.BackendError{
		Backend: "narration",
		Cause:   fmt.Errorf("all TTS backends failed: %v", attempts),
	}
}
