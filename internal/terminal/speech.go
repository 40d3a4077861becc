package terminal

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/jarvis/internal/core"
	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
)

const (
	speechSuffix  = "... Check screen for full details."
	speechTimeout = 60 * time.Second
)

// SpeakerConfig configures spoken output
type SpeakerConfig struct {
	Enabled bool
	// Command is the TTS program and arguments; text is written to its stdin.
	Command  []string
	MaxChars int
}

// Speaker speaks responses through an external TTS program
type Speaker struct {
	cfg SpeakerConfig
	log logger.Logger
}

// NewSpeaker creates a speaker
func NewSpeaker(cfg SpeakerConfig, log logger.Logger) *Speaker {
	if log == nil {
		log = logger.Discard()
	}
	return &Speaker{cfg: cfg, log: log.With("component", "speech")}
}

// SpeechText shortens non-priority text beyond maxChars runes. A
// non-positive maxChars disables shortening.
func SpeechText(text string, maxChars int, priority bool) string {
	if priority || maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + speechSuffix
}

// Deliver speaks resp.Text
func (s *Speaker) Deliver(ctx context.Context, resp core.Response) error {
	text := SpeechText(resp.Text, s.cfg.MaxChars, resp.Priority)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if !s.cfg.Enabled || len(s.cfg.Command) == 0 {
		s.log.Debug("speech disabled", "text", text)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, speechTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.cfg.Command[0], s.cfg.Command[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		s.log.Warn("text-to-speech failed", "err", err, "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("failed to speak: %w", err)
	}
	return nil
}

var _ core.Channel = (*Speaker)(nil)
