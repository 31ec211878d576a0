package transcript

import (
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/scripts"
)

// NewSource builds the source named by cfg.TranscriptSource.
func NewSource(cfg *config.Config, runner *scripts.Runner) (Source, error) {
	switch strings.ToLower(cfg.TranscriptSource) {
	case "caption", "":
		return NewCaptionSource(runner, cfg.YTDLPPath, cfg.TranscriptLang, cfg.TempDir), nil
	case "api":
		return NewAPISource(cfg.TranscriptAPIURL, cfg.TranscriptLang, cfg.APIRateLimit, nil), nil
	case "speech":
		return NewSpeechSource(runner, cfg.YTDLPPath, cfg.ModelName, cfg.MaxMediaDuration), nil
	default:
		return nil, pkgerrors.Errorf("unknown transcript source %q", cfg.TranscriptSource)
	}
}
