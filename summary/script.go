package summary

import (
	"context"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-summary/scripts"
)

const (
	summarizeScript = "summarize.py"
	DefaultModel    = "facebook/bart-large-cnn"
)

type scriptRunner interface {
	RunScript(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error)
}

type scriptResult struct {
	Summary string `json:"summary"`
	Model   string `json:"model_name"`
	Error   string `json:"error,omitempty"`
}

// ScriptSummarizer runs summarize.py with sampling disabled.
type ScriptSummarizer struct {
	runner scriptRunner
	model  string
}

func NewScriptSummarizer(runner scriptRunner, model string) *ScriptSummarizer {
	if model == "" {
		model = DefaultModel
	}
	return &ScriptSummarizer{runner: runner, model: model}
}

func (s *ScriptSummarizer) Summarize(ctx context.Context, text string, bounds Bounds) (string, error) {
	output, err := s.runner.RunScript(ctx, summarizeScript, map[string]string{
		"text":       text,
		"model":      s.model,
		"min_length": strconv.Itoa(bounds.Min),
		"max_length": strconv.Itoa(bounds.Max),
	}, []string{"no_sample"})
	if err != nil {
		return "", pkgerrors.Wrap(err, "summarization failed")
	}

	var result scriptResult
	if err := scripts.Unmarshal(output, &result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", pkgerrors.Errorf("summarization failed: %s", result.Error)
	}
	if result.Summary == "" {
		return "", pkgerrors.New("summarization returned empty text")
	}
	return result.Summary, nil
}
