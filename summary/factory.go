package summary

import (
	"context"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/scripts"
)

// NewSummarizer builds the capability named by cfg.SummaryBackend.
func NewSummarizer(ctx context.Context, cfg *config.Config, runner *scripts.Runner) (Summarizer, error) {
	switch strings.ToLower(cfg.SummaryBackend) {
	case "script", "":
		return NewScriptSummarizer(runner, cfg.SummaryModel), nil
	case "gemini":
		g, err := NewGeminiSummarizer(ctx, cfg.GeminiAPIKey, cfg.SummaryModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, pkgerrors.Errorf("unknown summary backend %q", cfg.SummaryBackend)
	}
}
