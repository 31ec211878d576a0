package transcript

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-summary/scripts"
	"github.com/nijaru/yt-summary/validation"
)

// commandRunner is the subset of scripts.Runner the sources need.
type commandRunner interface {
	Exec(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	RunScript(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error)
}

type subtitleTrack struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// videoInfo is the part of yt-dlp's --dump-single-json output we read.
type videoInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Uploader          string                     `json:"uploader"`
	Channel           string                     `json:"channel"`
	Duration          float64                    `json:"duration"`
	Subtitles         map[string][]subtitleTrack `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleTrack `json:"automatic_captions"`
}

func fetchVideoInfo(ctx context.Context, runner commandRunner, ytdlp, videoID string) (*videoInfo, error) {
	out, err := runner.Exec(ctx, "", ytdlp,
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		validation.CanonicalURL(videoID),
	)
	if err != nil {
		return nil, classifyToolError(err)
	}

	var info videoInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to parse video metadata")
	}
	return &info, nil
}

// classifyToolError maps yt-dlp diagnostics on stderr to source sentinels.
func classifyToolError(err error) error {
	var scriptErr *scripts.ScriptError
	if !pkgerrors.As(err, &scriptErr) {
		return err
	}

	diag := scriptErr.Diagnostic()
	switch scriptErr.Failure() {
	case scripts.FailureRateLimited:
		return pkgerrors.Wrap(ErrRateLimited, diag)
	case scripts.FailureUnavailable:
		return pkgerrors.Wrap(ErrNotFound, diag)
	case scripts.FailureDisabled:
		return pkgerrors.Wrap(ErrDisabled, diag)
	}
	return err
}
