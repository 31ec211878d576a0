// Package transcript fetches transcripts for a video identifier from one of
// several interchangeable sources and caches the result.
package transcript

import (
	"context"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Sentinel conditions a Source reports. Sources wrap them so the service
// can classify a failure without knowing which source produced it.
var (
	ErrRateLimited = pkgerrors.New("rate limited by upstream")
	ErrDisabled    = pkgerrors.New("transcripts are disabled for this video")
	ErrNotFound    = pkgerrors.New("no transcript found")
	ErrTooLong     = pkgerrors.New("media is too long")
)

// Fragment is one piece of transcript text. Start and Duration are in
// seconds and are zero when the source does not provide timings.
type Fragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Source is a transcript provider.
type Source interface {
	Name() string
	// Raw reports whether fetched text still carries caption markup and
	// needs utils.NormalizeCaptions before use.
	Raw() bool
	Fetch(ctx context.Context, videoID string) ([]Fragment, error)
}

// JoinFragments concatenates fragment texts with single spaces, preserving
// source order.
func JoinFragments(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " ")
}
