// Package pipeline runs URL → transcript → summary, coalescing concurrent
// requests for the same video.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/transcript"
	"github.com/nijaru/yt-summary/utils"
	"github.com/nijaru/yt-summary/validation"
)

const defaultAcquireTimeout = 10 * time.Minute

type Transcriber interface {
	Acquire(ctx context.Context, url string) (string, error)
	Raw() bool
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Describer looks up display metadata for a video.
type Describer interface {
	Describe(ctx context.Context, videoID string) (*transcript.Video, error)
}

// Result is a summary together with the video it describes.
type Result struct {
	transcript.Video
	Summary string `json:"summary"`
}

type Pipeline struct {
	// AcquireTimeout bounds a shared acquisition. It is owned by the
	// pipeline rather than any one caller, so a caller that gives up does
	// not abort the work for the others waiting on it.
	AcquireTimeout time.Duration

	transcripts Transcriber
	summaries   Summarizer
	videos      Describer
	sfGroup     singleflight.Group
	logger      *logrus.Entry
}

// New wires the pipeline. videos may be nil, in which case summaries carry
// placeholder metadata.
func New(transcripts Transcriber, summaries Summarizer, videos Describer) *Pipeline {
	return &Pipeline{
		AcquireTimeout: defaultAcquireTimeout,
		transcripts:    transcripts,
		summaries:      summaries,
		videos:         videos,
		logger:         logrus.WithField("component", "pipeline"),
	}
}

// Transcript returns the plain-text transcript for url. Caption payloads are
// normalized here, after caching, so the cache holds what the source gave.
func (p *Pipeline) Transcript(ctx context.Context, url string) (string, error) {
	const op = "Pipeline.Transcript"

	key := strings.TrimSpace(url)
	if id, ok := validation.ResolveVideoID(url); ok {
		key = id
	}

	ch := p.sfGroup.DoChan(key, func() (any, error) {
		actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.acquireTimeout())
		defer cancel()
		return p.transcripts.Acquire(actx, url)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", errors.Unknown(op, ctx.Err(), "request cancelled")
	case res = <-ch:
	}

	if res.Shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}
	if res.Err != nil {
		return "", res.Err
	}

	text := res.Val.(string)
	if p.transcripts.Raw() {
		text = utils.NormalizeCaptions(text)
	}
	return text, nil
}

// Summarize acquires the transcript and condenses it. The summarizer only
// runs after a successful acquisition.
func (p *Pipeline) Summarize(ctx context.Context, url string) (*Result, error) {
	text, err := p.Transcript(ctx, url)
	if err != nil {
		return nil, err
	}

	id, _ := validation.ResolveVideoID(url)
	logger := p.logger.WithFields(logrus.Fields{
		"video_id": id,
		"words":    len(strings.Fields(text)),
	})

	video := p.describe(ctx, logger, id)

	logger.Info("Summarizing transcript")
	summary := p.summaries.Summarize(ctx, text)
	logger.Info("Summary complete")

	return &Result{Video: video, Summary: summary}, nil
}

// describe never fails the request; missing metadata falls back to a
// placeholder.
func (p *Pipeline) describe(ctx context.Context, logger *logrus.Entry, id string) transcript.Video {
	if p.videos == nil {
		return transcript.UnknownVideo(id)
	}
	v, err := p.videos.Describe(ctx, id)
	if err != nil {
		logger.WithError(err).Warn("Metadata lookup failed")
		return transcript.UnknownVideo(id)
	}
	return *v
}

func (p *Pipeline) acquireTimeout() time.Duration {
	if p.AcquireTimeout > 0 {
		return p.AcquireTimeout
	}
	return defaultAcquireTimeout
}
