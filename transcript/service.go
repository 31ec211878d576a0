package transcript

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/cache"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/metrics"
	"github.com/nijaru/yt-summary/validation"
)

const DefaultMaxRetries = 3

// Service resolves a video URL, serves cached transcripts, and otherwise
// fetches from its Source with exponential backoff. Every error it returns
// is an *errors.AppError.
type Service struct {
	Source     Source
	Cache      cache.Store
	MaxRetries int

	// Sleep waits between attempts. Tests replace it to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error

	logger *logrus.Entry
}

// NewService wires a source and an optional cache. A nil store disables
// caching.
func NewService(source Source, store cache.Store, maxRetries int) *Service {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	return &Service{
		Source:     source,
		Cache:      store,
		MaxRetries: maxRetries,
		Sleep:      sleepContext,
		logger:     logrus.WithField("component", "transcript"),
	}
}

// Raw reports whether acquired text needs caption normalization.
func (s *Service) Raw() bool {
	return s.Source.Raw()
}

// Acquire returns the transcript for the video at url.
func (s *Service) Acquire(ctx context.Context, url string) (string, error) {
	const op = "Service.Acquire"
	start := time.Now()
	defer func() {
		metrics.AcquisitionDuration.Observe(time.Since(start).Seconds())
	}()

	id, ok := validation.ResolveVideoID(url)
	if !ok {
		metrics.AcquisitionsTotal.WithLabelValues(errors.KindInvalidURL.String(), metrics.OriginNone).Inc()
		return "", errors.InvalidURL(op, nil, fmt.Sprintf("could not extract a video ID from %q", url))
	}

	logger := s.logger.WithFields(logrus.Fields{
		"video_id": id,
		"source":   s.Source.Name(),
	})

	if text, ok := s.lookup(ctx, logger, id); ok {
		logger.Info("Transcript found in cache")
		metrics.AcquisitionsTotal.WithLabelValues("success", metrics.OriginCache).Inc()
		return text, nil
	}

	text, err := s.fetchWithRetry(ctx, logger, id)
	if err != nil {
		metrics.AcquisitionsTotal.WithLabelValues(errors.KindOf(err).String(), metrics.OriginSource).Inc()
		return "", err
	}

	s.store(ctx, logger, id, text)
	metrics.AcquisitionsTotal.WithLabelValues("success", metrics.OriginSource).Inc()
	return text, nil
}

func (s *Service) lookup(ctx context.Context, logger *logrus.Entry, id string) (string, bool) {
	if s.Cache == nil {
		return "", false
	}

	text, ok, err := s.Cache.Get(ctx, id)
	if err != nil {
		logger.WithError(err).Warn("Cache lookup failed, fetching from source")
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return "", false
	}
	if !ok {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		return "", false
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return text, true
}

// store writes text to the cache. A failed write only loses the cache
// entry, so it is logged and not returned.
func (s *Service) store(ctx context.Context, logger *logrus.Entry, id, text string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Put(ctx, id, text); err != nil {
		logger.WithError(err).Warn("Failed to cache transcript")
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpPut, metrics.CacheStatusError).Inc()
		return
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpPut, metrics.CacheStatusSuccess).Inc()
}

// fetchWithRetry calls the source up to MaxRetries times. After failed
// attempt n (1-based) it waits 2^n seconds, except after the last one.
// Disabled, not-found and too-long answers are final.
func (s *Service) fetchWithRetry(ctx context.Context, logger *logrus.Entry, id string) (string, error) {
	const op = "Service.fetchWithRetry"

	maxRetries := s.MaxRetries
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		fragments, err := s.fetch(ctx, id)
		if err == nil {
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), "success").Inc()
			return JoinFragments(fragments), nil
		}
		lastErr = err

		switch {
		case pkgerrors.Is(err, ErrDisabled):
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), errors.KindDisabled.String()).Inc()
			return "", errors.Disabled(op, err, "transcripts are disabled for this video")
		case pkgerrors.Is(err, ErrTooLong):
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), errors.KindNotFound.String()).Inc()
			return "", errors.TooLong(op, err, "media is too long for speech-to-text")
		case pkgerrors.Is(err, ErrNotFound):
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), errors.KindNotFound.String()).Inc()
			return "", errors.NotFound(op, err, "no transcript found for this video")
		case pkgerrors.Is(err, ErrRateLimited):
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), errors.KindRateLimited.String()).Inc()
		default:
			metrics.SourceAttemptsTotal.WithLabelValues(s.Source.Name(), errors.KindUnknown.String()).Inc()
		}

		logger.WithFields(logrus.Fields{
			"attempt":    attempt,
			"maxRetries": maxRetries,
			"error":      err,
		}).Warn("Transcript fetch failed")

		if ctx.Err() != nil {
			break
		}
		if attempt == maxRetries {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if err := sleep(ctx, backoff); err != nil {
			logger.WithError(err).Error("Context cancelled during backoff")
			lastErr = err
			break
		}
	}

	logger.WithError(lastErr).WithField("maxRetries", maxRetries).Error("Transcript fetch failed after retries")

	if pkgerrors.Is(lastErr, ErrRateLimited) {
		return "", errors.RateLimited(op, lastErr,
			fmt.Sprintf("rate limited after %d attempts", maxRetries))
	}
	return "", errors.Unknown(op, lastErr, lastErr.Error())
}

// fetch calls the source, turning a panic into an error.
func (s *Service) fetch(ctx context.Context, id string) (fragments []Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Transcript source panicked")
			err = pkgerrors.Errorf("source %s panicked: %v", s.Source.Name(), r)
		}
	}()
	return s.Source.Fetch(ctx, id)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
