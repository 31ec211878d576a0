package cmd

import (
	"context"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/cache"
	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/pipeline"
	"github.com/nijaru/yt-summary/scripts"
	"github.com/nijaru/yt-summary/summary"
	"github.com/nijaru/yt-summary/transcript"
)

// app holds the wired components shared by every command.
type app struct {
	store    cache.Store
	pipeline *pipeline.Pipeline
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	runner := scripts.NewRunner(scripts.Config{
		PythonRunner: cfg.PythonRunner,
		ScriptsPath:  cfg.ScriptsPath,
		Timeout:      cfg.TranscribeTimeout,
	})

	source, err := transcript.NewSource(cfg, runner)
	if err != nil {
		store.Close()
		return nil, err
	}

	summarizer, err := summary.NewSummarizer(ctx, cfg, runner)
	if err != nil {
		store.Close()
		return nil, err
	}

	transcripts := transcript.NewService(source, store, cfg.MaxRetries)
	summaries := summary.NewService(summarizer, summary.Config{
		ChunkWords: cfg.ChunkWords,
		MinLength:  cfg.SummaryMinLength,
		MaxLength:  cfg.SummaryMaxLength,
	})

	logrus.WithFields(logrus.Fields{
		"cache":   cfg.CacheBackend,
		"source":  source.Name(),
		"summary": cfg.SummaryBackend,
	}).Debug("Components initialized")

	p := pipeline.New(transcripts, summaries, transcript.NewMetadataSource(runner, cfg.YTDLPPath))
	p.AcquireTimeout = cfg.TranscribeTimeout

	return &app{
		store:    store,
		pipeline: p,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	opts := cache.Options{TTL: cfg.CacheTTL}

	switch strings.ToLower(cfg.CacheBackend) {
	case "sqlite", "":
		return cache.NewSQLiteStore(cfg.DBPath, opts)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, pkgerrors.Wrapf(err, "failed to connect to redis at %s", cfg.RedisAddr)
		}
		return cache.NewRedisStore(client, opts), nil
	case "spaces":
		return cache.NewSpacesStore(ctx, cache.SpacesConfig(cfg.Spaces), opts)
	default:
		return nil, pkgerrors.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
