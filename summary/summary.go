// Package summary condenses a transcript by summarizing fixed-size word
// chunks independently and joining the results.
package summary

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/metrics"
)

const (
	DefaultChunkWords = 500
	DefaultMinLength  = 50
	DefaultMaxLength  = 150

	// Placeholder stands in for a chunk whose summarization failed.
	Placeholder = "Error summarizing this part."
	// NoSummary is returned for blank input.
	NoSummary = "No summary available."

	separator = "\n\n"
)

// Bounds limits the length of a single chunk summary, in model tokens.
type Bounds struct {
	Min int
	Max int
}

// Summarizer condenses one chunk of text. Implementations must be
// deterministic for a given input.
type Summarizer interface {
	Summarize(ctx context.Context, text string, bounds Bounds) (string, error)
}

type Config struct {
	ChunkWords int
	MinLength  int
	MaxLength  int
}

type Service struct {
	summarizer Summarizer
	config     Config
	logger     *logrus.Entry
}

func NewService(summarizer Summarizer, cfg Config) *Service {
	if cfg.ChunkWords <= 0 {
		cfg.ChunkWords = DefaultChunkWords
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultMinLength
	}
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	return &Service{
		summarizer: summarizer,
		config:     cfg,
		logger:     logrus.WithField("component", "summary"),
	}
}

// Summarize never fails: a chunk that cannot be summarized contributes
// Placeholder, and blank text yields NoSummary without calling the
// summarizer.
func (s *Service) Summarize(ctx context.Context, text string) string {
	chunks := SplitWords(text, s.config.ChunkWords)
	if len(chunks) == 0 {
		return NoSummary
	}

	bounds := Bounds{Min: s.config.MinLength, Max: s.config.MaxLength}
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		logger := s.logger.WithFields(logrus.Fields{
			"chunk": i + 1,
			"total": len(chunks),
		})
		logger.Debug("Processing chunk")

		summary, err := s.summarizer.Summarize(ctx, chunk, bounds)
		if err != nil {
			logger.WithError(err).Warn("Failed to summarize chunk")
			metrics.ChunkSummariesTotal.WithLabelValues(metrics.ChunkStatusPlaceholder).Inc()
			summaries = append(summaries, Placeholder)
			continue
		}
		metrics.ChunkSummariesTotal.WithLabelValues(metrics.ChunkStatusSuccess).Inc()
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	return strings.Join(summaries, separator)
}

// SplitWords partitions text into consecutive chunks of at most maxWords
// whitespace-delimited words. Every word lands in exactly one chunk, in
// order. Blank text yields no chunks.
func SplitWords(text string, maxWords int) []string {
	if maxWords <= 0 {
		maxWords = DefaultChunkWords
	}
	words := strings.Fields(text)

	chunks := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
