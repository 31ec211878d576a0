package utils

import (
	"encoding/json"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	vttHeader    = regexp.MustCompile(`\A\x{FEFF}?WEBVTT[^\n]*(?:\n[^\n]*\S[^\n]*)*`)
	cueTiming    = regexp.MustCompile(`(?:\d{2}:)?\d{2}:\d{2}\.\d{3} --> (?:\d{2}:)?\d{2}:\d{2}\.\d{3}[^\n]*`)
	inlineMarkup = regexp.MustCompile(`<(?:\d{2}:)?\d{2}:\d{2}\.\d{3}>|</?c(?:\.[\w.]+)?>`)
)

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// NormalizeCaptions turns a raw WebVTT payload into plain text. Steps run
// in order: header block, cue timings, inline word timings and <c> tags,
// then stable de-duplication of trimmed lines. Rolling auto-captions repeat
// each line several times, so a line seen once is dropped wherever it
// reappears.
func NormalizeCaptions(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = vttHeader.ReplaceAllString(text, "")
	text = cueTiming.ReplaceAllString(text, "")
	text = inlineMarkup.ReplaceAllString(text, "")

	seen := make(map[string]struct{})
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		kept = append(kept, line)
	}

	return strings.Join(kept, " ")
}

// WriteSummary overwrites path with the summary text.
func WriteSummary(path, summary string) error {
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return errors.Wrapf(err, "failed to write summary to %s", path)
	}
	return nil
}
