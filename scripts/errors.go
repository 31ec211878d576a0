package scripts

import (
	"fmt"
	"strings"
)

// Failure is what a helper's diagnostics say went wrong upstream.
type Failure int

const (
	FailureUnknown Failure = iota
	FailureRateLimited
	FailureUnavailable
	FailureDisabled
)

func (f Failure) String() string {
	switch f {
	case FailureRateLimited:
		return "rate_limited"
	case FailureUnavailable:
		return "unavailable"
	case FailureDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// stderrMarkers maps yt-dlp and helper-script diagnostics to failures.
// Order matters: the first matching marker wins.
var stderrMarkers = []struct {
	marker  string
	failure Failure
}{
	{"HTTP Error 429", FailureRateLimited},
	{"Too Many Requests", FailureRateLimited},
	{"Video unavailable", FailureUnavailable},
	{"Private video", FailureUnavailable},
	{"HTTP Error 404", FailureUnavailable},
	{"Subtitles are disabled", FailureDisabled},
	{"Transcripts are disabled", FailureDisabled},
}

// ScriptError reports a failed helper invocation together with the
// stderr it produced.
type ScriptError struct {
	Op      string
	Err     error
	Message string
	Stderr  string
}

func (e *ScriptError) Error() string {
	if diag := e.Diagnostic(); diag != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Message, diag)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Failure classifies the captured stderr.
func (e *ScriptError) Failure() Failure {
	for _, m := range stderrMarkers {
		if strings.Contains(e.Stderr, m.marker) {
			return m.failure
		}
	}
	return FailureUnknown
}

// Diagnostic returns the first ERROR line of stderr, or its first line
// when no line is tagged.
func (e *ScriptError) Diagnostic() string {
	lines := strings.Split(strings.TrimSpace(e.Stderr), "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "ERROR:") {
			return strings.TrimSpace(line)
		}
	}
	return strings.TrimSpace(lines[0])
}
