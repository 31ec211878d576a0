package scripts

import (
	"errors"
	"strings"
	"testing"
)

func TestScriptErrorFailure(t *testing.T) {
	tests := []struct {
		stderr string
		want   Failure
	}{
		{"ERROR: [youtube] abc: Unable to download webpage: HTTP Error 429: Too Many Requests", FailureRateLimited},
		{"WARNING: retrying\nERROR: [youtube] abc: Video unavailable", FailureUnavailable},
		{"ERROR: [youtube] abc: Private video. Sign in if you've been granted access", FailureUnavailable},
		{"ERROR: Subtitles are disabled for this video", FailureDisabled},
		{"Traceback (most recent call last):\nRuntimeError: CUDA out of memory", FailureUnknown},
		{"", FailureUnknown},
	}

	for _, tt := range tests {
		e := &ScriptError{Op: "Runner.Exec", Message: "command execution failed", Stderr: tt.stderr}
		if got := e.Failure(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.stderr, tt.want, got)
		}
	}
}

func TestScriptErrorDiagnostic(t *testing.T) {
	e := &ScriptError{
		Op:      "Runner.Exec",
		Err:     errors.New("exit status 1"),
		Message: "command execution failed",
		Stderr:  "WARNING: falling back\nERROR: [youtube] abc: Video unavailable\n",
	}

	if got := e.Diagnostic(); got != "ERROR: [youtube] abc: Video unavailable" {
		t.Errorf("unexpected diagnostic %q", got)
	}
	if !strings.Contains(e.Error(), "Video unavailable") {
		t.Errorf("expected diagnostic in error text, got %q", e.Error())
	}

	plain := &ScriptError{Op: "Runner.RunScript", Err: errors.New("bad json"), Message: "x.py returned invalid output"}
	if got := plain.Error(); got != "Runner.RunScript: x.py returned invalid output (bad json)" {
		t.Errorf("unexpected error text %q", got)
	}
	if !errors.Is(plain, plain.Err) {
		t.Error("expected ScriptError to unwrap to its cause")
	}
}
