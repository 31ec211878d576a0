package transcript

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
)

func TestSpeechSourceFetch(t *testing.T) {
	var gotArgs map[string]string
	runner := &fakeRunner{
		ExecFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			return []byte(`{"id":"abc","duration":120}`), nil
		},
		RunScriptFunc: func(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error) {
			if script != "transcribe.py" {
				t.Errorf("expected transcribe.py, got %s", script)
			}
			gotArgs = args
			return []byte(`{"text":"one two","model_name":"tiny","segments":[{"text":" one ","start":0,"end":1},{"text":"","start":1,"end":1.5},{"text":"two","start":1.5,"end":3}]}`), nil
		},
	}
	src := NewSpeechSource(runner, "", "", 10*time.Minute)

	fragments, err := src.Fetch(context.Background(), "abc")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotArgs["model"] != "tiny" {
		t.Errorf("expected default model tiny, got %q", gotArgs["model"])
	}
	if gotArgs["url"] != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("unexpected url %q", gotArgs["url"])
	}
	if len(fragments) != 2 {
		t.Fatalf("expected 2 non-empty fragments, got %+v", fragments)
	}
	if fragments[0].Text != "one" || fragments[1].Duration != 1.5 {
		t.Errorf("unexpected fragments %+v", fragments)
	}
}

func TestSpeechSourceRejectsLongMedia(t *testing.T) {
	runner := &fakeRunner{
		ExecFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
			return []byte(`{"id":"abc","duration":601}`), nil
		},
		RunScriptFunc: func(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error) {
			t.Fatal("transcription must not start for long media")
			return nil, nil
		},
	}
	src := NewSpeechSource(runner, "", "base", 10*time.Minute)

	if _, err := src.Fetch(context.Background(), "abc"); !pkgerrors.Is(err, ErrTooLong) {
		t.Errorf("expected ErrTooLong, got %v", err)
	}
}

func TestSpeechSourceScriptError(t *testing.T) {
	runner := &fakeRunner{
		RunScriptFunc: func(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error) {
			return []byte(`{"error":"model failed to load"}`), nil
		},
	}
	src := NewSpeechSource(runner, "", "tiny", 0)

	_, err := src.Fetch(context.Background(), "abc")
	if err == nil || err.Error() != "model failed to load" {
		t.Errorf("expected script error, got %v", err)
	}
}
