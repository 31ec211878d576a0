package summary

import (
	"context"
	"errors"
	"testing"
)

type mockRunner struct {
	script string
	args   map[string]string
	flags  []string
	output []byte
	err    error
}

func (m *mockRunner) RunScript(ctx context.Context, script string, args map[string]string, flags []string) ([]byte, error) {
	m.script, m.args, m.flags = script, args, flags
	return m.output, m.err
}

func TestScriptSummarizer(t *testing.T) {
	runner := &mockRunner{output: []byte(`{"summary":"short","model_name":"facebook/bart-large-cnn"}`)}
	s := NewScriptSummarizer(runner, "")

	got, err := s.Summarize(context.Background(), "long text", Bounds{Min: 50, Max: 150})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "short" {
		t.Errorf("expected 'short', got '%s'", got)
	}

	if runner.script != "summarize.py" {
		t.Errorf("expected summarize.py, got %s", runner.script)
	}
	want := map[string]string{
		"text":       "long text",
		"model":      DefaultModel,
		"min_length": "50",
		"max_length": "150",
	}
	for k, v := range want {
		if runner.args[k] != v {
			t.Errorf("arg %s: expected %q, got %q", k, v, runner.args[k])
		}
	}
	if len(runner.flags) != 1 || runner.flags[0] != "no_sample" {
		t.Errorf("expected no_sample flag, got %v", runner.flags)
	}
}

func TestScriptSummarizerErrors(t *testing.T) {
	tests := []struct {
		name   string
		runner *mockRunner
	}{
		{"runner failure", &mockRunner{err: errors.New("exit status 1")}},
		{"reported error", &mockRunner{output: []byte(`{"error":"CUDA out of memory"}`)}},
		{"empty summary", &mockRunner{output: []byte(`{"summary":""}`)}},
		{"malformed output", &mockRunner{output: []byte(`not json`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScriptSummarizer(tt.runner, "t5-small")
			if _, err := s.Summarize(context.Background(), "text", Bounds{Min: 1, Max: 2}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
