package transcript

import (
	"context"
	"testing"

	pkgerrors "github.com/pkg/errors"

	"github.com/nijaru/yt-summary/scripts"
)

func TestMetadataSourceDescribe(t *testing.T) {
	tests := []struct {
		name string
		info string
		want Video
	}{
		{
			name: "uploader",
			info: `{"id":"dQw4w9WgXcQ","title":"Never Gonna Give You Up","uploader":"Rick Astley","channel":"RickAstleyVEVO","duration":212.4}`,
			want: Video{ID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up", Author: "Rick Astley", Duration: 212},
		},
		{
			name: "channel fallback",
			info: `{"id":"dQw4w9WgXcQ","title":"Talk","channel":"Conf","duration":59.6}`,
			want: Video{ID: "dQw4w9WgXcQ", Title: "Talk", Author: "Conf", Duration: 60},
		},
		{
			name: "no author",
			info: `{"title":"Clip"}`,
			want: Video{ID: "dQw4w9WgXcQ", Title: "Clip", Author: "Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{ExecFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
				if !hasArg(args, "--dump-single-json") {
					t.Errorf("unexpected args %v", args)
				}
				return []byte(tt.info), nil
			}}

			got, err := NewMetadataSource(runner, "").Describe(context.Background(), "dQw4w9WgXcQ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if *got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, *got)
			}
		})
	}
}

func TestMetadataSourceUnavailable(t *testing.T) {
	runner := &fakeRunner{ExecFunc: func(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
		return nil, &scripts.ScriptError{Op: "Runner.Exec", Message: "command execution failed", Stderr: "ERROR: [youtube] dQw4w9WgXcQ: Video unavailable"}
	}}

	_, err := NewMetadataSource(runner, "").Describe(context.Background(), "dQw4w9WgXcQ")
	if !pkgerrors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
