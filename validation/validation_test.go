package validation

import (
	"testing"
)

func TestValidateURL_EdgeCases(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://example.com/path?query=1", false},
		{"https://example.com/path#fragment", false},
		{"  https://youtu.be/abc  ", false},
		{"", true},
		{"http://", true},
		{"ftp://example.com/file", true},
		{"not a url", true},
	}

	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestResolveVideoID_SameVideoAllForms(t *testing.T) {
	const want = "dQw4w9WgXcQ"
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"http://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"https://WWW.YOUTUBE.COM/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=tracking",
		"https://youtu.be/dQw4w9WgXcQ/extra",
		"  https://youtu.be/dQw4w9WgXcQ\n",
	}

	for _, u := range urls {
		got, ok := ResolveVideoID(u)
		if !ok {
			t.Errorf("ResolveVideoID(%q) returned no identifier", u)
			continue
		}
		if got != want {
			t.Errorf("ResolveVideoID(%q) = %q, want %q", u, got, want)
		}
	}
}

func TestResolveVideoID_Rejects(t *testing.T) {
	urls := []string{
		"https://vimeo.com/12345",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://notyoutube.com/watch?v=abc",
		"https://youtu.be/",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=",
		"://broken",
		"",
	}

	for _, u := range urls {
		if id, ok := ResolveVideoID(u); ok {
			t.Errorf("ResolveVideoID(%q) = %q, expected no identifier", u, id)
		}
	}
}

func TestCanonicalURL(t *testing.T) {
	got := CanonicalURL("dQw4w9WgXcQ")
	if id, ok := ResolveVideoID(got); !ok || id != "dQw4w9WgXcQ" {
		t.Errorf("CanonicalURL round trip failed: %q -> %q, %v", got, id, ok)
	}
}
