package validation

import (
	"fmt"
	"net/url"
	"strings"
)

const shortLinkHost = "youtu.be"

var canonicalHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateURL performs syntactic checks only; it never touches the network.
func ValidateURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return &ValidationError{Message: "error: URL is required"}
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return &ValidationError{Message: "error: invalid URL format"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Message: "error: URL must start with http or https"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Message: "error: URL must have a host"}
	}

	return nil
}

// ResolveVideoID extracts the video identifier from a short link
// (youtu.be/<id>) or a canonical watch URL (youtube.com/watch?v=<id>).
// Any other host yields false.
func ResolveVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	switch {
	case host == shortLinkHost:
		segment := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)[0]
		if segment == "" {
			return "", false
		}
		return segment, true
	case canonicalHosts[host]:
		id := u.Query().Get("v")
		if id == "" {
			return "", false
		}
		return id, true
	default:
		return "", false
	}
}

// CanonicalURL rebuilds the watch URL for an identifier so external tools
// always receive the same form regardless of what the caller supplied.
func CanonicalURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", url.QueryEscape(id))
}
