package errors

import (
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
)

func TestErrorString(t *testing.T) {
	err := NotFound("Test.Op", nil, "no transcript")
	if err.Error() != "no transcript" {
		t.Errorf("expected 'no transcript', got '%s'", err.Error())
	}

	err = Unknown("Test.Op", fmt.Errorf("boom"), "fetch failed")
	if err.Error() != "fetch failed: boom" {
		t.Errorf("expected 'fetch failed: boom', got '%s'", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"invalid url", InvalidURL("op", nil, "bad"), KindInvalidURL},
		{"rate limited", RateLimited("op", nil, "slow down"), KindRateLimited},
		{"wrapped disabled", pkgerrors.Wrap(Disabled("op", nil, "off"), "outer"), KindDisabled},
		{"fmt wrapped not found", fmt.Errorf("outer: %w", NotFound("op", nil, "missing")), KindNotFound},
		{"plain error", fmt.Errorf("plain"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err      *AppError
		expected int
	}{
		{InvalidURL("op", nil, ""), http.StatusBadRequest},
		{RateLimited("op", nil, ""), http.StatusTooManyRequests},
		{Disabled("op", nil, ""), http.StatusForbidden},
		{NotFound("op", nil, ""), http.StatusNotFound},
		{Unknown("op", nil, ""), http.StatusBadGateway},
		{Internal("op", nil, ""), http.StatusInternalServerError},
		{TooLong("op", nil, ""), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		if tt.err.Code != tt.expected {
			t.Errorf("%s: expected code %d, got %d", tt.err.Kind, tt.expected, tt.err.Code)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NotFound("op", nil, "missing")) {
		t.Error("expected NotFound error to be reported as not found")
	}
	if IsNotFound(nil) {
		t.Error("nil error must not be reported as not found")
	}
	if IsNotFound(fmt.Errorf("standard error")) {
		t.Error("standard error must not be reported as not found")
	}
}

func TestMessage(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NotFound("op", fmt.Errorf("404"), "no transcript"))
	if got := Message(wrapped); got != "no transcript" {
		t.Errorf("expected client message, got %q", got)
	}
	if got := Message(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("expected plain error text, got %q", got)
	}
}

func TestStatusCodeFromChain(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"too long keeps not-found kind", fmt.Errorf("outer: %w", TooLong("op", nil, "too long")), http.StatusUnprocessableEntity},
		{"kind default", pkgerrors.Wrap(Disabled("op", nil, "off"), "outer"), http.StatusForbidden},
		{"zero code", &AppError{Kind: KindRateLimited, Message: "slow down"}, http.StatusTooManyRequests},
		{"plain error", fmt.Errorf("plain"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.expected {
				t.Errorf("StatusCode() = %d, want %d", got, tt.expected)
			}
		})
	}

	if !IsNotFound(TooLong("op", nil, "too long")) {
		t.Error("expected too-long media to keep the not-found kind")
	}
}
