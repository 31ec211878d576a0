package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// APISource reads transcripts from a third-party transcript service that
// serves GET {base}/transcripts/{id}?lang= as a JSON array of fragments.
type APISource struct {
	baseURL string
	lang    string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Entry
}

// NewAPISource creates a source that issues at most ratePerSecond requests
// per second. A non-positive rate disables client-side limiting.
func NewAPISource(baseURL, lang string, ratePerSecond int, client *http.Client) *APISource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &APISource{
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logrus.WithField("source", "api"),
	}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Raw() bool { return false }

func (s *APISource) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, pkgerrors.Wrap(err, "rate limiter wait")
	}

	endpoint := fmt.Sprintf("%s/transcripts/%s", s.baseURL, url.PathEscape(videoID))
	if s.lang != "" {
		endpoint += "?" + url.Values{"lang": {s.lang}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build transcript request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "transcript request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, pkgerrors.Wrapf(ErrRateLimited, "transcript API returned %d", resp.StatusCode)
	case http.StatusForbidden:
		return nil, pkgerrors.Wrapf(ErrDisabled, "transcript API returned %d", resp.StatusCode)
	case http.StatusNotFound:
		return nil, pkgerrors.Wrapf(ErrNotFound, "transcript API returned %d", resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		s.logger.WithFields(logrus.Fields{
			"video_id": videoID,
			"status":   resp.StatusCode,
			"body":     string(body),
		}).Warn("Unexpected transcript API response")
		return nil, pkgerrors.Errorf("transcript API returned %d", resp.StatusCode)
	}

	var fragments []Fragment
	if err := json.NewDecoder(resp.Body).Decode(&fragments); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to decode transcript response")
	}
	if len(fragments) == 0 {
		return nil, pkgerrors.Wrapf(ErrNotFound, "empty transcript for %s", videoID)
	}
	return fragments, nil
}
