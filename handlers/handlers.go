package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/pipeline"
	"github.com/nijaru/yt-summary/utils"
	"github.com/nijaru/yt-summary/validation"
)

// Pipeline is what the handlers need from pipeline.Pipeline.
type Pipeline interface {
	Transcript(ctx context.Context, url string) (string, error)
	Summarize(ctx context.Context, url string) (*pipeline.Result, error)
}

type Handlers struct {
	cfg         *config.Config
	pipeline    Pipeline
	rateLimiter *rate.Limiter
}

func New(cfg *config.Config, p Pipeline) *Handlers {
	return &Handlers{
		cfg:         cfg,
		pipeline:    p,
		rateLimiter: rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimit),
	}
}

// Routes returns the API mux wrapped in the standard middleware chain.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/transcribe", h.TranscribeHandler)
	mux.HandleFunc("/summarize", h.SummarizeHandler)
	mux.HandleFunc("/health", HealthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.LoggingMiddleware,
		middleware.Recovery,
	)
}

func (h *Handlers) TranscribeHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, url string) (any, error) {
		text, err := h.pipeline.Transcript(ctx, url)
		if err != nil {
			return nil, err
		}
		return map[string]string{"transcription": text}, nil
	})
}

// SummarizeHandler responds with the summary and the video's title, author
// and duration in seconds.
func (h *Handlers) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, url string) (any, error) {
		return h.pipeline.Summarize(ctx, url)
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, map[string]string{"status": "ok"})
}

func (h *Handlers) serve(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, url string) (any, error),
) {
	logger := middleware.GetLogger(r.Context())

	if r.Method != http.MethodPost {
		utils.HandleError(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	url := r.FormValue("url")
	logger = logger.WithField("url", url)

	if err := h.validateAndRateLimit(w, url); err != nil {
		logger.WithError(err).Warn("Request rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout())
	defer cancel()

	body, err := run(ctx, url)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			utils.HandleError(w, "Request timed out", http.StatusGatewayTimeout)
			logger.WithError(err).Error("Request timed out")
			return
		}
		handlePipelineError(w, logger, err)
		return
	}

	if err := sendJSONResponse(w, body); err != nil {
		logger.WithError(err).Error("Failed to send JSON response")
		return
	}
	logger.Info("Request successful")
}

func (h *Handlers) timeout() time.Duration {
	if h.cfg.TranscribeTimeout > 0 {
		return h.cfg.TranscribeTimeout
	}
	return 10 * time.Minute
}

func (h *Handlers) validateAndRateLimit(w http.ResponseWriter, url string) error {
	const op = "Handlers.validateAndRateLimit"

	if err := validation.ValidateURL(url); err != nil {
		utils.HandleError(w, err.Error(), http.StatusBadRequest)
		return errors.InvalidURL(op, err, "URL validation failed")
	}

	if !h.rateLimiter.Allow() {
		utils.HandleError(w, "Rate limit exceeded", http.StatusTooManyRequests)
		return errors.RateLimited(op, nil, "rate limit exceeded")
	}

	return nil
}

func handlePipelineError(w http.ResponseWriter, logger *logrus.Entry, err error) {
	kind := errors.KindOf(err)
	logger.WithError(err).WithField("kind", kind.String()).Error("Pipeline failed")
	utils.HandleError(w, errors.Message(err), errors.StatusCode(err))
}

func sendJSONResponse(w http.ResponseWriter, body any) error {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
		return err
	}
	return nil
}
