package transcript

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/scripts"
	"github.com/nijaru/yt-summary/validation"
)

const transcribeScript = "transcribe.py"

// speechResult is the JSON printed by transcribe.py.
type speechResult struct {
	Text      string `json:"text"`
	ModelName string `json:"model_name"`
	Language  string `json:"language,omitempty"`
	Error     string `json:"error,omitempty"`
	Segments  []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

// SpeechSource transcribes the audio track with a Whisper helper script.
// Media longer than maxDuration is refused before anything is downloaded.
type SpeechSource struct {
	runner      commandRunner
	ytdlp       string
	model       string
	maxDuration time.Duration
	logger      *logrus.Entry
}

func NewSpeechSource(runner commandRunner, ytdlpPath, model string, maxDuration time.Duration) *SpeechSource {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if model == "" {
		model = "tiny"
	}
	return &SpeechSource{
		runner:      runner,
		ytdlp:       ytdlpPath,
		model:       model,
		maxDuration: maxDuration,
		logger:      logrus.WithField("source", "speech"),
	}
}

func (s *SpeechSource) Name() string { return "speech" }

func (s *SpeechSource) Raw() bool { return false }

func (s *SpeechSource) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	if s.maxDuration > 0 {
		info, err := fetchVideoInfo(ctx, s.runner, s.ytdlp, videoID)
		if err != nil {
			return nil, err
		}
		length := time.Duration(info.Duration * float64(time.Second))
		if length > s.maxDuration {
			return nil, pkgerrors.Wrapf(ErrTooLong,
				"media is too long for speech-to-text (%s > %s)", length, s.maxDuration)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"video_id": videoID,
		"model":    s.model,
	}).Info("Starting speech-to-text")

	output, err := s.runner.RunScript(ctx, transcribeScript, map[string]string{
		"url":   validation.CanonicalURL(videoID),
		"model": s.model,
	}, nil)
	if err != nil {
		return nil, classifyToolError(err)
	}

	var result speechResult
	if err := scripts.Unmarshal(output, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, pkgerrors.New(result.Error)
	}

	if len(result.Segments) == 0 {
		if strings.TrimSpace(result.Text) == "" {
			return nil, pkgerrors.Wrapf(ErrNotFound, "no speech recognized in %s", videoID)
		}
		return []Fragment{{Text: strings.TrimSpace(result.Text)}}, nil
	}

	fragments := make([]Fragment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		fragments = append(fragments, Fragment{
			Text:     text,
			Start:    seg.Start,
			Duration: seg.End - seg.Start,
		})
	}
	if len(fragments) == 0 {
		return nil, pkgerrors.Wrapf(ErrNotFound, "no speech recognized in %s", videoID)
	}
	return fragments, nil
}
