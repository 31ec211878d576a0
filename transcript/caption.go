package transcript

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/validation"
)

// CaptionSource downloads published captions with yt-dlp. Manually authored
// tracks win over automatic ones; within a kind the preferred language wins,
// otherwise the first language listed.
type CaptionSource struct {
	runner   commandRunner
	ytdlp    string
	lang     string
	tempDir  string
	readFile func(name string) ([]byte, error)
	logger   *logrus.Entry
}

func NewCaptionSource(runner commandRunner, ytdlpPath, lang, tempDir string) *CaptionSource {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if lang == "" {
		lang = "en"
	}
	return &CaptionSource{
		runner:   runner,
		ytdlp:    ytdlpPath,
		lang:     lang,
		tempDir:  tempDir,
		readFile: os.ReadFile,
		logger:   logrus.WithField("source", "caption"),
	}
}

func (s *CaptionSource) Name() string { return "caption" }

func (s *CaptionSource) Raw() bool { return true }

func (s *CaptionSource) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	info, err := fetchVideoInfo(ctx, s.runner, s.ytdlp, videoID)
	if err != nil {
		return nil, err
	}

	lang, auto, ok := selectTrack(info, s.lang)
	if !ok {
		return nil, pkgerrors.Wrapf(ErrNotFound, "video %s has no captions", videoID)
	}

	dir, err := os.MkdirTemp(s.tempDir, "captions-")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to create caption directory")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			s.logger.WithError(err).WithField("dir", dir).Warn("Failed to remove caption directory")
		}
	}()

	writeFlag := "--write-subs"
	if auto {
		writeFlag = "--write-auto-subs"
	}

	s.logger.WithFields(logrus.Fields{
		"video_id":  videoID,
		"lang":      lang,
		"automatic": auto,
	}).Debug("Downloading captions")

	_, err = s.runner.Exec(ctx, dir, s.ytdlp,
		"--skip-download",
		writeFlag,
		"--sub-langs", lang,
		"--sub-format", "vtt",
		"--no-warnings",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		validation.CanonicalURL(videoID),
	)
	if err != nil {
		return nil, classifyToolError(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to locate caption file")
	}
	if len(matches) == 0 {
		return nil, pkgerrors.Wrapf(ErrNotFound, "no caption file written for %s", videoID)
	}

	data, err := s.readFile(matches[0])
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read caption file")
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, pkgerrors.Wrapf(ErrNotFound, "empty caption file for %s", videoID)
	}

	return []Fragment{{Text: string(data), Duration: info.Duration}}, nil
}

func selectTrack(info *videoInfo, preferred string) (lang string, auto bool, ok bool) {
	if lang, ok := pickLanguage(info.Subtitles, preferred); ok {
		return lang, false, true
	}
	if lang, ok := pickLanguage(info.AutomaticCaptions, preferred); ok {
		return lang, true, true
	}
	return "", false, false
}

// pickLanguage returns preferred when present, then a regional or auto-generated
// variant of it (en-US, en-orig), then the first language in sorted order.
func pickLanguage(tracks map[string][]subtitleTrack, preferred string) (string, bool) {
	if len(tracks) == 0 {
		return "", false
	}
	if _, ok := tracks[preferred]; ok {
		return preferred, true
	}

	langs := make([]string, 0, len(tracks))
	for l := range tracks {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	for _, l := range langs {
		if strings.HasPrefix(l, preferred+"-") {
			return l, true
		}
	}
	return langs[0], true
}
