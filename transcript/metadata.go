package transcript

import (
	"context"
	"math"
)

const unknownAuthor = "Unknown"

// Video is the descriptive metadata reported with a summary. Duration is in
// whole seconds.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Duration int    `json:"duration"`
}

// UnknownVideo is the placeholder used when metadata cannot be looked up.
func UnknownVideo(videoID string) Video {
	return Video{ID: videoID, Author: unknownAuthor}
}

// MetadataSource looks up title, author and length through yt-dlp.
type MetadataSource struct {
	runner commandRunner
	ytdlp  string
}

func NewMetadataSource(runner commandRunner, ytdlpPath string) *MetadataSource {
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	return &MetadataSource{runner: runner, ytdlp: ytdlpPath}
}

func (m *MetadataSource) Describe(ctx context.Context, videoID string) (*Video, error) {
	info, err := fetchVideoInfo(ctx, m.runner, m.ytdlp, videoID)
	if err != nil {
		return nil, err
	}

	v := info.video()
	if v.ID == "" {
		v.ID = videoID
	}
	return &v, nil
}

func (info *videoInfo) video() Video {
	author := info.Uploader
	if author == "" {
		author = info.Channel
	}
	if author == "" {
		author = unknownAuthor
	}
	return Video{
		ID:       info.ID,
		Title:    info.Title,
		Author:   author,
		Duration: int(math.Round(info.Duration)),
	}
}
