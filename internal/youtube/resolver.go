package youtube

import (
	"context"
	"fmt"
	"strings"

	"github.com/kdm-dev/tubevault/internal/domain/model"
)

// AvailableStreams resolves best-effort playback metadata for a video. The
// embed page serves as an existence probe; the watch page supplies
// metadata. Individual extraction misses fall back to placeholders, only a
// failed fetch makes the video unavailable.
//
// The returned stream lists are a fixed representative catalog; actual
// downloadability of any option is only proven by attempting the download.
func (c *Client) AvailableStreams(ctx context.Context, videoID string) (*model.StreamOptions, error) {
	if _, err := c.fetch(ctx, c.EmbedURL(videoID), nil); err != nil {
		return nil, c.unavailableError(ctx, videoID, "embed probe", err)
	}

	watchHTML, err := c.fetch(ctx, c.WatchURL(videoID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: watch page: %v", ErrVideoUnavailable, err)
	}

	meta := extractWatchMetadata(watchHTML)
	if meta.Title == "" {
		meta.Title = "Video " + videoID
	}
	if meta.Author == "" {
		meta.Author = "Unknown creator"
	}

	return &model.StreamOptions{
		VideoID:         videoID,
		Title:           meta.Title,
		Author:          meta.Author,
		ThumbnailURL:    c.ThumbnailURL(videoID, "hqdefault"),
		DurationSeconds: meta.DurationSeconds,
		VideoStreams:    defaultVideoStreams(),
		AudioStreams:    defaultAudioStreams(),
	}, nil
}

// unavailableError enriches an unavailable verdict with restriction hints
// scraped from the watch page, when that page is still reachable.
func (c *Client) unavailableError(ctx context.Context, videoID, phase string, cause error) error {
	if watchHTML, err := c.fetch(ctx, c.WatchURL(videoID), nil); err == nil {
		lower := strings.ToLower(watchHTML)
		switch {
		case strings.Contains(lower, "age-restricted"):
			return fmt.Errorf("%w: video is age-restricted", ErrVideoUnavailable)
		case strings.Contains(lower, "unavailable"):
			return fmt.Errorf("%w: upstream reports the video as unavailable", ErrVideoUnavailable)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrVideoUnavailable, phase, cause)
}

// defaultVideoStreams returns the representative video format catalog.
func defaultVideoStreams() []model.VideoStream {
	return []model.VideoStream{
		{Itag: 22, Resolution: "720p", MimeType: "video/mp4", FPS: 30, Progressive: true, FormatName: "MP4 (720p)"},
		{Itag: 18, Resolution: "360p", MimeType: "video/mp4", FPS: 30, Progressive: true, FormatName: "MP4 (360p)"},
	}
}

// defaultAudioStreams returns the representative audio format catalog.
func defaultAudioStreams() []model.AudioStream {
	return []model.AudioStream{
		{Itag: 140, Bitrate: "128kbps", MimeType: "audio/mp4", FormatName: "M4A Audio (128kbps)"},
		{Itag: 249, Bitrate: "48kbps", MimeType: "audio/webm", FormatName: "WebM Audio (48kbps)"},
	}
}
