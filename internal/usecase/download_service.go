package usecase

import (
	"context"
	"log/slog"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/download"
)

// streamResolver resolves playback metadata for a video.
type streamResolver interface {
	AvailableStreams(ctx context.Context, videoID string) (*model.StreamOptions, error)
}

// mediaDownloader runs the download fallback chain.
type mediaDownloader interface {
	Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error)
	DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error)
}

// DownloadService defines stream resolution and download operations.
type DownloadService interface {
	// GetStreamOptions resolves playback metadata for a video.
	GetStreamOptions(ctx context.Context, videoID string) (*model.StreamOptions, error)

	// Download fetches a video in the format identified by itag. A result
	// is returned whenever any artifact was produced; only total failure
	// is an error.
	Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error)

	// DirectDownload fetches a video with an explicit format selector,
	// bypassing the itag catalog.
	DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error)
}

type downloadService struct {
	resolver   streamResolver
	downloader mediaDownloader
	logger     *slog.Logger
}

// NewDownloadService creates a new DownloadService instance.
func NewDownloadService(resolver streamResolver, downloader mediaDownloader, logger *slog.Logger) DownloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &downloadService{
		resolver:   resolver,
		downloader: downloader,
		logger:     logger,
	}
}

// GetStreamOptions resolves playback metadata for a video.
func (s *downloadService) GetStreamOptions(ctx context.Context, videoID string) (*model.StreamOptions, error) {
	return s.resolver.AvailableStreams(ctx, videoID)
}

// Download runs the itag download chain and, when it only produced a
// fallback artifact, escalates once through the direct path before
// settling. The better artifact of the two attempts wins.
func (s *downloadService) Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error) {
	result, err := s.downloader.Download(ctx, videoID, itag)
	if err != nil {
		return nil, err
	}
	if !result.Degraded() {
		return result, nil
	}

	s.logger.Info("download degraded, escalating through direct path",
		"video_id", videoID,
		"itag", itag,
		"kind", string(result.Kind),
	)

	selector := "best"
	if format, ok := download.FormatForItag(itag); ok {
		selector = format.Selector
	}

	direct, derr := s.downloader.DirectDownload(ctx, videoID, selector)
	if derr == nil && artifactRank(direct.Kind) > artifactRank(result.Kind) {
		return direct, nil
	}

	return result, nil
}

// DirectDownload fetches a video with an explicit format selector.
func (s *downloadService) DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error) {
	return s.downloader.DirectDownload(ctx, videoID, selector)
}

// artifactRank orders artifact kinds by how close they are to the
// requested media.
func artifactRank(kind model.ArtifactKind) int {
	switch kind {
	case model.ArtifactMedia:
		return 2
	case model.ArtifactThumbnail:
		return 1
	default:
		return 0
	}
}
