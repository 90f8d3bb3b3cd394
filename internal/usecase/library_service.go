package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/infrastructure/metrics"
)

// ErrNotArchived is returned when a library entry has no archived artifact
// to serve.
var ErrNotArchived = errors.New("video has no archived artifact")

// SaveVideoInput contains the input parameters for saving a video.
type SaveVideoInput struct {
	UserID       uuid.UUID
	VideoID      string
	Title        string
	ThumbnailURL string
	CustomTitle  string
	Notes        string
}

// UpdateVideoInput carries partial updates to a library entry. Nil fields
// are left unchanged.
type UpdateVideoInput struct {
	CustomTitle *string
	Notes       *string
	Favorite    *bool
}

// LibraryServiceConfig holds configuration for LibraryService.
type LibraryServiceConfig struct {
	// PresignExpiry bounds how long archive download links stay valid.
	PresignExpiry time.Duration
	// HistoryLimit caps how many history entries a listing returns.
	HistoryLimit int
}

// DefaultLibraryServiceConfig returns the default configuration.
func DefaultLibraryServiceConfig() LibraryServiceConfig {
	return LibraryServiceConfig{
		PresignExpiry: time.Hour,
		HistoryLimit:  50,
	}
}

// LibraryService defines the per-user saved-video and history operations.
type LibraryService interface {
	// SaveVideo adds a video to a user's library, upserting the shared
	// catalog row first.
	SaveVideo(ctx context.Context, input SaveVideoInput) (*model.UserVideo, error)

	// ListVideos returns a user's library, newest first.
	ListVideos(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error)

	// UpdateVideo applies partial changes to a library entry.
	UpdateVideo(ctx context.Context, id, userID uuid.UUID, input UpdateVideoInput) (*model.UserVideo, error)

	// DeleteVideo removes a library entry and its archived artifact.
	DeleteVideo(ctx context.Context, id, userID uuid.UUID) error

	// RequestDownload queues an async download of a library entry.
	RequestDownload(ctx context.Context, id, userID uuid.UUID, itag int) error

	// ArchiveDownloadURL returns a presigned URL for an archived artifact.
	// Returns ErrNotArchived when the entry was never downloaded.
	ArchiveDownloadURL(ctx context.Context, id, userID uuid.UUID) (string, error)

	// ListHistory returns a user's search history, newest first.
	ListHistory(ctx context.Context, userID uuid.UUID) ([]*model.SearchHistory, error)

	// DeleteHistory removes one history entry.
	DeleteHistory(ctx context.Context, id, userID uuid.UUID) error

	// ClearHistory removes all of a user's history entries.
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

type libraryService struct {
	videos     repository.VideoRepository
	userVideos repository.UserVideoRepository
	history    repository.SearchHistoryRepository
	queue      repository.MessageQueue
	archive    repository.ObjectStorage
	logger     *slog.Logger

	presignExpiry time.Duration
	historyLimit  int
}

// NewLibraryService creates a new LibraryService instance.
func NewLibraryService(
	videos repository.VideoRepository,
	userVideos repository.UserVideoRepository,
	history repository.SearchHistoryRepository,
	queue repository.MessageQueue,
	archive repository.ObjectStorage,
	logger *slog.Logger,
	cfg LibraryServiceConfig,
) LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &libraryService{
		videos:        videos,
		userVideos:    userVideos,
		history:       history,
		queue:         queue,
		archive:       archive,
		logger:        logger,
		presignExpiry: cfg.PresignExpiry,
		historyLimit:  cfg.HistoryLimit,
	}
}

// SaveVideo adds a video to a user's library.
func (s *libraryService) SaveVideo(ctx context.Context, input SaveVideoInput) (*model.UserVideo, error) {
	video, err := model.NewVideo(input.VideoID, input.Title, input.ThumbnailURL)
	if err != nil {
		return nil, err
	}

	if err := s.videos.Upsert(ctx, video); err != nil {
		return nil, fmt.Errorf("upsert video: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableVideos).Inc()

	entry, err := model.NewUserVideo(input.UserID, input.VideoID, input.CustomTitle, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.userVideos.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateUserVideo) {
			return nil, err
		}
		return nil, fmt.Errorf("create library entry: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableUserVideos).Inc()

	return entry, nil
}

// ListVideos returns a user's library, newest first.
func (s *libraryService) ListVideos(ctx context.Context, userID uuid.UUID) ([]*model.UserVideo, error) {
	videos, err := s.userVideos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUserVideos).Inc()
	return videos, nil
}

// UpdateVideo applies partial changes to a library entry.
func (s *libraryService) UpdateVideo(ctx context.Context, id, userID uuid.UUID, input UpdateVideoInput) (*model.UserVideo, error) {
	entry, err := s.userVideos.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.CustomTitle != nil {
		entry.CustomTitle = *input.CustomTitle
	}
	if input.Notes != nil {
		entry.Notes = *input.Notes
	}
	if input.Favorite != nil {
		entry.Favorite = *input.Favorite
	}

	if err := s.userVideos.Update(ctx, entry); err != nil {
		return nil, err
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableUserVideos).Inc()
	return entry, nil
}

// DeleteVideo removes a library entry. The archived artifact, when one
// exists, is removed best effort: the entry deletion is not undone by an
// archive failure.
func (s *libraryService) DeleteVideo(ctx context.Context, id, userID uuid.UUID) error {
	entry, err := s.userVideos.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.userVideos.Delete(ctx, id, userID); err != nil {
		return err
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableUserVideos).Inc()

	if entry.ArchiveKey != "" {
		if err := s.archive.Delete(ctx, entry.ArchiveKey); err != nil {
			s.logger.Warn("failed to delete archived artifact",
				"archive_key", entry.ArchiveKey,
				"error", err,
			)
		}
	}
	return nil
}

// RequestDownload queues an async download for a library entry.
func (s *libraryService) RequestDownload(ctx context.Context, id, userID uuid.UUID, itag int) error {
	entry, err := s.userVideos.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	task := repository.DownloadTask{
		VideoID: entry.VideoID,
		UserID:  userID,
		Itag:    itag,
	}
	if err := s.queue.PublishDownloadTask(ctx, task); err != nil {
		return fmt.Errorf("publish download task: %w", err)
	}
	return nil
}

// ArchiveDownloadURL returns a presigned URL for an archived artifact.
func (s *libraryService) ArchiveDownloadURL(ctx context.Context, id, userID uuid.UUID) (string, error) {
	entry, err := s.userVideos.GetByID(ctx, id, userID)
	if err != nil {
		return "", err
	}
	if entry.ArchiveKey == "" {
		return "", ErrNotArchived
	}

	url, err := s.archive.GeneratePresignedDownloadURL(ctx, entry.ArchiveKey, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign archive URL: %w", err)
	}
	return url, nil
}

// ListHistory returns a user's search history, newest first.
func (s *libraryService) ListHistory(ctx context.Context, userID uuid.UUID) ([]*model.SearchHistory, error) {
	entries, err := s.history.ListByUser(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableSearchHistory).Inc()
	return entries, nil
}

// DeleteHistory removes one history entry.
func (s *libraryService) DeleteHistory(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.history.Delete(ctx, id, userID); err != nil {
		return err
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableSearchHistory).Inc()
	return nil
}

// ClearHistory removes all of a user's history entries.
func (s *libraryService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.history.ClearByUser(ctx, userID); err != nil {
		return err
	}
	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableSearchHistory).Inc()
	return nil
}
