package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/download"
	"github.com/kdm-dev/tubevault/internal/infrastructure/storage"
)

// DefaultMaxRetries is the default number of attempts before a task is
// dropped.
const DefaultMaxRetries = 3

// TaskServiceConfig holds configuration for TaskService.
type TaskServiceConfig struct {
	// DownloadDir is the directory the orchestrator writes artifacts to.
	DownloadDir string
	// MaxRetries is the maximum number of attempts before dropping a task.
	MaxRetries int
}

// DefaultTaskServiceConfig returns the default configuration.
func DefaultTaskServiceConfig(downloadDir string) TaskServiceConfig {
	return TaskServiceConfig{
		DownloadDir: downloadDir,
		MaxRetries:  DefaultMaxRetries,
	}
}

// TaskService processes queued download tasks.
type TaskService interface {
	// ProcessTask handles one download task. Returns nil on success or
	// permanent failure (retries exhausted); returns an error for
	// transient failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.DownloadTask) error
}

type taskService struct {
	downloader mediaDownloader
	userVideos repository.UserVideoRepository
	archive    repository.ObjectStorage
	logger     *slog.Logger

	downloadDir string
	maxRetries  int
}

// NewTaskService creates a new TaskService instance.
func NewTaskService(
	downloader mediaDownloader,
	userVideos repository.UserVideoRepository,
	archive repository.ObjectStorage,
	logger *slog.Logger,
	cfg TaskServiceConfig,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	return &taskService{
		downloader:  downloader,
		userVideos:  userVideos,
		archive:     archive,
		logger:      logger,
		downloadDir: cfg.DownloadDir,
		maxRetries:  cfg.MaxRetries,
	}
}

// ProcessTask downloads the media, archives it, and marks the library
// entry downloaded. Degraded artifacts count as transient failures so the
// task retries; the fallback kinds only matter on the synchronous path.
func (s *taskService) ProcessTask(ctx context.Context, task repository.DownloadTask) error {
	if task.RetryCount >= s.maxRetries {
		s.logger.Error("dropping download task, retries exhausted",
			"video_id", task.VideoID,
			"user_id", task.UserID,
			"retry_count", task.RetryCount,
		)
		return nil
	}

	result, err := s.downloader.Download(ctx, task.VideoID, task.Itag)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	if result.Degraded() {
		return fmt.Errorf("download produced %s artifact instead of media", result.Kind)
	}

	filename := filepath.Base(result.FilePath)
	key := storage.ArchiveKey(task.VideoID, filename)
	if err := s.archiveArtifact(ctx, filename, key, result.MimeType); err != nil {
		return fmt.Errorf("archive artifact: %w", err)
	}

	if err := s.markDownloaded(ctx, task, result.FilePath, key); err != nil {
		return err
	}

	s.logger.Info("download task completed",
		"video_id", task.VideoID,
		"user_id", task.UserID,
		"archive_key", key,
	)
	return nil
}

// archiveArtifact copies a local artifact into the archive.
func (s *taskService) archiveArtifact(ctx context.Context, filename, key, contentType string) error {
	localPath := filepath.Join(s.downloadDir, filename)

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := s.archive.Upload(ctx, key, file, info.Size(), contentType); err != nil {
		return fmt.Errorf("storage upload: %w", err)
	}
	return nil
}

// markDownloaded records the completed download on the library entry. An
// entry deleted while the task was in flight is not an error: the
// artifact is archived either way.
func (s *taskService) markDownloaded(ctx context.Context, task repository.DownloadTask, filePath, archiveKey string) error {
	entry, err := s.userVideos.GetByUserAndVideo(ctx, task.UserID, task.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrUserVideoNotFound) {
			s.logger.Info("library entry removed before download finished",
				"video_id", task.VideoID,
				"user_id", task.UserID,
			)
			return nil
		}
		return fmt.Errorf("get library entry: %w", err)
	}

	quality := "best"
	if format, ok := download.FormatForItag(task.Itag); ok {
		quality = format.Suffix
	}

	entry.MarkDownloaded(filePath, quality)
	entry.ArchiveKey = archiveKey
	if err := s.userVideos.Update(ctx, entry); err != nil {
		return fmt.Errorf("update library entry: %w", err)
	}
	return nil
}
