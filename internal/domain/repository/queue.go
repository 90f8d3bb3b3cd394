package repository

import (
	"context"

	"github.com/google/uuid"
)

// DownloadTask represents an asynchronous download job message.
type DownloadTask struct {
	VideoID    string    `json:"video_id"`
	UserID     uuid.UUID `json:"user_id"`
	Itag       int       `json:"itag"`
	RetryCount int       `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations are provided by the infrastructure layer.
type MessageQueue interface {
	// PublishDownloadTask sends a download task to the queue.
	// Used by the API server to trigger async downloads.
	PublishDownloadTask(ctx context.Context, task DownloadTask) error

	// ConsumeDownloadTasks starts consuming download tasks from the queue.
	// The handler function is called for each received task; a handler
	// error requeues the task until its retry budget is exhausted.
	// Used by the worker service.
	ConsumeDownloadTasks(ctx context.Context, handler func(task DownloadTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}
