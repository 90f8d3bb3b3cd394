package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kdm-dev/tubevault/internal/config"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/download"
	"github.com/kdm-dev/tubevault/internal/infrastructure/postgres"
	"github.com/kdm-dev/tubevault/internal/infrastructure/queue"
	"github.com/kdm-dev/tubevault/internal/infrastructure/storage"
	"github.com/kdm-dev/tubevault/internal/usecase"
	"github.com/kdm-dev/tubevault/internal/youtube"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:       cfg.MinIO.Endpoint,
		PublicEndpoint: cfg.MinIO.PublicEndpoint,
		AccessKey:      cfg.MinIO.AccessKey,
		SecretKey:      cfg.MinIO.SecretKey,
		Bucket:         cfg.MinIO.Bucket,
		UseSSL:         cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	upstream := youtube.NewClient(youtube.Config{
		BaseURL:          cfg.Upstream.BaseURL,
		ThumbnailBaseURL: cfg.Upstream.ThumbnailBaseURL,
		Timeout:          cfg.Upstream.RequestTimeout,
	})

	orchestrator, err := download.NewOrchestrator(download.Config{
		DownloadDir:    cfg.Downloader.DownloadDir,
		WebPathPrefix:  "static/downloads",
		CookiesPath:    cfg.Downloader.CookiesPath,
		PrimaryTimeout: cfg.Downloader.PrimaryTimeout,
		SimpleTimeout:  cfg.Downloader.SimpleTimeout,
		HelperTimeout:  cfg.Downloader.HelperTimeout,
	}, upstream, download.NewExecRunner(cfg.Downloader.BinPath), nil, logger)
	if err != nil {
		return fmt.Errorf("failed to create download orchestrator: %w", err)
	}

	// Initialize repository and service
	userVideoRepo := postgres.NewUserVideoRepository(pgClient.Pool())
	taskSvc := usecase.NewTaskService(
		orchestrator,
		userVideoRepo,
		storageClient,
		logger,
		usecase.TaskServiceConfig{
			DownloadDir: cfg.Downloader.DownloadDir,
			MaxRetries:  cfg.Worker.MaxRetries,
		},
	)

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// WaitGroup to track in-flight tasks
	var wg sync.WaitGroup

	// Start consuming messages in a goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting worker, consuming download tasks")
		err := queueClient.ConsumeDownloadTasks(ctx, func(task repository.DownloadTask) error {
			wg.Add(1)
			defer wg.Done()

			logger.Info("processing task",
				slog.String("video_id", task.VideoID),
				slog.Int("itag", task.Itag),
				slog.Int("retry_count", task.RetryCount),
			)

			if err := taskSvc.ProcessTask(ctx, task); err != nil {
				logger.Error("task processing failed",
					slog.String("video_id", task.VideoID),
					slog.Int("retry_count", task.RetryCount),
					slog.String("error", err.Error()),
				)
				return err
			}

			logger.Info("task completed successfully",
				slog.String("video_id", task.VideoID),
			)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	// Cancel the main context to stop consuming new messages
	cancel()

	// Wait for in-flight tasks to complete (or timeout)
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight tasks completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some tasks may not have completed")
	}

	logger.Info("worker stopped")
	return nil
}
