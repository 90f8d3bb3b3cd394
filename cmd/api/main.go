package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/kdm-dev/tubevault/internal/api/handler"
	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/cache"
	"github.com/kdm-dev/tubevault/internal/config"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/download"
	"github.com/kdm-dev/tubevault/internal/infrastructure/postgres"
	"github.com/kdm-dev/tubevault/internal/infrastructure/queue"
	"github.com/kdm-dev/tubevault/internal/infrastructure/session"
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
	ctx := context.Background()

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

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

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

	// Initialize repositories and services
	userRepo := postgres.NewUserRepository(pgClient.Pool())
	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	userVideoRepo := postgres.NewUserVideoRepository(pgClient.Pool())
	historyRepo := postgres.NewSearchHistoryRepository(pgClient.Pool())
	recorder := postgres.NewSearchRecorder(pgClient.Pool())

	sessions := session.NewStore(redisClient, cfg.Session.TTL)

	resultCache := cache.New[*model.SearchResult](cache.Config{
		DefaultTTL: cfg.Cache.SearchTTL,
		MaxSize:    cfg.Cache.SearchMaxSize,
	})
	channelCache := cache.New[*model.ChannelPage](cache.Config{
		DefaultTTL: cfg.Cache.SearchTTL,
		MaxSize:    cfg.Cache.SearchMaxSize,
	})

	searchCfg := usecase.DefaultSearchServiceConfig()
	searchCfg.CacheTTL = cfg.Cache.SearchTTL
	searchSvc := usecase.NewSearchService(upstream, recorder, resultCache, channelCache, logger, searchCfg)
	downloadSvc := usecase.NewDownloadService(upstream, orchestrator, logger)
	userSvc := usecase.NewUserService(userRepo)
	librarySvc := usecase.NewLibraryService(
		videoRepo,
		userVideoRepo,
		historyRepo,
		queueClient,
		storageClient,
		logger,
		usecase.DefaultLibraryServiceConfig(),
	)

	r := setupRouter(routerDeps{
		logger:      logger,
		sessions:    sessions,
		search:      handler.NewSearchHandler(searchSvc),
		video:       handler.NewVideoHandler(downloadSvc),
		auth:        handler.NewAuthHandler(userSvc, sessions, cfg.Session.TTL),
		library:     handler.NewLibraryHandler(librarySvc),
		downloadDir: cfg.Downloader.DownloadDir,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type routerDeps struct {
	logger   *slog.Logger
	sessions middleware.SessionResolver

	search  *handler.SearchHandler
	video   *handler.VideoHandler
	auth    *handler.AuthHandler
	library *handler.LibraryHandler

	downloadDir string
}

func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Auth(deps.sessions))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Completed artifacts are served straight off disk.
	fileServer := http.FileServer(http.Dir(deps.downloadDir))
	r.Handle("/static/downloads/*", http.StripPrefix("/static/downloads/", fileServer))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", deps.search.Search)
		r.Get("/channels/{id}", deps.search.Channel)
		r.Get("/cache/stats", deps.search.CacheStats)

		r.Route("/videos/{id}", func(r chi.Router) {
			r.Get("/streams", deps.video.Streams)
			r.Post("/download", deps.video.Download)
			r.Post("/direct-download", deps.video.DirectDownload)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.auth.Register)
			r.Post("/login", deps.auth.Login)
			r.Post("/logout", deps.auth.Logout)
			r.Get("/me", deps.auth.Me)
		})

		r.Route("/library", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", deps.library.Save)
			r.Get("/", deps.library.List)
			r.Patch("/{id}", deps.library.Update)
			r.Delete("/{id}", deps.library.Delete)
			r.Post("/{id}/download", deps.library.QueueDownload)
			r.Get("/{id}/archive-url", deps.library.ArchiveURL)
		})

		r.Route("/history", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", deps.library.History)
			r.Delete("/", deps.library.ClearHistory)
			r.Delete("/{id}", deps.library.DeleteHistory)
		})
	})

	return r
}
