// Package download materializes media files through an escalating chain of
// downloader strategies. Each stage gets its own timeout, and the chain
// degrades to a thumbnail image or a plain-text info file before it ever
// reports failure. Only a download that produced no artifact at all, not
// even the info file, surfaces as an error.
package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/infrastructure/metrics"
)

// MetadataSource resolves playback metadata and upstream URLs for a video.
type MetadataSource interface {
	AvailableStreams(ctx context.Context, videoID string) (*model.StreamOptions, error)
	BaseURL() string
	WatchURL(videoID string) string
	EmbedURL(videoID string) string
	ThumbnailURL(videoID, tier string) string
}

// Config holds configuration for the download orchestrator.
type Config struct {
	// DownloadDir is where artifacts are written. It is created if missing.
	DownloadDir string
	// WebPathPrefix is prepended to artifact basenames to form the
	// web-servable relative path reported to callers.
	WebPathPrefix string
	CookiesPath   string

	PrimaryTimeout time.Duration
	SimpleTimeout  time.Duration
	HelperTimeout  time.Duration
}

// DefaultConfig returns production defaults for the orchestrator.
func DefaultConfig() Config {
	return Config{
		DownloadDir:    "./static/downloads",
		WebPathPrefix:  "static/downloads",
		CookiesPath:    "./cookies.txt",
		PrimaryTimeout: 90 * time.Second,
		SimpleTimeout:  60 * time.Second,
		HelperTimeout:  120 * time.Second,
	}
}

// Orchestrator drives the fallback chain for one download at a time per
// request. Stages are strictly sequential for a given video because they
// share one output path; distinct videos may download concurrently.
type Orchestrator struct {
	cfg        Config
	source     MetadataSource
	runner     Runner
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOrchestrator creates an orchestrator and ensures the download
// directory exists.
func NewOrchestrator(cfg Config, source MetadataSource, runner Runner, httpClient *http.Client, logger *slog.Logger) (*Orchestrator, error) {
	if err := os.MkdirAll(cfg.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:        cfg,
		source:     source,
		runner:     runner,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Download fetches the stream identified by a format tag, escalating
// through the full fallback chain. The result always describes some
// artifact; an error means nothing at all could be produced.
func (o *Orchestrator) Download(ctx context.Context, videoID string, itag int) (*model.DownloadResult, error) {
	meta, err := o.source.AvailableStreams(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata for %s: %w", videoID, err)
	}

	f, ok := FormatForItag(itag)
	if !ok {
		return nil, fmt.Errorf("itag %d: %w", itag, ErrFormatUnavailable)
	}

	filename := fmt.Sprintf("%s_%s.%s", CleanTitle(meta.Title), f.Suffix, f.Ext)
	j := o.newJob(videoID, meta.Title, filename)
	o.prefetchThumbnail(ctx, j)

	chain := []strategy{
		&primaryStrategy{
			runner:      o.runner,
			cookiesPath: o.cfg.CookiesPath,
			selector:    f.Selector,
			timeout:     o.cfg.PrimaryTimeout,
		},
		&simpleStrategy{
			runner:  o.runner,
			timeout: o.cfg.SimpleTimeout,
			note:    "Downloaded using best available quality",
		},
		o.helper(f.Selector),
	}

	if o.runChain(ctx, chain, j) {
		return o.mediaResult(j, f.MimeType), nil
	}
	return o.degrade(ctx, j)
}

// DirectDownload fetches with a caller-supplied format selector instead of
// a format tag. It shares the helper and static fallback stages with
// Download but uses a looser leading chain.
func (o *Orchestrator) DirectDownload(ctx context.Context, videoID, selector string) (*model.DownloadResult, error) {
	if selector == "" {
		selector = "best"
	}

	meta, err := o.source.AvailableStreams(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("resolve metadata for %s: %w", videoID, err)
	}

	filename := CleanTitle(meta.Title) + ".mp4"
	j := o.newJob(videoID, meta.Title, filename)
	o.prefetchThumbnail(ctx, j)

	bestNote := "Downloaded using best available quality"
	chain := []strategy{
		&directStrategy{
			runner:      o.runner,
			cookiesPath: o.cfg.CookiesPath,
			selector:    selector,
			timeout:     o.cfg.SimpleTimeout,
			note:        bestNote,
		},
		&directSimpleStrategy{
			runner:      o.runner,
			cookiesPath: o.cfg.CookiesPath,
			timeout:     o.cfg.SimpleTimeout,
			note:        bestNote,
		},
		o.helper(selector),
	}

	if o.runChain(ctx, chain, j) {
		return o.mediaResult(j, "video/mp4"), nil
	}
	return o.degrade(ctx, j)
}

func (o *Orchestrator) helper(selector string) *helperStrategy {
	return &helperStrategy{
		runner:       o.runner,
		cookiesPath:  o.cfg.CookiesPath,
		referer:      o.source.BaseURL() + "/",
		selector:     selector,
		timeout:      o.cfg.HelperTimeout,
		basicTimeout: o.cfg.SimpleTimeout,
		note:         "Downloaded using fallback chain",
	}
}

func (o *Orchestrator) newJob(videoID, title, filename string) *job {
	return &job{
		videoID:    videoID,
		title:      title,
		watchURL:   o.source.WatchURL(videoID),
		embedURL:   o.source.EmbedURL(videoID),
		outputPath: filepath.Join(o.cfg.DownloadDir, filename),
	}
}

// runChain tries each strategy in order and reports whether one produced
// the media file.
func (o *Orchestrator) runChain(ctx context.Context, chain []strategy, j *job) bool {
	for _, s := range chain {
		err := s.attempt(ctx, j)
		if err == nil {
			metrics.DownloadStageAttemptsTotal.WithLabelValues(s.name(), metrics.StageOutcomeSuccess).Inc()
			o.logger.Info("download stage succeeded",
				slog.String("video_id", j.videoID),
				slog.String("stage", s.name()),
			)
			return true
		}
		metrics.DownloadStageAttemptsTotal.WithLabelValues(s.name(), metrics.StageOutcomeFailure).Inc()
		o.logger.Warn("download stage failed",
			slog.String("video_id", j.videoID),
			slog.String("stage", s.name()),
			slog.String("error", err.Error()),
		)
		j.lastErr = err
	}
	return false
}

// degrade delivers the static fallbacks: the prefetched thumbnail when
// available, otherwise a fresh thumbnail fetch, otherwise the info file.
func (o *Orchestrator) degrade(ctx context.Context, j *job) (*model.DownloadResult, error) {
	if j.thumbnailPath == "" {
		p, err := o.fetchThumbnail(ctx, j.videoID)
		if err != nil {
			o.logger.Warn("thumbnail fallback failed",
				slog.String("video_id", j.videoID),
				slog.String("error", err.Error()),
			)
		} else {
			j.thumbnailPath = p
		}
	}

	if j.thumbnailPath != "" {
		metrics.DownloadStageAttemptsTotal.WithLabelValues("thumbnail", metrics.StageOutcomeSuccess).Inc()
		metrics.DownloadArtifactsTotal.WithLabelValues(string(model.ArtifactThumbnail)).Inc()
		return &model.DownloadResult{
			VideoID:    j.videoID,
			Title:      j.title,
			FilePath:   o.webPath(j.thumbnailPath),
			FileSizeMB: fileSizeMB(j.thumbnailPath),
			MimeType:   "image/jpeg",
			Kind:       model.ArtifactThumbnail,
			Note:       "Could not download media due to upstream restrictions. Delivered thumbnail instead.",
		}, nil
	}
	metrics.DownloadStageAttemptsTotal.WithLabelValues("thumbnail", metrics.StageOutcomeFailure).Inc()

	return o.writeInfoFile(j)
}

// writeInfoFile synthesizes the last-resort artifact: a small text file
// describing the video and the final error.
func (o *Orchestrator) writeInfoFile(j *job) (*model.DownloadResult, error) {
	infoPath := filepath.Join(o.cfg.DownloadDir, j.videoID+"_info.txt")

	lastErr := "unknown"
	if j.lastErr != nil {
		lastErr = j.lastErr.Error()
	}
	content := fmt.Sprintf("Title: %s\nURL: %s\nThumbnail: %s\nError: %s\n",
		j.title,
		j.watchURL,
		o.source.ThumbnailURL(j.videoID, "maxresdefault"),
		lastErr,
	)

	if err := os.WriteFile(infoPath, []byte(content), 0o644); err != nil {
		metrics.DownloadStageAttemptsTotal.WithLabelValues("info_file", metrics.StageOutcomeFailure).Inc()
		return nil, fmt.Errorf("write info file for %s: %w (after: %s)", j.videoID, err, lastErr)
	}

	metrics.DownloadStageAttemptsTotal.WithLabelValues("info_file", metrics.StageOutcomeSuccess).Inc()
	metrics.DownloadArtifactsTotal.WithLabelValues(string(model.ArtifactInfoFile)).Inc()
	return &model.DownloadResult{
		VideoID:    j.videoID,
		Title:      j.title,
		FilePath:   o.webPath(infoPath),
		FileSizeMB: fileSizeMB(infoPath),
		MimeType:   "text/plain",
		Kind:       model.ArtifactInfoFile,
		Note:       "Created video info file due to download failure",
	}, nil
}

func (o *Orchestrator) mediaResult(j *job, mimeType string) *model.DownloadResult {
	metrics.DownloadArtifactsTotal.WithLabelValues(string(model.ArtifactMedia)).Inc()
	return &model.DownloadResult{
		VideoID:    j.videoID,
		Title:      j.title,
		FilePath:   o.webPath(j.outputPath),
		FileSizeMB: fileSizeMB(j.outputPath),
		MimeType:   mimeType,
		Kind:       model.ArtifactMedia,
		Note:       j.note,
	}
}

// prefetchThumbnail grabs the thumbnail before the main download starts so
// later stages can fall back to a local file instead of re-fetching over
// the network at failure time. Failure here is not fatal.
func (o *Orchestrator) prefetchThumbnail(ctx context.Context, j *job) {
	p, err := o.fetchThumbnail(ctx, j.videoID)
	if err != nil {
		o.logger.Warn("thumbnail prefetch failed",
			slog.String("video_id", j.videoID),
			slog.String("error", err.Error()),
		)
		return
	}
	j.thumbnailPath = p
}

// fetchThumbnail downloads the highest-resolution thumbnail tier, dropping
// to the lower tier when the upstream does not serve the first.
func (o *Orchestrator) fetchThumbnail(ctx context.Context, videoID string) (string, error) {
	var lastErr error
	for _, tier := range []string{"maxresdefault", "hqdefault"} {
		data, err := o.fetchBytes(ctx, o.source.ThumbnailURL(videoID, tier))
		if err != nil {
			lastErr = err
			continue
		}

		p := filepath.Join(o.cfg.DownloadDir, videoID+"_thumbnail.jpg")
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return "", fmt.Errorf("write thumbnail: %w", err)
		}
		return p, nil
	}
	return "", fmt.Errorf("no thumbnail tier available: %w", lastErr)
}

func (o *Orchestrator) fetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (o *Orchestrator) webPath(p string) string {
	return path.Join(o.cfg.WebPathPrefix, filepath.Base(p))
}

func fileSizeMB(p string) float64 {
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	mb := float64(info.Size()) / (1024 * 1024)
	return math.Round(mb*100) / 100
}
