// Package youtube scrapes the upstream platform's public HTML pages. There
// is no structured API here: fields are pulled out of known inline JSON
// fragments with regular expressions, and every extraction is best-effort.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// browserUserAgent is sent on every upstream request. The pages served to
// unidentified clients differ from the ones the extraction patterns target.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36"

var (
	// ErrVideoUnavailable is returned when the upstream reports a video as
	// missing, restricted, or otherwise not servable.
	ErrVideoUnavailable = errors.New("video unavailable")

	// ErrChannelNotFound is returned when no channel URL variant resolves.
	ErrChannelNotFound = errors.New("channel not found")
)

// StatusError indicates a non-2xx upstream response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected upstream status: HTTP %d", e.StatusCode)
}

// Config holds configuration for the upstream client.
type Config struct {
	BaseURL          string
	ThumbnailBaseURL string
	Timeout          time.Duration
}

// DefaultConfig returns production upstream endpoints.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "https://www.youtube.com",
		ThumbnailBaseURL: "https://i.ytimg.com",
		Timeout:          15 * time.Second,
	}
}

// Client fetches and extracts upstream pages.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	thumbBaseURL string
}

// NewClient creates an upstream client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      cfg.BaseURL,
		thumbBaseURL: cfg.ThumbnailBaseURL,
	}
}

// BaseURL returns the configured upstream origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WatchURL returns the canonical watch page URL for a video.
func (c *Client) WatchURL(videoID string) string {
	return fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID)
}

// EmbedURL returns the embed page URL for a video.
func (c *Client) EmbedURL(videoID string) string {
	return fmt.Sprintf("%s/embed/%s", c.baseURL, videoID)
}

// ThumbnailURL returns the thumbnail URL for a video at the given
// resolution tier ("maxresdefault" or "hqdefault").
func (c *Client) ThumbnailURL(videoID, tier string) string {
	return fmt.Sprintf("%s/vi/%s/%s.jpg", c.thumbBaseURL, videoID, tier)
}

// fetch performs a GET with the browser user agent and returns the body.
// Non-2xx responses are returned as *StatusError.
func (c *Client) fetch(ctx context.Context, rawURL string, params url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upstream response: %w", err)
	}
	return string(body), nil
}
