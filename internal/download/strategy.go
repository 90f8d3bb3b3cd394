package download

import (
	"context"
	"fmt"
	"os"
	"time"
)

// browserUserAgent is passed to the downloader so its requests match what
// the scraping client sends.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36"

// job carries the state shared by every stage of one download attempt.
// Strategies write outputPath and read the rest; the orchestrator owns the
// thumbnail and note fields.
type job struct {
	videoID       string
	title         string
	watchURL      string
	embedURL      string
	outputPath    string
	thumbnailPath string
	note          string
	lastErr       error
}

// strategy is one stage of the fallback chain. attempt returns nil only
// when the expected output file exists on disk afterwards; any other
// outcome, including a timeout, advances the chain.
type strategy interface {
	name() string
	attempt(ctx context.Context, j *job) error
}

// runBounded executes the downloader under a per-stage wall clock limit and
// then verifies the artifact was actually produced.
func runBounded(ctx context.Context, r Runner, timeout time.Duration, args []string, outputPath string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.Run(ctx, args); err != nil {
		return err
	}
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("output file not produced: %w", err)
	}
	return nil
}

// primaryStrategy is the first stage: the exact format selector with the
// full robustness option set.
type primaryStrategy struct {
	runner      Runner
	cookiesPath string
	selector    string
	timeout     time.Duration
}

func (s *primaryStrategy) name() string { return "primary" }

func (s *primaryStrategy) attempt(ctx context.Context, j *job) error {
	args := []string{
		"-f", s.selector,
		"-o", j.outputPath,
		"--no-playlist",
		"--cookies", s.cookiesPath,
		"--no-cache-dir",
		"--user-agent", browserUserAgent,
		"--no-check-certificates",
		"--ignore-errors",
		"--no-warnings",
		"--geo-bypass",
		"--no-part",
		"--abort-on-unavailable-fragment",
		"--sponsorblock-remove", "default",
		"--extractor-retries", "3",
		"--file-access-retries", "3",
		"--fragment-retries", "3",
		j.watchURL,
	}
	return runBounded(ctx, s.runner, s.timeout, args, j.outputPath)
}

// simpleStrategy retries with a minimal option set and generic best
// quality, on the theory that one of the extra options broke the primary
// attempt.
type simpleStrategy struct {
	runner  Runner
	timeout time.Duration
	note    string
}

func (s *simpleStrategy) name() string { return "simple" }

func (s *simpleStrategy) attempt(ctx context.Context, j *job) error {
	args := []string{
		"-f", "best",
		"-o", j.outputPath,
		"--no-playlist",
		j.watchURL,
	}
	if err := runBounded(ctx, s.runner, s.timeout, args, j.outputPath); err != nil {
		return err
	}
	j.note = s.note
	return nil
}

// directStrategy is the first stage of the direct-download entry point: a
// caller-chosen selector with a reduced option set.
type directStrategy struct {
	runner      Runner
	cookiesPath string
	selector    string
	timeout     time.Duration
	note        string
}

func (s *directStrategy) name() string { return "direct" }

func (s *directStrategy) attempt(ctx context.Context, j *job) error {
	args := []string{
		"-f", s.selector,
		"-o", j.outputPath,
		"--no-playlist",
		"--cookies", s.cookiesPath,
		"--no-cache-dir",
		"--geo-bypass",
		"--ignore-errors",
		"--extractor-retries", "5",
		j.watchURL,
	}
	if err := runBounded(ctx, s.runner, s.timeout, args, j.outputPath); err != nil {
		return err
	}
	j.note = s.note
	return nil
}

// directSimpleStrategy retries a direct download with a container-pinned
// best selector and certificate checks disabled.
type directSimpleStrategy struct {
	runner      Runner
	cookiesPath string
	timeout     time.Duration
	note        string
}

func (s *directSimpleStrategy) name() string { return "direct_simple" }

func (s *directSimpleStrategy) attempt(ctx context.Context, j *job) error {
	args := []string{
		"--format", "best[ext=mp4]/best",
		"--output", j.outputPath,
		"--cookies", s.cookiesPath,
		"--no-cache-dir",
		"--user-agent", browserUserAgent,
		"--no-check-certificate",
		j.watchURL,
	}
	if err := runBounded(ctx, s.runner, s.timeout, args, j.outputPath); err != nil {
		return err
	}
	j.note = s.note
	return nil
}

// helperStrategy is the escalation of last resort before static fallbacks.
// It runs its own inner chain: the requested selector, a resolution-capped
// selector, a bare best request, and finally the embed URL instead of the
// watch URL. The inner chain stops at the first produced file.
type helperStrategy struct {
	runner       Runner
	cookiesPath  string
	referer      string
	selector     string
	timeout      time.Duration
	basicTimeout time.Duration
	note         string
}

func (s *helperStrategy) name() string { return "helper" }

const cappedSelector = "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"

func (s *helperStrategy) attempt(ctx context.Context, j *job) error {
	attempts := []struct {
		url      string
		selector string
		basic    bool
	}{
		{url: j.watchURL, selector: s.selector},
		{url: j.watchURL, selector: cappedSelector},
		{url: j.watchURL, selector: "best", basic: true},
		{url: j.embedURL, selector: "best"},
	}

	var lastErr error
	for _, a := range attempts {
		var args []string
		timeout := s.timeout
		if a.basic {
			args = []string{
				"--format", a.selector,
				"--output", j.outputPath,
				a.url,
			}
			timeout = s.basicTimeout
		} else {
			args = []string{
				"-f", a.selector,
				"-o", j.outputPath,
				"--cookies", s.cookiesPath,
				"--no-playlist",
				"--no-cache-dir",
				"--geo-bypass",
				"--no-warnings",
				"--no-check-certificate",
				"--user-agent", browserUserAgent,
				"--referer", s.referer,
				"--continue",
				"--no-part",
				"--force-overwrites",
				a.url,
			}
		}

		if err := runBounded(ctx, s.runner, timeout, args, j.outputPath); err != nil {
			lastErr = err
			continue
		}
		j.note = s.note
		return nil
	}
	return fmt.Errorf("all helper attempts failed: %w", lastErr)
}
