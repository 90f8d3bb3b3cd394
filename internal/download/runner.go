package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes the external downloader binary. Only the exit status is
// consumed; the artifact itself is observed on disk afterwards.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs the downloader as a child process.
type ExecRunner struct {
	binPath string
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a runner for the given downloader binary. An empty
// path falls back to "yt-dlp" resolved from PATH.
func NewExecRunner(binPath string) *ExecRunner {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &ExecRunner{binPath: binPath}
}

// Run invokes the binary and waits for completion. A context deadline kills
// the child process; the caller sees that as an ordinary failure.
func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("downloader timed out: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("downloader failed: %w: %s", err, msg)
		}
		return fmt.Errorf("downloader failed: %w", err)
	}
	return nil
}
