package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"courtcast/retry"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultFetchTimeout = 10 * time.Minute
	defaultBitrateKbps  = 128

	watchURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Fetcher downloads a video's audio track and transcodes it to MP3 using a
// yt-dlp subprocess.
type Fetcher struct {
	// YtdlpPath is the path to the yt-dlp executable. Defaults to "yt-dlp".
	YtdlpPath string

	// WorkDir is where MP3 artifacts are written.
	WorkDir string

	// BitrateKbps is the target audio bitrate. Defaults to 128.
	BitrateKbps int

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration

	// RetryConfig holds retry behavior configuration.
	RetryConfig *retry.Config
}

// NewFetcher creates a fetcher writing artifacts under workDir.
func NewFetcher(workDir string) *Fetcher {
	cfg := retry.DefaultConfig()
	return &Fetcher{
		YtdlpPath:   defaultYtdlpPath,
		WorkDir:     workDir,
		BitrateKbps: defaultBitrateKbps,
		Timeout:     defaultFetchTimeout,
		RetryConfig: &cfg,
	}
}

// Fetch extracts the audio of videoID as an MP3 and returns the artifact
// path. An artifact left over from an earlier interrupted run is reused.
// On failure no partial artifact remains.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := f.checkInstalled(ctx); err != nil {
		return "", err
	}
	if err := os.MkdirAll(f.WorkDir, 0755); err != nil {
		return "", &FetchError{VideoID: videoID, Err: err}
	}

	outPath := filepath.Join(f.WorkDir, videoID+".mp3")
	if _, err := os.Stat(outPath); err == nil {
		return outPath, nil
	}

	cfg := f.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	err := retry.Do(ctx, *cfg, fetchErrorClassifier, func(ctx context.Context) error {
		timeout := f.Timeout
		if timeout == 0 {
			timeout = defaultFetchTimeout
		}
		cmdCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, f.path(), f.buildArgs(videoID)...)

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			// yt-dlp writes to <id>.mp3 in place; a failed run must not
			// leave a partial artifact for the probe step to pick up.
			os.Remove(outPath)

			if cmdCtx.Err() == context.DeadlineExceeded {
				return &FetchError{VideoID: videoID, Err: context.DeadlineExceeded}
			}
			return &FetchError{VideoID: videoID, Err: classifyYtdlpStderr(stderr.String(), err)}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", &FetchError{VideoID: videoID, Err: fmt.Errorf("yt-dlp produced no artifact: %w", err)}
	}
	return outPath, nil
}

// buildArgs assembles the yt-dlp invocation for one video.
func (f *Fetcher) buildArgs(videoID string) []string {
	bitrate := f.BitrateKbps
	if bitrate == 0 {
		bitrate = defaultBitrateKbps
	}
	return []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", fmt.Sprintf("%dK", bitrate),
		"-o", filepath.Join(f.WorkDir, videoID+".%(ext)s"),
		"--no-playlist",
		"--no-warnings",
		fmt.Sprintf(watchURLTemplate, videoID),
	}
}

// checkInstalled verifies that yt-dlp is available.
func (f *Fetcher) checkInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, f.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (f *Fetcher) path() string {
	if f.YtdlpPath != "" {
		return f.YtdlpPath
	}
	return defaultYtdlpPath
}

// classifyYtdlpStderr maps yt-dlp stderr patterns to sentinel errors.
func classifyYtdlpStderr(stderr string, err error) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "has been removed"):
		return ErrVideoUnavailable
	case strings.Contains(lower, "429"), strings.Contains(lower, "rate-limit"),
		strings.Contains(lower, "too many requests"):
		return ErrRateLimited
	}
	return fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr))
}

// fetchErrorClassifier determines if a fetch error is retryable.
func fetchErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrVideoUnavailable),
		errors.Is(err, ErrYtdlpNotInstalled),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}
