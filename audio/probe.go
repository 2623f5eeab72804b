package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const defaultFfprobePath = "ffprobe"

// Probe measures a produced MP3 artifact: byte length from the filesystem,
// duration from ffprobe when available, with a CBR estimate fallback.
type Probe struct {
	// FfprobePath is the path to the ffprobe executable. Defaults to
	// "ffprobe".
	FfprobePath string

	// BitrateKbps is used for the duration estimate when ffprobe is not
	// available. Defaults to 128.
	BitrateKbps int
}

// Measure returns the byte length and duration of the artifact at path.
// A failure to stat the file is fatal; a failed ffprobe degrades to the
// size/bitrate estimate, since the artifact is constant-bitrate by
// construction.
func (p *Probe) Measure(ctx context.Context, path string) (int64, time.Duration, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("audio: probe %s: %w", path, err)
	}
	size := info.Size()

	dur, err := p.ffprobeDuration(ctx, path)
	if err != nil {
		// A canceled run must not masquerade as a degraded probe.
		if ctx.Err() != nil {
			return 0, 0, fmt.Errorf("audio: probe %s: %w", path, ctx.Err())
		}
		return size, p.estimateDuration(size), nil
	}

	return size, dur, nil
}

// ffprobeDuration asks ffprobe for the container duration in seconds.
func (p *Probe) ffprobeDuration(ctx context.Context, path string) (time.Duration, error) {
	ffprobe := p.FfprobePath
	if ffprobe == "" {
		ffprobe = defaultFfprobePath
	}

	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration: %w", err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// estimateDuration derives duration from byte length at the target bitrate.
func (p *Probe) estimateDuration(size int64) time.Duration {
	bitrate := p.BitrateKbps
	if bitrate == 0 {
		bitrate = defaultBitrateKbps
	}
	seconds := float64(size*8) / float64(bitrate*1000)
	return time.Duration(seconds * float64(time.Second))
}
