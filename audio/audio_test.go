package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	id3v2 "github.com/bogem/id3v2/v2"
)

func id3v2Open(path string) (*id3v2.Tag, error) {
	return id3v2.Open(path, id3v2.Options{Parse: true})
}

func TestBuildArgs(t *testing.T) {
	f := NewFetcher("/tmp/work")
	f.BitrateKbps = 96

	args := f.buildArgs("dQw4w9WgXcQ")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-x",
		"--audio-format mp3",
		"--audio-quality 96K",
		"--no-playlist",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if !strings.Contains(joined, filepath.Join("/tmp/work", "dQw4w9WgXcQ.%(ext)s")) {
		t.Errorf("args %q missing output template", joined)
	}
}

func TestClassifyYtdlpStderr(t *testing.T) {
	base := errors.New("exit status 1")

	tests := []struct {
		stderr string
		want   error
	}{
		{"ERROR: Video unavailable", ErrVideoUnavailable},
		{"ERROR: Private video. Sign in", ErrVideoUnavailable},
		{"HTTP Error 429: Too Many Requests", ErrRateLimited},
	}
	for _, tt := range tests {
		if got := classifyYtdlpStderr(tt.stderr, base); !errors.Is(got, tt.want) {
			t.Errorf("classifyYtdlpStderr(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}

	got := classifyYtdlpStderr("something else", base)
	if !errors.Is(got, base) {
		t.Errorf("unknown stderr should wrap the exec error, got %v", got)
	}
}

func TestFetchErrorClassifier(t *testing.T) {
	if fetchErrorClassifier(&FetchError{VideoID: "x", Err: ErrVideoUnavailable}) {
		t.Error("unavailable videos must not be retried")
	}
	if fetchErrorClassifier(ErrYtdlpNotInstalled) {
		t.Error("missing binary must not be retried")
	}
	if !fetchErrorClassifier(&FetchError{VideoID: "x", Err: ErrRateLimited}) {
		t.Error("rate limiting should be retried")
	}
	if !fetchErrorClassifier(&FetchError{VideoID: "x", Err: context.DeadlineExceeded}) {
		t.Error("per-attempt timeouts should be retried")
	}
}

func TestFetchReusesExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "abc123.mp3")
	if err := os.WriteFile(existing, []byte("mp3 bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(dir)
	// "true" stands in for yt-dlp: the install check passes and the fetch
	// must return before ever invoking a download.
	f.YtdlpPath = "true"

	got, err := f.Fetch(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != existing {
		t.Errorf("Fetch() = %q, want existing artifact %q", got, existing)
	}
}

func TestFetchMissingBinary(t *testing.T) {
	f := NewFetcher(t.TempDir())
	f.YtdlpPath = filepath.Join(t.TempDir(), "definitely-not-here")

	_, err := f.Fetch(context.Background(), "abc123")
	if !errors.Is(err, ErrYtdlpNotInstalled) {
		t.Fatalf("Fetch() error = %v, want ErrYtdlpNotInstalled", err)
	}
}

func TestProbeEstimateFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ep.mp3")
	// 128 kbps = 16000 bytes/second; 160000 bytes = 10 seconds.
	if err := os.WriteFile(path, make([]byte, 160000), 0644); err != nil {
		t.Fatal(err)
	}

	p := &Probe{
		FfprobePath: filepath.Join(dir, "no-ffprobe-here"),
		BitrateKbps: 128,
	}
	size, dur, err := p.Measure(context.Background(), path)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if size != 160000 {
		t.Errorf("size = %d, want 160000", size)
	}
	if dur != 10*time.Second {
		t.Errorf("duration = %v, want 10s", dur)
	}
}

func TestProbeCanceledContextPropagates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ep.mp3")
	if err := os.WriteFile(path, make([]byte, 16000), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Probe{BitrateKbps: 128}
	if _, _, err := p.Measure(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Measure() error = %v, want context.Canceled (not a silent estimate)", err)
	}
}

func TestProbeMissingFile(t *testing.T) {
	p := &Probe{}
	if _, _, err := p.Measure(context.Background(), filepath.Join(t.TempDir(), "nope.mp3")); err == nil {
		t.Fatal("Measure() on missing file should error")
	}
}

func TestWriteTagsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ep.mp3")
	if err := os.WriteFile(path, make([]byte, 4096), 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteTags(path, Tags{
		Title:  "Commonwealth v. Delarosa, SJC-13444",
		Artist: "Massachusetts Supreme Judicial Court",
		Album:  "SJC Oral Arguments",
		Genre:  "Podcast",
		Year:   "2024",
		Track:  7,
		Docket: "SJC-13444",
	})
	if err != nil {
		t.Fatalf("WriteTags() error = %v", err)
	}

	tag, err := id3v2Open(path)
	if err != nil {
		t.Fatalf("reopen tag: %v", err)
	}
	defer tag.Close()

	if got := tag.Title(); got != "Commonwealth v. Delarosa, SJC-13444" {
		t.Errorf("Title = %q", got)
	}
	if got := tag.Artist(); got != "Massachusetts Supreme Judicial Court" {
		t.Errorf("Artist = %q", got)
	}
	if got := tag.Album(); got != "SJC Oral Arguments" {
		t.Errorf("Album = %q", got)
	}
}

func TestWriteTagsMissingFile(t *testing.T) {
	err := WriteTags(filepath.Join(t.TempDir(), "nope.mp3"), Tags{Title: "x"})
	if !errors.Is(err, ErrTagFailed) {
		t.Fatalf("WriteTags() error = %v, want ErrTagFailed", err)
	}
}
