package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"courtcast/audio"
	"courtcast/feed"
	"courtcast/objstore"
	"courtcast/storage"
	"courtcast/youtube"
)

// AudioFetcher fetches and transcodes one video's audio, returning the local
// artifact path.
type AudioFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// AudioProber measures a produced artifact's byte length and duration.
type AudioProber interface {
	Measure(ctx context.Context, path string) (int64, time.Duration, error)
}

// Transformer turns one seen candidate into a published episode record:
// fetch/transcode, tag, probe, upload, assemble. Any failure other than
// tagging aborts the candidate without producing a record.
type Transformer struct {
	Fetcher AudioFetcher
	Prober  AudioProber
	Store   objstore.Store

	// ShowTitle and ShowAuthor feed the album/artist tags.
	ShowTitle  string
	ShowAuthor string

	// KeepLocal retains the local MP3 after a successful upload.
	KeepLocal bool

	// tagFunc is overridable in tests; defaults to audio.WriteTags.
	tagFunc func(path string, tags audio.Tags) error

	Logger *slog.Logger

	now func() time.Time
}

func (t *Transformer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now().UTC()
}

func (t *Transformer) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// Transform processes one candidate and returns its episode record.
// episodeNumber is the 1-based position the episode will take in the
// catalog; it only affects the ID3 track frame.
func (t *Transformer) Transform(ctx context.Context, video youtube.Video, episodeNumber int) (storage.EpisodeRecord, error) {
	var rec storage.EpisodeRecord

	path, err := t.Fetcher.Fetch(ctx, video.ID)
	if err != nil {
		return rec, fmt.Errorf("fetch audio: %w", err)
	}

	// Tagging failure degrades to untagged audio, never an aborted publish.
	// Tags go on before measuring so the recorded byte length matches the
	// uploaded artifact, ID3 frames included.
	if err := t.writeTags(path, video, episodeNumber); err != nil {
		t.logger().Warn("tagging failed, publishing untagged audio",
			"video", video.ID, "error", err)
	}

	size, duration, err := t.Prober.Measure(ctx, path)
	if err != nil {
		return rec, fmt.Errorf("probe artifact: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return rec, fmt.Errorf("open artifact: %w", err)
	}
	url, err := t.Store.Put(ctx, objstore.EpisodeKey(video.ID), f, "audio/mpeg")
	f.Close()
	if err != nil {
		return rec, fmt.Errorf("upload artifact: %w", err)
	}

	if !t.KeepLocal {
		if err := os.Remove(path); err != nil {
			t.logger().Warn("could not remove local artifact", "path", path, "error", err)
		}
	}

	return storage.EpisodeRecord{
		VideoID:     video.ID,
		Title:       video.Title,
		Description: video.Description,
		Published:   video.Published,
		AudioURL:    url,
		AudioBytes:  size,
		Duration:    duration,
		ProcessedAt: t.clock(),
	}, nil
}

// writeTags attaches descriptive ID3 tags to the artifact.
func (t *Transformer) writeTags(path string, video youtube.Video, episodeNumber int) error {
	tags := audio.Tags{
		Title:  video.Title,
		Artist: t.ShowAuthor,
		Album:  t.ShowTitle,
		Genre:  "Podcast",
		Track:  episodeNumber,
		Docket: feed.ParseCaseInfo(video.Title).Docket,
	}
	if !video.Published.IsZero() {
		tags.Year = video.Published.Format("2006")
	}

	write := t.tagFunc
	if write == nil {
		write = audio.WriteTags
	}
	return write(path, tags)
}
