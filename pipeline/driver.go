package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"courtcast/feed"
	"courtcast/storage"
)

// RunResult reports what one pipeline invocation did.
type RunResult struct {
	// Detected is the number of new candidates found this run.
	Detected int
	// Published is the number of episodes appended to the catalog.
	Published int
	// Failed is the number of candidates that errored and remain seen.
	Failed int
	// Skipped is the number of candidates resolved without publishing
	// (crash recovery of an already-cataloged episode).
	Skipped int
}

// Driver runs the pipeline end to end, enforcing the per-candidate atomicity
// boundary: transform, append to catalog, persist catalog, mark processed,
// persist state, then move on. The feed is regenerated exactly once after
// all candidates are attempted.
type Driver struct {
	Detector    *Detector
	Transformer *Transformer
	State       *storage.StateStore
	Catalog     *storage.Catalog

	Show     feed.Show
	FeedPath string

	Logger *slog.Logger

	now func() time.Time
}

func (d *Driver) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now().UTC()
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Run performs one full pipeline invocation. Per-candidate failures are
// contained: the candidate stays seen for the next run and processing
// continues. Run-level failures (listing/quota, state persistence, invariant
// violations) abort and leave the previous feed document untouched.
func (d *Driver) Run(ctx context.Context) (RunResult, error) {
	var res RunResult
	log := d.logger().With("run", shortRunID())

	candidates, err := d.Detector.Detect(ctx)
	if err != nil {
		return res, err
	}
	res.Detected = len(candidates)
	log.Info("detection complete", "candidates", res.Detected)

	for _, video := range candidates {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// Crash recovery: a previous run persisted the catalog entry but
		// died before persisting the processed state. Heal the state
		// instead of republishing.
		if d.Catalog.Has(video.ID) {
			log.Warn("candidate already cataloged, healing state", "video", video.ID)
			if err := d.markProcessedAndPersist(video.ID); err != nil {
				return res, err
			}
			res.Skipped++
			continue
		}

		rec, err := d.Transformer.Transform(ctx, video, d.Catalog.Len()+1)
		if err != nil {
			log.Error("candidate failed, will retry next run",
				"video", video.ID, "error", err)
			res.Failed++
			continue
		}

		// The catalog gate should be unreachable given the state store
		// check above; a duplicate here is an invariant violation and the
		// feed must not be rewritten from a corrupted ledger.
		if err := d.Catalog.Append(rec); err != nil {
			return res, fmt.Errorf("append episode %s: %w", video.ID, err)
		}
		if err := d.Catalog.Persist(); err != nil {
			return res, err
		}
		if err := d.markProcessedAndPersist(video.ID); err != nil {
			return res, err
		}

		res.Published++
		log.Info("episode published", "video", video.ID, "title", rec.Title,
			"url", rec.AudioURL, "bytes", rec.AudioBytes)
	}

	if err := d.writeFeed(); err != nil {
		return res, err
	}

	log.Info("run complete", "detected", res.Detected, "published", res.Published,
		"failed", res.Failed, "skipped", res.Skipped)
	return res, nil
}

// Init bootstraps a channel: every currently listed item is marked processed
// without publishing, so future runs only pick up new uploads. The catalog
// and feed are untouched.
func (d *Driver) Init(ctx context.Context) (int, error) {
	candidates, err := d.Detector.Detect(ctx)
	if err != nil {
		return 0, err
	}

	for _, video := range candidates {
		if err := d.State.MarkProcessed(video.ID); err != nil {
			return 0, err
		}
	}
	if err := d.State.Persist(); err != nil {
		return 0, err
	}

	d.logger().Info("state initialized", "marked", len(candidates),
		"total", d.State.Len())
	return len(candidates), nil
}

// markProcessedAndPersist transitions one identity and persists the state.
func (d *Driver) markProcessedAndPersist(videoID string) error {
	if err := d.State.MarkProcessed(videoID); err != nil {
		return err
	}
	return d.State.Persist()
}

// writeFeed regenerates the feed document wholesale from the catalog.
func (d *Driver) writeFeed() error {
	raw, err := feed.Render(d.Show, d.Catalog.All(), d.clock())
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(d.FeedPath, raw); err != nil {
		return &storage.StorageError{Op: "write", Entity: "feed", ID: d.FeedPath, Err: err}
	}
	return nil
}

// shortRunID returns a compact run correlation ID for logs.
func shortRunID() string {
	return uuid.NewString()[:8]
}
