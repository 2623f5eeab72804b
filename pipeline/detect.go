// Package pipeline orchestrates incremental synchronization: detecting new
// recordings, transforming each into a published episode exactly once, and
// regenerating the feed from accumulated state.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"courtcast/storage"
	"courtcast/youtube"
)

// Detector queries the remote listing capability, diffs against the state
// store, and returns the ordered set of new candidates.
type Detector struct {
	Lister  youtube.Lister
	State   *storage.StateStore
	Channel string

	// MaxLookback bounds how many recent uploads are examined per run
	// (0 = lister default).
	MaxLookback int
	// Since drops uploads published at or before this time.
	Since time.Time

	Logger *slog.Logger

	// now is overridable in tests.
	now func() time.Time
}

func (d *Detector) clock() time.Time {
	if d.now != nil {
		return d.now()
	}
	return time.Now().UTC()
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Detect lists recent uploads once and returns those not yet processed,
// sorted oldest-first so processing order matches upload order and a batch
// failure leaves the oldest unprocessed item as the next retry. Seen entries
// that never reached processed (a prior failure or crash) surface again as
// candidates.
//
// Every candidate is marked seen and the state store is persisted before
// Detect returns; re-marking is a no-op so a retried candidate keeps its
// original first-seen timestamp.
func (d *Detector) Detect(ctx context.Context) ([]youtube.Video, error) {
	opts := &youtube.ListOptions{
		MaxResults:     d.MaxLookback,
		PublishedAfter: d.Since,
	}
	videos, err := d.Lister.ListVideos(ctx, d.Channel, opts)
	if err != nil {
		return nil, fmt.Errorf("list recent uploads: %w", err)
	}

	// Items shifting across playlist pages mid-listing can surface the same
	// ID twice; candidates form a set, so only the first occurrence counts.
	candidates := make([]youtube.Video, 0, len(videos))
	listed := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		if v.ID == "" {
			continue
		}
		if _, dup := listed[v.ID]; dup {
			continue
		}
		listed[v.ID] = struct{}{}
		if !d.State.IsProcessed(v.ID) {
			candidates = append(candidates, v)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].Published.Equal(candidates[j].Published) {
			return candidates[i].Published.Before(candidates[j].Published)
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) == 0 {
		d.logger().Debug("no new uploads", "channel", d.Channel, "listed", len(videos))
		return nil, nil
	}

	seenAt := d.clock()
	for _, v := range candidates {
		d.State.MarkSeen(v.ID, seenAt)
		d.logger().Info("new upload detected", "video", v.ID, "title", v.Title,
			"published", v.Published)
	}
	if err := d.State.Persist(); err != nil {
		return nil, fmt.Errorf("persist state after detect: %w", err)
	}

	return candidates, nil
}
