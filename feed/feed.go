// Package feed renders the podcast RSS document from the episode catalog.
// Rendering is a pure projection: the whole document is regenerated from the
// full catalog every run, so the feed can never drift from the ledger.
package feed

import (
	"fmt"
	"sort"
	"time"

	itunes "github.com/eduncan911/podcast"

	"courtcast/storage"
)

// Show holds the channel-level podcast metadata.
type Show struct {
	Title       string
	Description string
	Link        string
	Author      string
	Email       string
	Language    string
	Category    string
	// ImageURL is optional podcast artwork.
	ImageURL string
	Explicit bool
}

// Render produces the RSS document for the given records, newest-first by
// publish timestamp with ties broken by video ID for determinism. The output
// is byte-for-byte stable for a fixed generatedAt.
func Render(show Show, records []storage.EpisodeRecord, generatedAt time.Time) ([]byte, error) {
	sorted := make([]storage.EpisodeRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Published.Equal(sorted[j].Published) {
			return sorted[i].Published.After(sorted[j].Published)
		}
		return sorted[i].VideoID < sorted[j].VideoID
	})

	pubDate := generatedAt
	if len(sorted) > 0 {
		pubDate = sorted[0].Published
	}

	p := itunes.New(show.Title, show.Link, show.Description, &pubDate, &generatedAt)
	p.Language = show.Language
	p.AddAuthor(show.Author, show.Email)
	if show.Category != "" {
		p.AddCategory(show.Category, nil)
	}
	if show.ImageURL != "" {
		p.AddImage(show.ImageURL)
	}
	p.IExplicit = "no"
	if show.Explicit {
		p.IExplicit = "yes"
	}

	for _, rec := range sorted {
		description := rec.Description
		if description == "" {
			description = rec.Title
		}

		item := itunes.Item{
			Title:       rec.Title,
			Description: description,
			GUID:        rec.VideoID,
		}
		published := rec.Published
		item.AddPubDate(&published)
		item.AddEnclosure(rec.AudioURL, itunes.MP3, rec.AudioBytes)
		if rec.Duration > 0 {
			item.AddDuration(int64(rec.Duration.Seconds()))
		}
		if info := ParseCaseInfo(rec.Title); info.Docket != "" {
			item.ISubtitle = "Docket: " + info.Docket
		}

		if _, err := p.AddItem(item); err != nil {
			return nil, fmt.Errorf("feed: add item %s: %w", rec.VideoID, err)
		}
	}

	return p.Bytes(), nil
}
