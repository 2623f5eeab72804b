package youtube

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"courtcast/retry"
)

const (
	atomFeedURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"
	defaultAtomTimeout  = 30 * time.Second
)

// AtomLister implements Lister using YouTube's public Atom feeds. The feed
// only exposes the 15 most recent uploads and carries no duration, so it
// suits keyless operation and short lookback windows.
type AtomLister struct {
	client      *http.Client
	RetryConfig *retry.Config
}

// NewAtomLister creates a new Atom feed lister.
func NewAtomLister() *AtomLister {
	cfg := retry.DefaultConfig()
	return &AtomLister{
		client:      &http.Client{Timeout: defaultAtomTimeout},
		RetryConfig: &cfg,
	}
}

// NewAtomListerWithClient creates an Atom lister with a custom HTTP client.
func NewAtomListerWithClient(client *http.Client) *AtomLister {
	cfg := retry.DefaultConfig()
	return &AtomLister{client: client, RetryConfig: &cfg}
}

// ListVideos fetches the channel's Atom feed, newest-first.
func (l *AtomLister) ListVideos(ctx context.Context, channelID string, opts *ListOptions) ([]Video, error) {
	id, err := ExtractChannelID(channelID)
	if err != nil {
		return nil, &ListerError{Source: "atom", Channel: channelID, Err: err}
	}

	cfg := l.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	var videos []Video
	err = retry.Do(ctx, *cfg, atomErrorClassifier, func(ctx context.Context) error {
		feedURL := fmt.Sprintf(atomFeedURLTemplate, id)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
		if err != nil {
			return &ListerError{Source: "atom", Channel: channelID, Err: err}
		}

		resp, err := l.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return &ListerError{Source: "atom", Channel: channelID, Err: ErrNetworkTimeout}
			}
			return &ListerError{Source: "atom", Channel: channelID, Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return &ListerError{Source: "atom", Channel: channelID, Err: ErrChannelNotFound}
		case resp.StatusCode == http.StatusTooManyRequests:
			return &ListerError{Source: "atom", Channel: channelID, Err: ErrRateLimited}
		case resp.StatusCode != http.StatusOK:
			return &ListerError{Source: "atom", Channel: channelID,
				Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &ListerError{Source: "atom", Channel: channelID, Err: err}
		}

		videos, err = parseAtomFeed(body)
		if err != nil {
			return &ListerError{Source: "atom", Channel: channelID, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return filterVideos(videos, opts), nil
}

// atomFeed represents YouTube's Atom feed structure.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Title   string      `xml:"title"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	VideoID     string    `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	Title       string    `xml:"title"`
	Published   time.Time `xml:"published"`
	Description string    `xml:"group>description"`
}

// parseAtomFeed parses YouTube's Atom XML feed into videos.
func parseAtomFeed(data []byte) ([]Video, error) {
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	videos := make([]Video, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		videos = append(videos, Video{
			ID:          entry.VideoID,
			Title:       entry.Title,
			Description: entry.Description,
			Published:   entry.Published,
		})
	}
	return videos, nil
}

// atomErrorClassifier determines if an Atom fetch error is retryable.
func atomErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	var listerErr *ListerError
	if errors.As(err, &listerErr) {
		switch {
		case errors.Is(listerErr.Err, ErrChannelNotFound),
			errors.Is(listerErr.Err, ErrInvalidChannel):
			return false
		}
	}
	return true
}
