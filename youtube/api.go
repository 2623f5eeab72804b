package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"courtcast/retry"
)

const (
	// apiPageSize is the Data API maximum for playlistItems.list.
	apiPageSize = 50
	// defaultDailyQuota is the default Data API daily quota in units.
	defaultDailyQuota = 10000
)

// APILister implements Lister using YouTube Data API v3. It pages through the
// channel's uploads playlist and tracks estimated quota consumption so the
// caller can abort a run before the daily budget is gone.
type APILister struct {
	service     *youtubeapi.Service
	limiter     *rate.Limiter
	RetryConfig *retry.Config

	mu             sync.Mutex
	estimatedQuota int
	lastQuotaReset time.Time
}

// NewAPILister creates a Data API v3 lister. The API key is required; rps
// bounds the request rate against the API (0 = 2 requests/second).
func NewAPILister(ctx context.Context, apiKey string, rps float64) (*APILister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	if rps <= 0 {
		rps = 2
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	cfg := retry.DefaultConfig()
	return &APILister{
		service:        service,
		limiter:        rate.NewLimiter(rate.Limit(rps), 1),
		RetryConfig:    &cfg,
		estimatedQuota: defaultDailyQuota,
		lastQuotaReset: time.Now(),
	}, nil
}

// ListVideos fetches recent uploads from the channel's uploads playlist,
// newest-first, paging internally up to opts.MaxResults.
func (a *APILister) ListVideos(ctx context.Context, channelID string, opts *ListOptions) ([]Video, error) {
	id, err := ExtractChannelID(channelID)
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: channelID, Err: err}
	}
	playlistID, err := UploadsPlaylistID(id)
	if err != nil {
		return nil, &ListerError{Source: "api", Channel: channelID, Err: err}
	}

	cfg := a.RetryConfig
	if cfg == nil {
		defaultCfg := retry.DefaultConfig()
		cfg = &defaultCfg
	}

	var videos []Video
	pageToken := ""
	for {
		if opts != nil && opts.MaxResults > 0 && len(videos) >= opts.MaxResults {
			videos = videos[:opts.MaxResults]
			break
		}

		err := retry.Do(ctx, *cfg, apiErrorClassifier, func(ctx context.Context) error {
			if err := a.limiter.Wait(ctx); err != nil {
				return err
			}

			call := a.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(apiPageSize).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				if ctx.Err() != nil {
					return ErrNetworkTimeout
				}
				return classifyAPIError(err)
			}

			for _, item := range resp.Items {
				videos = append(videos, playlistItemToVideo(item))
			}
			pageToken = resp.NextPageToken
			a.trackQuotaUsage(1) // playlistItems.list costs 1 unit per page
			return nil
		})
		if err != nil {
			return nil, &ListerError{Source: "api", Channel: channelID, Err: err}
		}

		if pageToken == "" {
			break
		}
	}

	return filterVideos(videos, opts), nil
}

// playlistItemToVideo converts one playlist item to a Video.
func playlistItemToVideo(item *youtubeapi.PlaylistItem) Video {
	v := Video{}
	if item.ContentDetails != nil {
		v.ID = item.ContentDetails.VideoId
	}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
		v.Description = item.Snippet.Description
		if v.ID == "" && item.Snippet.ResourceId != nil {
			v.ID = item.Snippet.ResourceId.VideoId
		}
		if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			v.Published = t
		}
	}
	return v
}

// classifyAPIError maps Data API error payloads to sentinel errors.
func classifyAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "quotaExceeded", "dailyLimitExceeded":
				return ErrQuotaExceeded
			case "rateLimitExceeded", "userRateLimitExceeded":
				return ErrRateLimited
			case "playlistNotFound", "channelNotFound", "notFound":
				return ErrChannelNotFound
			}
		}
		if gerr.Code == 404 {
			return ErrChannelNotFound
		}
		if gerr.Code == 429 {
			return ErrRateLimited
		}
	}
	return err
}

// trackQuotaUsage updates the estimated remaining quota.
func (a *APILister) trackQuotaUsage(units int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if time.Since(a.lastQuotaReset) > 24*time.Hour {
		a.estimatedQuota = defaultDailyQuota
		a.lastQuotaReset = time.Now()
	}

	a.estimatedQuota -= units
	if a.estimatedQuota < 0 {
		slog.Warn("youtube api quota estimate exhausted", "remaining", a.estimatedQuota)
	}
}

// EstimatedQuota returns the estimated remaining quota units.
func (a *APILister) EstimatedQuota() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.estimatedQuota
}

// apiErrorClassifier determines if a Data API error is retryable.
// Quota exhaustion is permanent for the rest of the run; retrying would only
// burn more of the shared budget.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, ErrChannelNotFound),
		errors.Is(err, ErrInvalidChannel),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}
