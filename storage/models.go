package storage

import "time"

// Status values for a StateEntry. An entry moves seen -> processed at most
// once and never reverts.
const (
	StatusSeen      = "seen"
	StatusProcessed = "processed"
)

// StateEntry records what the pipeline knows about one remote video ID.
type StateEntry struct {
	Status    string    `json:"status"`
	FirstSeen time.Time `json:"first_seen"`
}

// EpisodeRecord is the durable publication record for one processed video.
// Records are immutable once appended to the catalog.
type EpisodeRecord struct {
	VideoID     string        `json:"video_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Published   time.Time     `json:"published_at"`
	AudioURL    string        `json:"audio_url"`
	AudioBytes  int64         `json:"file_size"`
	Duration    time.Duration `json:"duration"`
	ProcessedAt time.Time     `json:"processed_at"`
}
