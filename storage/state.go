package storage

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

const stateSchemaVersion = "1.0"

// StateStore is the persisted mapping of video ID to processing status.
// It is the single source of truth for "have we handled this yet."
//
// A StateStore is not safe for concurrent use; the pipeline is a
// single-threaded batch job and cross-process exclusion is handled by DirLock.
type StateStore struct {
	path string
	data *stateData
}

// stateData is the top-level JSON structure of the state file.
type stateData struct {
	Version   string                 `json:"version"`
	UpdatedAt time.Time              `json:"updated_at"`
	Entries   map[string]*StateEntry `json:"entries"`
}

// OpenStateStore loads the state file at path.
//
// A missing file is treated as "nothing seen yet" only when allowMissing is
// set; otherwise it returns ErrStateMissing so a lost state file cannot
// silently trigger mass republishing. An unparsable file always returns
// ErrStorageCorrupt.
func OpenStateStore(path string, allowMissing bool) (*StateStore, error) {
	s := &StateStore{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !allowMissing {
				return nil, &StorageError{Op: "read", Entity: "state", ID: path, Err: ErrStateMissing}
			}
			s.data = &stateData{
				Version: stateSchemaVersion,
				Entries: make(map[string]*StateEntry),
			}
			return s, nil
		}
		return nil, &StorageError{Op: "read", Entity: "state", ID: path, Err: err}
	}

	s.data = &stateData{}
	if err := json.Unmarshal(raw, s.data); err != nil {
		return nil, &StorageError{Op: "read", Entity: "state", ID: path, Err: ErrStorageCorrupt}
	}
	if s.data.Entries == nil {
		s.data.Entries = make(map[string]*StateEntry)
	}

	return s, nil
}

// Has reports whether the video ID is present in any status.
func (s *StateStore) Has(videoID string) bool {
	_, ok := s.data.Entries[videoID]
	return ok
}

// IsProcessed reports whether the video ID has been fully processed. A seen
// entry is not processed; it is a candidate awaiting (re)transformation.
func (s *StateStore) IsProcessed(videoID string) bool {
	entry, ok := s.data.Entries[videoID]
	return ok && entry.Status == StatusProcessed
}

// Entry returns the entry for videoID, or ErrNotFound.
func (s *StateStore) Entry(videoID string) (*StateEntry, error) {
	entry, ok := s.data.Entries[videoID]
	if !ok {
		return nil, &StorageError{Op: "read", Entity: "state", ID: videoID, Err: ErrNotFound}
	}
	return entry, nil
}

// MarkSeen inserts a seen entry for videoID if absent. Calling it again for
// the same ID is a no-op, so a re-detected candidate keeps its original
// first-seen timestamp and a processed entry is never demoted.
func (s *StateStore) MarkSeen(videoID string, firstSeen time.Time) {
	if _, ok := s.data.Entries[videoID]; ok {
		return
	}
	s.data.Entries[videoID] = &StateEntry{
		Status:    StatusSeen,
		FirstSeen: firstSeen,
	}
}

// MarkProcessed transitions an entry from seen to processed. It returns
// ErrInvalidTransition if the entry does not exist or is already processed,
// enforcing the processed-only-once guarantee.
func (s *StateStore) MarkProcessed(videoID string) error {
	entry, ok := s.data.Entries[videoID]
	if !ok {
		return &StorageError{Op: "mark", Entity: "state", ID: videoID, Err: ErrInvalidTransition}
	}
	if entry.Status == StatusProcessed {
		return &StorageError{Op: "mark", Entity: "state", ID: videoID, Err: ErrInvalidTransition}
	}
	entry.Status = StatusProcessed
	return nil
}

// Len returns the number of entries in the store.
func (s *StateStore) Len() int {
	return len(s.data.Entries)
}

// CountByStatus returns the number of entries with the given status.
func (s *StateStore) CountByStatus(status string) int {
	n := 0
	for _, entry := range s.data.Entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Persist writes the full mapping atomically. JSON object keys marshal in
// sorted order, which keeps the file stable and diffable across runs.
func (s *StateStore) Persist() error {
	s.data.Version = stateSchemaVersion
	s.data.UpdatedAt = time.Now().UTC()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Entity: "state", ID: s.path, Err: err}
	}
	if err := WriteFileAtomic(s.path, append(raw, '\n')); err != nil {
		return &StorageError{Op: "write", Entity: "state", ID: s.path, Err: err}
	}
	return nil
}
