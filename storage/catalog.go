package storage

import (
	"encoding/json"
	"errors"
	"os"
)

// Catalog is the append-only persisted collection of episode records, the
// durable publication ledger. Records are never updated or removed by the
// pipeline; corrections are out-of-band edits to the file itself.
type Catalog struct {
	path    string
	records []EpisodeRecord
	byID    map[string]struct{}
}

// OpenCatalog loads the episode ledger at path. A missing file is an empty
// catalog; an unparsable file is ErrStorageCorrupt.
func OpenCatalog(path string) (*Catalog, error) {
	c := &Catalog{
		path: path,
		byID: make(map[string]struct{}),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, &StorageError{Op: "read", Entity: "catalog", ID: path, Err: err}
	}

	if err := json.Unmarshal(raw, &c.records); err != nil {
		return nil, &StorageError{Op: "read", Entity: "catalog", ID: path, Err: ErrStorageCorrupt}
	}
	for _, rec := range c.records {
		if _, dup := c.byID[rec.VideoID]; dup {
			return nil, &StorageError{Op: "read", Entity: "catalog", ID: rec.VideoID, Err: ErrDuplicateEpisode}
		}
		c.byID[rec.VideoID] = struct{}{}
	}

	return c, nil
}

// Append adds a record to the catalog. It returns ErrDuplicateEpisode if a
// record with the same video ID already exists. The state store gate should
// make that unreachable; this is the last line of defense against
// double-publishing.
func (c *Catalog) Append(rec EpisodeRecord) error {
	if _, dup := c.byID[rec.VideoID]; dup {
		return &StorageError{Op: "append", Entity: "catalog", ID: rec.VideoID, Err: ErrDuplicateEpisode}
	}
	c.records = append(c.records, rec)
	c.byID[rec.VideoID] = struct{}{}
	return nil
}

// Has reports whether a record with the given video ID exists.
func (c *Catalog) Has(videoID string) bool {
	_, ok := c.byID[videoID]
	return ok
}

// All returns the records in catalog (append) order. The returned slice is a
// copy; mutating it does not affect the catalog.
func (c *Catalog) All() []EpisodeRecord {
	out := make([]EpisodeRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Persist writes the full ledger atomically.
func (c *Catalog) Persist() error {
	records := c.records
	if records == nil {
		records = []EpisodeRecord{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Entity: "catalog", ID: c.path, Err: err}
	}
	if err := WriteFileAtomic(c.path, append(raw, '\n')); err != nil {
		return &StorageError{Op: "write", Entity: "catalog", ID: c.path, Err: err}
	}
	return nil
}
