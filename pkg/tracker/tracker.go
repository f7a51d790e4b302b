// Package tracker persists the identity and deduplication state for one
// collection scope: the next sequential post id and the set of link
// fingerprints already captured. Both live in small JSON tracker files
// inside the scope directory and are rewritten wholesale, atomically, on
// every successful post write.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"redditharvest/pkg/logger"
)

// Reserved tracker filenames inside a scope directory. The dataset
// merger must skip these when scanning for post files.
const (
	IDTrackerFile   = "id_tracker.json"
	HashTrackerFile = "hash_tracker.json"
)

type idState struct {
	NextID int `json:"next_id"`
}

type hashState struct {
	Hashes []string `json:"hashes"`
}

// Tracker holds the in-memory identity counter and fingerprint set for
// one scope. It is mutated by a single goroutine only.
type Tracker struct {
	dir      string
	idPath   string
	hashPath string
	nextID   int
	hashes   map[string]struct{}
	log      logger.Logger
}

// Load opens the tracker state for a scope directory, creating the
// directory if needed. Missing tracker files are not an error: the
// counter defaults to 1 and the fingerprint set to empty.
func Load(dir string, log logger.Logger) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scope directory: %w", err)
	}

	t := &Tracker{
		dir:      dir,
		idPath:   filepath.Join(dir, IDTrackerFile),
		hashPath: filepath.Join(dir, HashTrackerFile),
		nextID:   1,
		hashes:   make(map[string]struct{}),
		log:      log,
	}

	var ids idState
	if err := readJSON(t.idPath, &ids); err != nil {
		return nil, fmt.Errorf("failed to load id tracker: %w", err)
	} else if ids.NextID > 0 {
		t.nextID = ids.NextID
	}

	var hashes hashState
	if err := readJSON(t.hashPath, &hashes); err != nil {
		return nil, fmt.Errorf("failed to load hash tracker: %w", err)
	}
	for _, h := range hashes.Hashes {
		t.hashes[h] = struct{}{}
	}

	log.DebugWithFields("tracker state loaded", map[string]interface{}{
		"dir":     dir,
		"next_id": t.nextID,
		"hashes":  len(t.hashes),
	})

	return t, nil
}

// NextID returns the id the next successfully written post will receive.
// The id is only consumed by Advance, after the post file is on disk.
func (t *Tracker) NextID() int {
	return t.nextID
}

// Seen reports whether a fingerprint has already been captured
func (t *Tracker) Seen(hash string) bool {
	_, ok := t.hashes[hash]
	return ok
}

// Count returns the number of captured fingerprints
func (t *Tracker) Count() int {
	return len(t.hashes)
}

// RecordFingerprint adds a fingerprint to the in-memory set. The entry
// is not durable until the next Advance.
func (t *Tracker) RecordFingerprint(hash string) {
	t.hashes[hash] = struct{}{}
}

// Advance increments the identity counter and persists both tracker
// files. Callers must only invoke it after the corresponding post file
// was durably written: the ordering is write item, then commit state.
func (t *Tracker) Advance() error {
	t.nextID++

	if err := writeJSONAtomic(t.idPath, idState{NextID: t.nextID}); err != nil {
		return fmt.Errorf("failed to persist id tracker: %w", err)
	}

	hashes := make([]string, 0, len(t.hashes))
	for h := range t.hashes {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	if err := writeJSONAtomic(t.hashPath, hashState{Hashes: hashes}); err != nil {
		return fmt.Errorf("failed to persist hash tracker: %w", err)
	}

	return nil
}

// readJSON decodes path into v, treating a missing file as empty state
func readJSON(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(v)
}

// writeJSONAtomic writes v to path via a temp file, sync and rename
func writeJSONAtomic(path string, v interface{}) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return err
	}

	return nil
}
