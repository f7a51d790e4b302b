// Package store persists captured posts. Each post becomes one JSON
// file keyed by its assigned sequential id inside the scope directory.
// The guarantee is write-then-commit: an id is only consumed, and a
// fingerprint only recorded, after the post file is durably on disk.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"redditharvest/pkg/errors"
	"redditharvest/pkg/logger"
	"redditharvest/pkg/reddit"
	"redditharvest/pkg/tracker"
)

// Writer persists posts for one scope and advances the tracker state
type Writer struct {
	dir     string
	tracker *tracker.Tracker
	log     logger.Logger
}

// NewWriter creates a writer for the scope directory
func NewWriter(dir string, t *tracker.Tracker, log logger.Logger) *Writer {
	return &Writer{dir: dir, tracker: t, log: log}
}

// Write assigns the next sequential id to the post, serializes it, and
// only after a successful write records the fingerprint and advances
// the identity counter. A failed write leaves the tracker untouched, so
// the same id is reassigned on the next attempt.
func (w *Writer) Write(post *reddit.Post) (int, error) {
	id := w.tracker.NextID()
	post.ID = id

	path := filepath.Join(w.dir, fmt.Sprintf("%d.json", id))
	if err := writePostAtomic(path, post); err != nil {
		return 0, errors.Wrap(errors.TypePersistence,
			fmt.Sprintf("failed to write post %d", id), err)
	}

	w.tracker.RecordFingerprint(post.Hash)
	if err := w.tracker.Advance(); err != nil {
		return id, errors.Wrap(errors.TypePersistence,
			"post written but tracker commit failed", err)
	}

	w.log.InfoWithFields("post saved", map[string]interface{}{
		"id":       id,
		"path":     path,
		"comments": reddit.CountComments(post.Comments),
	})

	return id, nil
}

// writePostAtomic serializes the post via a temp file, sync and rename.
// HTML escaping is disabled so non-ASCII content is preserved literally.
func writePostAtomic(path string, post *reddit.Post) error {
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(post); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode post: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync post file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close post file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename post file: %w", err)
	}

	return nil
}

// CountPostFiles returns how many post files the scope directory holds,
// excluding the reserved tracker files.
func CountPostFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == tracker.IDTrackerFile || name == tracker.HashTrackerFile {
			continue
		}
		count++
	}
	return count
}
