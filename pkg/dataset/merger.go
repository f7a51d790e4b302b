// Package dataset flattens the persisted per-community post files into
// one CSV. The pass is stateless: every run rescans the data root,
// assigns fresh sequential row ids and rewrites the output wholesale.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"redditharvest/pkg/logger"
	"redditharvest/pkg/tracker"
)

// header is the fixed column set of the output dataset
var header = []string{"auto_id", "category", "title", "description", "votes", "comments", "url"}

// record is one flattened output row
type record struct {
	autoID      int
	category    string
	title       string
	description string
	votes       string
	comments    string
	url         string
}

// Merger scans a data root and writes the flattened CSV dataset
type Merger struct {
	dataDir string
	output  string
	log     logger.Logger

	records []record
	autoID  int
}

// NewMerger creates a merger for the given data root and output path
func NewMerger(dataDir, output string, log logger.Logger) *Merger {
	return &Merger{
		dataDir: dataDir,
		output:  output,
		log:     log,
		autoID:  1,
	}
}

// Run scans every community under the data root and writes the CSV.
// It returns the number of rows written. No records at all is an
// error; individual malformed files are logged and skipped.
func (m *Merger) Run() (int, error) {
	communities, err := os.ReadDir(m.dataDir)
	if err != nil {
		return 0, fmt.Errorf("data directory not found: %w", err)
	}

	for _, community := range communities {
		if !community.IsDir() {
			continue
		}
		communityPath := filepath.Join(m.dataDir, community.Name())
		m.log.WithField("community", community.Name()).Info("scanning community")

		// A community either holds per-flair subfolders, each its own
		// category, or post files directly, in which case the
		// community folder itself is the category.
		subdirs := listSubdirs(communityPath)
		if len(subdirs) > 0 {
			for _, sub := range subdirs {
				n := m.scanCategory(filepath.Join(communityPath, sub), sub)
				m.log.InfoWithFields("category scanned", map[string]interface{}{
					"category": sub,
					"records":  n,
				})
			}
		} else {
			n := m.scanCategory(communityPath, community.Name())
			m.log.InfoWithFields("category scanned", map[string]interface{}{
				"category": community.Name(),
				"records":  n,
			})
		}
	}

	if len(m.records) == 0 {
		return 0, fmt.Errorf("no records found under %s", m.dataDir)
	}

	if err := m.writeCSV(); err != nil {
		return 0, err
	}

	m.log.InfoWithFields("dataset written", map[string]interface{}{
		"output":  m.output,
		"records": len(m.records),
	})

	return len(m.records), nil
}

// scanCategory flattens every post file in one category folder
func (m *Merger) scanCategory(dir, category string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.log.WithError(err).WithField("dir", dir).Warn("failed to read category folder")
		return 0
	}

	processed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == tracker.IDTrackerFile || name == tracker.HashTrackerFile {
			continue
		}

		rec, err := m.flattenFile(filepath.Join(dir, name), category)
		if err != nil {
			m.log.WithError(err).WithField("file", name).Warn("skipping malformed post file")
			continue
		}
		m.records = append(m.records, rec)
		processed++
	}
	return processed
}

// flattenFile turns one post file into a fixed-column record
func (m *Merger) flattenFile(path, category string) (record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record{}, err
	}

	var post map[string]interface{}
	if err := json.Unmarshal(data, &post); err != nil {
		return record{}, err
	}

	rec := record{
		autoID:      m.autoID,
		category:    category,
		title:       textify(post["title"]),
		description: textify(post["description"]),
		votes:       textify(post["votes"]),
		comments:    commentsJSON(post["comments"]),
		url:         textify(post["url"]),
	}
	m.autoID++
	return rec, nil
}

// writeCSV rewrites the output file wholesale
func (m *Merger) writeCSV() error {
	file, err := os.Create(m.output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range m.records {
		row := []string{
			fmt.Sprintf("%d", rec.autoID),
			rec.category,
			rec.title,
			rec.description,
			rec.votes,
			rec.comments,
			rec.url,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// listSubdirs returns the names of the direct subdirectories of dir
func listSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
		}
	}
	return subdirs
}

// textify converts any flattened field value to its textual form.
// Null, empty and whitespace-only values all collapse to "".
func textify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []interface{}:
		if len(t) == 0 {
			return ""
		}
		return fmt.Sprint(t)
	case map[string]interface{}:
		if len(t) == 0 {
			return ""
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

// commentsJSON serializes the comment tree as one JSON blob, "[]" for a
// missing or empty tree. Non-ASCII content is preserved literally.
func commentsJSON(v interface{}) string {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return "[]"
	}
	var sb strings.Builder
	encoder := json.NewEncoder(&sb)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(list); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
