// Package store persists the three pipeline collections as whole JSON files
// under a single data directory. Each collection is read and rewritten in
// full; there is no locking, callers are expected to run one pipeline
// invocation at a time.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	candidatesFile = "candidates.json"
	historyFile    = "topic-history.json"
	postsFile      = "posts.json"
)

type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

func (s *Store) LoadCandidates() ([]Candidate, error) {
	return loadCollection[Candidate](s.path(candidatesFile))
}

func (s *Store) SaveCandidates(candidates []Candidate) error {
	return saveCollection(s.path(candidatesFile), candidates)
}

func (s *Store) LoadHistory() ([]TopicHistoryEntry, error) {
	return loadCollection[TopicHistoryEntry](s.path(historyFile))
}

func (s *Store) SaveHistory(history []TopicHistoryEntry) error {
	return saveCollection(s.path(historyFile), history)
}

func (s *Store) LoadPosts() ([]Post, error) {
	return loadCollection[Post](s.path(postsFile))
}

func (s *Store) SavePosts(posts []Post) error {
	return saveCollection(s.path(postsFile), posts)
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dataDir, name)
}

// loadCollection reads a whole collection file. A missing file is a normal
// first-run condition and yields an empty collection, not an error.
func loadCollection[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("Collection file not found, using empty default", "path", path)
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if records == nil {
		records = []T{}
	}

	return records, nil
}

// saveCollection rewrites a collection file in full. Output is 2-space
// indented because the site frontend and human operators read these files.
func saveCollection[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
