// Package store persists one Markdown artifact per video, keyed by channel
// and video id. The set of files on disk is the only record of completed
// work: an id present in the store is never reprocessed.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnavailable means an I/O failure prevented reading or writing the store.
var ErrUnavailable = errors.New("storage unavailable")

const artifactExt = ".md"

// Store is an append-only artifact directory rooted at a base path, with one
// subdirectory per channel id and one <video id>.md file per artifact.
type Store struct {
	root string
}

// New creates a store rooted at root. The directory is created lazily on the
// first write.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the base path the store was created with.
func (s *Store) Root() string {
	return s.root
}

// ChannelPath returns the directory holding a channel's artifacts.
func (s *Store) ChannelPath(channelID string) string {
	return filepath.Join(s.root, channelID)
}

func (s *Store) itemPath(channelID, itemID string) string {
	return filepath.Join(s.root, channelID, itemID+artifactExt)
}

// Exists reports whether an artifact for itemID is already persisted.
func (s *Store) Exists(channelID, itemID string) (bool, error) {
	_, err := os.Stat(s.itemPath(channelID, itemID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat %s: %v", ErrUnavailable, itemID, err)
}

// Write persists an artifact, creating the channel directory if needed.
// Writing an id that already exists overwrites it; callers that need
// write-once semantics must check Exists first.
func (s *Store) Write(channelID, itemID, content string) error {
	dir := s.ChannelPath(channelID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrUnavailable, dir, err)
	}
	if err := os.WriteFile(s.itemPath(channelID, itemID), []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrUnavailable, itemID, err)
	}
	return nil
}

// List returns the set of item ids with a persisted artifact. A channel
// that has never been written reads as empty.
func (s *Store) List(channelID string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(s.ChannelPath(channelID))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrUnavailable, channelID, err)
	}

	ids := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		ids[strings.TrimSuffix(name, artifactExt)] = struct{}{}
	}
	return ids, nil
}
