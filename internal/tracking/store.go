// Package tracking persists the per-day topic lifecycle in a single
// JSON file. All commands read the whole file, mutate in memory and
// write it back; the tool is single-user so no locking is attempted.
package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"SocialForge/internal/domain"
)

var (
	// ErrCorruptState marks a tracking file that exists but cannot be decoded.
	// No command may proceed past it: a rewrite would destroy history.
	ErrCorruptState = errors.New("tracking state corrupt")

	// ErrNoData marks an empty store where a command needs ranked history.
	ErrNoData = errors.New("no tracking data")
)

// Root maps date keys (YYYY-MM-DD) to day records.
type Root map[string]*domain.DayRecord

// LatestKey returns the lexicographically greatest date key, which for
// ISO dates is the most recent day.
func (r Root) LatestKey() (string, bool) {
	if len(r) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[len(keys)-1], true
}

// Ensure returns the record for key, creating an empty one when absent
// and normalizing nil maps. Existing generated and published entries
// survive re-ranking.
func (r Root) Ensure(key string) *domain.DayRecord {
	rec, ok := r[key]
	if !ok || rec == nil {
		rec = &domain.DayRecord{}
		r[key] = rec
	}
	if rec.Generated == nil {
		rec.Generated = map[string]domain.Artifact{}
	}
	if rec.Published == nil {
		rec.Published = map[string]bool{}
	}
	return rec
}

// Store reads and writes the tracking file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the tracking root. A missing file yields an empty root;
// an existing but undecodable file returns ErrCorruptState.
func (s *Store) Load() (Root, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Root{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tracking %s: %w", s.path, err)
	}

	var root Root
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrCorruptState, s.path, err)
	}
	if root == nil {
		root = Root{}
	}
	return root, nil
}

// Save writes the full root back, creating the parent directory on first use.
func (s *Store) Save(root Root) error {
	raw, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tracking: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create tracking dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write tracking %s: %w", s.path, err)
	}
	return nil
}
