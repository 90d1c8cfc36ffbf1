// Package seen persists the identities of previously reported postings so
// that a posting is only ever reported once within the retention window.
package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
)

// DefaultRetentionDays is how long a reported posting stays remembered
// before it may reappear as new.
const DefaultRetentionDays = 30

// Record is the projection of a reported posting that survives the run.
type Record struct {
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	FirstSeen time.Time `json:"first_seen"`
	Score     float64   `json:"score"`
}

// Stats carries the cumulative counters persisted with the store.
type Stats struct {
	TotalSeen     int `json:"total_seen"`
	TotalReported int `json:"total_reported"`
}

type state struct {
	Seen    map[string]*Record `json:"seen"`
	LastRun *time.Time         `json:"last_run"`
	Stats   Stats              `json:"stats"`
}

func emptyState() *state {
	return &state{Seen: make(map[string]*Record)}
}

// Store is the file-backed seen-postings database. It is read once at run
// start and written once at run end; no locking is needed under the
// single-process assumption.
type Store struct {
	path   string
	logger *zap.Logger
	data   *state
}

// Load reads the persisted state from path. A missing file yields an empty
// store; an unreadable or corrupt file is logged and treated as no prior
// history, so the run never fails because of it.
func Load(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logger, data: emptyState()}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s
	}
	if err != nil {
		logger.Warn("unreadable seen state file, starting fresh",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	var loaded state
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logger.Warn("corrupted seen state file, starting fresh",
			zap.String("path", path),
			zap.Error(err),
		)
		return s
	}

	if loaded.Seen == nil {
		loaded.Seen = make(map[string]*Record)
	}
	s.data = &loaded
	return s
}

// IsNew reports whether the posting's identity has not been seen before.
// Pure read; calling it repeatedly gives the same answer.
func (s *Store) IsNew(p *job.Posting) bool {
	_, ok := s.data.Seen[p.ID]
	return !ok
}

// MarkSeen records the posting as reported now. Calling it for an identity
// that is already present restarts its retention clock, so callers must
// check IsNew first.
func (s *Store) MarkSeen(p *job.Posting) {
	s.data.Seen[p.ID] = &Record{
		Title:     p.Title,
		Company:   p.Company,
		FirstSeen: time.Now(),
		Score:     p.Score,
	}
}

// Cleanup drops every entry first seen before the retention window. It must
// run before any IsNew call in a run so expired postings can reappear.
func (s *Store) Cleanup(retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	before := len(s.data.Seen)
	for id, record := range s.data.Seen {
		if record.FirstSeen.Before(cutoff) {
			delete(s.data.Seen, id)
		}
	}
	if removed := before - len(s.data.Seen); removed > 0 {
		s.logger.Info("cleaned up expired seen entries",
			zap.Int("removed", removed),
			zap.Int("retention_days", retentionDays),
		)
	}
}

// UpdateStats refreshes total_seen from the current map size and adds the
// newly reported count to the monotonically growing total_reported.
func (s *Store) UpdateStats(newCount int) {
	s.data.Stats.TotalSeen = len(s.data.Seen)
	s.data.Stats.TotalReported += newCount
}

// Reset replaces the state with a fresh empty structure and persists it
// immediately. This is the only operation that rewinds total_reported.
func (s *Store) Reset() error {
	s.data = emptyState()
	if err := s.Save(); err != nil {
		return err
	}
	s.logger.Info("seen state reset", zap.String("path", s.path))
	return nil
}

// Save stamps last_run and writes the whole state atomically: the new file
// is written next to the old one and renamed over it, so a crash leaves
// either the previous or the new state, never a torn one.
func (s *Store) Save() error {
	now := time.Now()
	s.data.LastRun = &now

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".seen-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing seen state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// Len returns the number of remembered postings.
func (s *Store) Len() int {
	return len(s.data.Seen)
}

// Stats returns a snapshot of the cumulative counters for the renderer.
func (s *Store) Stats() Stats {
	return s.data.Stats
}
