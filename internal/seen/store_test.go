package seen

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mhaensel/jobradar/internal/job"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "seen_jobs.json")
	return Load(path, zap.NewNop())
}

func TestLoadMissingFileYieldsEmptyStore(t *testing.T) {
	store := testStore(t)
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d entries", store.Len())
	}
}

func TestLoadCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := Load(path, zap.NewNop())
	if store.Len() != 0 {
		t.Fatalf("expected fresh store, got %d entries", store.Len())
	}
}

func TestLoadUnreadableFileStartsFresh(t *testing.T) {
	// A directory at the state path makes the read fail with something
	// other than not-exist.
	path := t.TempDir()

	store := Load(path, zap.NewNop())
	if store.Len() != 0 {
		t.Fatalf("expected fresh store, got %d entries", store.Len())
	}
	if !store.IsNew(job.New(job.Posting{Title: "A", Company: "X"})) {
		t.Fatalf("fresh store must treat everything as new")
	}
}

func TestMarkSeenAndIsNew(t *testing.T) {
	store := testStore(t)
	posting := job.New(job.Posting{Title: "Strategy Manager", Company: "Acme", URL: "https://a.com/1", Score: 72})

	if !store.IsNew(posting) {
		t.Fatalf("unseen posting reported as seen")
	}
	store.MarkSeen(posting)
	if store.IsNew(posting) {
		t.Fatalf("marked posting still reported as new")
	}
	// IsNew is a pure read.
	if store.IsNew(posting) {
		t.Fatalf("repeated IsNew gave a different answer")
	}

	// Same title/company under a different url is a different identity.
	other := job.New(job.Posting{Title: "Strategy Manager", Company: "Acme", URL: "https://b.com/1"})
	if !store.IsNew(other) {
		t.Fatalf("different url must yield a new identity")
	}
}

func TestCleanupDropsOnlyExpiredEntries(t *testing.T) {
	store := testStore(t)

	fresh := job.New(job.Posting{Title: "Fresh", Company: "Acme"})
	stale := job.New(job.Posting{Title: "Stale", Company: "Acme"})
	store.MarkSeen(fresh)
	store.MarkSeen(stale)
	store.data.Seen[stale.ID].FirstSeen = time.Now().AddDate(0, 0, -31)

	store.Cleanup(DefaultRetentionDays)

	if store.IsNew(fresh) {
		t.Fatalf("entry inside the retention window was dropped")
	}
	if !store.IsNew(stale) {
		t.Fatalf("expired entry was kept")
	}

	// Cleanup on an already clean store changes nothing.
	before := store.Len()
	store.Cleanup(DefaultRetentionDays)
	if store.Len() != before {
		t.Fatalf("second cleanup removed entries: %d -> %d", before, store.Len())
	}
}

func TestSaveAndReloadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	store := Load(path, zap.NewNop())

	posting := job.New(job.Posting{Title: "Strategy Manager", Company: "Acme", Score: 80})
	store.MarkSeen(posting)
	store.UpdateStats(1)
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := Load(path, zap.NewNop())
	if reloaded.IsNew(posting) {
		t.Fatalf("persisted posting lost across reload")
	}
	record := reloaded.data.Seen[posting.ID]
	if record.Title != "Strategy Manager" || record.Company != "Acme" || record.Score != 80 {
		t.Fatalf("projection fields not persisted: %+v", record)
	}
	if record.FirstSeen.IsZero() {
		t.Fatalf("first_seen not persisted")
	}
	if reloaded.data.LastRun == nil {
		t.Fatalf("last_run not stamped on save")
	}
	if got := reloaded.Stats(); got.TotalSeen != 1 || got.TotalReported != 1 {
		t.Fatalf("stats not persisted: %+v", got)
	}
}

func TestUpdateStatsReportedGrowsMonotonically(t *testing.T) {
	store := testStore(t)

	store.MarkSeen(job.New(job.Posting{Title: "A", Company: "X"}))
	store.UpdateStats(1)
	store.MarkSeen(job.New(job.Posting{Title: "B", Company: "X"}))
	store.UpdateStats(1)

	got := store.Stats()
	if got.TotalSeen != 2 || got.TotalReported != 2 {
		t.Fatalf("unexpected stats: %+v", got)
	}

	// total_seen tracks the live map, total_reported never shrinks.
	store.data.Seen = map[string]*Record{}
	store.UpdateStats(0)
	got = store.Stats()
	if got.TotalSeen != 0 || got.TotalReported != 2 {
		t.Fatalf("total_reported must survive cleanup: %+v", got)
	}
}

func TestResetClearsStateAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_jobs.json")
	store := Load(path, zap.NewNop())
	store.MarkSeen(job.New(job.Posting{Title: "A", Company: "X"}))
	store.UpdateStats(1)

	if err := store.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("reset left %d entries", store.Len())
	}
	if got := store.Stats(); got.TotalReported != 0 {
		t.Fatalf("reset must rewind stats: %+v", got)
	}

	reloaded := Load(path, zap.NewNop())
	if reloaded.Len() != 0 {
		t.Fatalf("reset was not persisted")
	}

	// Cleanup right after a reset is a no-op.
	reloaded.Cleanup(DefaultRetentionDays)
	if reloaded.Len() != 0 {
		t.Fatalf("cleanup after reset changed the store")
	}
}
