package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveResult("alice", "lvl01", 12); err != nil {
		t.Fatalf("SaveResult() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	best, ok, err := store.BestResult("lvl01")
	if err != nil || !ok || best != 12 {
		t.Errorf("BestResult() = %d, %v, %v; want 12, true, nil", best, ok, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saves := []struct {
		player string
		level  string
		moves  int
	}{
		{"alice", "lvl01", 30},
		{"bob", "lvl01", 12},
		{"carol", "lvl01", 20},
		{"dave", "lvl02", 50},
	}
	for _, s := range saves {
		if _, err := store.SaveResult(s.player, s.level, s.moves); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}

	results, err := store.TopResults("lvl01", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	// Should be sorted ascending by moves
	want := []string{"bob", "carol", "alice"}
	for i, r := range results {
		if r.Player != want[i] {
			t.Errorf("rank %d = %s (%d moves), want %s", i+1, r.Player, r.Moves, want[i])
		}
		if r.LevelID != "lvl01" {
			t.Errorf("rank %d has level %s", i+1, r.LevelID)
		}
		if r.CreatedAt.IsZero() {
			t.Errorf("rank %d has no timestamp", i+1)
		}
	}

	other, err := store.TopResults("lvl02", 10)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("Expected 1 lvl02 result, got %d", len(other))
	}
}

func TestStoreTiesGoToEarlierResult(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult("first", "lvl01", 10)
	store.SaveResult("second", "lvl01", 10)
	store.SaveResult("third", "lvl01", 10)

	results, err := store.TopResults("lvl01", 0)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if results[i].Player != want {
			t.Errorf("rank %d = %s, want %s", i+1, results[i].Player, want)
		}
	}
}

func TestStoreTopResultsLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 15 results
	for i := 0; i < 15; i++ {
		store.SaveResult("p", "test", (i+1)*10)
	}

	results, err := store.TopResults("test", 3)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with limit, got %d", len(results))
	}
	if results[0].Moves != 10 || results[1].Moves != 20 || results[2].Moves != 30 {
		t.Errorf("Results not in expected order: %v", results)
	}

	// Non-positive limit falls back to the default
	results, err = store.TopResults("test", 0)
	if err != nil {
		t.Fatalf("TopResults() failed: %v", err)
	}
	if len(results) != DefaultLimit {
		t.Errorf("Expected %d results with default limit, got %d", DefaultLimit, len(results))
	}

	all, err := store.AllResults("test")
	if err != nil {
		t.Fatalf("AllResults() failed: %v", err)
	}
	if len(all) != 15 {
		t.Errorf("Expected 15 results from AllResults, got %d", len(all))
	}
}

func TestStoreBestResult(t *testing.T) {
	store := openTestStore(t)

	// No results yet
	_, ok, err := store.BestResult("lvl01")
	if err != nil {
		t.Fatalf("BestResult() failed: %v", err)
	}
	if ok {
		t.Error("Expected no best result for an unplayed level")
	}

	store.SaveResult("a", "lvl01", 40)
	store.SaveResult("b", "lvl01", 25)
	store.SaveResult("c", "lvl01", 31)

	best, ok, err := store.BestResult("lvl01")
	if err != nil {
		t.Fatalf("BestResult() failed: %v", err)
	}
	if !ok || best != 25 {
		t.Errorf("BestResult() = %d, %v; want 25, true", best, ok)
	}
}

func TestStoreRejectsNegativeMoves(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveResult("a", "lvl01", -1); err == nil {
		t.Error("SaveResult() should reject a negative move count")
	}
}

func TestStorePlayerResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult("alice", "lvl01", 10)
	store.SaveResult("bob", "lvl01", 11)
	store.SaveResult("alice", "lvl02", 20)

	results, err := store.PlayerResults("alice", 10)
	if err != nil {
		t.Fatalf("PlayerResults() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results for alice, got %d", len(results))
	}
	// Most recent first
	if results[0].LevelID != "lvl02" {
		t.Errorf("Expected the latest result first, got %s", results[0].LevelID)
	}
}

func TestStoreClearResults(t *testing.T) {
	store := openTestStore(t)

	store.SaveResult("a", "lvl01", 10)
	store.SaveResult("b", "lvl01", 20)
	store.SaveResult("c", "lvl02", 30)

	if err := store.ClearResults("lvl01"); err != nil {
		t.Fatalf("ClearResults() failed: %v", err)
	}

	cleared, _ := store.TopResults("lvl01", 10)
	if len(cleared) != 0 {
		t.Errorf("Expected 0 lvl01 results after clear, got %d", len(cleared))
	}

	kept, _ := store.TopResults("lvl02", 10)
	if len(kept) != 1 {
		t.Errorf("lvl02 results should not be affected by clearing lvl01")
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.LevelStats("lvl01")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Solves != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", empty)
	}

	store.SaveResult("a", "lvl01", 10)
	store.SaveResult("a", "lvl01", 20)
	store.SaveResult("b", "lvl01", 30)

	stats, err := store.LevelStats("lvl01")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if stats.Solves != 3 || stats.BestMoves != 10 || stats.Players != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgMoves != 20 {
		t.Errorf("AvgMoves = %v, want 20", stats.AvgMoves)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(all) != 1 || all["lvl01"] == nil {
		t.Errorf("AllLevelStats() = %v", all)
	}
}

func TestStoreUsers(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.User("alice"); !errors.Is(err, ErrNoUser) {
		t.Errorf("User() error = %v, want ErrNoUser", err)
	}

	if err := store.CreateUser("alice", "hash", "player"); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	if err := store.CreateUser("alice", "other", "player"); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrDuplicateUser", err)
	}

	u, err := store.User("alice")
	if err != nil {
		t.Fatalf("User() failed: %v", err)
	}
	if u.PasswordHash != "hash" || u.Role != "player" {
		t.Errorf("unexpected user: %+v", u)
	}
	if !u.LastLogin.IsZero() {
		t.Error("LastLogin should be zero before any login")
	}

	if err := store.TouchLogin("alice"); err != nil {
		t.Fatalf("TouchLogin() failed: %v", err)
	}
	u, _ = store.User("alice")
	if u.LastLogin.IsZero() {
		t.Error("LastLogin should be set after TouchLogin")
	}

	n, err := store.CountUsers()
	if err != nil || n != 1 {
		t.Errorf("CountUsers() = %d, %v; want 1", n, err)
	}
}

func TestStoreConcurrentSaves(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.SaveResult("p", "lvl01", i); err != nil {
				t.Errorf("SaveResult() failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.AllResults("lvl01")
	if err != nil {
		t.Fatalf("AllResults() failed: %v", err)
	}
	if len(all) != 8 {
		t.Errorf("Expected 8 results, got %d", len(all))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	store := openTestStore(t)

	if err := store.CreateUser("alice", "hash", "player"); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	_, dup := store.db.Exec("INSERT INTO users (username, password_hash, role) VALUES ('alice', 'h', 'player')")
	if dup == nil || !isUniqueViolation(dup) {
		t.Errorf("duplicate key error %v not detected", dup)
	}

	// Other constraint failures are not duplicates
	_, notNull := store.db.Exec("INSERT INTO users (username, password_hash, role) VALUES ('bob', NULL, 'player')")
	if notNull == nil || isUniqueViolation(notNull) {
		t.Errorf("NOT NULL error %v reported as duplicate", notNull)
	}

	if isUniqueViolation(errors.New("UNIQUE constraint failed: users.username")) {
		t.Error("plain error text must not count as a duplicate")
	}
}
