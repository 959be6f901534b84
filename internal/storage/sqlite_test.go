package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/cyberfish/internal/leaderboard"
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

func rec(name string, score int, date time.Time) leaderboard.ScoreRecord {
	return leaderboard.ScoreRecord{Name: name, Score: score, Date: date}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

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

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreMemory(t *testing.T) {
	store, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.UpsertScore(ctx, rec("Rex", 5, time.Now())); err != nil {
		t.Fatalf("UpsertScore() failed: %v", err)
	}
	scores, err := store.ListScores(ctx)
	if err != nil || len(scores) != 1 {
		t.Fatalf("ListScores() = %v, %v", scores, err)
	}
}

func TestStoreListEmpty(t *testing.T) {
	store := openTestStore(t)

	scores, err := store.ListScores(context.Background())
	if err != nil {
		t.Fatalf("ListScores() failed: %v", err)
	}
	if scores == nil || len(scores) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", scores)
	}
}

func TestStoreUpsertOnlyIfGreater(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	steps := []struct {
		score     int
		date      time.Time
		wantWrite bool
		wantScore int
		wantDate  time.Time
	}{
		{10, t0, true, 10, t0},
		{7, t0.Add(time.Hour), false, 10, t0},
		{10, t0.Add(2 * time.Hour), false, 10, t0},
		{15, t0.Add(3 * time.Hour), true, 15, t0.Add(3 * time.Hour)},
	}

	for i, st := range steps {
		written, err := store.UpsertScore(ctx, rec("A", st.score, st.date))
		if err != nil {
			t.Fatalf("step %d: UpsertScore() failed: %v", i, err)
		}
		if written != st.wantWrite {
			t.Errorf("step %d: written = %v, want %v", i, written, st.wantWrite)
		}

		scores, err := store.ListScores(ctx)
		if err != nil {
			t.Fatalf("step %d: ListScores() failed: %v", i, err)
		}
		if len(scores) != 1 {
			t.Fatalf("step %d: expected one record per name, got %d", i, len(scores))
		}
		if scores[0].Score != st.wantScore {
			t.Errorf("step %d: score = %d, want %d", i, scores[0].Score, st.wantScore)
		}
		if !scores[0].Date.Equal(st.wantDate) {
			t.Errorf("step %d: date = %v, want %v", i, scores[0].Date, st.wantDate)
		}
	}
}

func TestStoreListOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store.UpsertScore(ctx, rec("low", 3, t0))
	store.UpsertScore(ctx, rec("high", 50, t0))
	store.UpsertScore(ctx, rec("late", 20, t0.Add(time.Minute)))
	store.UpsertScore(ctx, rec("early", 20, t0))

	scores, err := store.ListScores(ctx)
	if err != nil {
		t.Fatalf("ListScores() failed: %v", err)
	}

	want := []string{"high", "early", "late", "low"}
	if len(scores) != len(want) {
		t.Fatalf("Expected %d scores, got %d", len(want), len(scores))
	}
	for i, name := range want {
		if scores[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, scores[i].Name, name)
		}
	}
}

func TestStoreNameExists(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	exists, err := store.NameExists(ctx, "Rex")
	if err != nil {
		t.Fatalf("NameExists() failed: %v", err)
	}
	if exists {
		t.Error("Expected Rex to be absent")
	}

	store.UpsertScore(ctx, rec("Rex", 1, time.Now()))

	exists, err = store.NameExists(ctx, "Rex")
	if err != nil {
		t.Fatalf("NameExists() failed: %v", err)
	}
	if !exists {
		t.Error("Expected Rex to exist")
	}

	if exists, _ := store.NameExists(ctx, "rex"); exists {
		t.Error("Name lookup should be exact")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Players != 0 || stats.Best != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.UpsertScore(ctx, rec("a", 10, t0))
	store.UpsertScore(ctx, rec("b", 20, t0.Add(time.Hour)))
	store.UpsertScore(ctx, rec("c", 30, t0.Add(30*time.Minute)))

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Players != 3 {
		t.Errorf("Players = %d, want 3", stats.Players)
	}
	if stats.Best != 30 {
		t.Errorf("Best = %d, want 30", stats.Best)
	}
	if stats.Average != 20 {
		t.Errorf("Average = %v, want 20", stats.Average)
	}
	if !stats.LastPlayed.Equal(t0.Add(time.Hour)) {
		t.Errorf("LastPlayed = %v, want %v", stats.LastPlayed, t0.Add(time.Hour))
	}
}

func TestStoreConcurrentUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	done := make(chan error)
	for i := 1; i <= 20; i++ {
		go func(score int) {
			_, err := store.UpsertScore(ctx, rec("race", score, time.Now()))
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("UpsertScore() failed: %v", err)
		}
	}

	scores, err := store.ListScores(ctx)
	if err != nil {
		t.Fatalf("ListScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 20 {
		t.Errorf("Expected single record with max score 20, got %+v", scores)
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"layout", "2024-05-01 12:00:00.000"},
		{"seconds", "2024-05-01 12:00:00"},
		{"rfc3339", "2024-05-01T12:00:00Z"},
		{"bytes", []byte("2024-05-01 12:00:00")},
		{"unix", want.Unix()},
	}
	for _, tt := range tests {
		if got := parseTime(tt.in); !got.Equal(want) {
			t.Errorf("%s: parseTime() = %v, want %v", tt.name, got, want)
		}
	}
	if got := parseTime(nil); !got.IsZero() {
		t.Errorf("parseTime(nil) = %v, want zero", got)
	}
}
