package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T, poolSize int) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "records.db"), poolSize)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath, 2)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreRecordsOrdering(t *testing.T) {
	store := openTestStore(t, 1)
	ctx := context.Background()

	for _, score := range []int{10, 30, 20} {
		if _, err := store.WriteRecord(ctx, "dog", score, time.Second); err != nil {
			t.Fatalf("WriteRecord() failed: %v", err)
		}
	}

	records, err := store.Records(ctx, 0, 1)
	if err != nil {
		t.Fatalf("Records() failed: %v", err)
	}
	if len(records) != 1 || records[0].Score != 30 {
		t.Errorf("Records(0, 1) = %+v, expected the score 30 record", records)
	}
}

func TestStoreRecordsTieBreaks(t *testing.T) {
	store := openTestStore(t, 2)
	ctx := context.Background()

	writes := []struct {
		name     string
		score    int
		playTime time.Duration
	}{
		{"zed", 50, 2 * time.Second},
		{"amy", 50, 2 * time.Second},
		{"bob", 50, time.Second},
		{"cat", 70, 9 * time.Second},
		{"dan", 5, 0},
	}
	for _, w := range writes {
		if _, err := store.WriteRecord(ctx, w.name, w.score, w.playTime); err != nil {
			t.Fatalf("WriteRecord(%s) failed: %v", w.name, err)
		}
	}

	records, err := store.Records(ctx, 0, 10)
	if err != nil {
		t.Fatalf("Records() failed: %v", err)
	}

	want := []string{"cat", "bob", "amy", "zed", "dan"}
	if len(records) != len(want) {
		t.Fatalf("Records() returned %d rows, expected %d", len(records), len(want))
	}
	for i, name := range want {
		if records[i].Name != name {
			t.Errorf("Records()[%d].Name = %s, expected %s", i, records[i].Name, name)
		}
	}
	if records[1].PlayTime != time.Second {
		t.Errorf("Records()[1].PlayTime = %v, expected 1s", records[1].PlayTime)
	}
	if records[0].ID == "" || records[0].ID == records[1].ID {
		t.Errorf("Records() ids = %q, %q, expected unique ids", records[0].ID, records[1].ID)
	}
}

func TestStoreRecordsPaging(t *testing.T) {
	store := openTestStore(t, 2)
	ctx := context.Background()

	for i := range 120 {
		if _, err := store.WriteRecord(ctx, "dog", i, 0); err != nil {
			t.Fatalf("WriteRecord() failed: %v", err)
		}
	}

	tests := []struct {
		name          string
		offset, limit int
		wantLen       int
		wantFirst     int
	}{
		{"first page", 0, 10, 10, 119},
		{"offset", 10, 5, 5, 109},
		{"limit clamped", 0, 500, MaxRecords, 119},
		{"zero limit", 0, 0, 0, 0},
		{"negative limit", 0, -3, 0, 0},
		{"negative offset", -5, 1, 1, 119},
		{"past the end", 200, 10, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, err := store.Records(ctx, tc.offset, tc.limit)
			if err != nil {
				t.Fatalf("Records() failed: %v", err)
			}
			if len(records) != tc.wantLen {
				t.Fatalf("Records() returned %d rows, expected %d", len(records), tc.wantLen)
			}
			if tc.wantLen > 0 && records[0].Score != tc.wantFirst {
				t.Errorf("Records()[0].Score = %d, expected %d", records[0].Score, tc.wantFirst)
			}
		})
	}
}

func TestStorePoolSerializesWriters(t *testing.T) {
	store := openTestStore(t, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.WriteRecord(ctx, "dog", i, 0); err != nil {
				t.Errorf("WriteRecord() failed: %v", err)
			}
		}()
	}
	wg.Wait()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Players != 20 {
		t.Errorf("Stats().Players = %d, expected 20", stats.Players)
	}
	if stats.HighScore != 19 {
		t.Errorf("Stats().HighScore = %d, expected 19", stats.HighScore)
	}
}

func TestStoreStatsEmpty(t *testing.T) {
	store := openTestStore(t, 1)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Players != 0 || stats.HighScore != 0 || !stats.LastRetired.IsZero() {
		t.Errorf("Stats() = %+v, expected zero values", stats)
	}
}

func TestStoreCanceledContext(t *testing.T) {
	store := openTestStore(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.WriteRecord(ctx, "dog", 1, 0); err == nil {
		t.Error("WriteRecord() with canceled context = nil error, expected error")
	}
}
