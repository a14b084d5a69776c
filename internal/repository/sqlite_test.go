package repository

import (
	"context"
	"testing"

	"github.com/mr1hm/go-wait-dashboard/internal/config"
	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

func mins(n int) *int { return &n }

func setupTestDB(t *testing.T) *SQLiteDB {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	return db
}

func firstPoll() []models.HospitalRecord {
	return []models.HospitalRecord{
		{Hospital: "Royal Victoria", Status: "Open", WaitMins: mins(250), DisplayWait: "4 hours 10 mins", Severity: models.SeverityCritical},
		{Hospital: "Causeway", Status: "Open", WaitMins: nil, DisplayWait: "N/A", Severity: models.SeverityUnknown},
		{Hospital: "Antrim Area", Status: "Open", WaitMins: mins(40), DisplayWait: "40 mins", Severity: models.SeverityLow},
	}
}

func TestSQLiteDB_ReplaceAndAll(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.Replace(ctx, firstPoll()); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := db.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	// insertion order is preserved
	if got[0].Hospital != "Royal Victoria" || got[2].Hospital != "Antrim Area" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].Hospital, got[1].Hospital, got[2].Hospital)
	}
	if got[1].WaitMins != nil {
		t.Errorf("expected nil wait for Causeway, got %d", *got[1].WaitMins)
	}
	if got[0].Wait() != 250 || got[0].DisplayWait != "4 hours 10 mins" {
		t.Errorf("unexpected record: %+v", got[0])
	}
}

func TestSQLiteDB_ReplaceIsWholesale(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	db.Replace(ctx, firstPoll())

	second := []models.HospitalRecord{
		{Hospital: "Ulster", Status: "Open", WaitMins: mins(130), DisplayWait: "2 hours 10 mins", Severity: models.SeverityHigh},
	}
	if err := db.Replace(ctx, second); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := db.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(got) != 1 || got[0].Hospital != "Ulster" {
		t.Errorf("expected only Ulster after replace, got %+v", got)
	}
}

func TestSQLiteDB_ReplaceWithEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	db.Replace(ctx, firstPoll())

	if err := db.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	got, _ := db.All(ctx)
	if len(got) != 0 {
		t.Errorf("expected empty store, got %d", len(got))
	}
}

func TestSQLiteDB_CanceledReplaceKeepsOldRecords(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	db.Replace(context.Background(), firstPoll())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := db.Replace(ctx, []models.HospitalRecord{{Hospital: "Mater"}}); err == nil {
		t.Fatal("expected error for canceled context")
	}

	got, _ := db.All(context.Background())
	if len(got) != 3 {
		t.Errorf("expected previous 3 records to survive, got %d", len(got))
	}
}

func TestMemoryStore_ReplaceCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	records := firstPoll()
	s.Replace(ctx, records)
	records[0].Hospital = "mutated"

	got, _ := s.All(ctx)
	if got[0].Hospital != "Royal Victoria" {
		t.Errorf("store shares caller slice: %s", got[0].Hospital)
	}

	got[1].Hospital = "mutated again"
	again, _ := s.All(ctx)
	if again[1].Hospital != "Causeway" {
		t.Errorf("All returned shared slice: %s", again[1].Hospital)
	}
}

func TestOpen(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		s, err := Open(config.StoreConfig{Driver: driver, DSN: ":memory:"})
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", driver, err)
		}
		if err := s.Replace(context.Background(), firstPoll()); err != nil {
			t.Errorf("%s: Replace failed: %v", driver, err)
		}
		s.Close()
	}

	if _, err := Open(config.StoreConfig{Driver: "etcd"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}
