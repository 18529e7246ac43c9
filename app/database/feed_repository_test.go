package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/macromind/macromind/app/feed"
)

var ignoreGeneratedAt = cmpopts.IgnoreFields(feed.Record{}, "GeneratedAt")

func newTestRepo(t *testing.T) *FeedRecordRepository {
	t.Helper()
	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("new connection: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewFeedRecordRepository(db)
}

func testRecord(dateUTC, model string) *feed.Record {
	return &feed.Record{
		DateUTC: dateUTC,
		Model:   model,
		Items: []feed.Item{
			{
				Category:  "Macroeconomics",
				Title:     "Central bank holds rates steady",
				Summary:   "Policy makers left the benchmark rate unchanged citing cooling inflation.",
				Sentiment: feed.SentimentNeutral,
				Sources:   []feed.Source{{Name: "Reuters", URL: "https://www.reuters.com/markets"}},
			},
		},
		GeneratedAt:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		GenerationMS: 1200,
	}
}

func TestUpsertAndGetByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	want := testRecord("2024-01-01", "m1")
	if err := repo.UpsertRecord(ctx, want); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetRecordByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if diff := cmp.Diff(want, got, ignoreGeneratedAt); diff != "" {
		t.Errorf("Record mismatch (-want +got):\n%s", diff)
	}
	if got.GeneratedAt.IsZero() {
		t.Error("Expected generated_at to round-trip")
	}
}

func TestUpsertIsIdempotentOnDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := testRecord("2024-01-01", "m1")
	if err := repo.UpsertRecord(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := testRecord("2024-01-01", "m2")
	second.Items[0].Title = "Inflation cools more than expected"
	if err := repo.UpsertRecord(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	count, err := repo.GetRecordCount(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected exactly 1 row after double upsert, got %d", count)
	}

	got, err := repo.GetRecordByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Last write wins: the surviving row equals the second upsert in full.
	if diff := cmp.Diff(second, got, ignoreGeneratedAt); diff != "" {
		t.Errorf("Expected second write to win (-want +got):\n%s", diff)
	}
}

func TestGetLatestRecordOrdersByDate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	older := testRecord("2024-01-01", "m1")
	newer := testRecord("2024-01-02", "m2")

	// Insert out of order to prove ordering comes from the key, not
	// insertion sequence.
	if err := repo.UpsertRecord(ctx, newer); err != nil {
		t.Fatalf("upsert newer: %v", err)
	}
	if err := repo.UpsertRecord(ctx, older); err != nil {
		t.Fatalf("upsert older: %v", err)
	}

	got, err := repo.GetLatestRecord(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if got.DateUTC != "2024-01-02" {
		t.Errorf("Expected latest date 2024-01-02, got %s", got.DateUTC)
	}
}

func TestGetLatestRecordEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	got, err := repo.GetLatestRecord(ctx)
	if err != nil {
		t.Fatalf("Expected no error on empty table, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil record on empty table, got %+v", got)
	}
}

func TestGetRecordByDateMissing(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	got, err := repo.GetRecordByDate(ctx, "1999-12-31")
	if err != nil {
		t.Fatalf("Expected no error for missing date, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil record for missing date, got %+v", got)
	}
}

func TestGenerationMSOptional(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	record := testRecord("2024-01-01", "m1")
	record.GenerationMS = 0
	if err := repo.UpsertRecord(ctx, record); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.GetRecordByDate(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.GenerationMS != 0 {
		t.Errorf("Expected zero generation_ms, got %d", got.GenerationMS)
	}
}
