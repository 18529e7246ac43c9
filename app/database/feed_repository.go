package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/macromind/macromind/app/feed"
)

const timeLayout = "2006-01-02T15:04:05Z"

// FeedRecordRepository handles database operations for daily feed records.
type FeedRecordRepository struct {
	db *DB
}

var _ FeedRepository = (*FeedRecordRepository)(nil)

// NewFeedRecordRepository creates a new feed record repository
func NewFeedRecordRepository(db *DB) *FeedRecordRepository {
	return &FeedRecordRepository{db: db}
}

// UpsertRecord inserts or fully replaces the record for its date. Last
// write wins on conflict; at most one row per calendar date ever exists.
func (r *FeedRecordRepository) UpsertRecord(ctx context.Context, record *feed.Record) error {
	items, err := json.Marshal(record.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	var generationMS sql.NullInt64
	if record.GenerationMS > 0 {
		generationMS = sql.NullInt64{Int64: record.GenerationMS, Valid: true}
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO feed_records (date_utc, items, model, generation_ms, generated_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (date_utc) DO UPDATE SET
			items = excluded.items,
			model = excluded.model,
			generation_ms = excluded.generation_ms,
			generated_at = excluded.generated_at,
			updated_at = excluded.updated_at
	`, record.DateUTC, string(items), record.Model, generationMS,
		record.GeneratedAt.UTC().Format(timeLayout), now)

	if err != nil {
		return fmt.Errorf("failed to upsert feed record: %w", err)
	}

	return nil
}

// GetLatestRecord returns the record with the maximum date, or (nil, nil)
// when the table is empty. Every call hits storage; nothing is cached.
func (r *FeedRecordRepository) GetLatestRecord(ctx context.Context) (*feed.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date_utc, items, model, generation_ms, generated_at
		FROM feed_records
		ORDER BY date_utc DESC
		LIMIT 1
	`)
	return scanRecord(row)
}

// GetRecordByDate returns the record for one calendar date, or (nil, nil).
func (r *FeedRecordRepository) GetRecordByDate(ctx context.Context, dateUTC string) (*feed.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT date_utc, items, model, generation_ms, generated_at
		FROM feed_records
		WHERE date_utc = ?
	`, dateUTC)
	return scanRecord(row)
}

// GetRecordCount returns the total number of stored records
func (r *FeedRecordRepository) GetRecordCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM feed_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get record count: %w", err)
	}
	return count, nil
}

func scanRecord(row *sql.Row) (*feed.Record, error) {
	var record feed.Record
	var items string
	var generationMS sql.NullInt64
	var generatedAt string

	err := row.Scan(&record.DateUTC, &items, &record.Model, &generationMS, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed record: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &record.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	if generationMS.Valid {
		record.GenerationMS = generationMS.Int64
	}
	if record.GeneratedAt, err = time.Parse(timeLayout, generatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse generated_at: %w", err)
	}

	return &record, nil
}
