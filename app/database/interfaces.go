package database

import (
	"context"

	"github.com/macromind/macromind/app/feed"
)

type FeedRepository interface {
	UpsertRecord(ctx context.Context, record *feed.Record) error
	GetLatestRecord(ctx context.Context) (*feed.Record, error)
	GetRecordByDate(ctx context.Context, dateUTC string) (*feed.Record, error)
	GetRecordCount(ctx context.Context) (int, error)
}
