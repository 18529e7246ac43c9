package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

// RefreshFeedTask runs one generation for the given date. It is enqueued
// by the scheduler when storage has no record for the current UTC date;
// the generation itself is date-keyed and last-write-wins, so a stray
// duplicate enqueue is harmless.
type RefreshFeedTask struct {
	Task
	generator FeedGenerator
}

func NewRefreshFeedTask(date string, generator FeedGenerator) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:      NewTask(TaskTypeRefreshFeed, date),
		generator: generator,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	record, err := t.generator.Run(ctx)
	if err != nil {
		return fmt.Errorf("refresh feed for %s: %w", t.Date, err)
	}

	slog.Info("Scheduled feed refresh completed", "date", record.DateUTC, "items", len(record.Items), "duration", t.GetDuration().String())
	return nil
}
