package tasks

import (
	"context"

	"github.com/macromind/macromind/app/feed"
)

// FeedGenerator runs one generation pipeline invocation.
type FeedGenerator interface {
	Run(ctx context.Context) (*feed.Record, error)
}

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to manage background feed refreshes.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
