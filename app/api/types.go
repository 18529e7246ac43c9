package api

import (
	"context"

	"github.com/macromind/macromind/app/database"
	"github.com/macromind/macromind/app/feed"
)

type GeneratorInterface interface {
	Run(ctx context.Context) (*feed.Record, error)
}

var _ GeneratorInterface = (*feed.Generator)(nil)

type Handler struct {
	feedRepo  database.FeedRepository
	generator GeneratorInterface
}
