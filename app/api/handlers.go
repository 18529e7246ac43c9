package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/macromind/macromind/app/database"
	"github.com/macromind/macromind/app/feed"
)

func NewHandler(generator GeneratorInterface, feedRepo database.FeedRepository) *Handler {
	return &Handler{
		feedRepo:  feedRepo,
		generator: generator,
	}
}

// GetLatestFeed serves the most recent stored record. The response always
// carries no-store so callers see current storage state on every request.
func (h *Handler) GetLatestFeed(c *gin.Context) {
	record, err := h.feedRepo.GetLatestRecord(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_record", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No feed found"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, record)
}

// GenerateFeed triggers one generation run and reports its outcome.
func (h *Handler) GenerateFeed(c *gin.Context) {
	record, err := h.generator.Run(c.Request.Context())
	if err != nil {
		h.respondGenerationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"ok":            true,
		"date_utc":      record.DateUTC,
		"count":         len(record.Items),
		"generation_ms": record.GenerationMS,
		"record":        record,
	})
}

// respondGenerationError is the single place pipeline error kinds become
// HTTP responses.
func (h *Handler) respondGenerationError(c *gin.Context, err error) {
	kind := feed.KindOf(err)
	slog.Error("Feed generation failed", "kind", string(kind), "error", err)

	body := gin.H{"error": err.Error()}
	if kind != "" {
		body["kind"] = string(kind)
	}
	c.JSON(http.StatusInternalServerError, body)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if count, err := h.feedRepo.GetRecordCount(c.Request.Context()); err == nil {
		health["records"] = count
	}

	c.JSON(http.StatusOK, health)
}
