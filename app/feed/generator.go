package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/macromind/macromind/app/config"
)

// CompletionClient issues a single schema-constrained generation call and
// returns the raw response text.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// RecordStore persists validated records keyed by their UTC date.
type RecordStore interface {
	UpsertRecord(ctx context.Context, record *Record) error
}

// Generator runs the daily feed pipeline: prompt construction, one
// completion call, JSON parse, schema validation, idempotent persistence.
// Nothing is written unless validation succeeds. Overlapping runs for the
// same date race benignly: the upsert is last-write-wins.
type Generator struct {
	client        CompletionClient
	store         RecordStore
	validator     *Validator
	profile       *config.Profile
	fallbackModel string
	now           func() time.Time
}

func NewGenerator(client CompletionClient, store RecordStore, profile *config.Profile, fallbackModel string) *Generator {
	return &Generator{
		client:        client,
		store:         store,
		validator:     NewValidator(profile),
		profile:       profile,
		fallbackModel: fallbackModel,
		now:           time.Now,
	}
}

// Run executes one generation. Exactly one outbound completion call and at
// most one storage write happen per invocation. Every failure is returned
// as a *Error carrying its kind; no retries happen here.
func (g *Generator) Run(ctx context.Context) (*Record, error) {
	if err := g.preflight(); err != nil {
		return nil, err
	}

	dateUTC := g.now().UTC().Format(DateLayout)
	system := BuildSystemPrompt(g.profile, dateUTC)
	user := BuildUserPrompt(g.profile, dateUTC)

	slog.Debug("Requesting feed generation", "date", dateUTC, "expected_items", g.profile.ExpectedItems())

	start := time.Now()
	raw, err := g.client.Complete(ctx, system, user)
	if err != nil {
		return nil, &Error{Kind: KindUpstreamCall, Err: err}
	}
	elapsed := time.Since(start)

	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, newError(KindMalformedResponse, "response is not valid JSON: %v", err)
	}

	if record.Model == "" {
		record.Model = g.fallbackModel
	}

	if err := g.validator.Run(&record); err != nil {
		return nil, err
	}

	record.GeneratedAt = g.now().UTC()
	record.GenerationMS = elapsed.Milliseconds()

	if err := g.store.UpsertRecord(ctx, &record); err != nil {
		return nil, newError(KindPersistence, "generation succeeded but persisting failed: %w", err)
	}

	slog.Info("Feed generated", "date", record.DateUTC, "items", len(record.Items), "model", record.Model, "duration_ms", record.GenerationMS)

	return &record, nil
}

func (g *Generator) preflight() error {
	if g.client == nil {
		return newError(KindConfigMissing, "completion client is not configured")
	}
	if g.store == nil {
		return newError(KindConfigMissing, "record store is not configured")
	}
	if g.profile == nil || len(g.profile.Categories) == 0 {
		return newError(KindConfigMissing, "feed profile is not configured")
	}
	return nil
}
