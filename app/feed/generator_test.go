package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/macromind/macromind/app/config"
)

type stubClient struct {
	response string
	err      error
	calls    int

	gotSystem string
	gotUser   string
}

func (s *stubClient) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.gotSystem = system
	s.gotUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type stubStore struct {
	records []*Record
	err     error
}

func (s *stubStore) UpsertRecord(_ context.Context, record *Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

func marshalRecord(t *testing.T, record *Record) string {
	t.Helper()
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	return string(data)
}

func TestGeneratorRunSuccess(t *testing.T) {
	profile := config.DefaultProfile()
	response := validRecord(profile)
	response.DateUTC = "2024-01-01"

	client := &stubClient{response: marshalRecord(t, response)}
	store := &stubStore{}

	g := NewGenerator(client, store, profile, "gpt-4o-mini")
	g.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	record, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}

	if record.DateUTC != "2024-01-01" {
		t.Errorf("Expected date_utc 2024-01-01, got %s", record.DateUTC)
	}
	if len(record.Items) != 16 {
		t.Errorf("Expected 16 items, got %d", len(record.Items))
	}
	if record.GeneratedAt.IsZero() {
		t.Error("Expected generated_at to be set")
	}
	if client.calls != 1 {
		t.Errorf("Expected exactly one completion call, got %d", client.calls)
	}
	if len(store.records) != 1 {
		t.Fatalf("Expected exactly one storage write, got %d", len(store.records))
	}
	if store.records[0] != record {
		t.Error("Expected the stored record to be the returned record")
	}
}

func TestGeneratorPromptCarriesDateAndQuota(t *testing.T) {
	profile := config.DefaultProfile()
	response := validRecord(profile)

	client := &stubClient{response: marshalRecord(t, response)}
	g := NewGenerator(client, &stubStore{}, profile, "gpt-4o-mini")
	g.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}

	if !strings.Contains(client.gotSystem, "2024-01-01T00:00Z") {
		t.Errorf("Expected system prompt to pin the freshness window to the target date, got: %s", client.gotSystem)
	}
	if !strings.Contains(client.gotSystem, "Macroeconomics") {
		t.Error("Expected system prompt to name the categories")
	}
	if !strings.Contains(client.gotUser, "EXACTLY 16 items") {
		t.Errorf("Expected user prompt to demand 16 items, got: %s", client.gotUser)
	}
}

func TestGeneratorModelFallback(t *testing.T) {
	profile := config.DefaultProfile()
	response := validRecord(profile)
	response.Model = ""

	client := &stubClient{response: marshalRecord(t, response)}
	store := &stubStore{}
	g := NewGenerator(client, store, profile, "gpt-4o-mini")

	record, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got: %v", err)
	}
	if record.Model != "gpt-4o-mini" {
		t.Errorf("Expected fallback model, got %q", record.Model)
	}
}

func TestGeneratorUpstreamFailure(t *testing.T) {
	profile := config.DefaultProfile()
	client := &stubClient{err: errors.New("connection refused")}
	store := &stubStore{}

	g := NewGenerator(client, store, profile, "gpt-4o-mini")

	_, err := g.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if KindOf(err) != KindUpstreamCall {
		t.Errorf("Expected upstream kind, got %q", KindOf(err))
	}
	if len(store.records) != 0 {
		t.Errorf("Expected no storage write after upstream failure, got %d", len(store.records))
	}
}

func TestGeneratorMalformedResponse(t *testing.T) {
	profile := config.DefaultProfile()
	client := &stubClient{response: "Sure! Here is your feed: {..."}
	store := &stubStore{}

	g := NewGenerator(client, store, profile, "gpt-4o-mini")

	_, err := g.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if KindOf(err) != KindMalformedResponse {
		t.Errorf("Expected malformed kind, got %q", KindOf(err))
	}
	if len(store.records) != 0 {
		t.Error("Expected no storage write for malformed response")
	}
}

func TestGeneratorSchemaViolationSkipsWrite(t *testing.T) {
	profile := config.DefaultProfile()
	response := validRecord(profile)
	response.Items[5].Sentiment = "VeryBullish"

	client := &stubClient{response: marshalRecord(t, response)}
	store := &stubStore{}

	g := NewGenerator(client, store, profile, "gpt-4o-mini")

	_, err := g.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if KindOf(err) != KindSchemaViolation {
		t.Errorf("Expected schema violation kind, got %q", KindOf(err))
	}
	if !strings.Contains(err.Error(), "items[5].sentiment") {
		t.Errorf("Expected error to name the offending field, got: %v", err)
	}
	if len(store.records) != 0 {
		t.Error("Expected no storage write for invalid record")
	}
}

func TestGeneratorPersistenceFailure(t *testing.T) {
	profile := config.DefaultProfile()
	response := validRecord(profile)

	client := &stubClient{response: marshalRecord(t, response)}
	store := &stubStore{err: errors.New("disk full")}

	g := NewGenerator(client, store, profile, "gpt-4o-mini")

	_, err := g.Run(context.Background())
	if err == nil {
		t.Fatal("Expected error")
	}
	if KindOf(err) != KindPersistence {
		t.Errorf("Expected persistence kind, got %q", KindOf(err))
	}
	// The message must make clear generation itself succeeded.
	if !strings.Contains(err.Error(), "generation succeeded") {
		t.Errorf("Expected persistence error to distinguish itself from generation failure, got: %v", err)
	}
}

func TestGeneratorPreflight(t *testing.T) {
	profile := config.DefaultProfile()

	g := NewGenerator(nil, &stubStore{}, profile, "gpt-4o-mini")
	_, err := g.Run(context.Background())
	if KindOf(err) != KindConfigMissing {
		t.Errorf("Expected config missing kind for nil client, got %q", KindOf(err))
	}

	g = NewGenerator(&stubClient{}, nil, profile, "gpt-4o-mini")
	_, err = g.Run(context.Background())
	if KindOf(err) != KindConfigMissing {
		t.Errorf("Expected config missing kind for nil store, got %q", KindOf(err))
	}
}
