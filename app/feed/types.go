package feed

import (
	"time"
)

// Sentiment classifies an item's directional market implication.
const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
	SentimentNeutral = "Neutral"
)

// DateLayout is the calendar-date key format. Lexicographic ordering of
// these strings equals chronological ordering.
const DateLayout = "2006-01-02"

// Source names where an item was reported.
type Source struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

// Item is a single news item inside a daily feed.
type Item struct {
	Category    string   `json:"category" validate:"required"`
	Title       string   `json:"title" validate:"required,min=6"`
	Summary     string   `json:"summary" validate:"required,min=10"`
	Sentiment   string   `json:"sentiment" validate:"required,oneof=Bullish Bearish Neutral"`
	Sources     []Source `json:"sources" validate:"required,min=1,dive"`
	Tickers     []string `json:"tickers,omitempty"`
	Countries   []string `json:"countries,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Impact      *int     `json:"impact,omitempty"`
}

// Record is one generated daily feed, keyed by UTC calendar date.
type Record struct {
	DateUTC      string    `json:"date_utc"`
	Items        []Item    `json:"items"`
	Model        string    `json:"model"`
	GeneratedAt  time.Time `json:"generated_at"`
	GenerationMS int64     `json:"generation_ms,omitempty"`
}

// TodayUTC returns the current UTC calendar date in DateLayout form.
func TodayUTC() string {
	return time.Now().UTC().Format(DateLayout)
}
