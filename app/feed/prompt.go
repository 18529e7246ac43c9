package feed

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/macromind/macromind/app/config"
)

const systemPromptTemplate = `You are a chief investment officer. Generate a daily tactical newsfeed strictly as JSON. Categories: %s. Rules: exactly %d items per category; "sentiment" must be Bullish|Bearish|Neutral; include concise "summary"; every item must carry at least one source with a valid URL; prefer reputable sources. Only include events from the last %d hours relative to %sT00:00Z.`

// BuildSystemPrompt produces the system instruction for one generation run.
func BuildSystemPrompt(profile *config.Profile, dateUTC string) string {
	return fmt.Sprintf(systemPromptTemplate,
		strings.Join(profile.Categories, ", "),
		profile.PerCategory,
		profile.Freshness,
		dateUTC,
	)
}

// BuildUserPrompt produces the user instruction: the exact item count plus
// a JSON shape example the model must mirror.
func BuildUserPrompt(profile *config.Profile, dateUTC string) string {
	shape := map[string]any{
		"date_utc": dateUTC,
		"items": []map[string]any{
			{
				"category":     "<one of " + strings.Join(profile.Categories, " | ") + ">",
				"title":        "string",
				"summary":      "string",
				"sentiment":    "Bullish|Bearish|Neutral",
				"sources":      []map[string]string{{"name": "Reuters/Bloomberg/FT/...", "url": "https://..."}},
				"tickers":      []string{"AAPL"},
				"countries":    []string{"US"},
				"published_at": "2024-01-01T12:00:00Z",
				"confidence":   0.8,
				"impact":       3,
			},
		},
		"model": "string",
	}

	example, _ := json.MarshalIndent(shape, "", "  ")

	return fmt.Sprintf("Return EXACTLY %d items covering all categories evenly.\nRespond with a single JSON object shaped like:\n%s",
		profile.ExpectedItems(), string(example))
}
