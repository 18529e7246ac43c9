package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default category names match the dashboard cards exactly.
var defaultCategories = []string{
	"Macroeconomics",
	"Markets & Assets",
	"Geopolitics",
	"Trade & Supply Chain",
	"Energy & Commodities",
	"Companies & Sectors",
	"Science & Tech",
	"Crypto & DeFi",
}

// DefaultProfile returns the built-in feed profile: eight categories,
// two items each, restricted to the last 24 hours.
func DefaultProfile() *Profile {
	return &Profile{
		Categories:  append([]string(nil), defaultCategories...),
		PerCategory: 2,
		Freshness:   24,
		Temperature: 0.2,
	}
}

// LoadProfile reads a YAML profile from path. An empty path returns the
// built-in defaults; fields omitted from the file keep their defaults.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var override Profile
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}

	if len(override.Categories) > 0 {
		profile.Categories = override.Categories
	}
	if override.PerCategory > 0 {
		profile.PerCategory = override.PerCategory
	}
	if override.Freshness > 0 {
		profile.Freshness = override.Freshness
	}
	if override.Temperature > 0 {
		profile.Temperature = override.Temperature
	}

	if err := validate(profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return profile, nil
}

func validate(profile *Profile) error {
	if len(profile.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := make(map[string]bool, len(profile.Categories))
	for i, c := range profile.Categories {
		if c == "" {
			return fmt.Errorf("category at index %d is empty", i)
		}
		if seen[c] {
			return fmt.Errorf("duplicate category: %s", c)
		}
		seen[c] = true
	}
	if profile.PerCategory < 1 {
		return fmt.Errorf("per_category must be at least 1")
	}
	if profile.Freshness < 1 {
		return fmt.Errorf("freshness_hours must be at least 1")
	}
	return nil
}
