package config

// Profile describes what a generated daily feed must contain.
type Profile struct {
	Categories  []string `yaml:"categories"`
	PerCategory int      `yaml:"per_category"`
	Freshness   int      `yaml:"freshness_hours"`
	Temperature float64  `yaml:"temperature"`
}

// ExpectedItems returns the total item count a strict feed must carry.
func (p *Profile) ExpectedItems() int {
	return len(p.Categories) * p.PerCategory
}

// HasCategory reports whether name is a member of the profile's category set.
func (p *Profile) HasCategory(name string) bool {
	for _, c := range p.Categories {
		if c == name {
			return true
		}
	}
	return false
}
