package feed

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/macromind/macromind/app/config"
)

// Validator checks parsed generation responses against the feed schema.
// Static per-item constraints live in struct tags; rules that depend on
// the active profile (category set, strict item count) and the bounded
// numerics are checked explicitly so failures can name the exact field.
type Validator struct {
	profile  *config.Profile
	validate *validator.Validate
}

func NewValidator(profile *config.Profile) *Validator {
	return &Validator{
		profile:  profile,
		validate: validator.New(),
	}
}

// Run validates a record in full. The returned error is always a
// KindSchemaViolation *Error identifying the offending field.
func (v *Validator) Run(record *Record) error {
	if record.DateUTC == "" {
		return newError(KindSchemaViolation, "date_utc: required")
	}
	if _, err := time.Parse(DateLayout, record.DateUTC); err != nil {
		return newError(KindSchemaViolation, "date_utc: %q is not a valid YYYY-MM-DD date", record.DateUTC)
	}
	if record.Model == "" {
		return newError(KindSchemaViolation, "model: required")
	}

	if expected := v.profile.ExpectedItems(); len(record.Items) != expected {
		return newError(KindSchemaViolation, "items: expected exactly %d items, got %d", expected, len(record.Items))
	}

	for i := range record.Items {
		if err := v.validateItem(i, &record.Items[i]); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateItem(index int, item *Item) error {
	if !v.profile.HasCategory(item.Category) {
		return newError(KindSchemaViolation, "items[%d].category: %q is not a known category", index, item.Category)
	}

	if err := v.validate.Struct(item); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return newError(KindSchemaViolation, "items[%d].%s: failed %q constraint on value %v",
				index, fieldPath(fe), fe.Tag(), fe.Value())
		}
		return newError(KindSchemaViolation, "items[%d]: %v", index, err)
	}

	if item.Confidence != nil && (*item.Confidence < 0 || *item.Confidence > 1) {
		return newError(KindSchemaViolation, "items[%d].confidence: %v is outside [0,1]", index, *item.Confidence)
	}
	if item.Impact != nil && (*item.Impact < 1 || *item.Impact > 5) {
		return newError(KindSchemaViolation, "items[%d].impact: %d is outside [1,5]", index, *item.Impact)
	}
	if item.PublishedAt != "" {
		if _, err := time.Parse(time.RFC3339, item.PublishedAt); err != nil {
			return newError(KindSchemaViolation, "items[%d].published_at: %q is not a valid RFC3339 timestamp", index, item.PublishedAt)
		}
	}

	return nil
}

// fieldPath renders a validator namespace like "Item.Sources[0].URL" as a
// JSON-ish path relative to the item ("sources[0].url").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	// Strip the leading struct name ("Item.")
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			ns = ns[i+1:]
			break
		}
	}

	out := make([]byte, 0, len(ns))
	for i := 0; i < len(ns); i++ {
		c := ns[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}
