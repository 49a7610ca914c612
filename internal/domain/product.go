package domain

import "strings"

// Product is a single catalog listing. Immutable once loaded; identity is the
// catalog index plus the canonical URL.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Brand    string  `json:"brand,omitempty"`
	Category string  `json:"category,omitempty"`
	URL      string  `json:"url,omitempty"`
	Retailer string  `json:"retailer,omitempty"`
	Model    string  `json:"model,omitempty"`
	Volume   string  `json:"volume,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

// CanonicalURL strips the query string and trailing slash so the same listing
// compares equal regardless of tracking parameters. Idempotent.
func CanonicalURL(raw string) string {
	if raw == "" {
		return ""
	}
	u := strings.TrimSpace(raw)
	if idx := strings.Index(u, "?"); idx >= 0 {
		u = u[:idx]
	}
	return strings.TrimSuffix(u, "/")
}

// NumericValue is one (value, unit) occurrence found in a product name.
type NumericValue struct {
	Value float64
	Unit  string
}

// SpecSet is the typed specification set extracted from a product name.
// Derived once per product and never mutated afterwards.
type SpecSet struct {
	Specs         map[string]string
	Identifiers   []string
	NumericValues []NumericValue
}

// Has reports whether the named spec key was extracted.
func (s SpecSet) Has(key string) bool {
	_, ok := s.Specs[key]
	return ok
}

// Get returns the normalized value for a spec key and whether it was
// extracted.
func (s SpecSet) Get(key string) (string, bool) {
	v, ok := s.Specs[key]
	return v, ok
}

// Empty reports whether nothing at all was extracted from the name.
func (s SpecSet) Empty() bool {
	return len(s.Specs) == 0 && len(s.Identifiers) == 0 && len(s.NumericValues) == 0
}
