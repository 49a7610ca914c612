package usecase

import (
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// unitFoldings maps localized unit and finish vocabulary to canonical English
// tokens. Order matters: longer spellings must fold before their substrings
// (แกลลอน before แกลอน, ซม. and มล. before ม.).
var unitFoldings = []struct {
	local     string
	canonical string
}{
	{"แกลลอน", "GAL"},
	{"แกลอน", "GAL"},
	{"กิโลกรัม", "KG"},
	{"กก.", "KG"},
	{"มิลลิลิตร", "ML"},
	{"มล.", "ML"},
	{"เซนติเมตร", "CM"},
	{"ซม.", "CM"},
	{"ลิตร", "L"},
	{"เมตร", "M"},
	{"ม.", "M"},
	{"นิ้ว", "INCH"},
	{"วัตต์", "W"},
	{"กึ่งเงา", "SEMI-GLOSS"},
	{"เนียน", "SHEEN"},
	{"ด้าน", "MATTE"},
}

// Normalizer canonicalizes product names ahead of any similarity computation.
// The same normalization must be applied to source and target names.
type Normalizer struct {
	cache domain.TextCache
}

// NewNormalizer creates a normalizer backed by the given memoization cache.
// A nil cache disables memoization without changing results.
func NewNormalizer(cache domain.TextCache) *Normalizer {
	return &Normalizer{cache: cache}
}

// Normalize upper-cases, trims and folds localized unit vocabulary. Pure and
// idempotent: empty input yields empty output, and normalizing an already
// normalized string is a no-op.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	if n.cache != nil {
		if v, ok := n.cache.Get(raw); ok {
			return v
		}
	}

	out := normalizeText(raw)

	if n.cache != nil {
		n.cache.Add(raw, out)
	}
	return out
}

func normalizeText(raw string) string {
	text := strings.ToUpper(strings.TrimSpace(raw))
	for _, f := range unitFoldings {
		// Thai has no letter case, but the table also admits cased entries;
		// fold both the upper-cased and the original-case form.
		upper := strings.ToUpper(f.local)
		if upper != f.local {
			text = strings.ReplaceAll(text, upper, f.canonical)
		}
		text = strings.ReplaceAll(text, f.local, f.canonical)
	}
	return text
}
