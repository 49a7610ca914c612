package domain

// CandidateTier marks which recall path admitted a candidate.
type CandidateTier string

const (
	// TierSpec admits candidates on structured attribute agreement.
	TierSpec CandidateTier = "spec"
	// TierFuzzy admits candidates on generic text similarity.
	TierFuzzy CandidateTier = "fuzzy"
)

// MatchCandidate is a transient scoring record for one (source, target) pair.
// It lives for a single source-product evaluation and is never persisted.
type MatchCandidate struct {
	TargetIndex   int           `json:"targetIndex"`
	Tier          CandidateTier `json:"tier"`
	SpecScore     int           `json:"specScore"`
	TextSim       float64       `json:"textSim"`
	BrandBoost    float64       `json:"brandBoost"`
	ModelBoost    float64       `json:"modelBoost"`
	CombinedScore float64       `json:"combinedScore"`

	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
	Specs    SpecSet `json:"-"`
}

// MatchDecision is the final per-source outcome. TargetIndex is -1 when no
// match was accepted.
type MatchDecision struct {
	SourceIndex int     `json:"sourceIndex"`
	TargetIndex int     `json:"targetIndex"`
	Matched     bool    `json:"matched"`
	Confidence  int     `json:"confidence"`
	Reason      string  `json:"reason"`
	SourceBrand string  `json:"sourceBrand,omitempty"`
	TargetBrand string  `json:"targetBrand,omitempty"`
	PriceDiff   float64 `json:"priceDiffPct,omitempty"`
}

// NoMatch builds the degraded decision used whenever a source product cannot
// be matched, whatever the cause.
func NoMatch(sourceIndex int, reason string) MatchDecision {
	return MatchDecision{
		SourceIndex: sourceIndex,
		TargetIndex: -1,
		Matched:     false,
		Reason:      reason,
	}
}

// OracleDecision is the raw adjudication returned by a MatchOracle before
// range and confidence validation. MatchIndex is a position within the
// shortlist handed to the oracle, not a catalog index.
type OracleDecision struct {
	MatchIndex *int   `json:"match_index"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}

// OracleRequest carries everything an oracle needs to adjudicate one source
// product against its ranked shortlist.
type OracleRequest struct {
	SourceName      string
	SourceBrand     string
	SourceCategory  string
	SourcePrice     float64
	SourceSpecs     SpecSet
	PreferredBrands []string
	Candidates      []MatchCandidate
}

// BrandPreferenceTable maps retailer -> source brand -> ordered preferred
// target brands. Loaded once at startup and read-only afterwards.
type BrandPreferenceTable map[string]map[string][]string

// Preferred returns the ordered preference list for a source brand at a
// retailer; absence means no preference, never an error.
func (t BrandPreferenceTable) Preferred(retailer, sourceBrand string) []string {
	if t == nil || retailer == "" {
		return nil
	}
	return t[retailer][sourceBrand]
}
