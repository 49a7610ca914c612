package usecase

import (
	"context"
	"fmt"

	"github.com/shelfmatch/backend/internal/domain"
)

// Local verdict weighting.
const (
	localTextWeight = 0.5
	localSpecWeight = 0.4

	localBrandBonus    = 15.0
	localCategoryBonus = 10.0
)

// LocalOracle adjudicates a shortlist without any network dependency: a
// weighted blend of name similarity and spec score with brand and category
// bonuses. Category disagreement is a hard rejection, not a penalty. Used
// when no network oracle is configured; its confidences run lower, so pair
// it with FallbackThreshold.
type LocalOracle struct {
	normalizer *Normalizer
}

// NewLocalOracle creates the fallback adjudicator.
func NewLocalOracle(normalizer *Normalizer) *LocalOracle {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &LocalOracle{normalizer: normalizer}
}

var _ domain.MatchOracle = (*LocalOracle)(nil)

// Decide scores every candidate and returns the best one with its score as
// the confidence. The caller applies its own acceptance threshold.
func (o *LocalOracle) Decide(_ context.Context, req domain.OracleRequest) (*domain.OracleDecision, error) {
	if len(req.Candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	sourceNorm := o.normalizer.Normalize(req.SourceName)
	resolver := NewBrandResolver()
	sourceCategory := req.SourceCategory
	if sourceCategory == "" {
		sourceCategory = resolver.ResolveCategory(req.SourceName)
	}

	best := -1
	bestScore := 0.0
	for i, cand := range req.Candidates {
		candCategory := cand.Category
		if candCategory == "" {
			candCategory = resolver.ResolveCategory(cand.Name)
		}
		// Different resolved categories mean a different kind of product;
		// no amount of name similarity overrides that.
		if sourceCategory != "OTHER" && candCategory != "OTHER" && sourceCategory != candCategory {
			continue
		}

		textSim := float64(tokenSetRatio(sourceNorm, o.normalizer.Normalize(cand.Name)))
		score := localTextWeight*textSim + localSpecWeight*float64(cand.SpecScore)
		if brandPreferenceBoost(req.PreferredBrands, cand.Brand) > 0 {
			score += localBrandBonus
		}
		if sourceCategory != "OTHER" && sourceCategory == candCategory {
			score += localCategoryBonus
		}

		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		return &domain.OracleDecision{Reason: "no candidate shares the product category"}, nil
	}

	confidence := int(bestScore)
	if confidence > 100 {
		confidence = 100
	}
	idx := best
	return &domain.OracleDecision{
		MatchIndex: &idx,
		Confidence: confidence,
		Reason: fmt.Sprintf("local similarity pick: text and spec blend scored %.0f for %q",
			bestScore, req.Candidates[best].Name),
	}, nil
}
