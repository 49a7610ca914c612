package usecase

import (
	"math"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// specWeights fixes the contribution of each spec key to the weighted score.
var specWeights = map[string]int{
	SpecWattage:         30,
	SpecVolume:          25,
	SpecSizeInch:        25,
	SpecHoseDiameter:    25,
	SpecModel:           25,
	SpecSocket:          20,
	SpecLength:          20,
	SpecDimensions:      15,
	SpecTiers:           15,
	SpecLines:           15,
	SpecSteps:           15,
	SpecPackCount:       15,
	SpecRollerType:      15,
	SpecLadderType:      15,
	SpecLampType:        15,
	SpecColorTemp:       10,
	SpecBrake:           10,
	SpecLadderDirection: 10,
	SpecKnobRoom:        10,
}

// toleranceBand grants a fraction of the key weight when the relative
// difference stays inside the band.
type toleranceBand struct {
	maxDiff float64
	credit  float64
}

// standardBands suits specs where nearby values are workable substitutes
// (a 9W bulb for a 10W one). Outside the widest band credit drops to zero,
// so 15W vs 9W (40% apart) earns nothing.
var standardBands = []toleranceBand{
	{0.10, 0.8},
	{0.20, 0.5},
	{0.30, 0.2},
}

// tightBands is for specs where being close is nearly useless: a 6-step
// ladder is not a 7-step ladder.
var tightBands = []toleranceBand{
	{0.05, 0.8},
}

// numericSpecBands lists the keys compared numerically and the band set
// applied to each. Keys absent here are categorical: exact match or zero.
// Empirically tuned against the observed retail catalogs; no claim they
// generalize (see DESIGN.md).
var numericSpecBands = map[string][]toleranceBand{
	SpecWattage:   standardBands,
	SpecVolume:    standardBands,
	SpecLength:    standardBands,
	SpecPackCount: standardBands,
	SpecSizeInch:  tightBands,
	SpecTiers:     tightBands,
	SpecLines:     tightBands,
	SpecSteps:     tightBands,
}

const (
	identifierBonusWeight   = 15.0
	numericValueBonusWeight = 10.0

	// neutralSpecScore is returned when the source name yields no specs:
	// nothing to compare is neither evidence for nor against a match.
	neutralSpecScore = 50
)

// Scorer computes the weighted spec-match score between two extracted spec
// sets. Stateless and safe for concurrent use.
type Scorer struct{}

// NewScorer creates a spec scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// SpecScore returns 0-100. Each source key adds its weight to the total;
// the target earns that weight on exact match, banded partial credit for
// numeric keys inside tolerance, and nothing for a categorical mismatch.
// A key the target simply lacks earns nothing but is not treated as a
// mismatch beyond its missing weight. Identifier and numeric-value overlap
// add earned bonus weight to both sides, pulling the score toward 100.
func (s *Scorer) SpecScore(source, target domain.SpecSet) int {
	if source.Empty() {
		return neutralSpecScore
	}

	var totalWeight, matchedWeight float64

	for key, weight := range specWeights {
		srcVal, ok := source.Specs[key]
		if !ok {
			continue
		}
		totalWeight += float64(weight)

		tgtVal, ok := target.Specs[key]
		if !ok {
			continue
		}
		if srcVal == tgtVal {
			matchedWeight += float64(weight)
			continue
		}
		bands, numeric := numericSpecBands[key]
		if !numeric {
			continue
		}
		if credit, ok := bandedCredit(srcVal, tgtVal, bands); ok {
			matchedWeight += float64(weight) * credit
		}
	}

	if bonus := overlapBonus(source.Identifiers, target.Identifiers, identifierBonusWeight); bonus > 0 {
		matchedWeight += bonus
		totalWeight += bonus
	}
	if bonus := numericOverlapBonus(source.NumericValues, target.NumericValues); bonus > 0 {
		matchedWeight += bonus
		totalWeight += bonus
	}

	if totalWeight == 0 {
		return neutralSpecScore
	}

	score := int(math.Round(100 * matchedWeight / totalWeight))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// bandedCredit compares two numeric spec values of the same unit and returns
// the partial credit for their relative difference. Different units (litres
// vs gallons) never earn partial credit.
func bandedCredit(srcVal, tgtVal string, bands []toleranceBand) (float64, bool) {
	if specUnit(srcVal) != specUnit(tgtVal) {
		return 0, false
	}
	src, ok1 := specValueNumber(srcVal)
	tgt, ok2 := specValueNumber(tgtVal)
	if !ok1 || !ok2 || src == 0 {
		return 0, false
	}
	diff := math.Abs(src-tgt) / src
	for _, band := range bands {
		if diff <= band.maxDiff {
			return band.credit, true
		}
	}
	return 0, false
}

// specUnit strips the numeric prefix off a stored spec value ("9 L" -> "L").
func specUnit(value string) string {
	return strings.TrimLeft(value, "0123456789./ ")
}

// overlapBonus returns bonus weight proportional to the fraction of source
// entries present on the target side, capped at the given weight.
func overlapBonus(source, target []string, maxBonus float64) float64 {
	if len(source) == 0 || len(target) == 0 {
		return 0
	}
	set := make(map[string]bool, len(target))
	for _, t := range target {
		set[t] = true
	}
	matches := 0
	for _, s := range source {
		if set[s] {
			matches++
		}
	}
	return maxBonus * float64(matches) / float64(len(source))
}

// numericOverlapBonus credits (value, unit) pairs shared by both sides.
// This is the fuzzy cross-key comparison: a "10 M" occurrence counts even
// when the named length key was claimed by another pattern.
func numericOverlapBonus(source, target []domain.NumericValue) float64 {
	if len(source) == 0 || len(target) == 0 {
		return 0
	}
	matches := 0
	for _, s := range source {
		for _, t := range target {
			if s.Unit == t.Unit && s.Value == t.Value {
				matches++
				break
			}
		}
	}
	return numericValueBonusWeight * float64(matches) / float64(len(source))
}
