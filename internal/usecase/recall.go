package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/shelfmatch/backend/internal/domain"
)

// Tier admission constants.
const (
	specTierMaxPriceDiff  = 1.0
	fuzzyTierMaxPriceDiff = 0.6

	specTierScoreAdmit  = 60
	fuzzyTierTextAdmit  = 15
	fuzzyTierScoreAdmit = 30

	// Quality gate: with this many strong spec candidates the shortlist
	// tightens.
	strongSpecCount     = 3
	strongSpecThreshold = 60
	gatedSpecKeep       = 30
	gatedFuzzyKeep      = 10
	shortlistCap        = 40

	// Boost values for preferred brands and shared model codes.
	preferredBrandBoost = 30.0
	partialBrandBoost   = 20.0
	modelCodeBoost      = 20.0
)

// criticalSpecKeys is the fixed set whose exact agreement admits a candidate
// to the spec tier regardless of overall spec score.
var criticalSpecKeys = []string{SpecWattage, SpecVolume, SpecSocket, SpecSizeInch}

// SourceProfile is a source product with everything derived from it once,
// before the catalog sweep.
type SourceProfile struct {
	Index      int
	Product    domain.Product
	Normalized string
	Specs      domain.SpecSet
	Brand      string
	Category   string
	Preferred  []string
}

// TargetCatalog is a competitor catalog with per-product derivations
// computed one time and shared across every source evaluation.
type TargetCatalog struct {
	Products   []domain.Product
	Normalized []string
	Specs      []domain.SpecSet
	Brands     []string
	Categories []string
}

// RecallEngine produces the ranked candidate shortlist for one source
// product against a full target catalog.
type RecallEngine struct {
	normalizer *Normalizer
	extractor  *Extractor
	resolver   *BrandResolver
	scorer     *Scorer
	detector   *ConflictDetector
	prefs      domain.BrandPreferenceTable
}

// NewRecallEngine wires the recall pipeline. The preference table may be nil
// (no brand preferences).
func NewRecallEngine(
	normalizer *Normalizer,
	extractor *Extractor,
	resolver *BrandResolver,
	scorer *Scorer,
	detector *ConflictDetector,
	prefs domain.BrandPreferenceTable,
) *RecallEngine {
	return &RecallEngine{
		normalizer: normalizer,
		extractor:  extractor,
		resolver:   resolver,
		scorer:     scorer,
		detector:   detector,
		prefs:      prefs,
	}
}

// ProfileSource derives the per-source state: normalized name, spec set,
// resolved brand and category, and the retailer's brand-preference list.
func (e *RecallEngine) ProfileSource(index int, p domain.Product, retailer string) SourceProfile {
	brand := e.resolver.ResolveBrand(p.Name, p.Brand, p.URL)
	return SourceProfile{
		Index:      index,
		Product:    p,
		Normalized: e.normalizer.Normalize(p.Name),
		Specs:      e.extractor.Extract(p.Name),
		Brand:      brand,
		Category:   e.resolver.ResolveCategory(p.Name),
		Preferred:  e.prefs.Preferred(retailer, brand),
	}
}

// IndexTargets precomputes the target-side derivations for a catalog. Call
// once per catalog, not per source product.
func (e *RecallEngine) IndexTargets(products []domain.Product) *TargetCatalog {
	c := &TargetCatalog{
		Products:   products,
		Normalized: make([]string, len(products)),
		Specs:      make([]domain.SpecSet, len(products)),
		Brands:     make([]string, len(products)),
		Categories: make([]string, len(products)),
	}
	for i, p := range products {
		c.Normalized[i] = e.normalizer.Normalize(p.Name)
		c.Specs[i] = e.extractor.Extract(p.Name)
		c.Brands[i] = e.resolver.ResolveBrand(p.Name, p.Brand, p.URL)
		c.Categories[i] = e.resolver.ResolveCategory(p.Name)
	}
	return c
}

// Shortlist sweeps the catalog once and returns the ranked shortlist. Spec
// tier always precedes fuzzy tier; within a tier candidates sort by spec
// score then combined score, descending.
func (e *RecallEngine) Shortlist(source SourceProfile, catalog *TargetCatalog) []domain.MatchCandidate {
	if source.Product.Price <= 0 {
		return nil
	}

	var specTier, fuzzyTier []domain.MatchCandidate

	for i, target := range catalog.Products {
		if target.Price <= 0 {
			continue
		}
		// Same-brand targets are never substitutes, whatever the text says.
		if source.Brand != "" && catalog.Brands[i] == source.Brand {
			continue
		}
		if e.detector.Conflicting(source.Product.Name, target.Name, source.Specs, catalog.Specs[i]) {
			continue
		}

		priceDiff := math.Abs(target.Price-source.Product.Price) / source.Product.Price
		if priceDiff > specTierMaxPriceDiff {
			continue
		}

		specScore := e.scorer.SpecScore(source.Specs, catalog.Specs[i])
		textSim := float64(tokenSetRatio(source.Normalized, catalog.Normalized[i]))
		brandBoost := brandPreferenceBoost(source.Preferred, catalog.Brands[i])
		modelBoost := modelOverlapBoost(source.Specs, catalog.Specs[i])

		cand := domain.MatchCandidate{
			TargetIndex: i,
			SpecScore:   specScore,
			TextSim:     textSim,
			BrandBoost:  brandBoost,
			ModelBoost:  modelBoost,
			Name:        target.Name,
			Brand:       catalog.Brands[i],
			Category:    catalog.Categories[i],
			Price:       target.Price,
			URL:         target.URL,
			Specs:       catalog.Specs[i],
		}

		if criticalSpecMatches(source.Specs, catalog.Specs[i]) >= 2 || specScore >= specTierScoreAdmit {
			cand.Tier = domain.TierSpec
			cand.CombinedScore = 0.8*float64(specScore) + 0.15*textSim + 0.5*brandBoost
			specTier = append(specTier, cand)
			continue
		}

		if priceDiff > fuzzyTierMaxPriceDiff {
			continue
		}
		if textSim >= fuzzyTierTextAdmit || specScore >= fuzzyTierScoreAdmit || brandBoost > 0 || modelBoost > 0 {
			cand.Tier = domain.TierFuzzy
			cand.CombinedScore = 0.6*float64(specScore) + 0.25*textSim + brandBoost + modelBoost
			fuzzyTier = append(fuzzyTier, cand)
		}
	}

	sortTier(specTier)
	sortTier(fuzzyTier)

	return applyQualityGate(specTier, fuzzyTier)
}

// applyQualityGate tightens the shortlist when the spec tier already holds
// several strong candidates; otherwise it fills with fuzzy candidates up to
// the cap.
func applyQualityGate(specTier, fuzzyTier []domain.MatchCandidate) []domain.MatchCandidate {
	strong := 0
	for _, c := range specTier {
		if c.SpecScore >= strongSpecThreshold {
			strong++
		}
	}

	if strong >= strongSpecCount {
		specTier = capTier(specTier, gatedSpecKeep)
		fuzzyTier = capTier(fuzzyTier, gatedFuzzyKeep)
	} else {
		room := shortlistCap - len(specTier)
		if room < 0 {
			room = 0
		}
		fuzzyTier = capTier(fuzzyTier, room)
	}

	return append(specTier, fuzzyTier...)
}

func capTier(tier []domain.MatchCandidate, n int) []domain.MatchCandidate {
	if len(tier) > n {
		return tier[:n]
	}
	return tier
}

func sortTier(tier []domain.MatchCandidate) {
	sort.SliceStable(tier, func(i, j int) bool {
		if tier[i].SpecScore != tier[j].SpecScore {
			return tier[i].SpecScore > tier[j].SpecScore
		}
		return tier[i].CombinedScore > tier[j].CombinedScore
	})
}

// criticalSpecMatches counts exact agreements over the critical spec set.
func criticalSpecMatches(source, target domain.SpecSet) int {
	matches := 0
	for _, key := range criticalSpecKeys {
		sv, ok1 := source.Get(key)
		tv, ok2 := target.Get(key)
		if ok1 && ok2 && sv == tv {
			matches++
		}
	}
	return matches
}

// brandPreferenceBoost rewards the retailer's preferred substitute brands.
// Any exact member of the list earns the full boost regardless of rank; a
// substring relation in either direction ("TOA" against "TOA PAINT") earns
// the partial boost.
func brandPreferenceBoost(preferred []string, targetBrand string) float64 {
	if targetBrand == "" {
		return 0
	}
	target := strings.ToUpper(targetBrand)
	for _, brand := range preferred {
		if strings.ToUpper(brand) == target {
			return preferredBrandBoost
		}
	}
	for _, brand := range preferred {
		upper := strings.ToUpper(brand)
		if upper == "" {
			continue
		}
		if strings.Contains(target, upper) || strings.Contains(upper, target) {
			return partialBrandBoost
		}
	}
	return 0
}

// modelOverlapBoost rewards a shared model code, the strongest identity
// signal two listings can carry.
func modelOverlapBoost(source, target domain.SpecSet) float64 {
	sm, ok1 := source.Get(SpecModel)
	tm, ok2 := target.Get(SpecModel)
	if ok1 && ok2 && sm == tm {
		return modelCodeBoost
	}
	if overlapBonus(source.Identifiers, target.Identifiers, 1) > 0 {
		return modelCodeBoost
	}
	return 0
}
