package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/shelfmatch/backend/internal/domain"
)

const (
	// DefaultConfidenceThreshold is the oracle acceptance cutoff. Modes vary
	// it between 50 and 70.
	DefaultConfidenceThreshold = 60

	fallbackThresholdDelta = 20
	fallbackThresholdFloor = 30
)

// FallbackThreshold derives the acceptance cutoff used when the local
// fallback oracle adjudicates instead of the network one. The fallback's
// similarity confidences run lower than LLM confidences, so the bar drops
// by a fixed delta with a floor.
func FallbackThreshold(base int) int {
	t := base - fallbackThresholdDelta
	if t < fallbackThresholdFloor {
		return fallbackThresholdFloor
	}
	return t
}

// MatchingService runs the full per-source pipeline: recall a ranked
// shortlist, hand it to the oracle, validate the verdict. The oracle is
// chosen at construction by availability; the service never branches on
// oracle kind.
type MatchingService struct {
	recall    *RecallEngine
	oracle    domain.MatchOracle
	threshold int
	logger    zerolog.Logger
}

// NewMatchingService wires the service. The threshold is the acceptance
// cutoff already derived for the chosen oracle, so anything from the fallback
// floor up to 70 is valid; values outside that range fall back to the
// default.
func NewMatchingService(recall *RecallEngine, oracle domain.MatchOracle, threshold int, logger zerolog.Logger) *MatchingService {
	if threshold < fallbackThresholdFloor || threshold > 70 {
		threshold = DefaultConfidenceThreshold
	}
	return &MatchingService{
		recall:    recall,
		oracle:    oracle,
		threshold: threshold,
		logger:    logger,
	}
}

// IndexTargets exposes target-catalog preparation so batch callers index
// once and reuse across every source product.
func (s *MatchingService) IndexTargets(products []domain.Product) *TargetCatalog {
	return s.recall.IndexTargets(products)
}

// MatchOne evaluates one source product against an indexed target catalog.
// Every failure degrades to a no-match decision for this product alone;
// MatchOne never returns an error so a batch always completes.
func (s *MatchingService) MatchOne(ctx context.Context, index int, source domain.Product, retailer string, catalog *TargetCatalog) domain.MatchDecision {
	profile := s.recall.ProfileSource(index, source, retailer)

	shortlist := s.recall.Shortlist(profile, catalog)
	if len(shortlist) == 0 {
		s.logger.Debug().Int("source", index).Str("name", source.Name).Msg("no candidates survived recall")
		return domain.NoMatch(index, "no viable candidates")
	}

	req := domain.OracleRequest{
		SourceName:      source.Name,
		SourceBrand:     profile.Brand,
		SourceCategory:  profile.Category,
		SourcePrice:     source.Price,
		SourceSpecs:     profile.Specs,
		PreferredBrands: profile.Preferred,
		Candidates:      shortlist,
	}

	verdict, err := s.oracle.Decide(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Int("source", index).Msg("oracle failed, product degraded to not found")
		return domain.NoMatch(index, oracleFailureReason(err))
	}

	return s.validate(profile, shortlist, verdict)
}

// validate turns a raw oracle verdict into the final decision, enforcing
// the shortlist-range, confidence and same-brand invariants.
func (s *MatchingService) validate(profile SourceProfile, shortlist []domain.MatchCandidate, verdict *domain.OracleDecision) domain.MatchDecision {
	index := profile.Index

	if verdict == nil || verdict.MatchIndex == nil {
		reason := "no match selected"
		if verdict != nil && verdict.Reason != "" {
			reason = verdict.Reason
		}
		return domain.NoMatch(index, reason)
	}

	pos := *verdict.MatchIndex
	if pos < 0 || pos >= len(shortlist) {
		s.logger.Warn().Int("source", index).Int("position", pos).Int("shortlist", len(shortlist)).
			Msg("oracle index out of range")
		return domain.NoMatch(index, "oracle returned out-of-range candidate index")
	}
	if verdict.Confidence < s.threshold {
		return domain.NoMatch(index, fmt.Sprintf("confidence %d below threshold %d", verdict.Confidence, s.threshold))
	}

	chosen := shortlist[pos]
	if profile.Brand != "" && chosen.Brand == profile.Brand {
		return domain.NoMatch(index, "oracle selected a same-brand product")
	}

	var priceDiff float64
	if profile.Product.Price > 0 {
		priceDiff = math.Abs(chosen.Price-profile.Product.Price) / profile.Product.Price * 100
	}

	s.logger.Info().Int("source", index).Int("target", chosen.TargetIndex).
		Int("confidence", verdict.Confidence).Str("tier", string(chosen.Tier)).
		Msg("match accepted")

	return domain.MatchDecision{
		SourceIndex: index,
		TargetIndex: chosen.TargetIndex,
		Matched:     true,
		Confidence:  verdict.Confidence,
		Reason:      verdict.Reason,
		SourceBrand: profile.Brand,
		TargetBrand: chosen.Brand,
		PriceDiff:   priceDiff,
	}
}

// MatchBatch evaluates every source product sequentially against one target
// catalog. Context cancellation stops the sweep; the decisions produced so
// far are returned with the context error.
func (s *MatchingService) MatchBatch(ctx context.Context, sources []domain.Product, targets []domain.Product, retailer string) ([]domain.MatchDecision, error) {
	catalog := s.recall.IndexTargets(targets)
	decisions := make([]domain.MatchDecision, 0, len(sources))

	for i, source := range sources {
		select {
		case <-ctx.Done():
			return decisions, ctx.Err()
		default:
		}
		decisions = append(decisions, s.MatchOne(ctx, i, source, retailer, catalog))
	}
	return decisions, nil
}

func oracleFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOracleUnavailable):
		return "oracle unavailable"
	case errors.Is(err, domain.ErrMalformedDecision):
		return "oracle returned an unparsable decision"
	case errors.Is(err, context.DeadlineExceeded):
		return "oracle call timed out"
	default:
		return "oracle call failed"
	}
}
