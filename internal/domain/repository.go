package domain

import "context"

// MatchOracle adjudicates the final pick from a pre-ranked shortlist.
// Implementations: the network LLM oracle and the local weighted-similarity
// fallback. Selection happens by availability at wiring time, never by
// branching inside the matching loop.
type MatchOracle interface {
	Decide(ctx context.Context, req OracleRequest) (*OracleDecision, error)
}

// TextCache is the bounded memoization cache used for repeated pure string
// derivations (normalization) across the candidate loop. Must be safe for
// concurrent readers.
type TextCache interface {
	Get(key string) (string, bool)
	Add(key, value string)
}

// CatalogRepository loads product catalogs from an external artifact.
type CatalogRepository interface {
	Load(path string) ([]Product, error)
}
