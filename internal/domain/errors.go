package domain

import "errors"

var (
	// ErrNoCandidates is returned when recall produces an empty shortlist
	ErrNoCandidates = errors.New("no candidates survived recall")

	// ErrLowConfidence is returned when the oracle's confidence is below the acceptance threshold
	ErrLowConfidence = errors.New("oracle confidence below threshold")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOracleUnavailable is returned when no oracle client is configured or reachable
	ErrOracleUnavailable = errors.New("match oracle unavailable")

	// ErrOracleFailure is returned when the oracle transport fails (timeout, network, non-2xx)
	ErrOracleFailure = errors.New("oracle request failed")

	// ErrMalformedDecision is returned when an oracle response cannot be parsed even after repair
	ErrMalformedDecision = errors.New("oracle returned malformed decision")

	// ErrIndexOutOfRange is returned when the oracle picks an index past the shortlist
	ErrIndexOutOfRange = errors.New("oracle index outside shortlist")

	// ErrCacheMiss is returned when a key is not present in a cache
	ErrCacheMiss = errors.New("cache miss")
)
