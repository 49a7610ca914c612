package usecase

import (
	"github.com/shelfmatch/backend/internal/domain"
)

// Evaluation is the replay report for one batch against a ground-truth
// mapping. Misses are split by cause: a data-coverage miss means the
// expected target was never in the catalog, or the ground-truth pair itself
// is a variant mismatch, so no algorithm could have found it.
type Evaluation struct {
	Total     int     `json:"total"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	NotFound  int     `json:"notFound"`
	Accuracy  float64 `json:"accuracy"`

	DataCoverageMisses int `json:"dataCoverageMisses"`
	AlgorithmicMisses  int `json:"algorithmicMisses"`

	Mistakes []Mistake `json:"mistakes,omitempty"`
}

// Mistake is one evaluated source product that did not land on its expected
// target.
type Mistake struct {
	SourceIndex  int    `json:"sourceIndex"`
	SourceName   string `json:"sourceName"`
	SourceURL    string `json:"sourceUrl"`
	ExpectedURL  string `json:"expectedUrl"`
	GotURL       string `json:"gotUrl,omitempty"`
	Reason       string `json:"reason,omitempty"`
	DataCoverage bool   `json:"dataCoverage"`
}

// Evaluator replays match decisions against a source URL -> expected target
// URL ground truth. All URLs compare canonically.
type Evaluator struct {
	detector *ConflictDetector
}

// NewEvaluator creates a ground-truth evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{detector: NewConflictDetector(NewExtractor())}
}

// Evaluate scores decisions against the ground truth. Source products with
// no ground-truth entry are ignored; ground-truth entries whose source does
// not appear in the batch are ignored too.
func (e *Evaluator) Evaluate(
	sources []domain.Product,
	targets []domain.Product,
	decisions []domain.MatchDecision,
	groundTruth map[string]string,
) Evaluation {
	expected := make(map[string]string, len(groundTruth))
	for src, tgt := range groundTruth {
		expected[domain.CanonicalURL(src)] = domain.CanonicalURL(tgt)
	}

	catalogNames := make(map[string]string, len(targets))
	for _, t := range targets {
		if u := domain.CanonicalURL(t.URL); u != "" {
			catalogNames[u] = t.Name
		}
	}

	bySource := make(map[int]domain.MatchDecision, len(decisions))
	for _, d := range decisions {
		bySource[d.SourceIndex] = d
	}

	var ev Evaluation
	for i, source := range sources {
		sourceURL := domain.CanonicalURL(source.URL)
		expectedURL, ok := expected[sourceURL]
		if !ok || expectedURL == "" {
			continue
		}
		decision, ok := bySource[i]
		if !ok {
			continue
		}
		ev.Total++

		// Covered means the expected target is both present in the catalog
		// and actually reachable: a ground-truth pair the conflict rules
		// reject is a bad annotation, not an algorithmic miss.
		expectedName, covered := catalogNames[expectedURL]
		if covered && e.detector.ConflictingNames(source.Name, expectedName) {
			covered = false
		}

		if !decision.Matched {
			ev.NotFound++
			e.recordMiss(&ev, i, source, sourceURL, expectedURL, "", decision.Reason, covered)
			continue
		}

		var gotURL string
		if decision.TargetIndex >= 0 && decision.TargetIndex < len(targets) {
			gotURL = domain.CanonicalURL(targets[decision.TargetIndex].URL)
		}
		if gotURL == expectedURL {
			ev.Correct++
			continue
		}

		ev.Incorrect++
		e.recordMiss(&ev, i, source, sourceURL, expectedURL, gotURL, decision.Reason, covered)
	}

	if ev.Total > 0 {
		ev.Accuracy = float64(ev.Correct) / float64(ev.Total)
	}
	return ev
}

func (e *Evaluator) recordMiss(ev *Evaluation, index int, source domain.Product, sourceURL, expectedURL, gotURL, reason string, covered bool) {
	if covered {
		ev.AlgorithmicMisses++
	} else {
		ev.DataCoverageMisses++
	}
	ev.Mistakes = append(ev.Mistakes, Mistake{
		SourceIndex:  index,
		SourceName:   source.Name,
		SourceURL:    sourceURL,
		ExpectedURL:  expectedURL,
		GotURL:       gotURL,
		Reason:       reason,
		DataCoverage: !covered,
	})
}
