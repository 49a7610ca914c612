package usecase

import (
	"testing"

	"github.com/shelfmatch/backend/internal/domain"
)

func TestEvaluate(t *testing.T) {
	e := NewEvaluator()

	sources := []domain.Product{
		{Name: "A", URL: "https://src.example/a?utm=1"},
		{Name: "B", URL: "https://src.example/b"},
		{Name: "C", URL: "https://src.example/c"},
		{Name: "D", URL: "https://src.example/d"},
	}
	targets := []domain.Product{
		{Name: "A match", URL: "https://tgt.example/a/"},
		{Name: "B wrong", URL: "https://tgt.example/x"},
	}
	decisions := []domain.MatchDecision{
		{SourceIndex: 0, TargetIndex: 0, Matched: true, Confidence: 90},
		{SourceIndex: 1, TargetIndex: 1, Matched: true, Confidence: 80},
		domain.NoMatch(2, "no viable candidates"),
		domain.NoMatch(3, "oracle unavailable"),
	}
	groundTruth := map[string]string{
		"https://src.example/a":       "https://tgt.example/a",
		"https://src.example/b":       "https://tgt.example/b",  // not in catalog
		"https://src.example/c":       "https://tgt.example/a/", // in catalog, missed
		"https://src.example/missing": "https://tgt.example/z",  // source not in batch
	}
	// Source D has a decision but no ground-truth entry.

	ev := e.Evaluate(sources, targets, decisions, groundTruth)

	if ev.Total != 3 {
		t.Fatalf("Total = %d, want 3", ev.Total)
	}
	if ev.Correct != 1 {
		t.Errorf("Correct = %d, want 1 (canonical URLs must compare equal)", ev.Correct)
	}
	if ev.Incorrect != 1 {
		t.Errorf("Incorrect = %d, want 1", ev.Incorrect)
	}
	if ev.NotFound != 1 {
		t.Errorf("NotFound = %d, want 1", ev.NotFound)
	}
	if ev.DataCoverageMisses != 1 {
		t.Errorf("DataCoverageMisses = %d, want 1 (expected B target absent from catalog)", ev.DataCoverageMisses)
	}
	if ev.AlgorithmicMisses != 1 {
		t.Errorf("AlgorithmicMisses = %d, want 1 (C's expected target was present)", ev.AlgorithmicMisses)
	}
	if ev.Accuracy < 0.33 || ev.Accuracy > 0.34 {
		t.Errorf("Accuracy = %v, want 1/3", ev.Accuracy)
	}
	if len(ev.Mistakes) != 2 {
		t.Errorf("Mistakes = %d, want 2", len(ev.Mistakes))
	}
}

func TestEvaluate_VariantMismatchGroundTruthIsDataCoverage(t *testing.T) {
	e := NewEvaluator()

	// The first expected target is in the catalog but carries a conflicting
	// handle finish, so the annotation itself is unreachable. The second is
	// in the catalog and compatible; missing it is on the algorithm.
	sources := []domain.Product{
		{Name: "ก้านโยกประตู สเตนเลสเงา SN", URL: "https://src.example/handle-sn"},
		{Name: "ก้านโยกประตู สเตนเลสเงา SN", URL: "https://src.example/handle-sn-2"},
	}
	targets := []domain.Product{
		{Name: "ก้านโยกประตู สีดำ BLACK", URL: "https://tgt.example/handle-black"},
		{Name: "ก้านโยกประตู ซาตินนิกเกิล SN", URL: "https://tgt.example/handle-sn"},
	}
	decisions := []domain.MatchDecision{
		domain.NoMatch(0, "no viable candidates"),
		domain.NoMatch(1, "no viable candidates"),
	}
	groundTruth := map[string]string{
		"https://src.example/handle-sn":   "https://tgt.example/handle-black",
		"https://src.example/handle-sn-2": "https://tgt.example/handle-sn",
	}

	ev := e.Evaluate(sources, targets, decisions, groundTruth)

	if ev.DataCoverageMisses != 1 {
		t.Errorf("DataCoverageMisses = %d, want 1 (conflicting finish makes the pair unreachable)", ev.DataCoverageMisses)
	}
	if ev.AlgorithmicMisses != 1 {
		t.Errorf("AlgorithmicMisses = %d, want 1 (compatible expected target was present)", ev.AlgorithmicMisses)
	}
	if len(ev.Mistakes) != 2 {
		t.Fatalf("Mistakes = %d, want 2", len(ev.Mistakes))
	}
	if !ev.Mistakes[0].DataCoverage {
		t.Errorf("first mistake DataCoverage = false, want true")
	}
	if ev.Mistakes[1].DataCoverage {
		t.Errorf("second mistake DataCoverage = true, want false")
	}
}

func TestEvaluate_EmptyGroundTruth(t *testing.T) {
	e := NewEvaluator()
	ev := e.Evaluate(
		[]domain.Product{{Name: "A", URL: "https://src.example/a"}},
		nil,
		[]domain.MatchDecision{domain.NoMatch(0, "x")},
		nil,
	)
	if ev.Total != 0 || ev.Accuracy != 0 {
		t.Errorf("empty ground truth should evaluate nothing: %+v", ev)
	}
}
