package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfmatch/backend/internal/domain"
)

func TestLocalOracle_PicksBestCandidate(t *testing.T) {
	o := NewLocalOracle(nil)

	req := domain.OracleRequest{
		SourceName:     "หลอดไฟ LED 15W E27 DAYLIGHT",
		SourceBrand:    "LAMPTAN",
		SourceCategory: "LIGHT_BULB",
		SourcePrice:    100,
		Candidates: []domain.MatchCandidate{
			{Name: "หลอดไฟ LED วินเทจ", Brand: "PHILIPS", Category: "LIGHT_BULB", SpecScore: 20},
			{Name: "หลอดไฟ LED 15W E27 DAYLIGHT", Brand: "EVE", Category: "LIGHT_BULB", SpecScore: 100},
		},
	}

	got, err := o.Decide(context.Background(), req)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got.MatchIndex == nil || *got.MatchIndex != 1 {
		t.Fatalf("MatchIndex = %v, want 1", got.MatchIndex)
	}
	if got.Confidence <= 0 || got.Confidence > 100 {
		t.Errorf("Confidence = %d out of range", got.Confidence)
	}
}

func TestLocalOracle_RejectsCategoryMismatch(t *testing.T) {
	o := NewLocalOracle(nil)

	req := domain.OracleRequest{
		SourceName:     "หลอดไฟ LED 15W",
		SourceCategory: "LIGHT_BULB",
		Candidates: []domain.MatchCandidate{
			// A pump will never substitute a light bulb no matter the text.
			{Name: "หลอดไฟ LED 15W", Brand: "EVE", Category: "PUMP", SpecScore: 100},
		},
	}

	got, err := o.Decide(context.Background(), req)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got.MatchIndex != nil {
		t.Errorf("cross-category candidate selected: %+v", got)
	}
}

func TestLocalOracle_PreferredBrandBreaksTie(t *testing.T) {
	o := NewLocalOracle(nil)

	req := domain.OracleRequest{
		SourceName:      "หลอดไฟ LED 15W E27",
		SourceCategory:  "LIGHT_BULB",
		PreferredBrands: []string{"EVE"},
		Candidates: []domain.MatchCandidate{
			{Name: "หลอดไฟ LED 15W E27", Brand: "PHILIPS", Category: "LIGHT_BULB", SpecScore: 80},
			{Name: "หลอดไฟ LED 15W E27", Brand: "EVE", Category: "LIGHT_BULB", SpecScore: 80},
		},
	}

	got, err := o.Decide(context.Background(), req)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if got.MatchIndex == nil || *got.MatchIndex != 1 {
		t.Errorf("MatchIndex = %v, want preferred-brand candidate 1", got.MatchIndex)
	}
}

func TestLocalOracle_EmptyShortlist(t *testing.T) {
	o := NewLocalOracle(nil)
	_, err := o.Decide(context.Background(), domain.OracleRequest{})
	if !errors.Is(err, domain.ErrNoCandidates) {
		t.Errorf("err = %v, want ErrNoCandidates", err)
	}
}
