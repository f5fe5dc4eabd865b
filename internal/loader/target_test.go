package loader

import (
	"math"
	"strings"
	"testing"

	"github.com/meridianfi/rebalance/internal/models"
)

func TestParseTarget(t *testing.T) {
	doc := `[
		{"asset_class": "Core U.S.", "allocation": 0.25},
		{"asset_class": "Small Cap", "allocation": "0.25"},
		{"asset_class": "REAL_ESTATE", "allocation": 0.5}
	]`
	target, err := ParseTarget(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[models.AssetClass]float64{
		models.AssetClassCoreUS:     25,
		models.AssetClassSmallCap:   25,
		models.AssetClassRealEstate: 50,
	}
	if target.Len() != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), target.Len())
	}
	for class, pct := range want {
		got, ok := target.Percentage(class)
		if !ok {
			t.Errorf("class %s missing from target", class)
			continue
		}
		if math.Abs(got-pct) > 1e-9 {
			t.Errorf("%s: expected %v%%, got %v%%", class, pct, got)
		}
	}
	if math.Abs(target.Total()-100) > 1e-9 {
		t.Errorf("expected total 100, got %f", target.Total())
	}
}

func TestParseTargetUnknownClass(t *testing.T) {
	doc := `[{"asset_class": "Beanie Babies", "allocation": 1.0}]`
	if _, err := ParseTarget(strings.NewReader(doc)); err == nil {
		t.Error("expected error for unknown asset class")
	}
}

func TestParseTargetEmpty(t *testing.T) {
	if _, err := ParseTarget(strings.NewReader("[]")); err == nil {
		t.Error("expected error for empty target document")
	}
}

func TestParseTargetMalformed(t *testing.T) {
	if _, err := ParseTarget(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParseTargetLastEntryWins(t *testing.T) {
	doc := `[
		{"asset_class": "CASH", "allocation": 0.3},
		{"asset_class": "Cash", "allocation": 0.7}
	]`
	target, err := ParseTarget(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := target.Percentage(models.AssetClassCash)
	if math.Abs(got-70) > 1e-9 {
		t.Errorf("expected the later entry to win (70%%), got %v%%", got)
	}
}
