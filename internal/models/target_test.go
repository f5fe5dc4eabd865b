package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTargetPercentage(t *testing.T) {
	target := NewTarget(map[AssetClass]float64{
		AssetClassCoreUS:     25,
		AssetClassSmallCap:   25,
		AssetClassRealEstate: 50,
	})

	pct, ok := target.Percentage(AssetClassCoreUS)
	if !ok || pct != 25 {
		t.Errorf("expected 25 for CORE_US, got %f (present=%v)", pct, ok)
	}
	if _, ok := target.Percentage(AssetClassCash); ok {
		t.Error("CASH is not part of the target")
	}
	if target.Len() != 3 {
		t.Errorf("expected 3 classes, got %d", target.Len())
	}
}

// Classes come back in canonical order, not map order.
func TestTargetClassesOrder(t *testing.T) {
	target := NewTarget(map[AssetClass]float64{
		AssetClassCash:      10,
		AssetClassCoreUS:    40,
		AssetClassSmallCap:  30,
		AssetClassMicroCap:  10,
		AssetClassRealEstate: 10,
	})
	want := []AssetClass{AssetClassCoreUS, AssetClassSmallCap, AssetClassMicroCap, AssetClassRealEstate, AssetClassCash}
	got := target.Classes()
	if len(got) != len(want) {
		t.Fatalf("expected %d classes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("class %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestTargetTotal(t *testing.T) {
	target := NewTarget(map[AssetClass]float64{
		AssetClassCoreUS: 60,
		AssetClassCash:   30,
	})
	if math.Abs(target.Total()-90) > 1e-9 {
		t.Errorf("expected total 90, got %f", target.Total())
	}
}

// The target owns its map: neither the input nor the Allocations() copy can
// change it after construction.
func TestTargetImmutability(t *testing.T) {
	input := map[AssetClass]float64{AssetClassCoreUS: 100}
	target := NewTarget(input)

	input[AssetClassCoreUS] = 1
	input[AssetClassCash] = 99

	if pct, _ := target.Percentage(AssetClassCoreUS); pct != 100 {
		t.Errorf("mutating the input map leaked into the target: %f", pct)
	}
	if target.Len() != 1 {
		t.Errorf("expected 1 class, got %d", target.Len())
	}

	out := target.Allocations()
	out[AssetClassCoreUS] = 0
	if pct, _ := target.Percentage(AssetClassCoreUS); pct != 100 {
		t.Errorf("mutating the Allocations copy leaked into the target: %f", pct)
	}
}

func TestTargetMarshalJSON(t *testing.T) {
	target := NewTarget(map[AssetClass]float64{AssetClassCoreUS: 25.5})
	data, err := json.Marshal(target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string]float64
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if decoded["CORE_US"] != 25.5 {
		t.Errorf("expected CORE_US 25.5, got %v", decoded)
	}
}
