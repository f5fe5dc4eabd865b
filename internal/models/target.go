package models

import "encoding/json"

// Target is an ideal portfolio allocation: the percentage of total portfolio
// value that should sit in each asset class. Values are percent (25 means
// 25%), not fractions. A Target is immutable after construction; percentages
// are not required to sum to 100, validation decides how loud to be about it.
type Target struct {
	allocations map[AssetClass]float64
}

// NewTarget copies allocations into a new target.
func NewTarget(allocations map[AssetClass]float64) Target {
	m := make(map[AssetClass]float64, len(allocations))
	for c, pct := range allocations {
		m[c] = pct
	}
	return Target{allocations: m}
}

// Percentage returns the target percentage for the class and whether the
// class is part of the target at all.
func (t Target) Percentage(c AssetClass) (float64, bool) {
	pct, ok := t.allocations[c]
	return pct, ok
}

// Classes returns the classes named by the target, in canonical order.
func (t Target) Classes() []AssetClass {
	out := make([]AssetClass, 0, len(t.allocations))
	for _, c := range AssetClasses() {
		if _, ok := t.allocations[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Allocations returns a copy of the underlying percentage map.
func (t Target) Allocations() map[AssetClass]float64 {
	m := make(map[AssetClass]float64, len(t.allocations))
	for c, pct := range t.allocations {
		m[c] = pct
	}
	return m
}

// Len returns how many classes the target names.
func (t Target) Len() int {
	return len(t.allocations)
}

// Total returns the sum of all target percentages.
func (t Target) Total() float64 {
	var total float64
	for _, pct := range t.allocations {
		total += pct
	}
	return total
}

func (t Target) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.allocations)
}
