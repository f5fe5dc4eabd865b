package models

import "fmt"

// AssetClass identifies the asset class a fund belongs to. The set is closed:
// allocation math keys on these values and ingestion rejects anything else.
type AssetClass string

const (
	AssetClassMoneyMarket          AssetClass = "MONEY_MARKET"
	AssetClassInvestmentGradeBonds AssetClass = "INVESTMENT_GRADE_BONDS"
	AssetClassHighYieldBonds       AssetClass = "HIGH_YIELD_BONDS"
	AssetClassInflationProtected   AssetClass = "INFLATION_PROTECTED_BONDS"
	AssetClassCoreUS               AssetClass = "CORE_US"
	AssetClassSmallCap             AssetClass = "SMALL_CAP"
	AssetClassMicroCap             AssetClass = "MICRO_CAP"
	AssetClassRealEstate           AssetClass = "REAL_ESTATE"
	AssetClassPacificRimLarge      AssetClass = "PACIFIC_RIM_LARGE"
	AssetClassEuropeLarge          AssetClass = "EUROPE_LARGE"
	AssetClassIntlSmallCapValue    AssetClass = "INTERNATIONAL_SMALL_CAP_VALUE"
	AssetClassEmergingMarkets      AssetClass = "EMERGING_MARKETS"
	AssetClassCash                 AssetClass = "CASH"
)

// assetClassOrder fixes the canonical ordering used by every report so output
// is deterministic regardless of which classes a portfolio happens to hold.
var assetClassOrder = []AssetClass{
	AssetClassMoneyMarket,
	AssetClassInvestmentGradeBonds,
	AssetClassHighYieldBonds,
	AssetClassInflationProtected,
	AssetClassCoreUS,
	AssetClassSmallCap,
	AssetClassMicroCap,
	AssetClassRealEstate,
	AssetClassPacificRimLarge,
	AssetClassEuropeLarge,
	AssetClassIntlSmallCapValue,
	AssetClassEmergingMarkets,
	AssetClassCash,
}

// assetClassLabels maps each class to the human-readable name used in target
// allocation documents and reports.
var assetClassLabels = map[AssetClass]string{
	AssetClassMoneyMarket:          "Money Market",
	AssetClassInvestmentGradeBonds: "Investment Grade Bonds",
	AssetClassHighYieldBonds:       "High Yield Bonds",
	AssetClassInflationProtected:   "Inflation Protected Bonds",
	AssetClassCoreUS:               "Core U.S.",
	AssetClassSmallCap:             "Small Cap",
	AssetClassMicroCap:             "Microcap",
	AssetClassRealEstate:           "Real Estate",
	AssetClassPacificRimLarge:      "Pacific Rim Large",
	AssetClassEuropeLarge:          "Europe Large",
	AssetClassIntlSmallCapValue:    "International Small Cap Value",
	AssetClassEmergingMarkets:      "Emerging Markets",
	AssetClassCash:                 "Cash",
}

var assetClassByLabel = func() map[string]AssetClass {
	m := make(map[string]AssetClass, len(assetClassLabels))
	for c, label := range assetClassLabels {
		m[label] = c
	}
	return m
}()

// AssetClasses returns every asset class in canonical order.
func AssetClasses() []AssetClass {
	out := make([]AssetClass, len(assetClassOrder))
	copy(out, assetClassOrder)
	return out
}

// Valid reports whether c is one of the known asset classes.
func (c AssetClass) Valid() bool {
	_, ok := assetClassLabels[c]
	return ok
}

// IsFixedIncome reports whether the class is one of the bond classes.
func (c AssetClass) IsFixedIncome() bool {
	switch c {
	case AssetClassInvestmentGradeBonds, AssetClassHighYieldBonds, AssetClassInflationProtected:
		return true
	}
	return false
}

// Label returns the human-readable name for the class, or the raw value if
// the class is unknown.
func (c AssetClass) Label() string {
	if label, ok := assetClassLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseAssetClass resolves either the enum form ("CORE_US") or the display
// label ("Core U.S.") used by target allocation documents.
func ParseAssetClass(s string) (AssetClass, error) {
	if c := AssetClass(s); c.Valid() {
		return c, nil
	}
	if c, ok := assetClassByLabel[s]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}
