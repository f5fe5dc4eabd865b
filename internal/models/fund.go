package models

// Fund describes a tradeable fund at its most recently ingested share price.
// Funds are value types: two funds are the same fund iff every field matches.
type Fund struct {
	Ticker     string     `json:"ticker"`
	AssetClass AssetClass `json:"asset_class"`
	Name       string     `json:"name"`
	SharePrice float64    `json:"share_price"`
}

// IsCash reports whether the fund is a cash position.
func (f Fund) IsCash() bool {
	return f.AssetClass == AssetClassCash
}
