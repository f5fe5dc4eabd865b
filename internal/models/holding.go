package models

// Holding is one row of the flattened portfolio table: a single account's
// position in a single fund. Rows appear in account order, then in holding
// order within each account, and that row order is the indexing basis for
// every vector the optimizer sees (initial guess, bounds, constraint
// coefficients, solution).
type Holding struct {
	AccountName string     `json:"account_name"`
	Institution string     `json:"institution"`
	FundName    string     `json:"fund_name"`
	AssetClass  AssetClass `json:"asset_class"`
	Ticker      string     `json:"ticker"`
	SharePrice  float64    `json:"share_price"`
	Shares      float64    `json:"shares"`
	Value       float64    `json:"value"`
}

// IsCash reports whether the row is a cash position.
func (h Holding) IsCash() bool {
	return h.AssetClass == AssetClassCash
}
