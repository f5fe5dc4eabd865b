package models

// Transaction is an instruction to buy (positive shares) or sell (negative
// shares) a fund within one account. Transactions identify their holding by
// account name and fund name, the same identifiers the portfolio table rows
// carry.
type Transaction struct {
	Institution string  `json:"institution"`
	AccountName string  `json:"account_name"`
	FundName    string  `json:"fund_name"`
	Shares      float64 `json:"shares"`
}

// IsBuy reports whether the transaction adds shares.
func (t Transaction) IsBuy() bool {
	return t.Shares > 0
}
