package models

import "time"

// Account is a brokerage or retirement account: an ordered list of holdings
// plus the tax status that decides which trading rules apply to it. Holding
// order is load order and is preserved through storage; the portfolio table
// depends on it being stable.
//
// The holdings slice is deliberately unexported. Holdings() hands out an
// independent copy and SetHoldings replaces the list wholesale, so nothing
// outside the account can alias its positions.
type Account struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	Taxable     bool      `json:"taxable"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	holdings []Investment
}

// NewAccount builds an account that owns its own copy of holdings.
func NewAccount(name, institution string, taxable bool, holdings []Investment) *Account {
	a := &Account{
		Name:        name,
		Institution: institution,
		Taxable:     taxable,
	}
	a.SetHoldings(append([]Investment(nil), holdings...))
	return a
}

// Holdings returns an independent copy of the account's positions, in order.
func (a *Account) Holdings() []Investment {
	out := make([]Investment, len(a.holdings))
	copy(out, a.holdings)
	return out
}

// SetHoldings replaces the account's positions wholesale. The account takes
// ownership of the slice; callers must not retain it.
func (a *Account) SetHoldings(holdings []Investment) {
	a.holdings = holdings
}

// NumHoldings returns how many positions the account has.
func (a *Account) NumHoldings() int {
	return len(a.holdings)
}

// Value returns the total market value of the account.
func (a *Account) Value() float64 {
	var total float64
	for _, inv := range a.holdings {
		total += inv.Value()
	}
	return total
}

// Cash returns the combined value of the account's cash positions.
func (a *Account) Cash() float64 {
	var total float64
	for _, inv := range a.holdings {
		if inv.Fund.IsCash() {
			total += inv.Value()
		}
	}
	return total
}

// Clone returns a deep copy of the account. Mutating the clone's holdings
// never touches the original.
func (a *Account) Clone() *Account {
	c := *a
	c.holdings = make([]Investment, len(a.holdings))
	copy(c.holdings, a.holdings)
	return &c
}
