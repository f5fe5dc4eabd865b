// Package framing turns a portfolio's holdings table into the starting point
// and per-holding trade limits for an optimization run. A Strategy decides
// how aggressively an account may trade; the Context applies one strategy to
// taxable accounts and another to non-taxable accounts and merges the results
// row by row.
package framing

import (
	"github.com/meridianfi/rebalance/internal/models"
)

// Epsilon widens intervals that would otherwise collapse to a point. A
// holding that must not trade is published as (0, Epsilon) rather than
// (0, 0): the optimizer treats near-degenerate intervals as pinned, and the
// width keeps the interval well-formed for anything downstream that assumes
// lower < upper.
const Epsilon = 1e-10

// Bound is the inclusive trade interval for one holding, in shares.
type Bound struct {
	Lower float64
	Upper float64
}

// Strategy produces the initial trade guess and the trade bounds for the
// holdings of the given accounts. Accounts are identified by the
// institution-qualified keys acctKey builds, since account names are only
// unique per institution. Both methods return one entry per row of the
// holdings table; rows outside the given accounts carry the strategy's
// neutral value and are discarded by the Context's merge.
//
// There are exactly two strategies: CashStrategy and RebalanceStrategy.
type Strategy interface {
	InitialAllocation(holdings []models.Holding, accounts []string) []float64
	Bounds(holdings []models.Holding, accounts []string) []Bound
}

// acctKey identifies an account across the holdings table.
func acctKey(institution, name string) string {
	return institution + "\x00" + name
}

func rowKey(h models.Holding) string {
	return acctKey(h.Institution, h.AccountName)
}

// Context frames an optimization run: taxable accounts are framed by one
// strategy, non-taxable accounts by another. Either side may be nil, which
// leaves that side untradeable (zero initial guess, (0, Epsilon) bounds).
// Rows are always assigned by the account's tax status, never by strategy
// order.
type Context struct {
	taxable    Strategy
	nonTaxable Strategy
}

// NewContext builds a framing context from the two strategies.
func NewContext(taxable, nonTaxable Strategy) *Context {
	return &Context{taxable: taxable, nonTaxable: nonTaxable}
}

// InitialAllocation merges the per-strategy initial guesses into one vector
// indexed like the holdings table.
func (c *Context) InitialAllocation(holdings []models.Holding, accounts []*models.Account) []float64 {
	taxable, nonTaxable := partition(accounts)

	x0Taxable := make([]float64, len(holdings))
	x0NonTaxable := make([]float64, len(holdings))
	if c.taxable != nil && len(taxable) > 0 {
		x0Taxable = c.taxable.InitialAllocation(holdings, taxable)
	}
	if c.nonTaxable != nil && len(nonTaxable) > 0 {
		x0NonTaxable = c.nonTaxable.InitialAllocation(holdings, nonTaxable)
	}

	isTaxable := keySet(taxable)
	x0 := make([]float64, len(holdings))
	for i, h := range holdings {
		if isTaxable[rowKey(h)] {
			x0[i] = x0Taxable[i]
		} else {
			x0[i] = x0NonTaxable[i]
		}
	}
	return x0
}

// AllocationBounds merges the per-strategy bounds into one slice indexed like
// the holdings table.
func (c *Context) AllocationBounds(holdings []models.Holding, accounts []*models.Account) []Bound {
	taxable, nonTaxable := partition(accounts)

	boundsTaxable := pinnedBounds(len(holdings))
	boundsNonTaxable := pinnedBounds(len(holdings))
	if c.taxable != nil && len(taxable) > 0 {
		boundsTaxable = c.taxable.Bounds(holdings, taxable)
	}
	if c.nonTaxable != nil && len(nonTaxable) > 0 {
		boundsNonTaxable = c.nonTaxable.Bounds(holdings, nonTaxable)
	}

	isTaxable := keySet(taxable)
	bounds := make([]Bound, len(holdings))
	for i, h := range holdings {
		if isTaxable[rowKey(h)] {
			bounds[i] = boundsTaxable[i]
		} else {
			bounds[i] = boundsNonTaxable[i]
		}
	}
	return bounds
}

func partition(accounts []*models.Account) (taxable, nonTaxable []string) {
	for _, a := range accounts {
		if a.Taxable {
			taxable = append(taxable, acctKey(a.Institution, a.Name))
		} else {
			nonTaxable = append(nonTaxable, acctKey(a.Institution, a.Name))
		}
	}
	return taxable, nonTaxable
}

func keySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func pinnedBounds(n int) []Bound {
	bounds := make([]Bound, n)
	for i := range bounds {
		bounds[i] = Bound{Lower: 0, Upper: Epsilon}
	}
	return bounds
}

func accountCash(holdings []models.Holding, account string) float64 {
	var cash float64
	for _, h := range holdings {
		if rowKey(h) == account && h.IsCash() {
			cash += h.Value
		}
	}
	return cash
}

// CashStrategy invests idle cash without disturbing existing positions.
// Typically applied to taxable accounts, where selling has tax consequences
// but spending cash does not.
type CashStrategy struct{}

// InitialAllocation proposes buying the account's entire cash position into
// its largest non-cash holding (first one wins a tie) and selling every cash
// holding down to zero. Accounts without cash, and accounts with nothing to
// buy into, are left untouched.
func (CashStrategy) InitialAllocation(holdings []models.Holding, accounts []string) []float64 {
	x0 := make([]float64, len(holdings))
	for _, acct := range accounts {
		cash := accountCash(holdings, acct)
		if cash <= 0 {
			continue
		}
		maxIdx := -1
		var maxValue float64
		for i, h := range holdings {
			if rowKey(h) != acct || h.IsCash() {
				continue
			}
			if maxIdx < 0 || h.Value > maxValue {
				maxIdx, maxValue = i, h.Value
			}
		}
		if maxIdx < 0 {
			continue
		}
		x0[maxIdx] = cash / holdings[maxIdx].SharePrice
		for i, h := range holdings {
			if rowKey(h) == acct && h.IsCash() {
				x0[i] = -h.Value
			}
		}
	}
	return x0
}

// Bounds lets every non-cash holding buy up to the account's cash and forces
// every cash holding to be sold in full: cash rows get
// (-value, Epsilon-value), non-cash rows get (0, cash/price). With no cash in
// the account the non-cash rows collapse to (0, 0), pinning them. An account
// holding nothing but cash has nowhere to put the proceeds, so all of its
// rows stay pinned.
func (CashStrategy) Bounds(holdings []models.Holding, accounts []string) []Bound {
	bounds := pinnedBounds(len(holdings))
	for _, acct := range accounts {
		cash := accountCash(holdings, acct)
		buyable := false
		for _, h := range holdings {
			if rowKey(h) == acct && !h.IsCash() {
				buyable = true
				break
			}
		}
		for i, h := range holdings {
			if rowKey(h) != acct {
				continue
			}
			if !buyable {
				continue
			}
			if h.IsCash() {
				bounds[i] = Bound{Lower: -h.Value, Upper: Epsilon - h.Value}
				continue
			}
			bounds[i] = Bound{Lower: 0, Upper: cash / h.SharePrice}
		}
	}
	return bounds
}

// RebalanceStrategy shifts value freely between the holdings of one account.
// Typically applied to non-taxable accounts, where selling carries no tax
// cost.
type RebalanceStrategy struct{}

// InitialAllocation starts from the current allocation: no trades.
func (RebalanceStrategy) InitialAllocation(holdings []models.Holding, _ []string) []float64 {
	return make([]float64, len(holdings))
}

// Bounds lets each holding sell itself entirely (-shares) or absorb the rest
// of its account ((accountValue-value)/price). Accounts with a single holding
// have nothing to shift and keep the pinned (0, Epsilon) default.
func (RebalanceStrategy) Bounds(holdings []models.Holding, accounts []string) []Bound {
	bounds := pinnedBounds(len(holdings))
	for _, acct := range accounts {
		var accountValue float64
		count := 0
		for _, h := range holdings {
			if rowKey(h) == acct {
				accountValue += h.Value
				count++
			}
		}
		if count <= 1 {
			continue
		}
		for i, h := range holdings {
			if rowKey(h) != acct {
				continue
			}
			bounds[i] = Bound{Lower: -h.Shares, Upper: (accountValue - h.Value) / h.SharePrice}
		}
	}
	return bounds
}
