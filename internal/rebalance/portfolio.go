// Package rebalance holds the portfolio optimization engine: a flattened view
// of every holding across accounts, allocation reports against that view, and
// the constrained solve that turns a target allocation into buy/sell
// transactions.
package rebalance

import (
	"math"
	"sort"

	"github.com/meridianfi/rebalance/internal/models"
)

// Portfolio is a collection of holdings segregated by account. It keeps the
// account list it was built from and a flattened holdings table derived from
// it; the table is rebuilt wholesale whenever the underlying accounts change.
// Row order is account order, then holding order within each account, and is
// the indexing basis for every optimization vector.
type Portfolio struct {
	accounts []*models.Account
	rows     []models.Holding
	netValue float64
}

// NewPortfolio builds a portfolio over the given accounts. The portfolio
// keeps the slice; executing transactions in place mutates these accounts.
func NewPortfolio(accounts []*models.Account) *Portfolio {
	p := &Portfolio{accounts: accounts}
	p.rebuild()
	return p
}

func (p *Portfolio) rebuild() {
	p.rows = p.rows[:0]
	p.netValue = 0
	for _, acct := range p.accounts {
		for _, inv := range acct.Holdings() {
			value := inv.Value()
			p.rows = append(p.rows, models.Holding{
				AccountName: acct.Name,
				Institution: acct.Institution,
				FundName:    inv.Fund.Name,
				AssetClass:  inv.Fund.AssetClass,
				Ticker:      inv.Fund.Ticker,
				SharePrice:  inv.Fund.SharePrice,
				Shares:      inv.Shares,
				Value:       value,
			})
			p.netValue += value
		}
	}
}

// Accounts returns the live account list. Callers that mutate the accounts
// own the consequences; the portfolio view only refreshes on rebuild.
func (p *Portfolio) Accounts() []*models.Account {
	out := make([]*models.Account, len(p.accounts))
	copy(out, p.accounts)
	return out
}

// Rows returns a copy of the flattened holdings table.
func (p *Portfolio) Rows() []models.Holding {
	out := make([]models.Holding, len(p.rows))
	copy(out, p.rows)
	return out
}

// NumHoldings returns the number of rows in the holdings table.
func (p *Portfolio) NumHoldings() int {
	return len(p.rows)
}

// NetValue returns the total market value across all accounts.
func (p *Portfolio) NetValue() float64 {
	return p.netValue
}

// AllocationByClass sums holding values per asset class, in canonical class
// order.
func (p *Portfolio) AllocationByClass() []models.ClassAllocation {
	totals := p.classTotals(p.rows)
	out := make([]models.ClassAllocation, 0, len(totals))
	for _, c := range models.AssetClasses() {
		if v, ok := totals[c]; ok {
			out = append(out, models.ClassAllocation{AssetClass: c, Value: v})
		}
	}
	return out
}

// AllocationByInstitution sums holding values per institution, sorted by
// institution name.
func (p *Portfolio) AllocationByInstitution() []models.InstitutionAllocation {
	totals := make(map[string]float64)
	var names []string
	for _, h := range p.rows {
		if _, ok := totals[h.Institution]; !ok {
			names = append(names, h.Institution)
		}
		totals[h.Institution] += h.Value
	}
	sort.Strings(names)
	out := make([]models.InstitutionAllocation, 0, len(names))
	for _, n := range names {
		out = append(out, models.InstitutionAllocation{Institution: n, Value: totals[n]})
	}
	return out
}

// PercentageAllocation reports each asset class's value alongside its share
// of the whole portfolio, as a fraction and as a percentage.
func (p *Portfolio) PercentageAllocation() []models.PercentageAllocation {
	totals := p.classTotals(p.rows)
	out := make([]models.PercentageAllocation, 0, len(totals))
	for _, c := range models.AssetClasses() {
		v, ok := totals[c]
		if !ok {
			continue
		}
		var fraction float64
		if p.netValue != 0 {
			fraction = v / p.netValue
		}
		out = append(out, models.PercentageAllocation{
			AssetClass: c,
			Value:      v,
			Fraction:   fraction,
			Percentage: fraction * 100,
		})
	}
	return out
}

// DiffFromTarget reports target minus current percentage per asset class,
// over the union of classes named by the target and classes actually held.
// Positive means underweight.
func (p *Portfolio) DiffFromTarget(target models.Target) []models.TargetDiff {
	totals := p.classTotals(p.rows)
	out := make([]models.TargetDiff, 0, target.Len())
	for _, c := range models.AssetClasses() {
		tgt, inTarget := target.Percentage(c)
		v, held := totals[c]
		if !inTarget && !held {
			continue
		}
		var current float64
		if p.netValue != 0 {
			current = 100 * v / p.netValue
		}
		out = append(out, models.TargetDiff{AssetClass: c, Percentage: tgt - current})
	}
	return out
}

// Deviation returns the root mean squared error, in percentage points,
// between the target allocation and the current allocation.
func (p *Portfolio) Deviation(target models.Target) float64 {
	return p.objective(target)(make([]float64, len(p.rows)))
}

// Equal reports whether two portfolios have identical holdings tables, with
// share counts and values compared within a small relative tolerance.
func (p *Portfolio) Equal(other *Portfolio) bool {
	if other == nil || len(p.rows) != len(other.rows) {
		return false
	}
	for i, r := range p.rows {
		o := other.rows[i]
		if r.AccountName != o.AccountName || r.Institution != o.Institution ||
			r.FundName != o.FundName || r.AssetClass != o.AssetClass || r.Ticker != o.Ticker {
			return false
		}
		if !valuesClose(r.SharePrice, o.SharePrice) ||
			!valuesClose(r.Shares, o.Shares) ||
			!valuesClose(r.Value, o.Value) {
			return false
		}
	}
	return true
}

func (p *Portfolio) classTotals(rows []models.Holding) map[models.AssetClass]float64 {
	totals := make(map[models.AssetClass]float64)
	for _, h := range rows {
		totals[h.AssetClass] += h.Value
	}
	return totals
}

const relTolerance = 1e-9

func valuesClose(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= relTolerance {
		return true
	}
	return diff <= relTolerance*math.Max(math.Abs(a), math.Abs(b))
}
