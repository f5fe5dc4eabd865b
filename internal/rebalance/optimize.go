package rebalance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/framing"
	"github.com/meridianfi/rebalance/internal/models"
	"github.com/meridianfi/rebalance/internal/solver"
)

// ErrOptimizationFailed is returned when the solver cannot find an allocation
// within tolerance. The wrapped message carries the solver's diagnostics.
var ErrOptimizationFailed = errors.New("optimization failed")

const (
	// solverTolerance is the convergence tolerance handed to the solver.
	solverTolerance = 1e-10
	// materialShares is the share delta below which a proposed trade is
	// noise, not a transaction.
	materialShares = 1e-2
)

// AllocateCash proposes transactions that invest idle cash in taxable
// accounts toward the target allocation. Existing positions are never sold;
// non-taxable accounts are untouched.
func (p *Portfolio) AllocateCash(target models.Target) ([]models.Transaction, error) {
	return p.optimize(framing.NewContext(framing.CashStrategy{}, nil), target)
}

// Tune proposes transactions that invest idle cash in taxable accounts and
// additionally rebalance within non-taxable accounts, where selling carries
// no tax cost.
func (p *Portfolio) Tune(target models.Target) ([]models.Transaction, error) {
	return p.optimize(framing.NewContext(framing.CashStrategy{}, framing.RebalanceStrategy{}), target)
}

func (p *Portfolio) optimize(fc *framing.Context, target models.Target) ([]models.Transaction, error) {
	if len(p.rows) == 0 {
		return nil, nil
	}

	bounds := fc.AllocationBounds(p.rows, p.accounts)
	x0 := fc.InitialAllocation(p.rows, p.accounts)
	a, b := p.cashConstraints()
	objective := p.objective(target)
	log.Debugf("initial objective value: %f", objective(x0))

	solverBounds := make([]solver.Bound, len(bounds))
	for i, bd := range bounds {
		solverBounds[i] = solver.Bound{Lower: bd.Lower, Upper: bd.Upper}
	}
	result, err := solver.Minimize(solver.Problem{
		Objective: objective,
		A:         a,
		B:         b,
		Bounds:    solverBounds,
		X0:        x0,
		Tolerance: solverTolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOptimizationFailed, err)
	}

	var transactions []models.Transaction
	for i, h := range p.rows {
		shares := result.X[i]
		log.Debugf("allocation: %.2f shares of %s in account %s held at %s",
			shares, h.FundName, h.AccountName, h.Institution)
		if math.Abs(shares) <= materialShares {
			continue
		}
		transactions = append(transactions, models.Transaction{
			Institution: h.Institution,
			AccountName: h.AccountName,
			FundName:    h.FundName,
			Shares:      roundShares(shares),
		})
	}
	log.Debugf("final objective value: %f after %d iterations", result.Value, result.Iterations)
	return transactions, nil
}

// objective builds the solve's objective: apply the candidate trade vector to
// the current share counts, recompute values, and score the root mean squared
// error between target and resulting percentage allocation. The error is
// taken over the union of classes named by the target and classes held, with
// the missing side counted as zero; the union is fixed for the whole solve.
func (p *Portfolio) objective(target models.Target) func(x []float64) float64 {
	classes := p.unionClasses(target)
	rows := p.rows
	return func(x []float64) float64 {
		totals := make(map[models.AssetClass]float64, len(classes))
		var net float64
		for i, h := range rows {
			v := (h.Shares + x[i]) * h.SharePrice
			totals[h.AssetClass] += v
			net += v
		}
		if net == 0 {
			return 0
		}
		var sum float64
		for _, c := range classes {
			tgt, _ := target.Percentage(c)
			diff := tgt - 100*totals[c]/net
			sum += diff * diff
		}
		return math.Sqrt(sum / float64(len(classes)))
	}
}

func (p *Portfolio) unionClasses(target models.Target) []models.AssetClass {
	held := make(map[models.AssetClass]bool, len(p.rows))
	for _, h := range p.rows {
		held[h.AssetClass] = true
	}
	var classes []models.AssetClass
	for _, c := range models.AssetClasses() {
		if _, ok := target.Percentage(c); ok || held[c] {
			classes = append(classes, c)
		}
	}
	return classes
}

// cashConstraints builds one equality row per account: the dollar value of
// the account's trades must net to zero, so every purchase is funded within
// the account that makes it. Coefficients are share prices on the account's
// own columns and zero elsewhere.
func (p *Portfolio) cashConstraints() ([][]float64, []float64) {
	index := make(map[acctRef]int)
	var a [][]float64
	for i, h := range p.rows {
		ref := acctRef{h.Institution, h.AccountName}
		k, ok := index[ref]
		if !ok {
			k = len(a)
			index[ref] = k
			a = append(a, make([]float64, len(p.rows)))
		}
		a[k][i] = h.SharePrice
	}
	return a, make([]float64, len(a))
}

// roundShares rounds a share delta to two decimal places, half away from
// zero.
func roundShares(x float64) float64 {
	rounded, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return rounded
}
