package rebalance

import (
	log "github.com/sirupsen/logrus"

	"github.com/meridianfi/rebalance/internal/models"
)

// acctRef identifies an account. Account names are only unique per
// institution, so the institution is part of the key.
type acctRef struct {
	institution string
	name        string
}

// Execute applies a list of transactions to the portfolio's holdings.
// Multiple transactions targeting the same (account, fund) accumulate.
// Transactions that match no holding are skipped with a warning; execution
// never fails.
//
// With inPlace set, the live accounts are mutated and the portfolio rebuilds
// its own table and returns itself. Otherwise the trades are applied to deep
// copies and a new independent portfolio is returned, leaving the receiver
// untouched.
func (p *Portfolio) Execute(transactions []models.Transaction, inPlace bool) *Portfolio {
	for _, t := range Unmatched(transactions, p.accounts) {
		log.Warnf("transaction for fund %q in account %q matches no holding; skipped", t.FundName, t.AccountName)
	}

	deltas := make(map[acctRef]map[string]float64)
	for _, t := range transactions {
		ref := acctRef{t.Institution, t.AccountName}
		funds, ok := deltas[ref]
		if !ok {
			funds = make(map[string]float64)
			deltas[ref] = funds
		}
		funds[t.FundName] += t.Shares
	}

	accounts := p.accounts
	if !inPlace {
		accounts = make([]*models.Account, len(p.accounts))
		for i, a := range p.accounts {
			accounts[i] = a.Clone()
		}
	}

	for _, acct := range accounts {
		funds := deltas[acctRef{acct.Institution, acct.Name}]
		if len(funds) == 0 {
			continue
		}
		holdings := acct.Holdings()
		for i := range holdings {
			if delta, ok := funds[holdings[i].Fund.Name]; ok {
				holdings[i].Shares += delta
			}
		}
		acct.SetHoldings(holdings)
	}

	if inPlace {
		p.rebuild()
		return p
	}
	return NewPortfolio(accounts)
}

// Unmatched returns the transactions that reference no holding of the given
// accounts. Execute skips these; callers that want to surface the skips
// check before executing.
func Unmatched(transactions []models.Transaction, accounts []*models.Account) []models.Transaction {
	known := make(map[acctRef]map[string]bool, len(accounts))
	for _, acct := range accounts {
		funds := make(map[string]bool)
		for _, inv := range acct.Holdings() {
			funds[inv.Fund.Name] = true
		}
		known[acctRef{acct.Institution, acct.Name}] = funds
	}
	var unmatched []models.Transaction
	for _, t := range transactions {
		if !known[acctRef{t.Institution, t.AccountName}][t.FundName] {
			unmatched = append(unmatched, t)
		}
	}
	return unmatched
}
