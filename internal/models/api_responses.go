package models

import (
	"time"
)

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	Name        string           `json:"name" binding:"required"`
	Institution string           `json:"institution" binding:"required"`
	Taxable     *bool            `json:"taxable" binding:"required"`
	Holdings    []HoldingRequest `json:"holdings"`
}

// HoldingRequest represents a single holding in create/replace requests
type HoldingRequest struct {
	Ticker     string  `json:"ticker" binding:"required"`
	AssetClass string  `json:"asset_class" binding:"required"`
	Name       string  `json:"name"`
	Shares     float64 `json:"shares"`
	SharePrice float64 `json:"share_price"`
}

// ReplaceHoldingsRequest represents the request body for replacing an
// account's holdings wholesale
type ReplaceHoldingsRequest struct {
	Holdings []HoldingRequest `json:"holdings" binding:"required"`
}

// AccountResponse represents an account with its holdings
type AccountResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Institution string            `json:"institution"`
	Taxable     bool              `json:"taxable"`
	Value       float64           `json:"value"`
	Cash        float64           `json:"cash"`
	Holdings    []HoldingResponse `json:"holdings"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// HoldingResponse represents a single holding in account responses
type HoldingResponse struct {
	Ticker     string     `json:"ticker"`
	AssetClass AssetClass `json:"asset_class"`
	Name       string     `json:"name"`
	Shares     float64    `json:"shares"`
	SharePrice float64    `json:"share_price"`
	Value      float64    `json:"value"`
}

// AccountListItem represents an account in a list (metadata plus totals)
type AccountListItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Institution string    `json:"institution"`
	Taxable     bool      `json:"taxable"`
	NumHoldings int       `json:"num_holdings"`
	Value       float64   `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TargetRequest represents the request body for upserting a target
// allocation. Keys may be asset class values ("CORE_US") or display labels
// ("Core U.S."); values are percentages.
type TargetRequest struct {
	Allocations map[string]float64 `json:"allocations" binding:"required"`
}

// TargetResponse represents a stored target allocation
type TargetResponse struct {
	Name        string             `json:"name"`
	Allocations map[string]float64 `json:"allocations"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Warnings    []Warning          `json:"warnings,omitempty"`
}

// RebalanceMode selects which trades the optimizer may propose
type RebalanceMode string

const (
	// RebalanceModeCash only spends idle cash; existing positions are never sold.
	RebalanceModeCash RebalanceMode = "cash"
	// RebalanceModeTune additionally rebalances within non-taxable accounts.
	RebalanceModeTune RebalanceMode = "tune"
)

// RebalanceRequest represents the request body for a rebalance run. Exactly
// one of Target (a stored target's name) or Allocations (inline percentages)
// must be set.
type RebalanceRequest struct {
	Target      string             `json:"target"`
	Allocations map[string]float64 `json:"allocations"`
	Mode        RebalanceMode      `json:"mode" binding:"required"`
}

// RebalanceResponse represents the proposed transactions for a rebalance run
type RebalanceResponse struct {
	Mode            RebalanceMode `json:"mode"`
	Transactions    []Transaction `json:"transactions"`
	DeviationBefore float64       `json:"deviation_before"`
	DeviationAfter  float64       `json:"deviation_after"`
	Warnings        []Warning     `json:"warnings,omitempty"`
}

// ExecuteRequest represents the request body for applying transactions
type ExecuteRequest struct {
	Transactions []Transaction `json:"transactions" binding:"required"`
	Apply        bool          `json:"apply"`
}

// ExecuteResponse represents the portfolio after applying transactions
type ExecuteResponse struct {
	Applied   bool              `json:"applied"`
	Portfolio PortfolioSnapshot `json:"portfolio"`
	Warnings  []Warning         `json:"warnings,omitempty"`
}

// PortfolioSnapshot is the flattened holdings table plus its total value
type PortfolioSnapshot struct {
	NetValue float64   `json:"net_value"`
	Holdings []Holding `json:"holdings"`
}

// ClassAllocation represents total value held in one asset class
type ClassAllocation struct {
	AssetClass AssetClass `json:"asset_class"`
	Value      float64    `json:"value"`
}

// InstitutionAllocation represents total value held at one institution
type InstitutionAllocation struct {
	Institution string  `json:"institution"`
	Value       float64 `json:"value"`
}

// PercentageAllocation represents one asset class's share of the portfolio
type PercentageAllocation struct {
	AssetClass AssetClass `json:"asset_class"`
	Value      float64    `json:"value"`
	Fraction   float64    `json:"fraction"`
	Percentage float64    `json:"percentage"`
}

// TargetDiff represents how far one asset class sits from its target, in
// percentage points (positive = underweight, portfolio should buy)
type TargetDiff struct {
	AssetClass AssetClass `json:"asset_class"`
	Percentage float64    `json:"percentage"`
}

// ImportResponse represents the result of a positions CSV import
type ImportResponse struct {
	Account  AccountResponse `json:"account"`
	Imported int             `json:"imported"`
	Skipped  int             `json:"skipped"`
	Warnings []Warning       `json:"warnings,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
