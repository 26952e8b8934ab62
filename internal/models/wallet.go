package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts go over the wire as JSON numbers ("wallet":380), not quoted
	// strings. Exactness is preserved: the encoder emits the decimal digits.
	decimal.MarshalJSONWithoutQuotes = true
}

// Wallet is the denormalized running balance for one user.
// Invariant: Balance == sum(incomes) - sum(expenses) between transactions.
type Wallet struct {
	UserID  int             `json:"-"`
	Balance decimal.Decimal `json:"balance"`
}

// Caps are per-period advisory spending thresholds. Not enforced anywhere.
type Caps struct {
	Day   decimal.Decimal `json:"day"`
	Week  decimal.Decimal `json:"week"`
	Month decimal.Decimal `json:"month"`
}

// Snapshot is the composite read-only view served by GET /state and
// fed into the advice prompt.
type Snapshot struct {
	Wallet    decimal.Decimal `json:"wallet"`
	Caps      Caps            `json:"caps"`
	Expenses  []Expense       `json:"expenses"`
	Incomes   []Income        `json:"incomes"`
	AIEnabled bool            `json:"aiEnabled"`
}
