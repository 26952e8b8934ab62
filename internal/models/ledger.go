package models

import "github.com/shopspring/decimal"

// Expense is one ledger debit. Amount is exact decimal; never float.
type Expense struct {
	ID         int             `json:"id"`
	UserID     int             `json:"-"`
	Amount     decimal.Decimal `json:"amount"`
	Merchant   string          `json:"merchant"`
	Beneficial bool            `json:"beneficial"` // "need" (true) vs "want" (false)
	TS         int64           `json:"ts"`         // epoch milliseconds
}

// Income is one ledger credit. Append-only: no update/delete operation exists.
type Income struct {
	ID     int             `json:"id"`
	UserID int             `json:"-"`
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
	TS     int64           `json:"ts"` // epoch milliseconds
}
