package service

import (
	"context"
	"errors"
	"time"

	"spendwise/internal/models"
	"spendwise/internal/repository"
)

// Validation errors for ledger mutations.
var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrMerchantRequired = errors.New("merchant is required")
	ErrSourceRequired   = errors.New("source is required")
	ErrInvalidExpenseID = errors.New("expense id is required")
)

// LedgerService validates inputs and delegates to the transactional
// repository; the balance invariant itself lives there.
type LedgerService struct {
	ledger repository.Ledger
}

func NewLedgerService(ledger repository.Ledger) *LedgerService {
	return &LedgerService{ledger: ledger}
}

func (s *LedgerService) AddExpense(ctx context.Context, userID int, in ExpenseInput) (int, error) {
	e, err := expenseFromInput(userID, 0, in)
	if err != nil {
		return 0, err
	}
	return s.ledger.AddExpense(ctx, e)
}

func (s *LedgerService) UpdateExpense(ctx context.Context, userID, expenseID int, in ExpenseInput) error {
	if expenseID <= 0 {
		return ErrInvalidExpenseID
	}
	e, err := expenseFromInput(userID, expenseID, in)
	if err != nil {
		return err
	}
	return s.ledger.UpdateExpense(ctx, e)
}

func (s *LedgerService) DeleteExpense(ctx context.Context, userID, expenseID int) error {
	if expenseID <= 0 {
		return ErrInvalidExpenseID
	}
	return s.ledger.DeleteExpense(ctx, userID, expenseID)
}

func (s *LedgerService) AddIncome(ctx context.Context, userID int, in IncomeInput) (int, error) {
	if !in.Amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if in.Source == "" {
		return 0, ErrSourceRequired
	}
	return s.ledger.AddIncome(ctx, models.Income{
		UserID: userID,
		Amount: in.Amount,
		Source: in.Source,
		TS:     defaultTS(in.TS),
	})
}

func (s *LedgerService) Snapshot(ctx context.Context, userID int) (models.Snapshot, error) {
	return s.ledger.Snapshot(ctx, userID)
}

func expenseFromInput(userID, expenseID int, in ExpenseInput) (models.Expense, error) {
	if !in.Amount.IsPositive() {
		return models.Expense{}, ErrInvalidAmount
	}
	if in.Merchant == "" {
		return models.Expense{}, ErrMerchantRequired
	}
	return models.Expense{
		ID:         expenseID,
		UserID:     userID,
		Amount:     in.Amount,
		Merchant:   in.Merchant,
		Beneficial: in.Beneficial,
		TS:         defaultTS(in.TS),
	}, nil
}

// defaultTS fills a missing client timestamp with "now" in epoch ms.
func defaultTS(ts int64) int64 {
	if ts == 0 {
		return time.Now().UnixMilli()
	}
	return ts
}
