package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"spendwise/internal/models"

	"github.com/shopspring/decimal"
)

type LedgerSQLite struct {
	db *sql.DB
}

func NewLedgerSQLite(db *sql.DB) *LedgerSQLite { return &LedgerSQLite{db: db} }

var _ Ledger = (*LedgerSQLite)(nil)

const (
	insertExpenseSQL = `INSERT INTO expenses (user_id, amount, merchant, beneficial, ts) VALUES (?, ?, ?, ?, ?)`
	selectExpenseSQL = `SELECT amount FROM expenses WHERE id = ? AND user_id = ?`
	updateExpenseSQL = `UPDATE expenses SET amount = ?, merchant = ?, beneficial = ?, ts = ? WHERE id = ? AND user_id = ?`
	deleteExpenseSQL = `DELETE FROM expenses WHERE id = ? AND user_id = ?`
	insertIncomeSQL  = `INSERT INTO incomes (user_id, amount, source, ts) VALUES (?, ?, ?, ?)`

	selectBalanceSQL = `SELECT balance FROM wallet WHERE user_id = ?`
	updateBalanceSQL = `UPDATE wallet SET balance = ? WHERE user_id = ?`

	selectCapsSQL      = `SELECT day, week, month FROM caps WHERE user_id = ?`
	selectExpensesSQL  = `SELECT id, amount, merchant, beneficial, ts FROM expenses WHERE user_id = ? ORDER BY ts DESC`
	selectIncomesSQL   = `SELECT id, amount, source, ts FROM incomes WHERE user_id = ? ORDER BY ts DESC`
	selectAIEnabledSQL = `SELECT ai_enabled FROM prefs WHERE user_id = ?`
)

// adjustWallet rewrites the wallet balance by delta inside the caller's
// transaction. Balances are TEXT decimals, so the math stays exact in Go.
func adjustWallet(ctx context.Context, tx *sql.Tx, userID int, delta decimal.Decimal) error {
	var raw string
	if err := tx.QueryRowContext(ctx, selectBalanceSQL, userID).Scan(&raw); err != nil {
		return fmt.Errorf("load wallet for user %d: %w", userID, err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parse wallet balance %q for user %d: %w", raw, userID, err)
	}
	next := balance.Add(delta)
	if _, err := tx.ExecContext(ctx, updateBalanceSQL, next.String(), userID); err != nil {
		return fmt.Errorf("update wallet for user %d: %w", userID, err)
	}
	return nil
}

// AddExpense inserts the expense row and debits the wallet, atomically.
func (r *LedgerSQLite) AddExpense(ctx context.Context, e models.Expense) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add-expense tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertExpenseSQL,
		e.UserID, e.Amount.String(), e.Merchant, boolToInt(e.Beneficial), e.TS)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get expense id: %w", err)
	}

	if err := adjustWallet(ctx, tx, e.UserID, e.Amount.Neg()); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add-expense tx: %w", err)
	}
	return int(lastID), nil
}

// UpdateExpense rewrites an owned expense and applies the signed amount delta
// (old - new) to the wallet, atomically. Ownership is the compound id+user
// lookup; a foreign or missing id yields ErrNotFound.
func (r *LedgerSQLite) UpdateExpense(ctx context.Context, e models.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update-expense tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	oldAmount, err := expenseAmount(ctx, tx, e.ID, e.UserID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, updateExpenseSQL,
		e.Amount.String(), e.Merchant, boolToInt(e.Beneficial), e.TS, e.ID, e.UserID); err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}

	// Refund the old amount and charge the new one in a single signed delta.
	if err := adjustWallet(ctx, tx, e.UserID, oldAmount.Sub(e.Amount)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update-expense tx: %w", err)
	}
	return nil
}

// DeleteExpense removes an owned expense and credits its amount back to the
// wallet, atomically.
func (r *LedgerSQLite) DeleteExpense(ctx context.Context, userID, expenseID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete-expense tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	oldAmount, err := expenseAmount(ctx, tx, expenseID, userID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteExpenseSQL, expenseID, userID); err != nil {
		return fmt.Errorf("delete expense %d: %w", expenseID, err)
	}
	if err := adjustWallet(ctx, tx, userID, oldAmount); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete-expense tx: %w", err)
	}
	return nil
}

// AddIncome inserts the income row and credits the wallet, atomically.
func (r *LedgerSQLite) AddIncome(ctx context.Context, in models.Income) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add-income tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertIncomeSQL,
		in.UserID, in.Amount.String(), in.Source, in.TS)
	if err != nil {
		return 0, fmt.Errorf("insert income: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get income id: %w", err)
	}

	if err := adjustWallet(ctx, tx, in.UserID, in.Amount); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add-income tx: %w", err)
	}
	return int(lastID), nil
}

// Snapshot assembles the composite read-only view. The reads run in one
// transaction so a concurrent mutation cannot land between the wallet read
// and the list queries. Missing wallet/caps/prefs rows fall back to zero
// balance, zero caps and ai_enabled=true, matching the defaults seeded at
// registration.
func (r *LedgerSQLite) Snapshot(ctx context.Context, userID int) (models.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	snap := models.Snapshot{AIEnabled: true}

	var rawBalance string
	switch err := tx.QueryRowContext(ctx, selectBalanceSQL, userID).Scan(&rawBalance); {
	case err == nil:
		balance, perr := decimal.NewFromString(rawBalance)
		if perr != nil {
			return models.Snapshot{}, fmt.Errorf("parse wallet balance %q: %w", rawBalance, perr)
		}
		snap.Wallet = balance
	case errors.Is(err, sql.ErrNoRows):
		snap.Wallet = decimal.Zero
	default:
		return models.Snapshot{}, fmt.Errorf("load wallet for user %d: %w", userID, err)
	}

	var rawDay, rawWeek, rawMonth string
	switch err := tx.QueryRowContext(ctx, selectCapsSQL, userID).Scan(&rawDay, &rawWeek, &rawMonth); {
	case err == nil:
		caps, perr := parseCaps(rawDay, rawWeek, rawMonth)
		if perr != nil {
			return models.Snapshot{}, perr
		}
		snap.Caps = caps
	case errors.Is(err, sql.ErrNoRows):
		snap.Caps = models.Caps{Day: decimal.Zero, Week: decimal.Zero, Month: decimal.Zero}
	default:
		return models.Snapshot{}, fmt.Errorf("load caps for user %d: %w", userID, err)
	}

	expenses, err := listExpenses(ctx, tx, userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.Expenses = expenses

	incomes, err := listIncomes(ctx, tx, userID)
	if err != nil {
		return models.Snapshot{}, err
	}
	snap.Incomes = incomes

	var aiEnabled int
	switch err := tx.QueryRowContext(ctx, selectAIEnabledSQL, userID).Scan(&aiEnabled); {
	case err == nil:
		snap.AIEnabled = aiEnabled != 0
	case errors.Is(err, sql.ErrNoRows):
		// keep default true
	default:
		return models.Snapshot{}, fmt.Errorf("load prefs for user %d: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Snapshot{}, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snap, nil
}

func listExpenses(ctx context.Context, tx *sql.Tx, userID int) ([]models.Expense, error) {
	rows, err := tx.QueryContext(ctx, selectExpensesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Expense, 0, 16)
	for rows.Next() {
		var (
			e          models.Expense
			rawAmount  string
			beneficial int
		)
		if err := rows.Scan(&e.ID, &rawAmount, &e.Merchant, &beneficial, &e.TS); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		amount, perr := decimal.NewFromString(rawAmount)
		if perr != nil {
			return nil, fmt.Errorf("parse expense amount %q: %w", rawAmount, perr)
		}
		e.UserID = userID
		e.Amount = amount
		e.Beneficial = beneficial != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func listIncomes(ctx context.Context, tx *sql.Tx, userID int) ([]models.Income, error) {
	rows, err := tx.QueryContext(ctx, selectIncomesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Income, 0, 16)
	for rows.Next() {
		var (
			in        models.Income
			rawAmount string
		)
		if err := rows.Scan(&in.ID, &rawAmount, &in.Source, &in.TS); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		amount, perr := decimal.NewFromString(rawAmount)
		if perr != nil {
			return nil, fmt.Errorf("parse income amount %q: %w", rawAmount, perr)
		}
		in.UserID = userID
		in.Amount = amount
		out = append(out, in)
	}
	return out, rows.Err()
}

// expenseAmount loads the stored amount of an owned expense inside tx.
func expenseAmount(ctx context.Context, tx *sql.Tx, expenseID, userID int) (decimal.Decimal, error) {
	var raw string
	err := tx.QueryRowContext(ctx, selectExpenseSQL, expenseID, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, ErrNotFound
	}
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("select expense %d: %w", expenseID, err)
	}
	amount, perr := decimal.NewFromString(raw)
	if perr != nil {
		return decimal.Decimal{}, fmt.Errorf("parse expense amount %q: %w", raw, perr)
	}
	return amount, nil
}

func parseCaps(day, week, month string) (models.Caps, error) {
	var (
		c   models.Caps
		err error
	)
	if c.Day, err = decimal.NewFromString(day); err != nil {
		return models.Caps{}, fmt.Errorf("parse day cap %q: %w", day, err)
	}
	if c.Week, err = decimal.NewFromString(week); err != nil {
		return models.Caps{}, fmt.Errorf("parse week cap %q: %w", week, err)
	}
	if c.Month, err = decimal.NewFromString(month); err != nil {
		return models.Caps{}, fmt.Errorf("parse month cap %q: %w", month, err)
	}
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
