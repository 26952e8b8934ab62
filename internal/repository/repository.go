package repository

import (
	"context"
	"database/sql"
	"errors"

	"spendwise/internal/models"
	"spendwise/internal/repository/db"
)

// Sentinel errors surfaced to the service layer.
var (
	// ErrNotFound means the row does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken means the email already has an account.
	ErrEmailTaken = errors.New("email already registered")
)

type Users interface {
	// Create inserts the user plus its wallet, caps and prefs rows in one
	// transaction and returns the new user id.
	Create(ctx context.Context, email, passwordHash string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Ledger maintains the wallet-balance invariant: every mutation commits the
// ledger row and the wallet adjustment together or not at all.
type Ledger interface {
	AddExpense(ctx context.Context, e models.Expense) (int, error)
	UpdateExpense(ctx context.Context, e models.Expense) error
	DeleteExpense(ctx context.Context, userID, expenseID int) error
	AddIncome(ctx context.Context, in models.Income) (int, error)
	Snapshot(ctx context.Context, userID int) (models.Snapshot, error)
}

type Preferences interface {
	SetCaps(ctx context.Context, userID int, c models.Caps) error
	SetAIEnabled(ctx context.Context, userID int, enabled bool) error
}

type Repository struct {
	Users  Users
	Ledger Ledger
	Prefs  Preferences
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserSQLite(sqlDB),
		Ledger: NewLedgerSQLite(sqlDB),
		Prefs:  NewPrefsSQLite(sqlDB),
	}
}

// InitDB re-exports the SQLite bootstrap so callers wire one package.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
