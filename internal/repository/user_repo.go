package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"spendwise/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserSQLite)(nil)

const (
	insertUserSQL        = `INSERT INTO users (email, password_hash) VALUES (?, ?)`
	insertWalletSQL      = `INSERT INTO wallet (user_id, balance) VALUES (?, '0')`
	insertCapsSQL        = `INSERT INTO caps (user_id, day, week, month) VALUES (?, '0', '0', '0')`
	insertPrefsSQL       = `INSERT INTO prefs (user_id, ai_enabled) VALUES (?, 1)`
	selectUserByEmailSQL = `SELECT id, email, password_hash FROM users WHERE email = ?`
)

// Create inserts the user and eagerly seeds the dependent wallet, caps and
// prefs rows. The whole registration is one transaction: a failed dependent
// insert rolls back the user row as well.
func (r *UserSQLite) Create(ctx context.Context, email, passwordHash string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin register tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, insertUserSQL, email, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	userID := int(lastID)

	for _, stmt := range []string{insertWalletSQL, insertCapsSQL, insertPrefsSQL} {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return 0, fmt.Errorf("seed defaults for user %d: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit register tx: %w", err)
	}
	return userID, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, selectUserByEmailSQL, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", email, err)
	}
	return &u, nil
}

// isUniqueViolation matches the sqlite unique-constraint message; the modernc
// driver exposes no typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
