package repository

import (
	"context"
	"database/sql"
	"fmt"

	"spendwise/internal/models"
)

type PrefsSQLite struct {
	db *sql.DB
}

func NewPrefsSQLite(db *sql.DB) *PrefsSQLite { return &PrefsSQLite{db: db} }

var _ Preferences = (*PrefsSQLite)(nil)

const (
	updateCapsSQL      = `UPDATE caps SET day = ?, week = ?, month = ? WHERE user_id = ?`
	updateAIEnabledSQL = `UPDATE prefs SET ai_enabled = ? WHERE user_id = ?`
)

// SetCaps overwrites the single caps row. Values are taken as-is; cap sanity
// checking is out of scope.
func (r *PrefsSQLite) SetCaps(ctx context.Context, userID int, c models.Caps) error {
	_, err := r.db.ExecContext(ctx, updateCapsSQL,
		c.Day.String(), c.Week.String(), c.Month.String(), userID)
	if err != nil {
		return fmt.Errorf("update caps for user %d: %w", userID, err)
	}
	return nil
}

// SetAIEnabled overwrites the ai_enabled flag.
func (r *PrefsSQLite) SetAIEnabled(ctx context.Context, userID int, enabled bool) error {
	_, err := r.db.ExecContext(ctx, updateAIEnabledSQL, boolToInt(enabled), userID)
	if err != nil {
		return fmt.Errorf("update prefs for user %d: %w", userID, err)
	}
	return nil
}
