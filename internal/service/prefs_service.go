package service

import (
	"context"

	"spendwise/internal/models"
	"spendwise/internal/repository"
)

// PrefsService overwrites caps and the ai_enabled flag in place. Caps are
// advisory thresholds, so zero or negative values are stored as-is.
type PrefsService struct {
	prefs repository.Preferences
}

func NewPrefsService(prefs repository.Preferences) *PrefsService {
	return &PrefsService{prefs: prefs}
}

func (s *PrefsService) SetCaps(ctx context.Context, userID int, c models.Caps) error {
	return s.prefs.SetCaps(ctx, userID, c)
}

func (s *PrefsService) SetAIEnabled(ctx context.Context, userID int, enabled bool) error {
	return s.prefs.SetAIEnabled(ctx, userID, enabled)
}
