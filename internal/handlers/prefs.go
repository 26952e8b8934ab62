package handlers

import (
	"net/http"

	"spendwise/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Caps overwrite payload. Values are stored as-is, including zero or
// negative thresholds.
type capsRequest struct {
	Day   decimal.Decimal `json:"day"`
	Week  decimal.Decimal `json:"week"`
	Month decimal.Decimal `json:"month"`
}

type prefsRequest struct {
	AIEnabled bool `json:"aiEnabled"`
}

// @Summary      Set spending caps
// @Tags         prefs
// @Accept       json
// @Produce      json
// @Param        body  body   capsRequest  true  "Caps payload"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/caps [post]
// @Security     BearerAuth
func (h *Handler) setCaps(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	var req capsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	err := h.services.SetCaps(c.Request.Context(), userID, models.Caps{
		Day:   req.Day,
		Week:  req.Week,
		Month: req.Month,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to save caps", "caps_save_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Set preferences
// @Tags         prefs
// @Accept       json
// @Produce      json
// @Param        body  body   prefsRequest  true  "Prefs payload"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/prefs [post]
// @Security     BearerAuth
func (h *Handler) setPrefs(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	var req prefsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	if err := h.services.SetAIEnabled(c.Request.Context(), userID, req.AIEnabled); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to save preferences", "prefs_save_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
