package handlers

import (
	"errors"
	"net/http"

	"spendwise/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const errAICallFailed = "AI call failed"

type chatRequest struct {
	Message  string          `json:"message"`
	Amount   decimal.Decimal `json:"amount"`
	Merchant string          `json:"merchant"`
}

// @Summary      Spending advice
// @Description  Builds a prompt from the caller's ledger snapshot and returns the upstream text verbatim. Declined (ok:false) when the user has AI disabled.
// @Tags         ai
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ok, advice"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/ai [post]
// @Security     BearerAuth
func (h *Handler) getAdvice(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	advice, err := h.services.Advise(c.Request.Context(), userID)
	if err != nil {
		// Declined by preference, not a failure.
		if errors.Is(err, service.ErrAdviceDisabled) {
			c.JSON(http.StatusOK, gin.H{"ok": false, "error": service.ErrAdviceDisabled.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errAICallFailed, "ai_advice_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "advice": advice})
}

// @Summary      Purchase chatbot
// @Description  Chat about a pending non-essential purchase; the bot nudges the user to reconsider.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body   chatRequest  true  "Chat payload"
// @Success      200  {object}  map[string]interface{}  "ok, reply"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/chat [post]
// @Security     BearerAuth
func (h *Handler) chat(c *gin.Context) {
	if _, ok := h.mustUserID(c); !ok {
		return
	}
	var req chatRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	reply, err := h.services.Chat(c.Request.Context(), service.ChatInput{
		Message:  req.Message,
		Amount:   req.Amount,
		Merchant: req.Merchant,
	})
	if err != nil {
		if errors.Is(err, service.ErrMessageRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errAICallFailed, "ai_chat_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}
