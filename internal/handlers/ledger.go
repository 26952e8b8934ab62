package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"spendwise/internal/repository"
	"spendwise/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	errExpenseIDRequired = "expense id required"
	errNotAuthenticated  = "not authenticated"
	errExpenseNotFound   = "expense not found"
)

// Request DTO for creating/updating an expense. Amounts bind from JSON
// numbers or strings into exact decimals.
type expenseRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Merchant   string          `json:"merchant"`
	Beneficial bool            `json:"beneficial"`
	TS         int64           `json:"ts,omitempty"` // epoch ms; defaults to now
}

type incomeRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source"`
	TS     int64           `json:"ts,omitempty"`
}

// mustUserID pulls the authenticated user id or terminates with 401.
func (h *Handler) mustUserID(c *gin.Context) (int, bool) {
	id, ok := currentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errNotAuthenticated})
	}
	return id, ok
}

// respondLedgerError maps service/repository errors onto the envelope.
func (h *Handler) respondLedgerError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errExpenseNotFound})
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMerchantRequired),
		errors.Is(err, service.ErrSourceRequired),
		errors.Is(err, service.ErrInvalidExpenseID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", logKey, err, kv...)
	}
}

// expenseIDFromQuery parses the ?id= target of PUT/DELETE /expense.
func expenseIDFromQuery(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errExpenseIDRequired})
		return 0, false
	}
	return id, true
}

// @Summary      Ledger snapshot
// @Description  Wallet balance, caps, expenses and incomes (newest first) and the AI flag.
// @Tags         ledger
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	snap, err := h.services.Snapshot(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load state", "state_load_failed", err, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Add expense
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body   expenseRequest  true  "Expense payload"
// @Success      200  {object}  map[string]interface{}  "ok, id"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/expense [post]
// @Security     BearerAuth
func (h *Handler) addExpense(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	id, err := h.services.AddExpense(c.Request.Context(), userID, service.ExpenseInput{
		Amount:     req.Amount,
		Merchant:   req.Merchant,
		Beneficial: req.Beneficial,
		TS:         req.TS,
	})
	if err != nil {
		h.respondLedgerError(c, err, "expense_add_failed", "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}

// @Summary      Update expense
// @Description  Owner-checked; the wallet absorbs the signed amount delta.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id    query  int             true  "Expense id"
// @Param        body  body   expenseRequest  true  "New expense fields"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/expense [put]
// @Security     BearerAuth
func (h *Handler) updateExpense(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	expenseID, ok := expenseIDFromQuery(c)
	if !ok {
		return
	}
	var req expenseRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	err := h.services.UpdateExpense(c.Request.Context(), userID, expenseID, service.ExpenseInput{
		Amount:     req.Amount,
		Merchant:   req.Merchant,
		Beneficial: req.Beneficial,
		TS:         req.TS,
	})
	if err != nil {
		h.respondLedgerError(c, err, "expense_update_failed", "user_id", userID, "expense_id", expenseID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Delete expense
// @Description  Owner-checked; the deleted amount is credited back to the wallet.
// @Tags         ledger
// @Produce      json
// @Param        id  query  int  true  "Expense id"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/expense [delete]
// @Security     BearerAuth
func (h *Handler) deleteExpense(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	expenseID, ok := expenseIDFromQuery(c)
	if !ok {
		return
	}

	if err := h.services.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		h.respondLedgerError(c, err, "expense_delete_failed", "user_id", userID, "expense_id", expenseID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Add income
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        body  body   incomeRequest  true  "Income payload"
// @Success      200  {object}  map[string]interface{}  "ok, id"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/income [post]
// @Security     BearerAuth
func (h *Handler) addIncome(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}
	var req incomeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	id, err := h.services.AddIncome(c.Request.Context(), userID, service.IncomeInput{
		Amount: req.Amount,
		Source: req.Source,
		TS:     req.TS,
	})
	if err != nil {
		h.respondLedgerError(c, err, "income_add_failed", "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": id})
}
