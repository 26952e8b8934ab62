package handlers

import (
	"context"

	"spendwise/internal/models"
	"spendwise/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks for handler tests ----

type mockAuth struct {
	signUpID    int
	signUpToken string
	signUpErr   error
	signInID    int
	signInToken string
	signInErr   error
	parseID     int
	parseErr    error

	lastSignUpEmail    string
	lastSignUpPassword string
	lastSignInEmail    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, email, password string) (int, string, error) {
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpToken, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, email, password string) (int, string, error) {
	m.lastSignInEmail = email
	return m.signInID, m.signInToken, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockLedger struct {
	addExpenseID  int
	addExpenseErr error
	updateErr     error
	deleteErr     error
	addIncomeID   int
	addIncomeErr  error
	snapshot      models.Snapshot
	snapshotErr   error

	lastExpenseInput service.ExpenseInput
	lastIncomeInput  service.IncomeInput
	lastExpenseID    int
	lastUserID       int
	snapshotCalls    int
}

func (m *mockLedger) AddExpense(_ context.Context, userID int, in service.ExpenseInput) (int, error) {
	m.lastUserID = userID
	m.lastExpenseInput = in
	return m.addExpenseID, m.addExpenseErr
}

func (m *mockLedger) UpdateExpense(_ context.Context, userID, expenseID int, in service.ExpenseInput) error {
	m.lastUserID = userID
	m.lastExpenseID = expenseID
	m.lastExpenseInput = in
	return m.updateErr
}

func (m *mockLedger) DeleteExpense(_ context.Context, userID, expenseID int) error {
	m.lastUserID = userID
	m.lastExpenseID = expenseID
	return m.deleteErr
}

func (m *mockLedger) AddIncome(_ context.Context, userID int, in service.IncomeInput) (int, error) {
	m.lastUserID = userID
	m.lastIncomeInput = in
	return m.addIncomeID, m.addIncomeErr
}

func (m *mockLedger) Snapshot(_ context.Context, userID int) (models.Snapshot, error) {
	m.lastUserID = userID
	m.snapshotCalls++
	return m.snapshot, m.snapshotErr
}

type mockPrefs struct {
	capsErr error
	aiErr   error

	lastCaps      models.Caps
	lastAIEnabled bool
	lastUserID    int
}

func (m *mockPrefs) SetCaps(_ context.Context, userID int, c models.Caps) error {
	m.lastUserID = userID
	m.lastCaps = c
	return m.capsErr
}

func (m *mockPrefs) SetAIEnabled(_ context.Context, userID int, enabled bool) error {
	m.lastUserID = userID
	m.lastAIEnabled = enabled
	return m.aiErr
}

type mockAdvisor struct {
	advice    string
	adviceErr error
	reply     string
	chatErr   error

	adviseCalls int
	lastChat    service.ChatInput
}

func (m *mockAdvisor) Advise(_ context.Context, userID int) (string, error) {
	m.adviseCalls++
	return m.advice, m.adviceErr
}

func (m *mockAdvisor) Chat(_ context.Context, in service.ChatInput) (string, error) {
	m.lastChat = in
	return m.reply, m.chatErr
}

// newTestRouter wires a full router around the given service mocks.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}
