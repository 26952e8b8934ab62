package service

import (
	"context"
	"time"

	"spendwise/internal/llm"
	"spendwise/internal/models"
	"spendwise/internal/repository"

	"github.com/shopspring/decimal"
)

type Authorization interface {
	// SignUp creates the account with its wallet/caps/prefs defaults and
	// returns the new user id plus a freshly issued token.
	SignUp(ctx context.Context, email, password string) (int, string, error)
	// SignIn verifies credentials and returns the user id plus a token.
	SignIn(ctx context.Context, email, password string) (int, string, error)
	ParseToken(accessToken string) (int, error)
}

// ExpenseInput carries validated-at-the-service expense fields.
type ExpenseInput struct {
	Amount     decimal.Decimal
	Merchant   string
	Beneficial bool
	TS         int64 // epoch ms; zero means "now"
}

type IncomeInput struct {
	Amount decimal.Decimal
	Source string
	TS     int64
}

// Ledger exposes wallet-consistent ledger mutations and the composite view.
type Ledger interface {
	AddExpense(ctx context.Context, userID int, in ExpenseInput) (int, error)
	UpdateExpense(ctx context.Context, userID, expenseID int, in ExpenseInput) error
	DeleteExpense(ctx context.Context, userID, expenseID int) error
	AddIncome(ctx context.Context, userID int, in IncomeInput) (int, error)
	Snapshot(ctx context.Context, userID int) (models.Snapshot, error)
}

type Preferences interface {
	SetCaps(ctx context.Context, userID int, c models.Caps) error
	SetAIEnabled(ctx context.Context, userID int, enabled bool) error
}

// ChatInput is the "want"-purchase chatbot request.
type ChatInput struct {
	Message  string
	Amount   decimal.Decimal
	Merchant string
}

// Advisor builds prompts from ledger snapshots and forwards them to the
// external text-generation service.
type Advisor interface {
	Advise(ctx context.Context, userID int) (string, error)
	Chat(ctx context.Context, in ChatInput) (string, error)
}

// ChatCompleter is the seam to the external LLM endpoint; satisfied by
// *llm.Client and mocked in tests.
type ChatCompleter interface {
	Complete(ctx context.Context, msgs []llm.Message, maxTokens int, temperature float64) (string, error)
}

type Service struct {
	Authorization
	Ledger
	Preferences
	Advisor
}

// AuthConfig carries injected token settings; the signing key is never a
// source literal.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// NewService wires the repository layer and the LLM connector into concrete services.
func NewService(repos *repository.Repository, authCfg AuthConfig, completer ChatCompleter, currency string) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, authCfg),
		Ledger:        NewLedgerService(repos.Ledger),
		Preferences:   NewPrefsService(repos.Prefs),
		Advisor:       NewAdvisorService(repos.Ledger, completer, currency),
	}
}
