package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spendwise/internal/llm"
	"spendwise/internal/repository"
)

// Advisor errors.
var (
	// ErrAdviceDisabled means the user opted out; a declined result, not a failure.
	ErrAdviceDisabled  = errors.New("AI is disabled")
	ErrMessageRequired = errors.New("message is required")
)

const (
	adviceMaxTokens   = 400
	adviceTemperature = 0.6
	chatTemperature   = 0.7
)

// AdvisorService snapshots the ledger, builds the prompt and forwards it to
// the external completion endpoint. The snapshot is taken and its queries
// finished before the upstream call, so no database state is held across it.
type AdvisorService struct {
	ledger    repository.Ledger
	completer ChatCompleter
	currency  string
}

func NewAdvisorService(ledger repository.Ledger, completer ChatCompleter, currency string) *AdvisorService {
	return &AdvisorService{ledger: ledger, completer: completer, currency: currency}
}

// Advise returns upstream advice text verbatim, or ErrAdviceDisabled without
// touching the connector when the user has AI turned off.
func (s *AdvisorService) Advise(ctx context.Context, userID int) (string, error) {
	snap, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		return "", err
	}
	if !snap.AIEnabled {
		return "", ErrAdviceDisabled
	}

	expenses, err := json.Marshal(snap.Expenses)
	if err != nil {
		return "", fmt.Errorf("serialize expenses: %w", err)
	}
	incomes, err := json.Marshal(snap.Incomes)
	if err != nil {
		return "", fmt.Errorf("serialize incomes: %w", err)
	}

	prompt := fmt.Sprintf(
		"You are a financial assistant. The user's wallet balance is %s %s. "+
			"Spending limits: day=%s, week=%s, month=%s. "+
			"Recent expenses: %s. "+
			"Incomes: %s. "+
			"Give practical advice on how they can manage their money better, if not enough data say so.",
		snap.Wallet, s.currency,
		snap.Caps.Day, snap.Caps.Week, snap.Caps.Month,
		expenses, incomes,
	)

	return s.completer.Complete(ctx, []llm.Message{
		{Role: "user", Content: prompt},
	}, adviceMaxTokens, adviceTemperature)
}

// Chat runs the "want"-purchase chatbot: a system instruction nudging the
// user to reconsider a non-essential purchase, plus their message.
func (s *AdvisorService) Chat(ctx context.Context, in ChatInput) (string, error) {
	if in.Message == "" {
		return "", ErrMessageRequired
	}

	system := fmt.Sprintf(
		"You are a financial advisor chatbot helping users make wise spending decisions. "+
			"The user is about to spend %s %s at %s. "+
			"This is classified as a 'WANT' (non-essential purchase). "+
			"Your goal is to politely and empathetically convince them to reconsider this purchase. "+
			"Ask questions about their financial goals, suggest alternatives, or remind them of their savings goals. "+
			"Be supportive and not judgmental. Keep responses concise (under 150 words).",
		in.Amount, s.currency, in.Merchant,
	)

	return s.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: in.Message},
	}, adviceMaxTokens, chatTemperature)
}
