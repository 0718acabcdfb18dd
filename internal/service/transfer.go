// Package service holds the teller's business operations over the stores:
// transfer submission, payout handling and currency exchange.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/events"
	"github.com/globalremit/teller/internal/money"
	"github.com/globalremit/teller/internal/wizard"
)

// TransferService records confirmed transfers. The remote leg is simulated
// with a fixed delay standing in for a real payment backend.
type TransferService struct {
	DB        *sql.DB
	Transfers *repository.TransferRepo
	Payouts   *repository.PayoutRepo
	Register  *repository.RegisterRepo
	Events    events.Sink

	// Delay simulates the remote call. Zero means no wait.
	Delay time.Duration
}

// Submit performs the simulated remote call and then records the transfer,
// its payout order and, for cash-funded transfers, the drawer movement.
// Cancelling ctx mid-call abandons the submission with nothing recorded,
// leaving the draft free to retry.
func (s *TransferService) Submit(ctx context.Context, d wizard.Draft) (*repository.Transfer, error) {
	if d.Sender == nil || d.Receiver == nil {
		return nil, fmt.Errorf("draft missing sender or receiver")
	}
	amount, err := money.ParseAmount(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("draft amount: %w", err)
	}
	rate, err := decimal.NewFromString(d.ExchangeRate)
	if err != nil {
		return nil, fmt.Errorf("draft rate: %w", err)
	}

	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay):
		}
	}

	q := money.QuoteTransfer(amount, rate)
	now := database.Now()
	t := repository.Transfer{
		ID:              newID("TXN"),
		SenderID:        d.Sender.ID,
		ReceiverID:      d.Receiver.ID,
		Kind:            repository.KindRemittance,
		SourceOfFunds:   d.SourceOfFunds,
		Purpose:         d.PurposeOfTransfer,
		Method:          d.TransferType,
		Amount:          q.Amount,
		Fee:             q.Fee,
		Total:           q.Total,
		Rate:            q.Rate,
		RecipientAmount: q.Recipient,
		SourceCurrency:  d.SourceCurrency,
		TargetCurrency:  d.TargetCurrency,
		Operator:        d.Operator,
		Status:          repository.TransferCompleted,
		CreatedAt:       now,
	}
	p := repository.Payout{
		ID:         newID("POUT"),
		TransferID: t.ID,
		ReceiverID: t.ReceiverID,
		Amount:     q.Recipient,
		Currency:   t.TargetCurrency,
		Status:     repository.PayoutPendingPickup,
		Operator:   t.Operator,
		CreatedAt:  now,
	}

	// All three writes commit together. A failed payout or drawer write must
	// not leave an orphan transfer row behind.
	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		if err := s.Transfers.WithTx(tx).Insert(ctx, t); err != nil {
			return fmt.Errorf("record transfer: %w", err)
		}
		if err := s.Payouts.WithTx(tx).Insert(ctx, p); err != nil {
			return fmt.Errorf("record payout: %w", err)
		}
		if d.SourceOfFunds == "cash" {
			return s.recordCashIn(ctx, s.Register.WithTx(tx), t)
		}
		return nil
	})
	if err != nil {
		s.track("transfer", "submit_failed", t.ID, map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.track("transfer", "submitted", t.ID, map[string]interface{}{
		"amount":   q.Amount.StringFixed(2),
		"total":    q.Total.StringFixed(2),
		"currency": t.SourceCurrency,
		"target":   t.TargetCurrency,
		"operator": t.Operator,
	})
	return &t, nil
}

func (s *TransferService) recordCashIn(ctx context.Context, register *repository.RegisterRepo, t repository.Transfer) error {
	balance, err := register.Balance(ctx, t.SourceCurrency)
	if err != nil {
		return fmt.Errorf("drawer balance: %w", err)
	}
	m := repository.RegisterMovement{
		ID:         newID("MOV"),
		Direction:  repository.MovementIn,
		Amount:     t.Total,
		Currency:   t.SourceCurrency,
		Balance:    balance.Add(t.Total),
		Reason:     "Cash received for transfer",
		TransferID: &t.ID,
		CreatedAt:  t.CreatedAt,
	}
	if err := register.Insert(ctx, m); err != nil {
		return fmt.Errorf("record drawer movement: %w", err)
	}
	return nil
}

func (s *TransferService) track(category, action, label string, data map[string]interface{}) {
	if s.Events == nil {
		return
	}
	s.Events.Track(events.Event{Category: category, Action: action, Label: label, Data: data})
}

func newID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}
