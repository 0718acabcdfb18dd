package service

import (
	"context"
	"fmt"

	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/events"
	"github.com/globalremit/teller/internal/money"
	"github.com/globalremit/teller/internal/rates"
)

// ExchangeService quotes and records over-the-counter currency exchanges.
type ExchangeService struct {
	Board     *rates.Board
	Transfers *repository.TransferRepo
	Events    events.Sink
}

// Quote derives fee, total and received amount for exchanging amount from
// src into dst at the current board rate.
func (s *ExchangeService) Quote(amountStr, src, dst string) (money.Quote, error) {
	amount, err := money.ParseAmount(amountStr)
	if err != nil {
		return money.Quote{}, err
	}
	rate, err := s.Board.Rate(src, dst)
	if err != nil {
		return money.Quote{}, err
	}
	return money.QuoteTransfer(amount, rate), nil
}

// Record stores a completed exchange for client as an Exchange-kind
// transaction. The client is both sides of the trade.
func (s *ExchangeService) Record(ctx context.Context, client *repository.Client, amountStr, src, dst, operator string) (*repository.Transfer, error) {
	if client == nil {
		return nil, fmt.Errorf("no client selected")
	}
	q, err := s.Quote(amountStr, src, dst)
	if err != nil {
		return nil, err
	}
	t := repository.Transfer{
		ID:              newID("TXN"),
		SenderID:        client.ID,
		ReceiverID:      client.ID,
		Kind:            repository.KindExchange,
		SourceOfFunds:   "cash",
		Purpose:         "other",
		Method:          "instant",
		Amount:          q.Amount,
		Fee:             q.Fee,
		Total:           q.Total,
		Rate:            q.Rate,
		RecipientAmount: q.Recipient,
		SourceCurrency:  src,
		TargetCurrency:  dst,
		Operator:        operator,
		Status:          repository.TransferCompleted,
		CreatedAt:       database.Now(),
	}
	if err := s.Transfers.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("record exchange: %w", err)
	}
	if s.Events != nil {
		s.Events.Track(events.Event{
			Category: "exchange",
			Action:   "recorded",
			Label:    t.ID,
			Data: map[string]interface{}{
				"amount": q.Amount.StringFixed(2),
				"pair":   src + "/" + dst,
				"rate":   q.Rate.String(),
			},
		})
	}
	return &t, nil
}
