package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/events"
)

// PayoutService handles payout collection at the counter.
type PayoutService struct {
	DB        *sql.DB
	Payouts   *repository.PayoutRepo
	Transfers *repository.TransferRepo
	Register  *repository.RegisterRepo
	Events    events.Sink
}

// Open lists payouts still awaiting collection.
func (s *PayoutService) Open(ctx context.Context) ([]repository.Payout, error) {
	return s.Payouts.List(ctx, repository.PayoutPendingPickup, repository.PayoutReady)
}

// All lists every payout order.
func (s *PayoutService) All(ctx context.Context) ([]repository.Payout, error) {
	return s.Payouts.List(ctx)
}

// MarkPaid pays out an order. Allowed only from Pending Pickup or Ready; the
// cash leaves the drawer, so the status flip and the out-movement commit in
// one transaction.
func (s *PayoutService) MarkPaid(ctx context.Context, id string) error {
	p, err := s.Payouts.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load payout: %w", err)
	}
	if p == nil {
		return fmt.Errorf("payout %s not found", id)
	}
	if p.Status != repository.PayoutPendingPickup && p.Status != repository.PayoutReady {
		return fmt.Errorf("payout %s is %s, cannot pay", id, p.Status)
	}

	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		if err := s.Payouts.WithTx(tx).UpdateStatus(ctx, id, repository.PayoutPaid); err != nil {
			return fmt.Errorf("update payout: %w", err)
		}
		register := s.Register.WithTx(tx)
		balance, err := register.Balance(ctx, p.Currency)
		if err != nil {
			return fmt.Errorf("drawer balance: %w", err)
		}
		m := repository.RegisterMovement{
			ID:         newID("MOV"),
			Direction:  repository.MovementOut,
			Amount:     p.Amount,
			Currency:   p.Currency,
			Balance:    balance.Sub(p.Amount),
			Reason:     "Payout collected",
			TransferID: &p.TransferID,
			CreatedAt:  database.Now(),
		}
		if err := register.Insert(ctx, m); err != nil {
			return fmt.Errorf("record drawer movement: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.track("payout", "paid", id)
	return nil
}

// Cancel voids an order that has not been paid yet. The parent transfer is
// marked Failed alongside, since its money will never reach the receiver.
func (s *PayoutService) Cancel(ctx context.Context, id string) error {
	p, err := s.Payouts.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load payout: %w", err)
	}
	if p == nil {
		return fmt.Errorf("payout %s not found", id)
	}
	if p.Status == repository.PayoutPaid || p.Status == repository.PayoutCancelled {
		return fmt.Errorf("payout %s is %s, cannot cancel", id, p.Status)
	}
	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		if err := s.Payouts.WithTx(tx).UpdateStatus(ctx, id, repository.PayoutCancelled); err != nil {
			return fmt.Errorf("update payout: %w", err)
		}
		if err := s.Transfers.WithTx(tx).UpdateStatus(ctx, p.TransferID, repository.TransferFailed); err != nil {
			return fmt.Errorf("update transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.track("payout", "cancelled", id)
	return nil
}

func (s *PayoutService) track(category, action, label string) {
	if s.Events == nil {
		return
	}
	s.Events.Track(events.Event{Category: category, Action: action, Label: label})
}
