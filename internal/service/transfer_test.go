package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database"
	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/events"
	"github.com/globalremit/teller/internal/wizard"
)

func testDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrations(db))
	require.NoError(t, database.SeedDemo(ctx, db))
	return db, ctx
}

func confirmedDraft(t *testing.T, ctx context.Context, db *sql.DB) wizard.Draft {
	t.Helper()
	clients := repository.NewClientRepo(db)
	sender, err := clients.Get(ctx, "CUST1001")
	require.NoError(t, err)
	receiver, err := clients.Get(ctx, "CUST1002")
	require.NoError(t, err)

	d := wizard.NewDraft()
	d.Sender = sender
	d.Receiver = receiver
	d.SourceOfFunds = "cash"
	d.PurposeOfTransfer = "family_support"
	d.TransferType = "bank"
	d.Operator = "Teller 1"
	d.Amount = "1000"
	d.SourceCurrency = "USD"
	d.TargetCurrency = "ILS"
	d.ExchangeRate = "3.69"
	d.TermsAccepted = true
	return d
}

func TestSubmitRecordsTransferPayoutAndDrawer(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	sink := &events.MemorySink{}
	svc := &TransferService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
		Events:    sink,
		Delay:     time.Millisecond,
	}

	d := confirmedDraft(t, ctx, db)
	tx, err := svc.Submit(ctx, d)
	require.NoError(t, err)
	require.Equal(t, repository.TransferCompleted, tx.Status)
	require.Equal(t, "5.00", tx.Fee.StringFixed(2))
	require.Equal(t, "1005.00", tx.Total.StringFixed(2))
	require.Equal(t, "3690.00", tx.RecipientAmount.StringFixed(2))

	stored, err := svc.Transfers.Get(ctx, tx.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, "John Smith", stored.SenderName)

	// payout order created for the receiver in the target currency
	open, err := svc.Payouts.List(ctx, repository.PayoutPendingPickup)
	require.NoError(t, err)
	var found bool
	for _, p := range open {
		if p.TransferID == tx.ID {
			found = true
			require.Equal(t, "ILS", p.Currency)
			require.Equal(t, "3690.00", p.Amount.StringFixed(2))
		}
	}
	require.True(t, found, "payout order for the new transfer")

	// cash-funded: the drawer took the total
	bal, err := svc.Register.Balance(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "7010.00", bal.StringFixed(2)) // 6005.00 seeded + 1005.00

	evs := sink.Events()
	require.NotEmpty(t, evs)
	require.Equal(t, "submitted", evs[len(evs)-1].Action)
}

func TestSubmitCancelledMidCall(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &TransferService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
		Events:    events.Discard,
		Delay:     5 * time.Second,
	}

	d := confirmedDraft(t, ctx, db)
	subCtx, cancel := context.WithCancel(ctx)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Submit(subCtx, d)
	require.ErrorIs(t, err, context.Canceled)

	// nothing recorded
	all, err := svc.Transfers.List(ctx, repository.TransferFilters{})
	require.NoError(t, err)
	require.Len(t, all, 4, "only the seeded transfers remain")
}

func TestSubmitRejectsIncompleteDraft(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &TransferService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
	}

	d := wizard.NewDraft()
	_, err := svc.Submit(ctx, d)
	require.Error(t, err)

	d = confirmedDraft(t, ctx, db)
	d.Amount = "-1"
	_, err = svc.Submit(ctx, d)
	require.Error(t, err)
}

func TestNonCashSkipsDrawer(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &TransferService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
		Delay:     time.Millisecond,
	}

	d := confirmedDraft(t, ctx, db)
	d.SourceOfFunds = "bank_transfer"
	_, err := svc.Submit(ctx, d)
	require.NoError(t, err)

	bal, err := svc.Register.Balance(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "6005.00", bal.StringFixed(2), "drawer untouched")
}

func TestSubmitRollsBackWhenPayoutWriteFails(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &TransferService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
		Delay:     time.Millisecond,
	}

	// Break the payout leg: the whole submission must roll back rather than
	// commit an orphan transfer.
	_, err := db.ExecContext(ctx, `DROP TABLE payouts`)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, confirmedDraft(t, ctx, db))
	require.Error(t, err)

	all, err := svc.Transfers.List(ctx, repository.TransferFilters{})
	require.NoError(t, err)
	require.Len(t, all, 4, "only the seeded transfers remain")

	bal, err := svc.Register.Balance(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "6005.00", bal.StringFixed(2), "drawer untouched")
}
