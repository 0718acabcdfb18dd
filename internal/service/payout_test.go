package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/events"
)

func TestMarkPaidFromOpenStates(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	sink := &events.MemorySink{}
	svc := &PayoutService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
		Events:    sink,
	}

	open, err := svc.Open(ctx)
	require.NoError(t, err)
	require.Len(t, open, 2)

	// POUT002 is Ready, 2767.50 ILS
	require.NoError(t, svc.MarkPaid(ctx, "POUT002"))
	p, err := svc.Payouts.Get(ctx, "POUT002")
	require.NoError(t, err)
	require.Equal(t, repository.PayoutPaid, p.Status)

	// the drawer paid out in ILS, starting from an empty ILS drawer
	bal, err := svc.Register.Balance(ctx, "ILS")
	require.NoError(t, err)
	require.Equal(t, "-2767.50", bal.StringFixed(2))

	// already paid: rejected
	require.Error(t, svc.MarkPaid(ctx, "POUT002"))
	// cancelled order: rejected
	require.Error(t, svc.MarkPaid(ctx, "POUT004"))
	// unknown
	require.Error(t, svc.MarkPaid(ctx, "POUT999"))

	evs := sink.Events()
	require.Len(t, evs, 1)
	require.Equal(t, "paid", evs[0].Action)
}

func TestCancelGuards(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &PayoutService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
	}

	require.NoError(t, svc.Cancel(ctx, "POUT001"))
	p, err := svc.Payouts.Get(ctx, "POUT001")
	require.NoError(t, err)
	require.Equal(t, repository.PayoutCancelled, p.Status)

	// the money never reaches the receiver, so the parent transfer fails
	tr, err := svc.Transfers.Get(ctx, "TXN123")
	require.NoError(t, err)
	require.Equal(t, repository.TransferFailed, tr.Status)

	// paid orders cannot be cancelled
	require.Error(t, svc.Cancel(ctx, "POUT003"))
	// double cancel rejected
	require.Error(t, svc.Cancel(ctx, "POUT001"))
}

func TestMarkPaidRollsBackWhenDrawerWriteFails(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &PayoutService{
		DB:        db,
		Transfers: repository.NewTransferRepo(db),
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
	}

	// Break the drawer leg: the status flip must roll back with it.
	_, err := db.ExecContext(ctx, `DROP TABLE register_movements`)
	require.NoError(t, err)

	require.Error(t, svc.MarkPaid(ctx, "POUT002"))
	p, err := svc.Payouts.Get(ctx, "POUT002")
	require.NoError(t, err)
	require.Equal(t, repository.PayoutReady, p.Status, "payout not flipped to paid")
}
