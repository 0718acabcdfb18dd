package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
)

func TestResetRestoresDemoData(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	transfers := repository.NewTransferRepo(db)
	svc := &TransferService{
		DB:        db,
		Transfers: transfers,
		Payouts:   repository.NewPayoutRepo(db),
		Register:  repository.NewRegisterRepo(db),
	}

	_, err := svc.Submit(ctx, confirmedDraft(t, ctx, db))
	require.NoError(t, err)
	list, err := transfers.List(ctx, repository.TransferFilters{})
	require.NoError(t, err)
	require.Len(t, list, 5)

	maint := &MaintenanceService{DB: db}
	require.NoError(t, maint.Reset(ctx))

	list, err = transfers.List(ctx, repository.TransferFilters{})
	require.NoError(t, err)
	require.Len(t, list, 4, "back to the seeded transfer set")

	clients, err := repository.NewClientRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 4)

	balance, err := repository.NewRegisterRepo(db).Balance(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "6005.00", balance.StringFixed(2))
}

func TestResetNilDB(t *testing.T) {
	t.Parallel()

	maint := &MaintenanceService{}
	require.Error(t, maint.Reset(context.Background()))
}
