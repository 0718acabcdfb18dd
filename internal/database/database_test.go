package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
)

func openSeeded(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db))
	require.NoError(t, SeedDemo(ctx, db))
	return db, ctx
}

func TestSeedDemoIdempotent(t *testing.T) {
	t.Parallel()

	db, ctx := openSeeded(t)
	require.NoError(t, SeedDemo(ctx, db))

	clients := repository.NewClientRepo(db)
	n, err := clients.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestClientMatch(t *testing.T) {
	t.Parallel()

	db, ctx := openSeeded(t)
	clients := repository.NewClientRepo(db)

	all, err := clients.Match(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 4)

	byName, err := clients.Match(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	require.Equal(t, "CUST1002", byName[0].ID)

	byPhone, err := clients.Match(ctx, "555-901")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	require.Equal(t, "David Johnson", byPhone[0].Name)

	byID, err := clients.Match(ctx, "cust1004")
	require.NoError(t, err)
	require.Len(t, byID, 1)

	none, err := clients.Match(ctx, "zzz-no-such-client")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTransferInsertListFilters(t *testing.T) {
	t.Parallel()

	db, ctx := openSeeded(t)
	transfers := repository.NewTransferRepo(db)

	all, err := transfers.List(ctx, repository.TransferFilters{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "TXN129", all[0].ID, "newest first")
	require.Equal(t, "Sarah Williams", all[0].SenderName)

	remittances, err := transfers.List(ctx, repository.TransferFilters{Kind: repository.KindRemittance})
	require.NoError(t, err)
	require.Len(t, remittances, 3)

	failed, err := transfers.List(ctx, repository.TransferFilters{Status: repository.TransferFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)

	search, err := transfers.List(ctx, repository.TransferFilters{Search: "maria"})
	require.NoError(t, err)
	require.Len(t, search, 2) // sender of TXN128, receiver of TXN123

	got, err := transfers.Get(ctx, "TXN123")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(1000)))
	require.Equal(t, "920.00", got.RecipientAmount.StringFixed(2))

	missing, err := transfers.Get(ctx, "TXN999")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestPayoutStatusRoundTrip(t *testing.T) {
	t.Parallel()

	db, ctx := openSeeded(t)
	payouts := repository.NewPayoutRepo(db)

	open, err := payouts.List(ctx, repository.PayoutPendingPickup, repository.PayoutReady)
	require.NoError(t, err)
	require.Len(t, open, 2)

	require.NoError(t, payouts.UpdateStatus(ctx, "POUT002", repository.PayoutPaid))
	p, err := payouts.Get(ctx, "POUT002")
	require.NoError(t, err)
	require.Equal(t, repository.PayoutPaid, p.Status)
	require.Equal(t, "Sarah Williams", p.ReceiverName)
}

func TestRegisterBalance(t *testing.T) {
	t.Parallel()

	db, ctx := openSeeded(t)
	register := repository.NewRegisterRepo(db)

	bal, err := register.Balance(ctx, "USD")
	require.NoError(t, err)
	require.Equal(t, "6005.00", bal.StringFixed(2))

	empty, err := register.Balance(ctx, "JPY")
	require.NoError(t, err)
	require.True(t, empty.IsZero())

	moves, err := register.List(ctx, "USD")
	require.NoError(t, err)
	require.Len(t, moves, 2)
	require.Equal(t, "MOV0002", moves[0].ID, "newest first")
	require.NotNil(t, moves[0].TransferID)
}

func TestInMemoryOpen(t *testing.T) {
	t.Parallel()

	db, err := Open(InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, RunMigrations(db))
	require.NoError(t, SeedDemo(context.Background(), db))

	n, err := repository.NewClientRepo(db).Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
