package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/rates"
)

func TestExchangeQuoteAndRecord(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &ExchangeService{
		Board:     rates.NewBoard(),
		Transfers: repository.NewTransferRepo(db),
	}

	q, err := svc.Quote("1000", "USD", "ILS")
	require.NoError(t, err)
	require.Equal(t, "3690.00", q.Recipient.StringFixed(2))
	require.Equal(t, "5.00", q.Fee.StringFixed(2))

	_, err = svc.Quote("0", "USD", "ILS")
	require.Error(t, err)
	_, err = svc.Quote("100", "USD", "XXX")
	require.Error(t, err)

	clients := repository.NewClientRepo(db)
	client, err := clients.Get(ctx, "CUST1001")
	require.NoError(t, err)

	tx, err := svc.Record(ctx, client, "500", "USD", "EUR", "Teller 1")
	require.NoError(t, err)
	require.Equal(t, repository.KindExchange, tx.Kind)
	require.Equal(t, client.ID, tx.SenderID)
	require.Equal(t, client.ID, tx.ReceiverID)

	exchanges, err := svc.Transfers.List(ctx, repository.TransferFilters{Kind: repository.KindExchange})
	require.NoError(t, err)
	require.Len(t, exchanges, 2) // one seeded + one recorded

	_, err = svc.Record(ctx, nil, "500", "USD", "EUR", "Teller 1")
	require.Error(t, err)
}
