package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
)

func TestReportBreaksDownByKind(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &ReportService{Transfers: repository.NewTransferRepo(db)}

	rep, err := svc.Build(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, rep.Transfers, 4)
	require.Len(t, rep.Rows, 2)

	// seeded data: one exchange and three remittances, all funded in USD
	ex := rep.Rows[0]
	require.Equal(t, repository.KindExchange, ex.Kind)
	require.Equal(t, "USD", ex.Currency)
	require.Equal(t, 1, ex.Count)
	require.Equal(t, "200.00", ex.Amount.StringFixed(2))
	require.Equal(t, "4.99", ex.Fees.StringFixed(2))

	rem := rep.Rows[1]
	require.Equal(t, repository.KindRemittance, rem.Kind)
	require.Equal(t, 3, rem.Count)
	require.Equal(t, "2750.00", rem.Amount.StringFixed(2))
	require.Equal(t, "14.99", rem.Fees.StringFixed(2))
}

func TestReportHonoursDateRange(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &ReportService{Transfers: repository.NewTransferRepo(db)}

	// only the two transfers from the last half day
	rep, err := svc.Build(ctx, time.Now().UTC().Add(-12*time.Hour))
	require.NoError(t, err)
	require.Len(t, rep.Transfers, 2)
	require.Len(t, rep.Rows, 2)
	for _, r := range rep.Rows {
		require.Equal(t, 1, r.Count)
	}

	// a range in the future matches nothing
	rep, err = svc.Build(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, rep.Transfers)
	require.Empty(t, rep.Rows)
}

func TestReportCSVExport(t *testing.T) {
	t.Parallel()

	db, ctx := testDB(t)
	svc := &ReportService{Transfers: repository.NewTransferRepo(db)}

	rep, err := svc.Build(ctx, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5, "header plus four transfers")
	require.Equal(t, "id,date,kind,sender,receiver,amount,currency,fee,total,status", lines[0])
	require.Contains(t, buf.String(), "TXN123")
	require.Contains(t, buf.String(), "John Smith")
}
