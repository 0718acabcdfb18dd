package service

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/database/repository"
)

// ReportService summarises recorded transfers over a date range for the
// reports screen.
type ReportService struct {
	Transfers *repository.TransferRepo
}

// ReportRow aggregates one transfer kind in one source currency.
type ReportRow struct {
	Kind     string
	Currency string
	Count    int
	Amount   decimal.Decimal
	Fees     decimal.Decimal
}

// Report holds the per-kind breakdown plus the underlying transfers, kept
// around so the same snapshot can be exported.
type Report struct {
	Since     time.Time
	Generated time.Time
	Rows      []ReportRow
	Transfers []repository.Transfer
}

// Build aggregates everything recorded since the given time. A zero since
// covers all time.
func (s *ReportService) Build(ctx context.Context, since time.Time) (*Report, error) {
	list, err := s.Transfers.List(ctx, repository.TransferFilters{Since: since})
	if err != nil {
		return nil, err
	}
	type group struct{ kind, currency string }
	agg := map[group]*ReportRow{}
	for _, t := range list {
		g := group{t.Kind, t.SourceCurrency}
		row := agg[g]
		if row == nil {
			row = &ReportRow{Kind: t.Kind, Currency: t.SourceCurrency}
			agg[g] = row
		}
		row.Count++
		row.Amount = row.Amount.Add(t.Amount)
		row.Fees = row.Fees.Add(t.Fee)
	}
	rows := make([]ReportRow, 0, len(agg))
	for _, r := range agg {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Kind != rows[j].Kind {
			return rows[i].Kind < rows[j].Kind
		}
		return rows[i].Currency < rows[j].Currency
	})
	return &Report{Since: since, Generated: time.Now(), Rows: rows, Transfers: list}, nil
}

// WriteCSV exports the report's transfers, one row each.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "date", "kind", "sender", "receiver", "amount", "currency", "fee", "total", "status"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range r.Transfers {
		rec := []string{
			t.ID,
			t.CreatedAt.Format(time.RFC3339),
			t.Kind,
			t.SenderName,
			t.ReceiverName,
			t.Amount.StringFixed(2),
			t.SourceCurrency,
			t.Fee.StringFixed(2),
			t.Total.StringFixed(2),
			t.Status,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
