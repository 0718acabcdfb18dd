// Package rates provides the teller's exchange-rate board. Rates are a fixed
// demo table; refresh is a manual action with simulated latency, not a feed.
package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/money"
)

// usdPer holds units of each currency per one USD. Cross rates derive from it.
var usdPer = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("1"),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"ILS": decimal.RequireFromString("3.69"),
	"JPY": decimal.RequireFromString("151.20"),
	"AUD": decimal.RequireFromString("1.52"),
	"CAD": decimal.RequireFromString("1.36"),
}

// Board publishes cross rates for the supported currency set.
type Board struct {
	mu        sync.RWMutex
	usdPer    map[string]decimal.Decimal
	updatedAt time.Time
	refreshes int

	// RefreshDelay simulates the latency of a rate fetch.
	RefreshDelay time.Duration
}

// NewBoard returns a board seeded with the demo table.
func NewBoard() *Board {
	table := make(map[string]decimal.Decimal, len(usdPer))
	for k, v := range usdPer {
		table[k] = v
	}
	return &Board{
		usdPer:       table,
		updatedAt:    time.Now(),
		RefreshDelay: 800 * time.Millisecond,
	}
}

// Rate returns the multiplier that converts src into dst.
func (b *Board) Rate(src, dst string) (decimal.Decimal, error) {
	if !money.ValidCurrency(src) {
		return decimal.Zero, fmt.Errorf("unsupported currency %q", src)
	}
	if !money.ValidCurrency(dst) {
		return decimal.Zero, fmt.Errorf("unsupported currency %q", dst)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	// dst-per-USD divided by src-per-USD, 6 places is plenty for display math
	return b.usdPer[dst].DivRound(b.usdPer[src], 6), nil
}

// UpdatedAt reports when the board last changed.
func (b *Board) UpdatedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.updatedAt
}

// Refresh re-publishes the board after the simulated fetch delay. It honors
// ctx so a screen can abandon a refresh without leaking a late mutation.
// Drift is deterministic: each refresh nudges non-USD rates by a repeating
// ±0.1% cycle so the screen visibly changes without a random source.
func (b *Board) Refresh(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(b.RefreshDelay):
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshes++
	drift := decimal.RequireFromString("1.001")
	if b.refreshes%2 == 0 {
		drift = decimal.RequireFromString("0.999")
	}
	for code, v := range b.usdPer {
		if code == "USD" {
			continue
		}
		b.usdPer[code] = v.Mul(drift).Round(6)
	}
	b.updatedAt = time.Now()
	return nil
}

// Row is one line of the rates table as displayed.
type Row struct {
	Code   string
	PerUSD decimal.Decimal
}

// Rows returns the board in display order.
func (b *Board) Rows() []Row {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Row, 0, len(money.Currencies))
	for _, c := range money.Currencies {
		out = append(out, Row{Code: c.Code, PerUSD: b.usdPer[c.Code]})
	}
	return out
}
