// Package money holds the teller's money arithmetic. All computation uses
// decimals; callers pass amounts as strings and get two-place results back.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	feeRate = decimal.NewFromFloat(0.005)
	feeMin  = decimal.NewFromFloat(4.99)
)

// Fee is the transfer fee for amount: 0.5% with a 4.99 floor, rounded half-up
// to two places.
func Fee(amount decimal.Decimal) decimal.Decimal {
	fee := amount.Mul(feeRate).Round(2)
	if fee.LessThan(feeMin) {
		return feeMin
	}
	return fee
}

// Total is amount plus its fee.
func Total(amount decimal.Decimal) decimal.Decimal {
	return amount.Add(Fee(amount))
}

// Recipient converts amount using rate, rounded to two places.
func Recipient(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// Quote bundles the derived amounts for a transfer or exchange.
type Quote struct {
	Amount    decimal.Decimal
	Fee       decimal.Decimal
	Total     decimal.Decimal
	Rate      decimal.Decimal
	Recipient decimal.Decimal
}

// QuoteTransfer derives fee, total and recipient amount from amount and rate.
func QuoteTransfer(amount, rate decimal.Decimal) Quote {
	return Quote{
		Amount:    amount,
		Fee:       Fee(amount),
		Total:     Total(amount),
		Rate:      rate,
		Recipient: Recipient(amount, rate),
	}
}

// ParseAmount parses a user-entered amount string. It rejects anything that is
// not a positive number.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("amount must be greater than zero")
	}
	return d, nil
}
