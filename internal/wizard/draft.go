package wizard

import (
	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/money"
)

// Draft is the accumulating transfer form state. Amount fields are decimal
// strings; Fee, Total and RecipientAmount are derived and never set directly.
type Draft struct {
	Sender   *repository.Client
	Receiver *repository.Client

	SourceOfFunds     string
	PurposeOfTransfer string
	TransferType      string
	Operator          string

	Amount         string
	SourceCurrency string
	TargetCurrency string
	ExchangeRate   string

	Fee             string
	Total           string
	RecipientAmount string

	TermsAccepted bool
}

// NewDraft returns the initial draft for a fresh wizard.
func NewDraft() Draft {
	return Draft{
		TransferType:   "bank",
		SourceCurrency: "USD",
		TargetCurrency: "USD",
		ExchangeRate:   "1",
	}
}

// recompute rederives fee, total and recipient amount from the current
// amount and rate. An unparseable or non-positive amount clears the derived
// fields rather than holding stale numbers.
func (d *Draft) recompute() {
	amt, err := money.ParseAmount(d.Amount)
	if err != nil {
		d.Fee, d.Total, d.RecipientAmount = "", "", ""
		return
	}
	rate, err := decimal.NewFromString(d.ExchangeRate)
	if err != nil {
		rate = decimal.NewFromInt(1)
	}
	q := money.QuoteTransfer(amt, rate)
	d.Fee = q.Fee.StringFixed(2)
	d.Total = q.Total.StringFixed(2)
	d.RecipientAmount = q.Recipient.StringFixed(2)
}
