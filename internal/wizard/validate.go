package wizard

import (
	"regexp"
	"unicode"

	"github.com/globalremit/teller/internal/database/repository"
	"github.com/globalremit/teller/internal/money"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateStep checks the gate for one step against the draft. An empty map
// means the step may be left.
func ValidateStep(s Step, d Draft) map[string]string {
	errs := map[string]string{}
	switch s {
	case StepSender:
		if d.Sender == nil {
			errs["sender"] = "Please select a sender"
			break
		}
		mergeClientErrors(errs, "sender", d.Sender)
	case StepReceiver:
		if d.Receiver == nil {
			errs["receiver"] = "Please select a receiver"
			break
		}
		mergeClientErrors(errs, "receiver", d.Receiver)
	case StepDetails:
		if d.SourceOfFunds == "" {
			errs["sourceOfFunds"] = "Please select a source of funds"
		}
		if d.PurposeOfTransfer == "" {
			errs["purposeOfTransfer"] = "Please select a purpose of transfer"
		}
		if d.TransferType == "" {
			errs["transferType"] = "Please select a transfer type"
		}
		if d.Operator == "" {
			errs["operator"] = "Please select an operator"
		}
	case StepAmount:
		if _, err := money.ParseAmount(d.Amount); err != nil {
			if d.Amount == "" {
				errs["amount"] = "Please enter an amount"
			} else {
				errs["amount"] = "Amount must be greater than zero"
			}
		}
		if !money.ValidCurrency(d.SourceCurrency) {
			errs["sourceCurrency"] = "Please select a source currency"
		}
		if !money.ValidCurrency(d.TargetCurrency) {
			errs["targetCurrency"] = "Please select a target currency"
		}
	case StepConfirm:
		if !d.TermsAccepted {
			errs["terms"] = "You must accept the terms and conditions"
		}
	}
	return errs
}

// ValidateClient runs the identity-completeness check used for both the
// sender and receiver gates and for the new-client form.
func ValidateClient(c *repository.Client) map[string]string {
	errs := map[string]string{}
	if len(c.Name) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}
	if digitCount(c.Phone) < 10 {
		errs["phone"] = "Phone must contain at least 10 digits"
	}
	if !emailRe.MatchString(c.Email) {
		errs["email"] = "Enter a valid email address"
	}
	if len(c.Address) < 5 {
		errs["address"] = "Address must be at least 5 characters"
	}
	if c.Country == "" {
		errs["country"] = "Select a country"
	}
	if c.IDType == "" {
		errs["idType"] = "Select an ID type"
	}
	if len(c.IDNumber) < 2 {
		errs["idNumber"] = "ID number must be at least 2 characters"
	}
	if len(c.BankAccount) < 4 {
		errs["bankAccount"] = "Bank account must be at least 4 characters"
	}
	if c.RiskRating == "" {
		errs["riskRating"] = "Select a risk rating"
	}
	return errs
}

func mergeClientErrors(into map[string]string, prefix string, c *repository.Client) {
	for field, msg := range ValidateClient(c) {
		into[prefix+"."+field] = msg
	}
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
