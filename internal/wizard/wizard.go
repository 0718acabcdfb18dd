// Package wizard implements the send-money flow: a five-step sequencer with
// per-step validation gates over an accumulating transfer draft. It performs
// no IO; submission is signalled to the host, which reports back the result.
package wizard

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/database/repository"
)

// Outcome is the result of an Advance attempt.
type Outcome int

const (
	// Blocked means the active step's gate failed; Errors holds the details.
	Blocked Outcome = iota
	// Moved means the wizard advanced one step.
	Moved
	// Submit means the Confirm gate passed and the host should begin
	// submission.
	Submit
)

// Controller owns the wizard state. It is driven synchronously by user events
// and is the only writer of the draft.
type Controller struct {
	draft      Draft
	active     Step
	maxReached Step
	direction  Direction
	errors     map[string]string
	submitting bool
	complete   bool
}

// New returns a controller positioned at the Sender step with a fresh draft.
func New() *Controller {
	return &Controller{
		draft:  NewDraft(),
		errors: map[string]string{},
	}
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() Draft { return c.draft }

// ActiveStep returns the current step index.
func (c *Controller) ActiveStep() Step { return c.active }

// Direction reports which way the last transition went.
func (c *Controller) Direction() Direction { return c.direction }

// MaxReached is the highest step whose gate has passed.
func (c *Controller) MaxReached() Step { return c.maxReached }

// Completed reports whether step s is behind the active step.
func (c *Controller) Completed(s Step) bool { return s < c.active }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }

// Complete reports whether the draft reached its terminal state.
func (c *Controller) Complete() bool { return c.complete }

// Errors returns a copy of the current field error map.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Advance validates the active step exactly once. On success it moves
// forward, or signals submission from the Confirm step. On failure the step
// is unchanged and the error map is populated.
func (c *Controller) Advance() Outcome {
	if c.submitting || c.complete {
		return Blocked
	}
	errs := ValidateStep(c.active, c.draft)
	if len(errs) > 0 {
		c.errors = errs
		return Blocked
	}
	c.errors = map[string]string{}
	if c.active == lastStep {
		return Submit
	}
	c.direction = Forward
	c.active++
	if c.active > c.maxReached {
		c.maxReached = c.active
	}
	return Moved
}

// Retreat moves one step back. It returns false when already at the first
// step, which the host treats as "exit the wizard".
func (c *Controller) Retreat() bool {
	if c.submitting {
		return true // ignore while a submit is in flight
	}
	if c.active == 0 {
		return false
	}
	c.direction = Backward
	c.active--
	return true
}

// GoTo jumps directly to s. Jumps are allowed only into territory already
// validated: s must not exceed the highest step previously reached.
func (c *Controller) GoTo(s Step) error {
	if s < 0 || s > lastStep {
		return fmt.Errorf("step %d out of range", s)
	}
	if s > c.maxReached {
		return fmt.Errorf("step %s not reached yet", s)
	}
	if c.submitting || c.complete {
		return fmt.Errorf("cannot navigate during submission")
	}
	if s < c.active {
		c.direction = Backward
	} else {
		c.direction = Forward
	}
	c.active = s
	return nil
}

// BeginSubmit re-checks the Confirm gate and flips the submitting flag.
// It returns false if the gate fails or a submission is already running.
func (c *Controller) BeginSubmit() bool {
	if c.submitting || c.complete {
		return false
	}
	errs := ValidateStep(StepConfirm, c.draft)
	if len(errs) > 0 {
		c.errors = errs
		return false
	}
	c.errors = map[string]string{}
	c.submitting = true
	return true
}

// FinishSubmit records the submission result. On error the draft stays
// intact so the teller can retry without re-entering anything.
func (c *Controller) FinishSubmit(err error) {
	c.submitting = false
	if err == nil {
		c.complete = true
	}
}

// Reset restores the initial state: step 0, fresh draft, no errors. Calling
// it twice yields the same state as once.
func (c *Controller) Reset() {
	c.draft = NewDraft()
	c.active = 0
	c.maxReached = 0
	c.direction = Forward
	c.errors = map[string]string{}
	c.submitting = false
	c.complete = false
}

// Field mutators. Each clears only its own error key; full re-validation
// happens on the next advance attempt.

// SetSender selects the sending client.
func (c *Controller) SetSender(client *repository.Client) {
	c.draft.Sender = client
	c.clearErrors("sender")
}

// SetReceiver selects the receiving client.
func (c *Controller) SetReceiver(client *repository.Client) {
	c.draft.Receiver = client
	c.clearErrors("receiver")
}

// UseSenderAsReceiver copies the sender into the receiver slot.
func (c *Controller) UseSenderAsReceiver() error {
	if c.draft.Sender == nil {
		return fmt.Errorf("no sender selected")
	}
	c.SetReceiver(c.draft.Sender)
	return nil
}

// SetSourceOfFunds records where the money comes from.
func (c *Controller) SetSourceOfFunds(v string) {
	c.draft.SourceOfFunds = v
	c.clearErrors("sourceOfFunds")
}

// SetPurpose records the purpose of transfer.
func (c *Controller) SetPurpose(v string) {
	c.draft.PurposeOfTransfer = v
	c.clearErrors("purposeOfTransfer")
}

// SetTransferType records the delivery method.
func (c *Controller) SetTransferType(v string) {
	c.draft.TransferType = v
	c.clearErrors("transferType")
}

// SetOperator records the staff member recording the transfer.
func (c *Controller) SetOperator(v string) {
	c.draft.Operator = v
	c.clearErrors("operator")
}

// SetAmount updates the amount and recomputes the derived fields.
func (c *Controller) SetAmount(v string) {
	c.draft.Amount = v
	c.draft.recompute()
	c.clearErrors("amount")
}

// SetCurrencies updates the currency pair and rate, then recomputes.
func (c *Controller) SetCurrencies(src, dst string, rate decimal.Decimal) {
	c.draft.SourceCurrency = src
	c.draft.TargetCurrency = dst
	c.draft.ExchangeRate = rate.String()
	c.draft.recompute()
	c.clearErrors("sourceCurrency", "targetCurrency")
}

// SetTerms toggles terms acceptance.
func (c *Controller) SetTerms(accepted bool) {
	c.draft.TermsAccepted = accepted
	c.clearErrors("terms")
}

func (c *Controller) clearErrors(keys ...string) {
	for _, k := range keys {
		delete(c.errors, k)
		// nested client errors share the selection key as prefix
		for existing := range c.errors {
			if len(existing) > len(k) && existing[:len(k)+1] == k+"." {
				delete(c.errors, existing)
			}
		}
	}
}
