package wizard

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/globalremit/teller/internal/database/repository"
)

func validClient(id, name string) *repository.Client {
	return &repository.Client{
		ID:          id,
		Name:        name,
		Phone:       "+1 555-123-4567",
		Email:       name + "@example.com",
		Address:     "123 Main St, New York, NY",
		Country:     "USA",
		IDType:      "passport",
		IDNumber:    "P12345678",
		BankAccount: "****1234",
		Status:      repository.ClientActive,
		KYCVerified: true,
		RiskRating:  "low",
	}
}

// fillThrough drives a controller through every gate up to and including step s.
func fillThrough(t *testing.T, c *Controller, s Step) {
	t.Helper()
	if s >= StepSender {
		c.SetSender(validClient("CUST1001", "john.smith"))
	}
	if s >= StepReceiver {
		c.SetReceiver(validClient("CUST1002", "maria.garcia"))
	}
	if s >= StepDetails {
		c.SetSourceOfFunds("cash")
		c.SetPurpose("family_support")
		c.SetTransferType("bank")
		c.SetOperator("Teller 1")
	}
	if s >= StepAmount {
		c.SetCurrencies("USD", "ILS", decimal.RequireFromString("3.69"))
		c.SetAmount("1000")
	}
	if s >= StepConfirm {
		c.SetTerms(true)
	}
	for c.ActiveStep() < s {
		require.Equal(t, Moved, c.Advance(), "expected to pass gate at %s", c.ActiveStep())
	}
}

func TestAdvanceBlockedUntilGatePasses(t *testing.T) {
	t.Parallel()

	c := New()
	require.Equal(t, StepSender, c.ActiveStep())

	// no sender selected
	require.Equal(t, Blocked, c.Advance())
	require.Equal(t, StepSender, c.ActiveStep())
	require.Contains(t, c.Errors(), "sender")

	c.SetSender(validClient("CUST1001", "john"))
	require.Equal(t, Moved, c.Advance())
	require.Equal(t, StepReceiver, c.ActiveStep())
	require.Empty(t, c.Errors())
}

func TestIncompleteClientFailsGatePerField(t *testing.T) {
	t.Parallel()

	c := New()
	bad := validClient("CUST1001", "jo")
	bad.Email = "not-an-email"
	bad.Phone = "555"
	c.SetSender(bad)

	require.Equal(t, Blocked, c.Advance())
	errs := c.Errors()
	require.Contains(t, errs, "sender.email")
	require.Contains(t, errs, "sender.phone")
	require.NotContains(t, errs, "sender.name") // "jo" is 2 chars, passes
}

func TestDetailsRequiresOperator(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepDetails)
	c.SetOperator("")

	require.Equal(t, Blocked, c.Advance())
	require.Contains(t, c.Errors(), "operator")

	c.SetOperator("Teller 1")
	require.Equal(t, Moved, c.Advance())
}

func TestAmountGate(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepAmount)

	c.SetAmount("")
	require.Equal(t, Blocked, c.Advance())
	require.Equal(t, "Please enter an amount", c.Errors()["amount"])

	c.SetAmount("-3")
	require.Equal(t, Blocked, c.Advance())
	require.Equal(t, "Amount must be greater than zero", c.Errors()["amount"])

	c.SetAmount("250")
	require.Equal(t, Moved, c.Advance())
	require.Equal(t, StepConfirm, c.ActiveStep())
}

func TestTermsGateOnConfirm(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepConfirm)
	c.SetTerms(false)

	require.Equal(t, Blocked, c.Advance())
	require.Equal(t, StepConfirm, c.ActiveStep())
	require.Contains(t, c.Errors(), "terms")

	c.SetTerms(true)
	require.Equal(t, Submit, c.Advance())
	require.Equal(t, StepConfirm, c.ActiveStep())
}

func TestFieldChangeClearsOnlyItsError(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepDetails)
	c.SetSourceOfFunds("")
	c.SetPurpose("")

	require.Equal(t, Blocked, c.Advance())
	require.Len(t, c.Errors(), 2)

	c.SetSourceOfFunds("cash")
	errs := c.Errors()
	require.NotContains(t, errs, "sourceOfFunds")
	require.Contains(t, errs, "purposeOfTransfer", "other errors stay until revalidation")
}

func TestDerivedAmountsRecompute(t *testing.T) {
	t.Parallel()

	c := New()
	c.SetCurrencies("USD", "ILS", decimal.RequireFromString("3.69"))
	c.SetAmount("1000")

	d := c.Draft()
	require.Equal(t, "5.00", d.Fee)
	require.Equal(t, "1005.00", d.Total)
	require.Equal(t, "3690.00", d.RecipientAmount)

	c.SetAmount("10")
	d = c.Draft()
	require.Equal(t, "4.99", d.Fee)
	require.Equal(t, "14.99", d.Total)

	c.SetAmount("nonsense")
	d = c.Draft()
	require.Empty(t, d.Fee)
	require.Empty(t, d.Total)
	require.Empty(t, d.RecipientAmount)
}

func TestSameAsSender(t *testing.T) {
	t.Parallel()

	c := New()
	require.Error(t, c.UseSenderAsReceiver())

	sender := validClient("CUST1001", "john")
	c.SetSender(sender)
	require.Equal(t, Moved, c.Advance())

	require.NoError(t, c.UseSenderAsReceiver())
	d := c.Draft()
	require.Equal(t, sender.ID, d.Receiver.ID)
	require.Equal(t, Moved, c.Advance(), "receiver gate passes immediately")
}

func TestGoToOnlyWithinReachedSteps(t *testing.T) {
	t.Parallel()

	c := New()
	require.Error(t, c.GoTo(StepAmount), "cannot skip ahead")
	require.Error(t, c.GoTo(Step(9)))
	require.Error(t, c.GoTo(Step(-1)))

	fillThrough(t, c, StepAmount)
	require.Equal(t, StepAmount, c.MaxReached())

	require.NoError(t, c.GoTo(StepSender))
	require.Equal(t, StepSender, c.ActiveStep())
	require.Equal(t, Backward, c.Direction())

	// forward again, but only as far as previously validated
	require.NoError(t, c.GoTo(StepAmount))
	require.Error(t, c.GoTo(StepConfirm))
}

func TestRetreatAndExit(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepReceiver)

	require.True(t, c.Retreat())
	require.Equal(t, StepSender, c.ActiveStep())
	require.Equal(t, Backward, c.Direction())

	require.False(t, c.Retreat(), "retreat at step 0 signals exit")
}

func TestCompletedFlags(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepDetails)

	require.True(t, c.Completed(StepSender))
	require.True(t, c.Completed(StepReceiver))
	require.False(t, c.Completed(StepDetails))
	require.False(t, c.Completed(StepConfirm))
}

func TestSubmissionLifecycle(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepConfirm)

	require.Equal(t, Submit, c.Advance())
	require.True(t, c.BeginSubmit())
	require.True(t, c.Submitting())
	require.False(t, c.BeginSubmit(), "double submit rejected")
	require.Equal(t, Blocked, c.Advance(), "no navigation mid-submit")

	// failure keeps the draft for retry
	c.FinishSubmit(errors.New("network down"))
	require.False(t, c.Submitting())
	require.False(t, c.Complete())
	require.NotNil(t, c.Draft().Sender)

	require.True(t, c.BeginSubmit())
	c.FinishSubmit(nil)
	require.True(t, c.Complete())
}

func TestBeginSubmitRevalidatesTerms(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepConfirm)
	c.SetTerms(false)

	require.False(t, c.BeginSubmit())
	require.Contains(t, c.Errors(), "terms")
	require.False(t, c.Submitting())
}

func TestResetIsIdempotent(t *testing.T) {
	t.Parallel()

	c := New()
	fillThrough(t, c, StepConfirm)
	require.Equal(t, Submit, c.Advance())
	require.True(t, c.BeginSubmit())
	c.FinishSubmit(nil)
	require.True(t, c.Complete())

	c.Reset()
	first := *c
	c.Reset()

	require.Equal(t, StepSender, c.ActiveStep())
	require.Equal(t, NewDraft(), c.Draft())
	require.Empty(t, c.Errors())
	require.False(t, c.Complete())
	require.Equal(t, first.draft, c.draft)
	require.Equal(t, first.active, c.active)
	require.Equal(t, first.maxReached, c.maxReached)
}

func TestStepDefinitionsFixed(t *testing.T) {
	t.Parallel()

	require.Len(t, Steps, 5)
	require.Equal(t, "Sender", StepSender.String())
	require.Equal(t, "Confirm", StepConfirm.String())
	require.Equal(t, "unknown", Step(7).String())
}
