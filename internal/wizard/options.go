package wizard

// Option is a stable value with a display label.
type Option struct {
	Value string
	Label string
}

// Static option tables for the Details step. Centralized here so screens share
// one copy by reference.
var (
	SourceOfFundsOptions = []Option{
		{Value: "cash", Label: "Cash"},
		{Value: "bank_transfer", Label: "Bank Transfer"},
		{Value: "mobile_money", Label: "Mobile Money"},
	}

	PurposeOptions = []Option{
		{Value: "family_support", Label: "Family Support"},
		{Value: "business", Label: "Business"},
		{Value: "education", Label: "Education"},
		{Value: "medical", Label: "Medical"},
		{Value: "other", Label: "Other"},
	}

	TransferTypeOptions = []Option{
		{Value: "bank", Label: "Bank Deposit"},
		{Value: "instant", Label: "Instant"},
		{Value: "scheduled", Label: "Scheduled"},
		{Value: "cash_pickup", Label: "Cash Pickup"},
	}

	IDTypeOptions = []Option{
		{Value: "passport", Label: "Passport"},
		{Value: "drivers_license", Label: "Driver License"},
		{Value: "national_id", Label: "National ID"},
	}

	RiskRatingOptions = []Option{
		{Value: "low", Label: "Low"},
		{Value: "medium", Label: "Medium"},
		{Value: "high", Label: "High"},
	}
)

// OptionLabel resolves value against opts, falling back to the raw value.
func OptionLabel(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
