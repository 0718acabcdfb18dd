package wizard

// Step is a zero-based position in the send-money flow.
type Step int

const (
	StepSender Step = iota
	StepReceiver
	StepDetails
	StepAmount
	StepConfirm
)

// StepDefinition is the immutable description of one step. Only the active
// index and derived completed flags ever change at runtime.
type StepDefinition struct {
	Title       string
	Description string
}

// Steps is the fixed five-step sequence.
var Steps = [5]StepDefinition{
	{Title: "Sender", Description: "Select who is sending the money"},
	{Title: "Receiver", Description: "Select who will receive the money"},
	{Title: "Details", Description: "Specify transfer details"},
	{Title: "Amount", Description: "Enter amount and review fees"},
	{Title: "Confirm", Description: "Review and confirm transfer"},
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(Steps) {
		return "unknown"
	}
	return Steps[s].Title
}

// lastStep is the Confirm index.
const lastStep = StepConfirm

// Direction records which way the most recent transition went, for the host
// view's enter/exit animation and back-navigation semantics.
type Direction int

const (
	Forward Direction = iota
	Backward
)
