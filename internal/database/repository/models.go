package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a client row: the sender or receiver of a transfer.
type Client struct {
	ID          string
	Name        string
	Phone       string
	Email       string
	Address     string
	Country     string
	IDType      string
	IDNumber    string
	BankAccount string
	Currency    string // preferred payout currency, may be empty
	Status      string
	KYCVerified bool
	RiskRating  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Client statuses.
const (
	ClientActive  = "Active"
	ClientPending = "Pending"
)

// Transfer represents a recorded transaction row.
type Transfer struct {
	ID              string
	SenderID        string
	ReceiverID      string
	SenderName      string // joined, not stored
	ReceiverName    string // joined, not stored
	Kind            string // Remittance, Exchange, Deposit, Withdrawal
	SourceOfFunds   string
	Purpose         string
	Method          string // bank, instant, scheduled, cash_pickup
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	Total           decimal.Decimal
	Rate            decimal.Decimal
	RecipientAmount decimal.Decimal
	SourceCurrency  string
	TargetCurrency  string
	Operator        string
	Status          string
	CreatedAt       time.Time
}

// Transfer kinds.
const (
	KindRemittance = "Remittance"
	KindExchange   = "Exchange"
	KindDeposit    = "Deposit"
	KindWithdrawal = "Withdrawal"
)

// Transfer statuses.
const (
	TransferCompleted = "Completed"
	TransferPending   = "Pending"
	TransferFailed    = "Failed"
)

// Payout represents a payout order awaiting collection by the receiver.
type Payout struct {
	ID           string
	TransferID   string
	ReceiverID   string
	ReceiverName string // joined, not stored
	Amount       decimal.Decimal
	Currency     string
	Status       string
	Operator     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Payout statuses.
const (
	PayoutPendingPickup = "Pending Pickup"
	PayoutReady         = "Ready"
	PayoutPaid          = "Paid"
	PayoutCancelled     = "Cancelled"
)

// RegisterMovement is one cash-drawer entry with its running balance.
type RegisterMovement struct {
	ID         string
	Direction  string // "in" or "out"
	Amount     decimal.Decimal
	Currency   string
	Balance    decimal.Decimal
	Reason     string
	TransferID *string
	CreatedAt  time.Time
}

// Register directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)
