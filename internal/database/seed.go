package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/globalremit/teller/internal/database/repository"
)

// SeedDemo loads the demo dataset for a fresh database: the four walk-in
// clients plus enough historical transfers, payouts and drawer movements to
// populate the listing screens. It is idempotent and safe to run on every
// startup.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	clients := repository.NewClientRepo(db)
	if n, err := clients.Count(ctx); err != nil {
		return err
	} else if n > 0 {
		return nil
	}

	for _, c := range demoClients() {
		if err := clients.Insert(ctx, c); err != nil {
			return err
		}
	}

	transfers := repository.NewTransferRepo(db)
	payouts := repository.NewPayoutRepo(db)
	register := repository.NewRegisterRepo(db)

	now := Now()
	for _, t := range demoTransfers(now) {
		if err := transfers.Insert(ctx, t); err != nil {
			return err
		}
	}
	for _, p := range demoPayouts(now) {
		if err := payouts.Insert(ctx, p); err != nil {
			return err
		}
	}

	// opening float plus the cash receipts of the seeded transfers
	balance := decimal.NewFromInt(5000)
	openFloat := repository.RegisterMovement{
		ID:        "MOV0001",
		Direction: repository.MovementIn,
		Amount:    balance,
		Currency:  "USD",
		Balance:   balance,
		Reason:    "Opening float",
		CreatedAt: now.Add(-48 * time.Hour),
	}
	if err := register.Insert(ctx, openFloat); err != nil {
		return err
	}
	txn123 := "TXN123"
	receipt := decimal.RequireFromString("1005.00")
	balance = balance.Add(receipt)
	cashIn := repository.RegisterMovement{
		ID:         "MOV0002",
		Direction:  repository.MovementIn,
		Amount:     receipt,
		Currency:   "USD",
		Balance:    balance,
		Reason:     "Cash received for transfer",
		TransferID: &txn123,
		CreatedAt:  now.Add(-24 * time.Hour),
	}
	return register.Insert(ctx, cashIn)
}

func demoClients() []repository.Client {
	return []repository.Client{
		{
			ID: "CUST1001", Name: "John Smith", Phone: "+1 555-123-4567",
			Email: "john.smith@example.com", Address: "123 Main St, New York, NY",
			Country: "USA", IDType: "passport", IDNumber: "P12345678",
			BankAccount: "****1234", Currency: "USD",
			Status: repository.ClientActive, KYCVerified: true, RiskRating: "low",
		},
		{
			ID: "CUST1002", Name: "Maria Garcia", Phone: "+1 555-567-8901",
			Email: "maria.garcia@example.com", Address: "456 Oak St, Miami, FL",
			Country: "USA", IDType: "drivers_license", IDNumber: "DL87654321",
			BankAccount: "****5678", Currency: "EUR",
			Status: repository.ClientActive, KYCVerified: true, RiskRating: "low",
		},
		{
			ID: "CUST1003", Name: "David Johnson", Phone: "+1 555-901-2345",
			Email: "david.johnson@example.com", Address: "789 Pine St, Chicago, IL",
			Country: "USA", IDType: "passport", IDNumber: "P98765432",
			BankAccount: "****9012", Currency: "GBP",
			Status: repository.ClientActive, KYCVerified: true, RiskRating: "low",
		},
		{
			ID: "CUST1004", Name: "Sarah Williams", Phone: "+1 555-345-6789",
			Email: "sarah.williams@example.com", Address: "321 Elm St, Los Angeles, CA",
			Country: "USA", IDType: "drivers_license", IDNumber: "DL12345678",
			BankAccount: "****3456", Currency: "JPY",
			Status: repository.ClientActive, KYCVerified: true, RiskRating: "low",
		},
	}
}

func demoTransfers(now time.Time) []repository.Transfer {
	d := decimal.RequireFromString
	return []repository.Transfer{
		{
			ID: "TXN123", SenderID: "CUST1001", ReceiverID: "CUST1002",
			Kind: repository.KindRemittance, SourceOfFunds: "cash",
			Purpose: "family_support", Method: "bank",
			Amount: d("1000"), Fee: d("5.00"), Total: d("1005.00"),
			Rate: d("0.92"), RecipientAmount: d("920.00"),
			SourceCurrency: "USD", TargetCurrency: "EUR",
			Operator: "Teller 1", Status: repository.TransferCompleted,
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "TXN127", SenderID: "CUST1003", ReceiverID: "CUST1004",
			Kind: repository.KindRemittance, SourceOfFunds: "bank_transfer",
			Purpose: "business", Method: "cash_pickup",
			Amount: d("750"), Fee: d("4.99"), Total: d("754.99"),
			Rate: d("3.69"), RecipientAmount: d("2767.50"),
			SourceCurrency: "USD", TargetCurrency: "ILS",
			Operator: "Teller 1", Status: repository.TransferCompleted,
			CreatedAt: now.Add(-20 * time.Hour),
		},
		{
			ID: "TXN128", SenderID: "CUST1002", ReceiverID: "CUST1001",
			Kind: repository.KindExchange, SourceOfFunds: "cash",
			Purpose: "other", Method: "instant",
			Amount: d("200"), Fee: d("4.99"), Total: d("204.99"),
			Rate: d("0.92"), RecipientAmount: d("184.00"),
			SourceCurrency: "USD", TargetCurrency: "EUR",
			Operator: "Teller 2", Status: repository.TransferCompleted,
			CreatedAt: now.Add(-8 * time.Hour),
		},
		{
			ID: "TXN129", SenderID: "CUST1004", ReceiverID: "CUST1003",
			Kind: repository.KindRemittance, SourceOfFunds: "mobile_money",
			Purpose: "education", Method: "bank",
			Amount: d("1000"), Fee: d("5.00"), Total: d("1005.00"),
			Rate: d("1"), RecipientAmount: d("1000.00"),
			SourceCurrency: "USD", TargetCurrency: "USD",
			Operator: "Teller 1", Status: repository.TransferFailed,
			CreatedAt: now.Add(-3 * time.Hour),
		},
	}
}

func demoPayouts(now time.Time) []repository.Payout {
	d := decimal.RequireFromString
	return []repository.Payout{
		{
			ID: "POUT001", TransferID: "TXN123", ReceiverID: "CUST1002",
			Amount: d("920.00"), Currency: "EUR",
			Status: repository.PayoutPendingPickup, Operator: "Teller 1",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "POUT002", TransferID: "TXN127", ReceiverID: "CUST1004",
			Amount: d("2767.50"), Currency: "ILS",
			Status: repository.PayoutReady, Operator: "Teller 1",
			CreatedAt: now.Add(-20 * time.Hour),
		},
		{
			ID: "POUT003", TransferID: "TXN128", ReceiverID: "CUST1001",
			Amount: d("184.00"), Currency: "EUR",
			Status: repository.PayoutPaid, Operator: "Teller 2",
			CreatedAt: now.Add(-8 * time.Hour),
		},
		{
			ID: "POUT004", TransferID: "TXN129", ReceiverID: "CUST1003",
			Amount: d("1000.00"), Currency: "USD",
			Status: repository.PayoutCancelled, Operator: "Teller 1",
			CreatedAt: now.Add(-3 * time.Hour),
		},
	}
}
