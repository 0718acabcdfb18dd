package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shopspring/decimal"
)

// PayoutRepo handles payout orders.
type PayoutRepo struct {
	db DBTX
}

func NewPayoutRepo(db DBTX) *PayoutRepo { return &PayoutRepo{db: db} }

// WithTx returns a copy bound to the given transaction.
func (r *PayoutRepo) WithTx(tx *sql.Tx) *PayoutRepo { return &PayoutRepo{db: tx} }

func (r *PayoutRepo) Insert(ctx context.Context, p Payout) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO payouts(id, transfer_id, receiver_id, amount, currency, status, operator, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		p.ID, p.TransferID, p.ReceiverID, p.Amount.String(), p.Currency,
		p.Status, p.Operator, p.CreatedAt, p.CreatedAt)
	return err
}

func (r *PayoutRepo) Get(ctx context.Context, id string) (*Payout, error) {
	row := r.db.QueryRowContext(ctx, payoutSelect+` WHERE p.id = ?`, id)
	p, err := scanPayout(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payouts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

// List returns payouts, optionally limited to the given statuses.
func (r *PayoutRepo) List(ctx context.Context, statuses ...string) ([]Payout, error) {
	query := payoutSelect
	var args []interface{}
	if len(statuses) > 0 {
		marks := make([]string, len(statuses))
		for i, s := range statuses {
			marks[i] = "?"
			args = append(args, s)
		}
		query += " WHERE p.status IN (" + strings.Join(marks, ", ") + ")"
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payout
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const payoutSelect = `SELECT p.id, p.transfer_id, p.receiver_id, c.name, p.amount,
 p.currency, p.status, p.operator, p.created_at, p.updated_at
 FROM payouts p
 JOIN clients c ON c.id = p.receiver_id`

func scanPayout(row rowScanner) (Payout, error) {
	var p Payout
	var amount string
	err := row.Scan(&p.ID, &p.TransferID, &p.ReceiverID, &p.ReceiverName,
		&amount, &p.Currency, &p.Status, &p.Operator, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payout{}, err
	}
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return Payout{}, err
	}
	return p, nil
}
