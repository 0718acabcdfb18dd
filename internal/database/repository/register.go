package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

// RegisterRepo handles cash-drawer movements.
type RegisterRepo struct {
	db DBTX
}

func NewRegisterRepo(db DBTX) *RegisterRepo { return &RegisterRepo{db: db} }

// WithTx returns a copy bound to the given transaction.
func (r *RegisterRepo) WithTx(tx *sql.Tx) *RegisterRepo { return &RegisterRepo{db: tx} }

func (r *RegisterRepo) Insert(ctx context.Context, m RegisterMovement) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO register_movements(id, direction, amount, currency, balance, reason, transfer_id, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?);
	`,
		m.ID, m.Direction, m.Amount.String(), m.Currency, m.Balance.String(),
		m.Reason, m.TransferID, m.CreatedAt)
	return err
}

// List returns movements newest first, optionally limited to one currency.
func (r *RegisterRepo) List(ctx context.Context, currency string) ([]RegisterMovement, error) {
	query := `SELECT id, direction, amount, currency, balance, reason, transfer_id, created_at
	 FROM register_movements`
	var args []interface{}
	if currency != "" {
		query += ` WHERE currency = ?`
		args = append(args, currency)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegisterMovement
	for rows.Next() {
		var m RegisterMovement
		var amount, balance string
		if err := rows.Scan(&m.ID, &m.Direction, &amount, &m.Currency, &balance,
			&m.Reason, &m.TransferID, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		if m.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Balance returns the running balance for currency, zero when the drawer has
// no movements yet.
func (r *RegisterRepo) Balance(ctx context.Context, currency string) (decimal.Decimal, error) {
	var s string
	err := r.db.QueryRowContext(ctx, `
	SELECT balance FROM register_movements
	WHERE currency = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1`, currency).Scan(&s)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}
