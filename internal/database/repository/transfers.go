package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransferFilters defines list filters for the transactions screen.
type TransferFilters struct {
	Kind   string // empty = all
	Status string // empty = all
	Search string // matches id, sender name, receiver name, amount
	Since  time.Time
}

// TransferRepo handles transfer rows.
type TransferRepo struct {
	db DBTX
}

func NewTransferRepo(db DBTX) *TransferRepo { return &TransferRepo{db: db} }

// WithTx returns a copy bound to the given transaction.
func (r *TransferRepo) WithTx(tx *sql.Tx) *TransferRepo { return &TransferRepo{db: tx} }

func (r *TransferRepo) Insert(ctx context.Context, t Transfer) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transfers(
	 id, sender_id, receiver_id, kind, source_of_funds, purpose, method,
	 amount, fee, total, rate, recipient_amount, source_currency, target_currency,
	 operator, status, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		t.ID, t.SenderID, t.ReceiverID, t.Kind, t.SourceOfFunds, t.Purpose, t.Method,
		t.Amount.String(), t.Fee.String(), t.Total.String(), t.Rate.String(),
		t.RecipientAmount.String(), t.SourceCurrency, t.TargetCurrency,
		t.Operator, t.Status, t.CreatedAt)
	return err
}

func (r *TransferRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transfers SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *TransferRepo) Get(ctx context.Context, id string) (*Transfer, error) {
	row := r.db.QueryRowContext(ctx, transferSelect+` WHERE t.id = ?`, id)
	t, err := scanTransfer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransferRepo) List(ctx context.Context, f TransferFilters) ([]Transfer, error) {
	var where []string
	var args []interface{}

	if f.Kind != "" {
		where = append(where, "t.kind = ?")
		args = append(args, f.Kind)
	}
	if f.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, f.Status)
	}
	if f.Search != "" {
		where = append(where, `(t.id LIKE ? COLLATE NOCASE
		 OR s.name LIKE ? COLLATE NOCASE
		 OR rc.name LIKE ? COLLATE NOCASE
		 OR t.amount LIKE ?)`)
		like := "%" + f.Search + "%"
		args = append(args, like, like, like, like)
	}
	if !f.Since.IsZero() {
		where = append(where, "t.created_at >= ?")
		args = append(args, f.Since)
	}

	query := transferSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const transferSelect = `SELECT t.id, t.sender_id, t.receiver_id, s.name, rc.name,
 t.kind, t.source_of_funds, t.purpose, t.method, t.amount, t.fee, t.total, t.rate,
 t.recipient_amount, t.source_currency, t.target_currency, t.operator, t.status,
 t.created_at
 FROM transfers t
 JOIN clients s ON s.id = t.sender_id
 JOIN clients rc ON rc.id = t.receiver_id`

func scanTransfer(row rowScanner) (Transfer, error) {
	var t Transfer
	var amount, fee, total, rate, recipient string
	err := row.Scan(&t.ID, &t.SenderID, &t.ReceiverID, &t.SenderName, &t.ReceiverName,
		&t.Kind, &t.SourceOfFunds, &t.Purpose, &t.Method, &amount, &fee, &total,
		&rate, &recipient, &t.SourceCurrency, &t.TargetCurrency, &t.Operator,
		&t.Status, &t.CreatedAt)
	if err != nil {
		return Transfer{}, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Transfer{}, err
	}
	if t.Fee, err = decimal.NewFromString(fee); err != nil {
		return Transfer{}, err
	}
	if t.Total, err = decimal.NewFromString(total); err != nil {
		return Transfer{}, err
	}
	if t.Rate, err = decimal.NewFromString(rate); err != nil {
		return Transfer{}, err
	}
	if t.RecipientAmount, err = decimal.NewFromString(recipient); err != nil {
		return Transfer{}, err
	}
	return t, nil
}
