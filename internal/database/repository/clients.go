package repository

import (
	"context"
	"database/sql"
)

// ClientRepo handles client rows.
type ClientRepo struct {
	db DBTX
}

func NewClientRepo(db DBTX) *ClientRepo { return &ClientRepo{db: db} }

func (r *ClientRepo) Insert(ctx context.Context, c Client) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO clients(
	 id, name, phone, email, address, country, id_type, id_number, bank_account,
	 currency, status, kyc_verified, risk_rating, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		c.ID, c.Name, c.Phone, c.Email, c.Address, c.Country, c.IDType, c.IDNumber,
		c.BankAccount, c.Currency, c.Status, c.KYCVerified, c.RiskRating)
	return err
}

func (r *ClientRepo) Get(ctx context.Context, id string) (*Client, error) {
	row := r.db.QueryRowContext(ctx, clientColumns+` WHERE id = ?`, id)
	c, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) List(ctx context.Context) ([]Client, error) {
	rows, err := r.db.QueryContext(ctx, clientColumns+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClients(rows)
}

// Match returns clients whose name, phone or id contains q, case-insensitive.
// An empty q matches everyone. Ranking happens in the directory service.
func (r *ClientRepo) Match(ctx context.Context, q string) ([]Client, error) {
	if q == "" {
		return r.List(ctx)
	}
	like := "%" + q + "%"
	rows, err := r.db.QueryContext(ctx, clientColumns+`
	WHERE name LIKE ? COLLATE NOCASE
	   OR phone LIKE ? COLLATE NOCASE
	   OR id LIKE ? COLLATE NOCASE
	ORDER BY name`, like, like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClients(rows)
}

func (r *ClientRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

const clientColumns = `SELECT id, name, phone, email, address, country, id_type,
 id_number, bank_account, currency, status, kyc_verified, risk_rating,
 created_at, updated_at FROM clients`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Country,
		&c.IDType, &c.IDNumber, &c.BankAccount, &c.Currency, &c.Status,
		&c.KYCVerified, &c.RiskRating, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectClients(rows *sql.Rows) ([]Client, error) {
	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
