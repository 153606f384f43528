package orders

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PGMirror persists orders to Postgres. The in-memory ledger stays
// authoritative for the running process; the mirror gives operators a
// durable copy to query and export from.
type PGMirror struct {
	db *sqlx.DB
}

// NewPGMirror wraps an open connection; the schema comes from migrations.
func NewPGMirror(db *sqlx.DB) *PGMirror {
	return &PGMirror{db: db}
}

const insertOrderSQL = `
INSERT INTO orders (
    id, user_id, username, lang,
    product_id, product_text, price, upsell_id, upsell_price, total,
    name, phone, city, delivery, address, date, payment,
    comments, occasion, source, status, created_at
) VALUES (
    :id, :user_id, :username, :lang,
    :product_id, :product_text, :price, :upsell_id, :upsell_price, :total,
    :name, :phone, :city, :delivery, :address, :date, :payment,
    :comments, :occasion, :source, :status, :created_at
)
ON CONFLICT (id) DO NOTHING`

// Save inserts the record; replays of the same id are ignored.
func (m *PGMirror) Save(ctx context.Context, rec Record) error {
	if _, err := m.db.NamedExecContext(ctx, insertOrderSQL, rec); err != nil {
		return fmt.Errorf("orders: save %s: %w", rec.ID, err)
	}
	return nil
}

// SetStatus updates the operator decision.
func (m *PGMirror) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := m.db.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("orders: set status %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("orders: set status %s: not found", id)
	}
	return nil
}

// Load returns all mirrored orders in commit order.
func (m *PGMirror) Load(ctx context.Context) ([]Record, error) {
	var out []Record
	if err := m.db.SelectContext(ctx, &out, `SELECT * FROM orders ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("orders: load: %w", err)
	}
	return out, nil
}
