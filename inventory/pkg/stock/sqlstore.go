package stock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stock (
		product_id TEXT PRIMARY KEY,
		quantity   INTEGER NOT NULL CHECK (quantity >= 0)
	)`,
}

// SQLStore keeps stock levels in SQLite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if err := sqlitedb.Migrate(ctx, db, schema); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// Reserve decrements every line inside one transaction. The conditional
// UPDATE only matches rows with enough stock; a miss rolls back the lot.
func (s *SQLStore) Reserve(ctx context.Context, lines []Line) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reserve: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range Merge(lines) {
		if l.Quantity < 1 {
			return fmt.Errorf("reserve %s: quantity must be positive", l.ProductID)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE stock SET quantity = quantity - ? WHERE product_id = ? AND quantity >= ?`,
			l.Quantity, l.ProductID, l.Quantity)
		if err != nil {
			return fmt.Errorf("reserve %s: %w", l.ProductID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			available, err := quantityTx(ctx, tx, l.ProductID)
			if err != nil {
				return err
			}
			return &InsufficientStockError{ProductID: l.ProductID, Requested: l.Quantity, Available: available}
		}
	}
	return tx.Commit()
}

// Release returns quantities to stock. Unknown products are created so a
// release is never lost.
func (s *SQLStore) Release(ctx context.Context, lines []Line) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin release: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range Merge(lines) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO stock (product_id, quantity) VALUES (?, ?)
			 ON CONFLICT (product_id) DO UPDATE SET quantity = quantity + excluded.quantity`,
			l.ProductID, l.Quantity); err != nil {
			return fmt.Errorf("release %s: %w", l.ProductID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) Set(ctx context.Context, productID string, quantity int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stock (product_id, quantity) VALUES (?, ?)
		 ON CONFLICT (product_id) DO UPDATE SET quantity = excluded.quantity`,
		productID, quantity)
	return err
}

// Get returns the current quantity; unknown products have zero stock.
func (s *SQLStore) Get(ctx context.Context, productID string) (int64, error) {
	var q int64
	err := s.db.QueryRowContext(ctx, `SELECT quantity FROM stock WHERE product_id = ?`, productID).Scan(&q)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return q, err
}

func quantityTx(ctx context.Context, tx *sql.Tx, productID string) (int64, error) {
	var q int64
	err := tx.QueryRowContext(ctx, `SELECT quantity FROM stock WHERE product_id = ?`, productID).Scan(&q)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return q, err
}
