// Package storage persists orders, their timelines and processed webhook
// deliveries in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbakhodurov/week1/order/pkg/models"
	"github.com/mbakhodurov/week1/shared/pkg/apperr"
	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		order_uuid   TEXT PRIMARY KEY,
		user_uuid    TEXT NOT NULL,
		items        TEXT NOT NULL,
		total        TEXT NOT NULL,
		currency     TEXT NOT NULL,
		status       TEXT NOT NULL,
		idem_key     TEXT,
		provider     TEXT NOT NULL DEFAULT '',
		provider_ref TEXT NOT NULL DEFAULT '',
		client_token TEXT NOT NULL DEFAULT '',
		created_at   INTEGER NOT NULL,
		updated_at   INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_user_idem_key
		ON orders(user_uuid, idem_key) WHERE idem_key IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS orders_user ON orders(user_uuid, created_at)`,
	`CREATE TABLE IF NOT EXISTS order_timeline (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		order_uuid TEXT NOT NULL REFERENCES orders(order_uuid),
		type       TEXT NOT NULL,
		at         INTEGER NOT NULL,
		meta       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS order_timeline_order ON order_timeline(order_uuid, seq)`,
	`CREATE TABLE IF NOT EXISTS webhook_events (
		provider   TEXT NOT NULL,
		event_id   TEXT NOT NULL,
		event_type TEXT NOT NULL,
		claimed_at INTEGER NOT NULL,
		applied_at INTEGER,
		PRIMARY KEY (provider, event_id)
	)`,
}

// DefaultClaimLease is how long an unapplied webhook claim blocks redeliveries
// of the same event.
const DefaultClaimLease = 2 * time.Minute

// Storage is the SQLite-backed order repository.
type Storage struct {
	db         *sql.DB
	now        func() time.Time
	claimLease time.Duration
}

var _ models.Storage = (*Storage)(nil)

// NewStorage migrates the schema and returns a repository over db.
func NewStorage(ctx context.Context, db *sql.DB) (*Storage, error) {
	if err := sqlitedb.Migrate(ctx, db, schema); err != nil {
		return nil, err
	}
	return &Storage{db: db, now: time.Now, claimLease: DefaultClaimLease}, nil
}

func (s *Storage) CreateOrder(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var key any
	if o.IdempotencyKey != "" {
		key = o.IdempotencyKey
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_uuid, user_uuid, items, total, currency, status, idem_key,
			provider, provider_ref, client_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderUUID, o.UserUUID, string(items), o.Total.String(), o.Currency, string(o.Status), key,
		o.Payment.Provider, o.Payment.ProviderRef, o.Payment.ClientToken,
		o.CreatedAt.UnixNano(), o.UpdatedAt.UnixNano())
	if err != nil {
		if sqlitedb.IsUniqueViolation(err) && key != nil {
			return models.ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, ev := range o.Timeline {
		if err := insertEvent(ctx, tx, o.OrderUUID, ev); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectOrder = `
	SELECT order_uuid, user_uuid, items, total, currency, status, COALESCE(idem_key, ''),
		provider, provider_ref, client_token, created_at, updated_at
	FROM orders`

func (s *Storage) GetOrderByUUID(ctx context.Context, uuid string) (*models.Order, error) {
	return s.getOne(ctx, selectOrder+` WHERE order_uuid = ?`, uuid)
}

func (s *Storage) GetOrderByIdempotencyKey(ctx context.Context, userUUID, key string) (*models.Order, error) {
	return s.getOne(ctx, selectOrder+` WHERE user_uuid = ? AND idem_key = ?`, userUUID, key)
}

func (s *Storage) getOne(ctx context.Context, query string, args ...any) (*models.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Timeline, err = s.timeline(ctx, o.OrderUUID); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrdersByUser returns the user's orders newest first.
func (s *Storage) ListOrdersByUser(ctx context.Context, userUUID string) ([]*models.Order, error) {
	return s.list(ctx, selectOrder+` WHERE user_uuid = ? ORDER BY created_at DESC, order_uuid`, userUUID)
}

// ListOrders returns every order newest first.
func (s *Storage) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.list(ctx, selectOrder+` ORDER BY created_at DESC, order_uuid`)
}

func (s *Storage) list(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.Timeline, err = s.timeline(ctx, o.OrderUUID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Storage) AppendEvent(ctx context.Context, uuid string, ev models.TimelineEvent) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := touch(ctx, tx, uuid, s.now()); err != nil {
			return err
		}
		return insertEvent(ctx, tx, uuid, ev)
	})
}

// SetPayment records the provider authorization for an order together with its event.
func (s *Storage) SetPayment(ctx context.Context, uuid string, p models.PaymentRef, ev models.TimelineEvent) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE orders SET provider = ?, provider_ref = ?, client_token = ?, updated_at = ?
			WHERE order_uuid = ?`,
			p.Provider, p.ProviderRef, p.ClientToken, s.now().UnixNano(), uuid)
		if err != nil {
			return err
		}
		if err := mustAffect(res, apperr.ErrOrderNotFound); err != nil {
			return err
		}
		return insertEvent(ctx, tx, uuid, ev)
	})
}

func (s *Storage) Transition(ctx context.Context, uuid string, from []models.OrderStatus, to models.OrderStatus, evs ...models.TimelineEvent) error {
	if len(from) == 0 {
		return apperr.ErrInvalidTransition
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		args := []any{string(to), s.now().UnixNano(), uuid}
		for _, f := range from {
			args = append(args, string(f))
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = ?, updated_at = ?
			WHERE order_uuid = ? AND status IN (`+placeholders(len(from))+`)`, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			var exists int
			err := tx.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE order_uuid = ?`, uuid).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.ErrOrderNotFound
			}
			if err != nil {
				return err
			}
			return apperr.ErrInvalidTransition
		}
		for _, ev := range evs {
			if err := insertEvent(ctx, tx, uuid, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// Claim takes a lease on a webhook delivery. It reports false when the same
// provider event id was already applied or another delivery holds a lease
// younger than the claim lease. An older unapplied lease belongs to a
// delivery that died mid-apply and is taken over.
func (s *Storage) Claim(ctx context.Context, provider, eventID, eventType string) (bool, error) {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO webhook_events (provider, event_id, event_type, claimed_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (provider, event_id) DO UPDATE SET claimed_at = excluded.claimed_at
		WHERE webhook_events.applied_at IS NULL AND webhook_events.claimed_at < ?`,
		provider, eventID, eventType, now.UnixNano(), now.Add(-s.claimLease).UnixNano())
	if err != nil {
		return false, fmt.Errorf("claim webhook event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim webhook event: %w", err)
	}
	return n == 1, nil
}

// Complete marks a claimed delivery as applied; it is never reclaimed after.
func (s *Storage) Complete(ctx context.Context, provider, eventID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE webhook_events SET applied_at = ? WHERE provider = ? AND event_id = ?`,
		s.now().UnixNano(), provider, eventID)
	return err
}

func (s *Storage) Release(ctx context.Context, provider, eventID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM webhook_events WHERE provider = ? AND event_id = ? AND applied_at IS NULL`, provider, eventID)
	return err
}

func (s *Storage) timeline(ctx context.Context, uuid string) ([]models.TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, at, meta FROM order_timeline WHERE order_uuid = ? ORDER BY seq`, uuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.TimelineEvent{}
	for rows.Next() {
		var (
			typ  string
			at   int64
			meta sql.NullString
		)
		if err := rows.Scan(&typ, &at, &meta); err != nil {
			return nil, err
		}
		ev := models.TimelineEvent{Type: models.EventType(typ), At: time.Unix(0, at).UTC()}
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &ev.Meta); err != nil {
				return nil, fmt.Errorf("decode timeline meta: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Storage) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*models.Order, error) {
	var (
		o                  models.Order
		items, total, stat string
		created, updated   int64
	)
	err := row.Scan(&o.OrderUUID, &o.UserUUID, &items, &total, &o.Currency, &stat, &o.IdempotencyKey,
		&o.Payment.Provider, &o.Payment.ProviderRef, &o.Payment.ClientToken, &created, &updated)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("decode total: %w", err)
	}
	o.Status = models.OrderStatus(stat)
	o.CreatedAt = time.Unix(0, created).UTC()
	o.UpdatedAt = time.Unix(0, updated).UTC()
	return &o, nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, uuid string, ev models.TimelineEvent) error {
	var meta any
	if len(ev.Meta) > 0 {
		raw, err := json.Marshal(ev.Meta)
		if err != nil {
			return fmt.Errorf("encode timeline meta: %w", err)
		}
		meta = string(raw)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO order_timeline (order_uuid, type, at, meta) VALUES (?, ?, ?, ?)`,
		uuid, string(ev.Type), ev.At.UnixNano(), meta)
	if err != nil {
		return fmt.Errorf("append %s: %w", ev.Type, err)
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, uuid string, at time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE orders SET updated_at = ? WHERE order_uuid = ?`, at.UnixNano(), uuid)
	if err != nil {
		return err
	}
	return mustAffect(res, apperr.ErrOrderNotFound)
}

func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
