package capabilities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

// RedisKey is where the snapshot lives in Redis.
const RedisKey = "payments:capabilities"

// maxMutateAttempts bounds the compare-and-set retries of a single Mutate.
const maxMutateAttempts = 8

// ErrContended is returned when every Mutate attempt lost to another writer.
var ErrContended = errors.New("capabilities: too many concurrent writers")

type RedisStore struct {
	rdb redis.UniversalClient
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	return decodeRedis(s.rdb.Get(ctx, RedisKey).Bytes())
}

// Mutate watches the key, applies fn and commits in MULTI/EXEC. A write by
// anyone else between the read and EXEC aborts the transaction and fn runs
// again on the fresh value.
func (s *RedisStore) Mutate(ctx context.Context, fn MutateFunc) (*Snapshot, error) {
	var out *Snapshot
	txf := func(tx *redis.Tx) error {
		cur, err := decodeRedis(tx.Get(ctx, RedisKey).Bytes())
		if err != nil {
			return err
		}
		next, err := fn(cur)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, RedisKey, raw, 0)
			return nil
		})
		if err == nil {
			out = next
		}
		return err
	}

	for i := 0; i < maxMutateAttempts; i++ {
		err := s.rdb.Watch(ctx, txf, RedisKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, ErrContended
}

func decodeRedis(raw []byte, err error) (*Snapshot, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, corrupt(err)
	}
	return &snap, nil
}

var sqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS payment_capabilities (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		body    TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 0
	)`,
}

// SQLStore keeps the snapshot in the shared database when Redis is not configured.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if err := sqlitedb.Migrate(ctx, db, sqlSchema); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Load(ctx context.Context) (*Snapshot, error) {
	snap, _, err := s.read(ctx)
	return snap, err
}

// read returns the stored snapshot with its version; version is -1 when the
// row does not exist yet.
func (s *SQLStore) read(ctx context.Context) (*Snapshot, int64, error) {
	var (
		raw     string
		version int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT body, version FROM payment_capabilities WHERE id = 1`).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, -1, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, 0, corrupt(err)
	}
	return &snap, version, nil
}

// Mutate reads the row and its version, applies fn and writes back only if
// the version is unchanged. The read is outside any transaction so fn may
// block without pinning the connection.
func (s *SQLStore) Mutate(ctx context.Context, fn MutateFunc) (*Snapshot, error) {
	for i := 0; i < maxMutateAttempts; i++ {
		cur, version, err := s.read(ctx)
		if err != nil {
			return nil, err
		}
		next, err := fn(cur)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, err
		}

		var res sql.Result
		if version < 0 {
			res, err = s.db.ExecContext(ctx,
				`INSERT INTO payment_capabilities (id, body, version) VALUES (1, ?, 1)
				 ON CONFLICT (id) DO NOTHING`, string(raw))
		} else {
			res, err = s.db.ExecContext(ctx,
				`UPDATE payment_capabilities SET body = ?, version = version + 1
				 WHERE id = 1 AND version = ?`, string(raw), version)
		}
		if err != nil {
			return nil, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if n == 1 {
			return next, nil
		}
	}
	return nil, ErrContended
}
