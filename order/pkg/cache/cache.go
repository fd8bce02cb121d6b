// Package cache is the read-through cache for order details.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbakhodurov/week1/order/pkg/models"
)

// OrderCache never fails its callers: a broken cache behaves like a miss.
type OrderCache interface {
	Get(ctx context.Context, uuid string) (*models.Order, bool)
	Put(ctx context.Context, uuid string, o *models.Order, ttl time.Duration)
	Invalidate(ctx context.Context, uuid string)
}

func Key(uuid string) string { return "order:detail:" + uuid }

type Redis struct {
	rdb redis.UniversalClient
	log *slog.Logger
}

func NewRedis(rdb redis.UniversalClient, log *slog.Logger) *Redis {
	return &Redis{rdb: rdb, log: log}
}

func (c *Redis) Get(ctx context.Context, uuid string) (*models.Order, bool) {
	raw, err := c.rdb.Get(ctx, Key(uuid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.WarnContext(ctx, "order cache read failed", "order_uuid", uuid, "err", err)
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Order == nil {
		c.log.WarnContext(ctx, "order cache entry corrupt", "order_uuid", uuid, "err", err)
		return nil, false
	}
	return e.order(), true
}

func (c *Redis) Put(ctx context.Context, uuid string, o *models.Order, ttl time.Duration) {
	raw, err := json.Marshal(newEntry(o))
	if err != nil {
		c.log.WarnContext(ctx, "order cache encode failed", "order_uuid", uuid, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, Key(uuid), raw, ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "order cache write failed", "order_uuid", uuid, "err", err)
	}
}

func (c *Redis) Invalidate(ctx context.Context, uuid string) {
	if err := c.rdb.Del(ctx, Key(uuid)).Err(); err != nil {
		c.log.WarnContext(ctx, "order cache invalidate failed", "order_uuid", uuid, "err", err)
	}
}

// entry carries the fields models.Order hides from API responses.
type entry struct {
	Order          *models.Order `json:"order"`
	IdempotencyKey string        `json:"idem_key,omitempty"`
	ClientToken    string        `json:"client_token,omitempty"`
}

func newEntry(o *models.Order) entry {
	return entry{Order: o, IdempotencyKey: o.IdempotencyKey, ClientToken: o.Payment.ClientToken}
}

func (e entry) order() *models.Order {
	o := e.Order
	o.IdempotencyKey = e.IdempotencyKey
	o.Payment.ClientToken = e.ClientToken
	return o
}

type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Order, bool)         { return nil, false }
func (Nop) Put(context.Context, string, *models.Order, time.Duration) {}
func (Nop) Invalidate(context.Context, string)                        {}
