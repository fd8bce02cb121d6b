// Package cart reads the shopping cart the storefront keeps in Redis.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mbakhodurov/week1/order/pkg/models"
)

type Cart struct {
	Items []models.LineItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

func (c *Cart) Empty() bool { return c == nil || len(c.Items) == 0 }

// Reader is the order service's view of cart storage: read it, and clear it
// after a successful capture.
type Reader interface {
	GetCart(ctx context.Context, userUUID string) (*Cart, error)
	ClearCart(ctx context.Context, userUUID string) error
}

func Key(userUUID string) string { return "cart:" + userUUID }

type RedisReader struct {
	rdb redis.UniversalClient
}

func NewRedisReader(rdb redis.UniversalClient) *RedisReader {
	return &RedisReader{rdb: rdb}
}

// GetCart returns an empty cart when the user has none.
func (r *RedisReader) GetCart(ctx context.Context, userUUID string) (*Cart, error) {
	raw, err := r.rdb.Get(ctx, Key(userUUID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &c, nil
}

func (r *RedisReader) ClearCart(ctx context.Context, userUUID string) error {
	return r.rdb.Del(ctx, Key(userUUID)).Err()
}

// None is used when no cart store is configured; every cart is empty.
type None struct{}

func (None) GetCart(context.Context, string) (*Cart, error) { return &Cart{}, nil }
func (None) ClearCart(context.Context, string) error        { return nil }
