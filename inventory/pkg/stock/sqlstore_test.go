package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbakhodurov/week1/shared/pkg/sqlitedb"
)

func newStore(t *testing.T) *SQLStore {
	t.Helper()
	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, sqlitedb.Memory("stock-"+uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLStore(ctx, db)
	require.NoError(t, err)
	return s
}

func TestReserveDecrementsEveryLine(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Set(ctx, "p1", 5))
	require.NoError(t, s.Set(ctx, "p2", 3))

	err := s.Reserve(ctx, []Line{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 3}})
	require.NoError(t, err)

	q1, _ := s.Get(ctx, "p1")
	q2, _ := s.Get(ctx, "p2")
	assert.Equal(t, int64(3), q1)
	assert.Equal(t, int64(0), q2)
}

func TestReserveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Set(ctx, "p1", 5))
	require.NoError(t, s.Set(ctx, "p2", 1))

	err := s.Reserve(ctx, []Line{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 2}})

	var ise *InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "p2", ise.ProductID)
	assert.Equal(t, int64(2), ise.Requested)
	assert.Equal(t, int64(1), ise.Available)

	q1, _ := s.Get(ctx, "p1")
	q2, _ := s.Get(ctx, "p2")
	assert.Equal(t, int64(5), q1, "p1 must not be decremented")
	assert.Equal(t, int64(1), q2)
}

func TestReserveMergesDuplicateProducts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Set(ctx, "p1", 3))

	err := s.Reserve(ctx, []Line{{ProductID: "p1", Quantity: 2}, {ProductID: "p1", Quantity: 2}})

	var ise *InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(4), ise.Requested)
	q, _ := s.Get(ctx, "p1")
	assert.Equal(t, int64(3), q)
}

func TestReserveUnknownProduct(t *testing.T) {
	s := newStore(t)

	err := s.Reserve(context.Background(), []Line{{ProductID: "ghost", Quantity: 1}})

	var ise *InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(0), ise.Available)
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Set(ctx, "p1", 1))

	require.NoError(t, s.Reserve(ctx, []Line{{ProductID: "p1", Quantity: 1}}))
	require.NoError(t, s.Release(ctx, []Line{{ProductID: "p1", Quantity: 1}, {ProductID: "p9", Quantity: 2}}))

	q1, _ := s.Get(ctx, "p1")
	q9, _ := s.Get(ctx, "p9")
	assert.Equal(t, int64(1), q1)
	assert.Equal(t, int64(2), q9)
}

func TestInsufficientStockAppError(t *testing.T) {
	e := (&InsufficientStockError{ProductID: "p1", Requested: 2, Available: 1}).AsAppError()
	assert.Equal(t, "INSUFFICIENT_STOCK", string(e.Code))
	assert.Equal(t, "p1", e.Fields["product_id"])
}
