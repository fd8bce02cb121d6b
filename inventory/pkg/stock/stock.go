// Package stock reserves and releases inventory for orders.
package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

// Line is a product and quantity to reserve.
type Line struct {
	ProductID string
	Quantity  int64
}

// Reserver reserves stock for a whole order. Reserve is all-or-nothing: when
// any line lacks stock nothing is decremented.
type Reserver interface {
	Reserve(ctx context.Context, lines []Line) error
	Release(ctx context.Context, lines []Line) error
}

// InsufficientStockError names the first line that could not be reserved.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// AsAppError converts to the shared taxonomy so handlers can render it.
func (e *InsufficientStockError) AsAppError() *apperr.Error {
	return apperr.Wrap(e, apperr.KindValidation, apperr.CodeInsufficientStock,
		fmt.Sprintf("insufficient stock for product %s", e.ProductID)).
		With("product_id", e.ProductID).
		With("requested", e.Requested).
		With("available", e.Available)
}

// Merge sums quantities per product and sorts by product id, so the same
// product listed twice is checked against its combined quantity.
func Merge(lines []Line) []Line {
	sums := make(map[string]int64, len(lines))
	for _, l := range lines {
		sums[l.ProductID] += l.Quantity
	}
	out := make([]Line, 0, len(sums))
	for id, q := range sums {
		out = append(out, Line{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
