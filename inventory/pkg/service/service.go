// Package service exposes the stock store over gRPC.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mbakhodurov/week1/inventory/pkg/stock"
	inventory_v1 "github.com/mbakhodurov/week1/shared/pkg/proto/inventory/v1"
)

// Store is the stock backend served by the inventory service.
type Store interface {
	stock.Reserver
	Set(ctx context.Context, productID string, quantity int64) error
	Get(ctx context.Context, productID string) (int64, error)
}

type InventoryService struct {
	inventory_v1.UnimplementedStockServiceServer

	store Store
	log   *slog.Logger
}

var _ inventory_v1.StockServiceServer = (*InventoryService)(nil)

func New(store Store, log *slog.Logger) *InventoryService {
	return &InventoryService{store: store, log: log}
}

func (i *InventoryService) Reserve(ctx context.Context, rq *inventory_v1.ReserveRequest) (*inventory_v1.ReserveResponse, error) {
	if err := rq.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	lines := toLines(rq.GetLines())

	if err := i.store.Reserve(ctx, lines); err != nil {
		var ise *stock.InsufficientStockError
		if errors.As(err, &ise) {
			return nil, insufficientStatus(ise)
		}
		i.log.ErrorContext(ctx, "reserve failed", "err", err)
		return nil, status.Error(codes.Internal, "reserve failed")
	}
	i.log.InfoContext(ctx, "stock reserved", "lines", len(lines))
	return &inventory_v1.ReserveResponse{}, nil
}

func (i *InventoryService) Release(ctx context.Context, rq *inventory_v1.ReleaseRequest) (*inventory_v1.ReleaseResponse, error) {
	if err := rq.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	lines := toLines(rq.GetLines())
	if err := i.store.Release(ctx, lines); err != nil {
		i.log.ErrorContext(ctx, "release failed", "err", err)
		return nil, status.Error(codes.Internal, "release failed")
	}
	i.log.InfoContext(ctx, "stock released", "lines", len(lines))
	return &inventory_v1.ReleaseResponse{}, nil
}

func (i *InventoryService) SetStock(ctx context.Context, rq *inventory_v1.SetStockRequest) (*inventory_v1.SetStockResponse, error) {
	if err := rq.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	if err := i.store.Set(ctx, rq.GetProductUuid(), rq.GetQuantity()); err != nil {
		return nil, status.Errorf(codes.Internal, "set stock: %v", err)
	}
	return &inventory_v1.SetStockResponse{}, nil
}

func (i *InventoryService) GetStock(ctx context.Context, rq *inventory_v1.GetStockRequest) (*inventory_v1.GetStockResponse, error) {
	if err := rq.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}
	q, err := i.store.Get(ctx, rq.GetProductUuid())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get stock: %v", err)
	}
	return &inventory_v1.GetStockResponse{ProductUuid: rq.ProductUuid, Quantity: q}, nil
}

func toLines(in []*inventory_v1.Line) []stock.Line {
	out := make([]stock.Line, 0, len(in))
	for _, l := range in {
		out = append(out, stock.Line{ProductID: l.GetProductUuid(), Quantity: l.GetQuantity()})
	}
	return out
}

func insufficientStatus(ise *stock.InsufficientStockError) error {
	st := status.New(codes.FailedPrecondition, ise.Error())
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: stock.ReasonInsufficientStock,
		Domain: stock.ErrorDomain,
		Metadata: map[string]string{
			stock.MetaProductUUID: ise.ProductID,
			stock.MetaRequested:   strconv.FormatInt(ise.Requested, 10),
			stock.MetaAvailable:   strconv.FormatInt(ise.Available, 10),
		},
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
