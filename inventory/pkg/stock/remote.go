package stock

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	inventory_v1 "github.com/mbakhodurov/week1/shared/pkg/proto/inventory/v1"
)

// Error detail reason and metadata keys attached to FailedPrecondition
// statuses returned by the stock service's Reserve.
const (
	ReasonInsufficientStock = "INSUFFICIENT_STOCK"
	ErrorDomain             = "inventory.v1"

	MetaProductUUID = "product_uuid"
	MetaRequested   = "requested"
	MetaAvailable   = "available"
)

// Remote reserves stock through the inventory gRPC service.
type Remote struct {
	client inventory_v1.StockServiceClient
}

var _ Reserver = (*Remote)(nil)

func NewRemote(client inventory_v1.StockServiceClient) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Reserve(ctx context.Context, lines []Line) error {
	_, err := r.client.Reserve(ctx, &inventory_v1.ReserveRequest{Lines: toWire(lines)})
	if err != nil {
		return fromStatus(err)
	}
	return nil
}

func (r *Remote) Release(ctx context.Context, lines []Line) error {
	_, err := r.client.Release(ctx, &inventory_v1.ReleaseRequest{Lines: toWire(lines)})
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

func toWire(lines []Line) []*inventory_v1.Line {
	out := make([]*inventory_v1.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, &inventory_v1.Line{ProductUuid: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

// fromStatus turns an INSUFFICIENT_STOCK status back into *InsufficientStockError.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.FailedPrecondition {
		return fmt.Errorf("reserve stock: %w", err)
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetReason() != ReasonInsufficientStock {
			continue
		}
		md := info.GetMetadata()
		requested, _ := strconv.ParseInt(md[MetaRequested], 10, 64)
		available, _ := strconv.ParseInt(md[MetaAvailable], 10, 64)
		return &InsufficientStockError{
			ProductID: md[MetaProductUUID],
			Requested: requested,
			Available: available,
		}
	}
	return fmt.Errorf("reserve stock: %w", err)
}
