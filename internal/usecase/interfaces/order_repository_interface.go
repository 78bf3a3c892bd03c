package interfaces

import (
	"context"
	"errors"

	"dropbot/internal/domain/entities"
)

// ErrSkuSoldOut is returned by CreateForSku when the SKU has no unit left.
var ErrSkuSoldOut = errors.New("sku sold out")

// IOrderRepository abstracts persistence for Order rows.
//
// CreateForSku consumes one unit of the SKU's quantity atomically with the
// order insert; when two customers race the last unit exactly one create
// succeeds and the other gets ErrSkuSoldOut. Cancelling an order (status
// update to CANCELLED) releases its unit.

type IOrderRepository interface {
	CreateForSku(ctx context.Context, o entities.Order, sku entities.Sku) (entities.Order, error)
	GetBySession(ctx context.Context, sessionID string) (entities.Order, error)
	Update(ctx context.Context, o entities.Order) (entities.Order, error)
	CountActiveBySku(ctx context.Context, skuID string) (int, error)
}
