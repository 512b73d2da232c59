package interfaces

import (
	"context"

	"github.com/jwhande57/zimutilityxpress/internal/domain/models"
)

// StockClient looks up currently purchasable amounts/bundles for a
// product. Errors propagate to the caller; there is no retry built in.
type StockClient interface {
	FetchAvailable(ctx context.Context, productID int) ([]models.StockItem, error)
}

// OrderClient creates a backend order and returns the transaction
// reference plus the external payment link.
type OrderClient interface {
	SubmitOrder(ctx context.Context, idempotencyKey string, req models.OrderRequest) (*models.OrderResponse, error)
}

// RechargeClient credits the purchased service after a successful
// payment.
type RechargeClient interface {
	ProcessRecharge(ctx context.Context, req models.RechargeRequest) (*models.RechargeResponse, error)
}
