package services

import (
	"context"

	"github.com/payswift/payswift_backend/internal/dto"
)

// CheckoutSvcFacade proxies order creation to the external checkout
// provider. The ledger never initiates payments itself; collaborators take
// the returned order through the provider's client-side flow and post a
// terminal transaction back when it settles or fails.
type CheckoutSvcFacade interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
}
