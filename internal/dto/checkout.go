package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest asks the checkout provider for a new payment order.
// Amount is in major currency units; the provider wants minor units.
type CreateOrderRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Currency string          `json:"currency" binding:"omitempty,len=3"`
}

// OrderResponse is the provider's order, passed through to the client.
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}
