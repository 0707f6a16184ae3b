package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/apperrors"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/dto"
)

const defaultCurrency = "INR"

// checkoutService is the thin order-creation proxy in front of the external
// checkout provider. It converts amounts to minor units, stamps a receipt
// and authenticates with the provider's key pair; everything else in the
// payment flow happens client-side against the provider's SDK.
type checkoutService struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
	now       func() time.Time
}

// NewCheckoutService creates the order proxy.
func NewCheckoutService(baseURL, keyID, keySecret string, timeout time.Duration) portssvc.CheckoutSvcFacade {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &checkoutService{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
	}
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

type providerOrderRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (s *checkoutService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: order amount must be positive", apperrors.ErrValidation)
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	body := providerOrderRequest{
		Amount:   req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
		Currency: currency,
		Receipt:  fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "checkout provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewAppError(http.StatusBadGateway,
			fmt.Sprintf("checkout provider returned status %d", resp.StatusCode),
			fmt.Errorf("provider response: %s", snippet))
	}

	var order dto.OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, apperrors.NewAppError(http.StatusBadGateway, "failed to decode provider order", err)
	}
	return &order, nil
}
