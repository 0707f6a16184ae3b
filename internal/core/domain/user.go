package domain

import "github.com/shopspring/decimal"

// UserProfile is the stored session/profile object. The ledger only touches
// its Balance field, which mirrors the cached balance figure so views bound
// to the profile stay consistent with views bound to the balance key.
type UserProfile struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	Avatar        string          `json:"avatar,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	WalletAddress string          `json:"walletAddress,omitempty"`
	ChainID       string          `json:"chainId,omitempty"`
}
