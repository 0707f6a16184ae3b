package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/core/domain"
)

// ProductDetailsDTO mirrors domain.ProductDetails on the wire.
type ProductDetailsDTO struct {
	Type         string `json:"type" binding:"required"`
	Name         string `json:"name" binding:"required"`
	InterestRate string `json:"interestRate"`
	Term         string `json:"term"`
}

// RecordTransactionRequest is the payload collaborators post to record a
// money movement. ID and Date are assigned server-side at creation.
type RecordTransactionRequest struct {
	Type           string             `json:"type" binding:"required,oneof=credit debit"`
	Kind           string             `json:"kind" binding:"omitempty,oneof=plain-credit plain-debit loan-disbursement loan-repayment"`
	Amount         decimal.Decimal    `json:"amount" binding:"required,dgt0"`
	Description    string             `json:"description" binding:"required"`
	From           string             `json:"from"`
	To             string             `json:"to"`
	Status         string             `json:"status" binding:"required,oneof=pending completed failed"`
	PaymentID      string             `json:"paymentId"`
	Category       string             `json:"category" binding:"omitempty,oneof=personal-loan credit-card investment insurance"`
	ProductDetails *ProductDetailsDTO `json:"productDetails" binding:"omitempty"`
}

// ToDomain builds the immutable transaction record from the request.
func (r RecordTransactionRequest) ToDomain(id string, now time.Time) domain.Transaction {
	txn := domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(r.Type),
		Kind:        domain.TransactionKind(r.Kind),
		Amount:      r.Amount,
		Description: r.Description,
		From:        r.From,
		To:          r.To,
		Status:      domain.TransactionStatus(r.Status),
		Date:        now,
		PaymentID:   r.PaymentID,
		Category:    domain.ProductCategory(r.Category),
	}
	if r.ProductDetails != nil {
		txn.ProductDetails = &domain.ProductDetails{
			Type:         r.ProductDetails.Type,
			Name:         r.ProductDetails.Name,
			InterestRate: r.ProductDetails.InterestRate,
			Term:         r.ProductDetails.Term,
		}
	}
	return txn
}

// RecordTransactionResponse returns the recorded transaction together with
// the aggregate it produced.
type RecordTransactionResponse struct {
	Transaction domain.Transaction     `json:"transaction"`
	CreditScore domain.CreditScoreData `json:"creditScore"`
}

// ListTransactionsResponse wraps the newest-first transaction history.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// BalanceResponse carries the cached balance as a decimal string.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
