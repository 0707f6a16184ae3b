package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a money movement.
type TransactionType string

const (
	Credit TransactionType = "credit" // money in
	Debit  TransactionType = "debit"  // money out
)

// TransactionStatus is the terminal (or pending) state of a transaction.
// Only Completed and Failed transactions affect the credit score.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// TransactionKind classifies a transaction for scoring purposes. Collaborators
// set it explicitly at creation time; when absent it is derived from the
// description (legacy clients tag loan transactions by wording alone).
type TransactionKind string

const (
	KindPlainCredit      TransactionKind = "plain-credit"
	KindPlainDebit       TransactionKind = "plain-debit"
	KindLoanDisbursement TransactionKind = "loan-disbursement"
	KindLoanRepayment    TransactionKind = "loan-repayment"
)

// ProductCategory tags transactions created by product flows.
type ProductCategory string

const (
	CategoryPersonalLoan ProductCategory = "personal-loan"
	CategoryCreditCard   ProductCategory = "credit-card"
	CategoryInvestment   ProductCategory = "investment"
	CategoryInsurance    ProductCategory = "insurance"
)

// ProductDetails carries the structured hint attached to product-type
// transactions (loan offers, card applications, investments, insurance).
type ProductDetails struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	InterestRate string `json:"interestRate,omitempty"`
	Term         string `json:"term,omitempty"`
}

// Transaction is an immutable fact about one money movement. It is appended
// once to the transaction log and never mutated or deleted afterwards.
type Transaction struct {
	ID             string            `json:"id"`
	Type           TransactionType   `json:"type"`
	Kind           TransactionKind   `json:"kind,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	Description    string            `json:"description"`
	From           string            `json:"from,omitempty"`
	To             string            `json:"to,omitempty"`
	Status         TransactionStatus `json:"status"`
	Date           time.Time         `json:"date"`
	PaymentID      string            `json:"paymentId,omitempty"`
	Category       ProductCategory   `json:"category,omitempty"`
	ProductDetails *ProductDetails   `json:"productDetails,omitempty"`
}

// ResolvedKind returns the explicit kind when set, otherwise derives it from
// the transaction type and the "loan" wording convention used by older
// clients. Derivation keeps the same branch selection either way.
func (t Transaction) ResolvedKind() TransactionKind {
	if t.Kind != "" {
		return t.Kind
	}
	isLoan := strings.Contains(strings.ToLower(t.Description), "loan")
	switch {
	case isLoan && t.Type == Credit:
		return KindLoanDisbursement
	case isLoan && t.Type == Debit:
		return KindLoanRepayment
	case t.Type == Debit:
		return KindPlainDebit
	default:
		return KindPlainCredit
	}
}

// IsLoan reports whether the transaction is a loan disbursement or repayment.
func (t Transaction) IsLoan() bool {
	k := t.ResolvedKind()
	return k == KindLoanDisbursement || k == KindLoanRepayment
}
