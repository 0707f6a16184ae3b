package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/payswift/payswift_backend/internal/core/domain"
)

func TestTransaction_ResolvedKind_Derivation(t *testing.T) {
	tests := []struct {
		name        string
		txnType     domain.TransactionType
		description string
		want        domain.TransactionKind
	}{
		{"credit mentioning loan", domain.Credit, "Personal Loan Disbursement", domain.KindLoanDisbursement},
		{"debit mentioning loan", domain.Debit, "Loan EMI payment", domain.KindLoanRepayment},
		{"loan match is case-insensitive", domain.Debit, "LOAN settlement", domain.KindLoanRepayment},
		{"plain debit", domain.Debit, "Grocery Shopping", domain.KindPlainDebit},
		{"plain credit", domain.Credit, "Salary", domain.KindPlainCredit},
		{"loan inside another word still matches", domain.Credit, "Sloane Square rent refund", domain.KindLoanDisbursement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := domain.Transaction{Type: tt.txnType, Description: tt.description}
			assert.Equal(t, tt.want, txn.ResolvedKind())
		})
	}
}

func TestTransaction_ResolvedKind_ExplicitKindWins(t *testing.T) {
	txn := domain.Transaction{
		Type:        domain.Debit,
		Kind:        domain.KindPlainDebit,
		Description: "Loan repayment", // wording would say loan-repayment
	}

	assert.Equal(t, domain.KindPlainDebit, txn.ResolvedKind())
}

func TestTransaction_IsLoan(t *testing.T) {
	assert.True(t, domain.Transaction{Kind: domain.KindLoanDisbursement}.IsLoan())
	assert.True(t, domain.Transaction{Kind: domain.KindLoanRepayment}.IsLoan())
	assert.False(t, domain.Transaction{Kind: domain.KindPlainDebit}.IsLoan())
	assert.True(t, domain.Transaction{Type: domain.Debit, Description: "Car loan installment"}.IsLoan())
}
