package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Score bounds. MinScore is the hard floor; the per-aggregate ceiling is
// CreditScoreData.MaxScore (fixed at DefaultMaxScore for new aggregates).
const (
	MinScore        = 300
	DefaultMaxScore = 900
)

// Factor labels the score engine adds and removes as conditions become
// true or false. Each label appears at most once per list.
const (
	FactorOnTimePayments     = "Regular on-time payments"
	FactorLowUtilization     = "Low credit utilization"
	FactorLongCreditHistory  = "Long credit history"
	FactorActiveAccount      = "Active financial account"
	FactorRegularLoanPayment = "Regular loan payments"
	FactorRecentInquiries    = "Recent credit inquiries"
	FactorOutstandingLoans   = "Outstanding loans"
	FactorHighUtilization    = "High credit utilization"
	FactorMissedPayments     = "Missed payments"
	FactorFailedTransactions = "Multiple failed transactions"
)

// PaymentHistory counts payment outcomes. Counters only ever increase;
// there is no undo path in this ledger.
type PaymentHistory struct {
	OnTimePayments int `json:"onTimePayments"`
	LatePayments   int `json:"latePayments"`
	MissedPayments int `json:"missedPayments"`
}

// Factors holds the qualitative drivers currently reflected in the score.
type Factors struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// LoanInformation tracks outstanding loan state for the aggregate.
type LoanInformation struct {
	ActiveLoans        int             `json:"activeLoans"`
	TotalLoanAmount    decimal.Decimal `json:"totalLoanAmount"`
	OnTimeLoanPayments int             `json:"onTimeLoanPayments"`
}

// CreditScoreData is the single mutable scoring aggregate, one per session.
// Writers keep Score within [MinScore, MaxScore] and CreditUtilization
// within [0, 100]; the type does not enforce this itself.
type CreditScoreData struct {
	Score             float64         `json:"score"`
	MaxScore          float64         `json:"maxScore"`
	LastUpdated       time.Time       `json:"lastUpdated"`
	PaymentHistory    PaymentHistory  `json:"paymentHistory"`
	CreditUtilization float64         `json:"creditUtilization"`
	Factors           Factors         `json:"factors"`
	LoanInformation   LoanInformation `json:"loanInformation"`
}

// DefaultCreditScore returns the aggregate written on first access when no
// persisted value exists.
func DefaultCreditScore(now time.Time) CreditScoreData {
	return CreditScoreData{
		Score:       750,
		MaxScore:    DefaultMaxScore,
		LastUpdated: now,
		PaymentHistory: PaymentHistory{
			OnTimePayments: 45,
			LatePayments:   2,
			MissedPayments: 0,
		},
		CreditUtilization: 15,
		Factors: Factors{
			Positive: []string{
				FactorOnTimePayments,
				FactorLowUtilization,
				FactorLongCreditHistory,
			},
			Negative: []string{FactorRecentInquiries},
		},
		LoanInformation: LoanInformation{
			TotalLoanAmount: decimal.Zero,
		},
	}
}

// Clone returns a deep copy so the score engine can build the next aggregate
// without aliasing the caller's factor slices.
func (c CreditScoreData) Clone() CreditScoreData {
	next := c
	next.Factors.Positive = append([]string(nil), c.Factors.Positive...)
	next.Factors.Negative = append([]string(nil), c.Factors.Negative...)
	return next
}

// AddFactor appends label to the list unless it is already present.
func AddFactor(list []string, label string) []string {
	for _, f := range list {
		if f == label {
			return list
		}
	}
	return append(list, label)
}

// RemoveFactor removes label from the list if present, preserving order.
func RemoveFactor(list []string, label string) []string {
	for i, f := range list {
		if f == label {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// HasFactor reports whether label is present in the list.
func HasFactor(list []string, label string) bool {
	for _, f := range list {
		if f == label {
			return true
		}
	}
	return false
}
