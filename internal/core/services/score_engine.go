package services

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/core/domain"
)

// recentWindow is how far back a transaction still counts as "recent"
// activity for the active-account factor.
const recentWindow = 30 * 24 * time.Hour

// UpdateScore ingests one transaction and returns the next aggregate. It is
// a pure function of its arguments: the only random term (the credit
// utilization jitter on plain debits) comes from the injected rng, so a
// seeded source makes the whole computation deterministic.
//
// history must be the transaction log AFTER the incoming transaction was
// prepended; the failed-transaction and recent-activity counts include it.
// Pending transactions leave the aggregate untouched.
func UpdateScore(txn domain.Transaction, current domain.CreditScoreData, history []domain.Transaction, rng *rand.Rand, now time.Time) domain.CreditScoreData {
	switch txn.Status {
	case domain.StatusCompleted:
		return applyCompleted(txn, current, history, rng, now)
	case domain.StatusFailed:
		return applyFailed(current, history, now)
	default:
		return current
	}
}

func applyCompleted(txn domain.Transaction, current domain.CreditScoreData, history []domain.Transaction, rng *rand.Rand, now time.Time) domain.CreditScoreData {
	next := current.Clone()
	amt := txn.Amount.InexactFloat64()

	switch txn.ResolvedKind() {
	case domain.KindLoanDisbursement:
		next.LoanInformation.ActiveLoans++
		next.LoanInformation.TotalLoanAmount = next.LoanInformation.TotalLoanAmount.Add(txn.Amount)

		next.CreditUtilization = round1(clampFloat(next.CreditUtilization+math.Min(10, amt/20000), 0, 100))
		next.Score = math.Max(domain.MinScore, next.Score-math.Min(5, amt/50000))
		next.Factors.Negative = domain.AddFactor(next.Factors.Negative, domain.FactorOutstandingLoans)

	case domain.KindLoanRepayment:
		next.LoanInformation.OnTimeLoanPayments++
		next.LoanInformation.TotalLoanAmount = next.LoanInformation.TotalLoanAmount.Sub(txn.Amount)
		if next.LoanInformation.TotalLoanAmount.IsNegative() {
			next.LoanInformation.TotalLoanAmount = decimal.Zero
		}
		if next.LoanInformation.TotalLoanAmount.IsZero() && next.LoanInformation.ActiveLoans > 0 {
			next.LoanInformation.ActiveLoans--
		}

		next.Score = math.Min(next.MaxScore, next.Score+clampFloat(amt/10000, 2, 8))
		next.Factors.Positive = domain.AddFactor(next.Factors.Positive, domain.FactorRegularLoanPayment)
		if next.LoanInformation.ActiveLoans == 0 {
			next.Factors.Negative = domain.RemoveFactor(next.Factors.Negative, domain.FactorOutstandingLoans)
		}
		next.CreditUtilization = round1(clampFloat(next.CreditUtilization-math.Min(5, amt/20000), 0, 100))

	case domain.KindPlainDebit:
		next.PaymentHistory.OnTimePayments++
		next.Score = math.Min(next.MaxScore, next.Score+clampFloat(math.Floor(amt/500), 1, 5))
		next.Factors.Positive = domain.AddFactor(next.Factors.Positive, domain.FactorOnTimePayments)
		next.Factors.Negative = domain.RemoveFactor(next.Factors.Negative, domain.FactorMissedPayments)

		// Simulated utilization drift, uniform in (-1, 1) scaled by amount.
		jitter := (rng.Float64()*2 - 1) * (amt / 5000)
		next.CreditUtilization = round1(clampFloat(next.CreditUtilization+jitter, 0, 100))

	case domain.KindPlainCredit:
		next.Score = math.Min(next.MaxScore, next.Score+math.Min(1, amt/2000))
		next.CreditUtilization = round1(math.Max(0, next.CreditUtilization-0.2))
	}

	if countRecent(history, now) >= 5 {
		next.Factors.Positive = domain.AddFactor(next.Factors.Positive, domain.FactorActiveAccount)
	}

	// Utilization between 30 and 50 is a dead zone: neither factor moves.
	if next.CreditUtilization < 30 {
		next.Factors.Positive = domain.AddFactor(next.Factors.Positive, domain.FactorLowUtilization)
		next.Factors.Negative = domain.RemoveFactor(next.Factors.Negative, domain.FactorHighUtilization)
	} else if next.CreditUtilization > 50 {
		next.Factors.Negative = domain.AddFactor(next.Factors.Negative, domain.FactorHighUtilization)
		next.Factors.Positive = domain.RemoveFactor(next.Factors.Positive, domain.FactorLowUtilization)
	}

	next.LastUpdated = now
	return next
}

func applyFailed(current domain.CreditScoreData, history []domain.Transaction, now time.Time) domain.CreditScoreData {
	next := current.Clone()
	next.Score = math.Max(domain.MinScore, next.Score-1)

	failed := 0
	for _, t := range history {
		if t.Status == domain.StatusFailed {
			failed++
		}
	}
	if failed >= 3 {
		next.Factors.Negative = domain.AddFactor(next.Factors.Negative, domain.FactorFailedTransactions)
	}

	next.LastUpdated = now
	return next
}

func countRecent(history []domain.Transaction, now time.Time) int {
	cutoff := now.Add(-recentWindow)
	n := 0
	for _, t := range history {
		if t.Date.After(cutoff) {
			n++
		}
	}
	return n
}

func clampFloat(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// round1 rounds to one decimal place, the precision the aggregate stores
// credit utilization at.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
