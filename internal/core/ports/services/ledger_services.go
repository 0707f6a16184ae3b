package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/core/domain"
)

// LedgerSvcFacade is the single entry point collaborators use to record a
// transaction and read ledger state. Record is the only mutation path.
type LedgerSvcFacade interface {
	// Record appends the transaction, runs the score engine, adjusts the
	// balance and commits everything atomically. Returns the new aggregate.
	Record(ctx context.Context, txn domain.Transaction) (domain.CreditScoreData, error)
	GetScore(ctx context.Context) (domain.CreditScoreData, error)
	// GetTransactions returns the newest-first history; limit <= 0 means all.
	GetTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
	GetBalance(ctx context.Context) (decimal.Decimal, error)
	// Bootstrap seeds the initial balance, aggregate and demo transactions
	// on first run. Idempotent.
	Bootstrap(ctx context.Context) error
}
