package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/core/domain"
)

// TransactionLogRepositoryFacade reads the append-only transaction log.
// Appends happen only through LedgerWriterFacade.Commit so the log, the
// aggregate and the balance always land together.
type TransactionLogRepositoryFacade interface {
	// FindAll returns the full log, newest first. A corrupt persisted blob
	// yields an empty log, not an error.
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	// FindRecent returns at most limit transactions, newest first.
	// limit <= 0 means no truncation.
	FindRecent(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// CreditScoreRepositoryFacade reads and writes the scoring aggregate.
type CreditScoreRepositoryFacade interface {
	// Find returns the persisted aggregate. On first read it writes the
	// default aggregate back so subsequent reads are stable.
	Find(ctx context.Context) (domain.CreditScoreData, error)
	Save(ctx context.Context, data domain.CreditScoreData) error
}

// BalanceRepositoryFacade reads the cached balance figure.
type BalanceRepositoryFacade interface {
	// Find returns the persisted balance, seeding the default on first read.
	Find(ctx context.Context) (decimal.Decimal, error)
}

// UserRepositoryFacade reads and writes the stored session profile.
type UserRepositoryFacade interface {
	// Find returns the stored profile or nil when no session exists.
	Find(ctx context.Context) (*domain.UserProfile, error)
	Save(ctx context.Context, user domain.UserProfile) error
}

// LedgerWriterFacade commits one recorded transaction's full effect: the
// rewritten log, the updated aggregate, the adjusted balance and, when a
// profile exists, its mirrored balance, all in a single atomic write.
type LedgerWriterFacade interface {
	Commit(ctx context.Context, log []domain.Transaction, score domain.CreditScoreData, balance decimal.Decimal, user *domain.UserProfile) error
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TransactionLogRepo TransactionLogRepositoryFacade
	CreditScoreRepo    CreditScoreRepositoryFacade
	BalanceRepo        BalanceRepositoryFacade
	UserRepo           UserRepositoryFacade
	LedgerWriter       LedgerWriterFacade
}
