package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/core/domain"
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
)

// defaultBalance seeds the cached balance on first access.
var defaultBalance = decimal.NewFromInt(5000)

// NewRepositoryProvider wires all ledger repositories over the store.
func NewRepositoryProvider(store *Store, logger *slog.Logger) *portsrepo.RepositoryProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &portsrepo.RepositoryProvider{
		TransactionLogRepo: &transactionLogRepository{store: store, logger: logger},
		CreditScoreRepo:    &creditScoreRepository{store: store, logger: logger},
		BalanceRepo:        &balanceRepository{store: store, logger: logger},
		UserRepo:           &userRepository{store: store, logger: logger},
		LedgerWriter:       &ledgerWriter{store: store},
	}
}

// --- Transaction Log ---

type transactionLogRepository struct {
	store  *Store
	logger *slog.Logger
}

var _ portsrepo.TransactionLogRepositoryFacade = (*transactionLogRepository)(nil)

// FindAll returns the full log, newest first. A corrupt persisted blob is
// logged and treated as an empty log so a bad write never bricks the app.
func (r *transactionLogRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	raw, found, err := r.store.Get(ctx, portsrepo.KeyTransactions)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Transaction{}, nil
	}
	var txns []domain.Transaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		r.logger.Warn("Discarding corrupt transaction log", slog.String("error", err.Error()))
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (r *transactionLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	txns, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(txns) > limit {
		txns = txns[:limit]
	}
	return txns, nil
}

// --- Credit Score Aggregate ---

type creditScoreRepository struct {
	store  *Store
	logger *slog.Logger
}

var _ portsrepo.CreditScoreRepositoryFacade = (*creditScoreRepository)(nil)

// Find returns the persisted aggregate, or the default one when absent or
// unreadable. The default is written back so subsequent reads are stable.
func (r *creditScoreRepository) Find(ctx context.Context) (domain.CreditScoreData, error) {
	raw, found, err := r.store.Get(ctx, portsrepo.KeyCreditScore)
	if err != nil {
		return domain.CreditScoreData{}, err
	}
	if found {
		var data domain.CreditScoreData
		uerr := json.Unmarshal(raw, &data)
		if uerr == nil {
			return data, nil
		}
		r.logger.Warn("Discarding corrupt credit score aggregate", slog.String("error", uerr.Error()))
	}

	data := domain.DefaultCreditScore(time.Now().UTC())
	if err := r.Save(ctx, data); err != nil {
		return domain.CreditScoreData{}, err
	}
	return data, nil
}

func (r *creditScoreRepository) Save(ctx context.Context, data domain.CreditScoreData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode credit score: %w", err)
	}
	return r.store.Set(ctx, portsrepo.KeyCreditScore, raw)
}

// --- Balance ---

type balanceRepository struct {
	store  *Store
	logger *slog.Logger
}

var _ portsrepo.BalanceRepositoryFacade = (*balanceRepository)(nil)

// Find returns the cached balance, seeding the default on first access.
func (r *balanceRepository) Find(ctx context.Context) (decimal.Decimal, error) {
	raw, found, err := r.store.Get(ctx, portsrepo.KeyUserBalance)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		var balance decimal.Decimal
		uerr := json.Unmarshal(raw, &balance)
		if uerr == nil {
			return balance, nil
		}
		r.logger.Warn("Discarding corrupt balance value", slog.String("error", uerr.Error()))
	}

	raw, err = json.Marshal(defaultBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to encode balance: %w", err)
	}
	if err := r.store.Set(ctx, portsrepo.KeyUserBalance, raw); err != nil {
		return decimal.Zero, err
	}
	return defaultBalance, nil
}

// --- User Profile ---

type userRepository struct {
	store  *Store
	logger *slog.Logger
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

// Find returns the stored profile, or nil when no session exists.
func (r *userRepository) Find(ctx context.Context) (*domain.UserProfile, error) {
	raw, found, err := r.store.Get(ctx, portsrepo.KeyUser)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var user domain.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		r.logger.Warn("Discarding corrupt user profile", slog.String("error", err.Error()))
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}
	return r.store.Set(ctx, portsrepo.KeyUser, raw)
}

// --- Atomic ledger commit ---

type ledgerWriter struct {
	store *Store
}

var _ portsrepo.LedgerWriterFacade = (*ledgerWriter)(nil)

// Commit writes the rewritten log, the aggregate, the balance and the
// mirrored profile in one storage transaction, so a crash can never leave
// the log holding a transaction the aggregate does not reflect.
func (w *ledgerWriter) Commit(ctx context.Context, log []domain.Transaction, score domain.CreditScoreData, balance decimal.Decimal, user *domain.UserProfile) error {
	entries := make(map[string][]byte, 4)

	rawLog, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to encode transaction log: %w", err)
	}
	entries[portsrepo.KeyTransactions] = rawLog

	rawScore, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("failed to encode credit score: %w", err)
	}
	entries[portsrepo.KeyCreditScore] = rawScore

	rawBalance, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to encode balance: %w", err)
	}
	entries[portsrepo.KeyUserBalance] = rawBalance

	if user != nil {
		rawUser, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user profile: %w", err)
		}
		entries[portsrepo.KeyUser] = rawUser
	}

	return w.store.SetMulti(ctx, entries)
}
