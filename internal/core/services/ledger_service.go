package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/payswift/payswift_backend/internal/apperrors"
	"github.com/payswift/payswift_backend/internal/core/domain"
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
)

// ledgerService is the transaction ingestion facade. All Record calls are
// serialized through mu so two in-flight recordings can never both read the
// same stale aggregate and drop an update.
type ledgerService struct {
	mu sync.Mutex

	logRepo     portsrepo.TransactionLogRepositoryFacade
	scoreRepo   portsrepo.CreditScoreRepositoryFacade
	balanceRepo portsrepo.BalanceRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	writer      portsrepo.LedgerWriterFacade

	rng *rand.Rand // guarded by mu
	now func() time.Time
}

// LedgerServiceOption customises the ledger service.
type LedgerServiceOption func(*ledgerService)

// WithRandSource sets the random source used for the utilization jitter.
// Tests pass a seeded source for deterministic results.
func WithRandSource(rng *rand.Rand) LedgerServiceOption {
	return func(s *ledgerService) {
		s.rng = rng
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the ingestion facade.
func NewLedgerService(repos *portsrepo.RepositoryProvider, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		logRepo:     repos.TransactionLogRepo,
		scoreRepo:   repos.CreditScoreRepo,
		balanceRepo: repos.BalanceRepo,
		userRepo:    repos.UserRepo,
		writer:      repos.LedgerWriter,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Record validates and ingests one transaction: prepends it to the log,
// runs the score engine, adjusts the cached balance (completed transactions
// only — pending is inert and a failed payment moves no money), mirrors the
// balance into the stored profile, and commits all of it atomically.
func (s *ledgerService) Record(ctx context.Context, txn domain.Transaction) (domain.CreditScoreData, error) {
	if err := validateTransaction(txn); err != nil {
		return domain.CreditScoreData{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.scoreRepo.Find(ctx)
	if err != nil {
		return domain.CreditScoreData{}, err
	}
	log, err := s.logRepo.FindAll(ctx)
	if err != nil {
		return domain.CreditScoreData{}, err
	}
	balance, err := s.balanceRepo.Find(ctx)
	if err != nil {
		return domain.CreditScoreData{}, err
	}
	user, err := s.userRepo.Find(ctx)
	if err != nil {
		return domain.CreditScoreData{}, err
	}

	newLog := make([]domain.Transaction, 0, len(log)+1)
	newLog = append(newLog, txn)
	newLog = append(newLog, log...)

	updated := UpdateScore(txn, current, newLog, s.rng, s.now())

	if txn.Status == domain.StatusCompleted {
		if txn.Type == domain.Credit {
			balance = balance.Add(txn.Amount)
		} else {
			balance = balance.Sub(txn.Amount)
		}
	}
	if user != nil {
		user.Balance = balance
	}

	if err := s.writer.Commit(ctx, newLog, updated, balance, user); err != nil {
		// Not recorded: the atomic commit leaves no partial state behind.
		return domain.CreditScoreData{}, fmt.Errorf("failed to record transaction %s: %w", txn.ID, err)
	}
	return updated, nil
}

func (s *ledgerService) GetScore(ctx context.Context) (domain.CreditScoreData, error) {
	return s.scoreRepo.Find(ctx)
}

func (s *ledgerService) GetTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return s.logRepo.FindRecent(ctx, limit)
}

func (s *ledgerService) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.balanceRepo.Find(ctx)
}

// Bootstrap seeds first-run state: the default aggregate and balance (via
// the repositories' write-back reads) and a small demo history when the log
// is empty. Safe to call on every startup.
func (s *ledgerService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	score, err := s.scoreRepo.Find(ctx)
	if err != nil {
		return err
	}
	balance, err := s.balanceRepo.Find(ctx)
	if err != nil {
		return err
	}
	log, err := s.logRepo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(log) > 0 {
		return nil
	}

	user, err := s.userRepo.Find(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	seed := []domain.Transaction{
		{
			ID:          uuid.NewString(),
			Type:        domain.Debit,
			Kind:        domain.KindPlainDebit,
			Amount:      decimal.NewFromInt(250),
			Description: "Grocery Shopping",
			To:          "SuperMart",
			Status:      domain.StatusCompleted,
			Date:        now.Add(-2 * 24 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			Type:        domain.Credit,
			Kind:        domain.KindPlainCredit,
			Amount:      decimal.NewFromInt(1000),
			Description: "Refund",
			From:        "Online Store",
			Status:      domain.StatusCompleted,
			Date:        now.Add(-5 * 24 * time.Hour),
		},
		{
			ID:          uuid.NewString(),
			Type:        domain.Debit,
			Kind:        domain.KindPlainDebit,
			Amount:      decimal.NewFromInt(150),
			Description: "Coffee Shop",
			To:          "Brew Co.",
			Status:      domain.StatusCompleted,
			Date:        now.Add(-7 * 24 * time.Hour),
		},
	}
	return s.writer.Commit(ctx, seed, score, balance, user)
}

// validateTransaction rejects malformed transactions before the engine ever
// sees them, so bad input cannot poison the score math.
func validateTransaction(txn domain.Transaction) error {
	switch {
	case txn.ID == "":
		return fmt.Errorf("%w: missing id", apperrors.ErrInvalidTransaction)
	case txn.Type != domain.Credit && txn.Type != domain.Debit:
		return fmt.Errorf("%w: unknown type %q", apperrors.ErrInvalidTransaction, txn.Type)
	case txn.Status != domain.StatusPending && txn.Status != domain.StatusCompleted && txn.Status != domain.StatusFailed:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidTransaction, txn.Status)
	case !txn.Amount.IsPositive():
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrInvalidTransaction)
	case txn.Description == "":
		return fmt.Errorf("%w: missing description", apperrors.ErrInvalidTransaction)
	case txn.Date.IsZero():
		return fmt.Errorf("%w: missing date", apperrors.ErrInvalidTransaction)
	}

	// An explicit kind must agree with the direction of the movement.
	switch txn.Kind {
	case "", domain.KindPlainCredit, domain.KindPlainDebit, domain.KindLoanDisbursement, domain.KindLoanRepayment:
	default:
		return fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidTransaction, txn.Kind)
	}
	if (txn.Kind == domain.KindPlainCredit || txn.Kind == domain.KindLoanDisbursement) && txn.Type != domain.Credit {
		return fmt.Errorf("%w: kind %q requires type %q", apperrors.ErrInvalidTransaction, txn.Kind, domain.Credit)
	}
	if (txn.Kind == domain.KindPlainDebit || txn.Kind == domain.KindLoanRepayment) && txn.Type != domain.Debit {
		return fmt.Errorf("%w: kind %q requires type %q", apperrors.ErrInvalidTransaction, txn.Kind, domain.Debit)
	}
	return nil
}
