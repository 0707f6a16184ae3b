package services_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/payswift/payswift_backend/internal/apperrors"
	"github.com/payswift/payswift_backend/internal/core/domain"
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	portssvc "github.com/payswift/payswift_backend/internal/core/ports/services"
	"github.com/payswift/payswift_backend/internal/core/services"
)

// --- Mock TransactionLogRepository ---

type MockTransactionLogRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionLogRepositoryFacade = (*MockTransactionLogRepository)(nil)

func (m *MockTransactionLogRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionLogRepository) FindRecent(ctx context.Context, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock CreditScoreRepository ---

type MockCreditScoreRepository struct {
	mock.Mock
}

var _ portsrepo.CreditScoreRepositoryFacade = (*MockCreditScoreRepository)(nil)

func (m *MockCreditScoreRepository) Find(ctx context.Context) (domain.CreditScoreData, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CreditScoreData), args.Error(1)
}

func (m *MockCreditScoreRepository) Save(ctx context.Context, data domain.CreditScoreData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// --- Mock BalanceRepository ---

type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepositoryFacade = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) Find(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) Find(ctx context.Context) (*domain.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.UserProfile) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock LedgerWriter ---

type MockLedgerWriter struct {
	mock.Mock
}

var _ portsrepo.LedgerWriterFacade = (*MockLedgerWriter)(nil)

func (m *MockLedgerWriter) Commit(ctx context.Context, log []domain.Transaction, score domain.CreditScoreData, balance decimal.Decimal, user *domain.UserProfile) error {
	args := m.Called(ctx, log, score, balance, user)
	return args.Error(0)
}

// --- Fixture ---

type ledgerFixture struct {
	logRepo     *MockTransactionLogRepository
	scoreRepo   *MockCreditScoreRepository
	balanceRepo *MockBalanceRepository
	userRepo    *MockUserRepository
	writer      *MockLedgerWriter
	provider    *portsrepo.RepositoryProvider
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		logRepo:     new(MockTransactionLogRepository),
		scoreRepo:   new(MockCreditScoreRepository),
		balanceRepo: new(MockBalanceRepository),
		userRepo:    new(MockUserRepository),
		writer:      new(MockLedgerWriter),
	}
	f.provider = &portsrepo.RepositoryProvider{
		TransactionLogRepo: f.logRepo,
		CreditScoreRepo:    f.scoreRepo,
		BalanceRepo:        f.balanceRepo,
		UserRepo:           f.userRepo,
		LedgerWriter:       f.writer,
	}
	return f
}

func (f *ledgerFixture) service() portssvc.LedgerSvcFacade {
	return services.NewLedgerService(f.provider,
		services.WithRandSource(rand.New(rand.NewSource(42))),
		services.WithClock(func() time.Time { return testNow }),
	)
}

func (f *ledgerFixture) expectLoads(score domain.CreditScoreData, log []domain.Transaction, balance decimal.Decimal, user *domain.UserProfile) {
	f.scoreRepo.On("Find", mock.Anything).Return(score, nil)
	f.logRepo.On("FindAll", mock.Anything).Return(log, nil)
	f.balanceRepo.On("Find", mock.Anything).Return(balance, nil)
	if user == nil {
		f.userRepo.On("Find", mock.Anything).Return(nil, nil)
	} else {
		f.userRepo.On("Find", mock.Anything).Return(user, nil)
	}
}

func decEq(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(want) })
}

// --- Tests ---

func TestLedgerService_Record_CompletedDebit(t *testing.T) {
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit",
		mock.Anything,
		mock.MatchedBy(func(log []domain.Transaction) bool { return len(log) == 1 }),
		mock.Anything,
		decEq(decimal.NewFromInt(4000)),
		(*domain.UserProfile)(nil),
	).Return(nil)

	txn := newTxn(domain.Debit, 1000, "Grocery", domain.StatusCompleted)
	score, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	assert.Equal(t, 752.0, score.Score)
	assert.Equal(t, 46, score.PaymentHistory.OnTimePayments)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_CompletedCredit_AddsToBalance(t *testing.T) {
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit", mock.Anything, mock.Anything, mock.Anything,
		decEq(decimal.NewFromInt(6000)), (*domain.UserProfile)(nil)).Return(nil)

	txn := newTxn(domain.Credit, 1000, "Refund", domain.StatusCompleted)
	_, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_MirrorsBalanceIntoProfile(t *testing.T) {
	f := newLedgerFixture()
	user := &domain.UserProfile{ID: "u1", Name: "Demo", Balance: decimal.NewFromInt(5000)}
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), user)
	f.writer.On("Commit", mock.Anything, mock.Anything, mock.Anything,
		decEq(decimal.NewFromInt(4500)),
		mock.MatchedBy(func(u *domain.UserProfile) bool {
			return u != nil && u.Balance.Equal(decimal.NewFromInt(4500))
		}),
	).Return(nil)

	txn := newTxn(domain.Debit, 500, "Bill payment", domain.StatusCompleted)
	_, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_PendingIsLoggedButInert(t *testing.T) {
	f := newLedgerFixture()
	current := freshScore()
	f.expectLoads(current, []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit",
		mock.Anything,
		mock.MatchedBy(func(log []domain.Transaction) bool { return len(log) == 1 }),
		current,
		decEq(decimal.NewFromInt(5000)),
		(*domain.UserProfile)(nil),
	).Return(nil)

	txn := newTxn(domain.Debit, 1000, "Grocery", domain.StatusPending)
	score, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	assert.Equal(t, current, score)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_FailedMovesNoMoney(t *testing.T) {
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit", mock.Anything, mock.Anything, mock.Anything,
		decEq(decimal.NewFromInt(5000)), (*domain.UserProfile)(nil)).Return(nil)

	txn := newTxn(domain.Debit, 1000, "Payment", domain.StatusFailed)
	score, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	assert.Equal(t, 749.0, score.Score)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_PrependsToLog(t *testing.T) {
	f := newLedgerFixture()
	older := newTxn(domain.Debit, 100, "Coffee", domain.StatusCompleted)
	f.expectLoads(freshScore(), []domain.Transaction{older}, decimal.NewFromInt(5000), nil)

	txn := newTxn(domain.Debit, 1000, "Grocery", domain.StatusCompleted)
	f.writer.On("Commit",
		mock.Anything,
		mock.MatchedBy(func(log []domain.Transaction) bool {
			return len(log) == 2 && log[0].ID == txn.ID && log[1].ID == older.ID
		}),
		mock.Anything, mock.Anything, (*domain.UserProfile)(nil),
	).Return(nil)

	_, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Record_RejectsInvalidTransactions(t *testing.T) {
	valid := newTxn(domain.Debit, 1000, "Grocery", domain.StatusCompleted)

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
	}{
		{"missing id", func(t *domain.Transaction) { t.ID = "" }},
		{"unknown type", func(t *domain.Transaction) { t.Type = "transfer" }},
		{"unknown status", func(t *domain.Transaction) { t.Status = "done" }},
		{"zero amount", func(t *domain.Transaction) { t.Amount = decimal.Zero }},
		{"negative amount", func(t *domain.Transaction) { t.Amount = decimal.NewFromInt(-5) }},
		{"missing description", func(t *domain.Transaction) { t.Description = "" }},
		{"missing date", func(t *domain.Transaction) { t.Date = time.Time{} }},
		{"kind contradicts type", func(t *domain.Transaction) { t.Kind = domain.KindLoanDisbursement }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture()
			txn := valid
			tt.mutate(&txn)

			_, err := f.service().Record(context.Background(), txn)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)
			f.writer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestLedgerService_Record_CommitFailureMeansNotRecorded(t *testing.T) {
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	txn := newTxn(domain.Debit, 1000, "Grocery", domain.StatusCompleted)
	_, err := f.service().Record(context.Background(), txn)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestLedgerService_GetTransactions_PassesLimit(t *testing.T) {
	f := newLedgerFixture()
	want := []domain.Transaction{newTxn(domain.Debit, 100, "Coffee", domain.StatusCompleted)}
	f.logRepo.On("FindRecent", mock.Anything, 10).Return(want, nil)

	got, err := f.service().GetTransactions(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLedgerService_Bootstrap_SeedsEmptyLedger(t *testing.T) {
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)
	f.writer.On("Commit",
		mock.Anything,
		mock.MatchedBy(func(log []domain.Transaction) bool { return len(log) == 3 }),
		mock.Anything,
		decEq(decimal.NewFromInt(5000)),
		(*domain.UserProfile)(nil),
	).Return(nil)

	err := f.service().Bootstrap(context.Background())

	require.NoError(t, err)
	f.writer.AssertExpectations(t)
}

func TestLedgerService_Bootstrap_IsIdempotent(t *testing.T) {
	f := newLedgerFixture()
	existing := []domain.Transaction{newTxn(domain.Debit, 100, "Coffee", domain.StatusCompleted)}
	f.expectLoads(freshScore(), existing, decimal.NewFromInt(5000), nil)

	err := f.service().Bootstrap(context.Background())

	require.NoError(t, err)
	f.writer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_Record_UsesStableIDs(t *testing.T) {
	// Transaction IDs come from the collaborator; uuid collisions aside, the
	// facade must not rewrite them.
	f := newLedgerFixture()
	f.expectLoads(freshScore(), []domain.Transaction{}, decimal.NewFromInt(5000), nil)

	id := uuid.NewString()
	f.writer.On("Commit",
		mock.Anything,
		mock.MatchedBy(func(log []domain.Transaction) bool { return log[0].ID == id }),
		mock.Anything, mock.Anything, (*domain.UserProfile)(nil),
	).Return(nil)

	txn := newTxn(domain.Debit, 1000, "Grocery", domain.StatusCompleted)
	txn.ID = id
	_, err := f.service().Record(context.Background(), txn)

	require.NoError(t, err)
	f.writer.AssertExpectations(t)
}
