package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payswift/payswift_backend/internal/core/domain"
	portsrepo "github.com/payswift/payswift_backend/internal/core/ports/repositories"
	"github.com/payswift/payswift_backend/internal/repositories/kv/sqlite"
)

func newTestRepos(t *testing.T) (*portsrepo.RepositoryProvider, *sqlite.Store) {
	t.Helper()
	store := newTestStore(t, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return sqlite.NewRepositoryProvider(store, logger), store
}

func sampleTxn(description string) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.NewString(),
		Type:        domain.Debit,
		Amount:      decimal.NewFromInt(250),
		Description: description,
		Status:      domain.StatusCompleted,
		Date:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestTransactionLogRepository_EmptyLog(t *testing.T) {
	repos, _ := newTestRepos(t)

	txns, err := repos.TransactionLogRepo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestTransactionLogRepository_RoundTrip(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	newest := sampleTxn("Grocery Shopping")
	oldest := sampleTxn("Coffee Shop")
	score := domain.DefaultCreditScore(time.Now().UTC())
	require.NoError(t, repos.LedgerWriter.Commit(ctx,
		[]domain.Transaction{newest, oldest}, score, decimal.NewFromInt(4600), nil))

	txns, err := repos.TransactionLogRepo.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, newest.ID, txns[0].ID)
	assert.Equal(t, oldest.ID, txns[1].ID)
	assert.True(t, txns[0].Amount.Equal(newest.Amount))
}

func TestTransactionLogRepository_FindRecentLimits(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	log := []domain.Transaction{sampleTxn("a"), sampleTxn("b"), sampleTxn("c")}
	score := domain.DefaultCreditScore(time.Now().UTC())
	require.NoError(t, repos.LedgerWriter.Commit(ctx, log, score, decimal.NewFromInt(5000), nil))

	txns, err := repos.TransactionLogRepo.FindRecent(ctx, 2)

	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, log[0].ID, txns[0].ID)
}

func TestTransactionLogRepository_CorruptBlobReadsAsEmpty(t *testing.T) {
	repos, store := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, portsrepo.KeyTransactions, []byte(`{not json`)))

	txns, err := repos.TransactionLogRepo.FindAll(ctx)

	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestCreditScoreRepository_DefaultsAndWritesBack(t *testing.T) {
	repos, store := newTestRepos(t)
	ctx := context.Background()

	data, err := repos.CreditScoreRepo.Find(ctx)

	require.NoError(t, err)
	assert.Equal(t, 750.0, data.Score)
	assert.Equal(t, 900.0, data.MaxScore)

	// The default must have been persisted so later reads are stable.
	_, found, err := store.Get(ctx, portsrepo.KeyCreditScore)
	require.NoError(t, err)
	assert.True(t, found)

	again, err := repos.CreditScoreRepo.Find(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestCreditScoreRepository_SaveThenFind(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	data := domain.DefaultCreditScore(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	data.Score = 762.5
	data.PaymentHistory.OnTimePayments = 50
	require.NoError(t, repos.CreditScoreRepo.Save(ctx, data))

	got, err := repos.CreditScoreRepo.Find(ctx)

	require.NoError(t, err)
	assert.Equal(t, 762.5, got.Score)
	assert.Equal(t, 50, got.PaymentHistory.OnTimePayments)
}

func TestCreditScoreRepository_CorruptBlobFallsBackToDefault(t *testing.T) {
	repos, store := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, portsrepo.KeyCreditScore, []byte(`garbage`)))

	data, err := repos.CreditScoreRepo.Find(ctx)

	require.NoError(t, err)
	assert.Equal(t, 750.0, data.Score)
}

func TestBalanceRepository_SeedsDefault(t *testing.T) {
	repos, _ := newTestRepos(t)

	balance, err := repos.BalanceRepo.Find(context.Background())

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(5000)), "got %s", balance)
}

func TestBalanceRepository_ReadsCommittedBalance(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	score := domain.DefaultCreditScore(time.Now().UTC())
	require.NoError(t, repos.LedgerWriter.Commit(ctx, []domain.Transaction{}, score, decimal.NewFromInt(4250), nil))

	balance, err := repos.BalanceRepo.Find(ctx)

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(4250)), "got %s", balance)
}

func TestUserRepository_NilWhenAbsent(t *testing.T) {
	repos, _ := newTestRepos(t)

	user, err := repos.UserRepo.Find(context.Background())

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_SaveThenFind(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	want := domain.UserProfile{
		ID:      uuid.NewString(),
		Name:    "Demo",
		Email:   "demo@payswift.app",
		Balance: decimal.NewFromInt(5000),
	}
	require.NoError(t, repos.UserRepo.Save(ctx, want))

	got, err := repos.UserRepo.Find(ctx)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, got.Balance.Equal(want.Balance))
}

func TestLedgerWriter_CommitWritesProfileWhenPresent(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	user := &domain.UserProfile{ID: uuid.NewString(), Name: "Demo", Balance: decimal.NewFromInt(4000)}
	score := domain.DefaultCreditScore(time.Now().UTC())
	require.NoError(t, repos.LedgerWriter.Commit(ctx, []domain.Transaction{}, score, decimal.NewFromInt(4000), user))

	got, err := repos.UserRepo.Find(ctx)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(4000)))
}
