package repositories

import "context"

// Storage keys of the persisted state layout. The log, aggregate, balance
// and user repositories are the only writers of their respective keys; no
// other code touches the store directly.
const (
	KeyTransactions = "transactions"
	KeyCreditScore  = "creditScore"
	KeyUserBalance  = "userBalance"
	KeyUser         = "user"
)

// KVStore is the persistence adapter port: durable get/set of JSON-encoded
// values under string keys. Implementations notify the change broker on
// every successful write.
type KVStore interface {
	// Get returns the stored value for key, with found=false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error
	// SetMulti stores all entries in a single storage transaction; either
	// every key is written or none is.
	SetMulti(ctx context.Context, entries map[string][]byte) error
}
