package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Record is a processed external-ledger transaction. TID is the
// external identifier the uniqueness constraint guards.
type Record struct {
	TID       int64
	FromID    int64
	ToID      int64
	Amount    int64
	CreatedAt time.Time
}

type Transactions interface {
	// Insert persists the record; a record with the same TID yields
	// ErrDuplicateTransaction and no write.
	Insert(tx *sql.Tx, rec Record) error
	// ProcessedIDs returns the identifiers of recently processed
	// transactions, newest first, bounded to the window the external
	// feed can report.
	ProcessedIDs(ctx context.Context) (map[int64]struct{}, error)
}
