package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/fastprodman/vcoingame/internal/infra/pgutils"
	"github.com/fastprodman/vcoingame/internal/repos/ledger"
	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

// Store hands out sessions, lazily creating the durable record on
// first reference. The cache is never evicted: it is bounded by the
// number of distinct users ever seen, which is the accepted tradeoff.
type Store struct {
	db           *sql.DB
	repo         sessions.Sessions
	txns         ledger.Transactions
	initialScore int64

	mu    sync.Mutex
	cache map[int64]*Session
}

func NewStore(db *sql.DB, repo sessions.Sessions, txns ledger.Transactions, initialScore int64) *Store {
	return &Store{
		db:           db,
		repo:         repo,
		txns:         txns,
		initialScore: initialScore,
		cache:        make(map[int64]*Session),
	}
}

// GetOrCreate returns the user's session, creating the durable record
// if the user was never seen. Creation is an upsert, so concurrent
// first references collapse to one record.
func (st *Store) GetOrCreate(ctx context.Context, userID int64) (*Session, error) {
	st.mu.Lock()
	sess, ok := st.cache[userID]
	st.mu.Unlock()

	if ok {
		return sess, nil
	}

	err := st.repo.Create(ctx, userID, st.initialScore)
	if err != nil {
		return nil, fmt.Errorf("create session record: %w", err)
	}

	row, err := st.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load session record: %w", err)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	// Another goroutine may have populated the entry while we were
	// reading storage; keep the first one so all callers share a
	// single mirror.
	if cached, ok := st.cache[userID]; ok {
		return cached, nil
	}

	sess = newSession(st.repo, row)
	st.cache[userID] = sess

	return sess, nil
}

// ProcessedIDs exposes the dedup store's recently processed ids.
func (st *Store) ProcessedIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids, err := st.txns.ProcessedIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("processed ids: %w", err)
	}

	return ids, nil
}

// Deposit credits userID with rec.Amount exactly once per rec.TID.
// The dedup record and the balance credit commit in one database
// transaction: a duplicate id rolls everything back, and a crash
// mid-flight leaves no partial effect to compensate.
func (st *Store) Deposit(ctx context.Context, userID int64, rec ledger.Record) error {
	sess, err := st.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("deposit session: %w", err)
	}

	err = pgutils.WithTx(ctx, st.db, func(tx *sql.Tx) error {
		err := st.txns.Insert(tx, rec)
		if err != nil {
			return fmt.Errorf("record transaction: %w", err)
		}

		err = st.repo.AddScoreTx(tx, userID, rec.Amount)
		if err != nil {
			return fmt.Errorf("credit score: %w", err)
		}

		err = st.repo.AddDepositTx(tx, userID, rec.Amount)
		if err != nil {
			return fmt.Errorf("count deposit: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	sess.applyDeposit(rec.Amount)

	return nil
}
