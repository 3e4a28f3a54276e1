package ledger

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/vcoingame/internal/infra/pgtestutil"
	"github.com/fastprodman/vcoingame/internal/infra/pgutils"
	"github.com/fastprodman/vcoingame/internal/repos/ledger"
)

func insertRecord(t *testing.T, db *sql.DB, repo ledger.Transactions, rec ledger.Record) error {
	t.Helper()

	return pgutils.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return repo.Insert(tx, rec)
	})
}

func TestInsert_DuplicateID(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	rec := ledger.Record{TID: 1, FromID: 42, ToID: 100, Amount: 5000, CreatedAt: time.Now()}

	err := insertRecord(t, db, repo, rec)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}

	err = insertRecord(t, db, repo, rec)
	if !errors.Is(err, ledger.ErrDuplicateTransaction) {
		t.Fatalf("want ErrDuplicateTransaction, got %v", err)
	}
}

func TestProcessedIDs(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	for tid := int64(1); tid <= 3; tid++ {
		rec := ledger.Record{TID: tid, FromID: 42, ToID: 100, Amount: 1000, CreatedAt: time.Now()}

		err := insertRecord(t, db, repo, rec)
		if err != nil {
			t.Fatalf("insert %d: %v", tid, err)
		}
	}

	ids, err := repo.ProcessedIDs(context.Background())
	if err != nil {
		t.Fatalf("processed ids: %v", err)
	}

	if len(ids) != 3 {
		t.Fatalf("want 3 ids, got %d", len(ids))
	}

	for tid := int64(1); tid <= 3; tid++ {
		if _, ok := ids[tid]; !ok {
			t.Fatalf("id %d missing", tid)
		}
	}
}
