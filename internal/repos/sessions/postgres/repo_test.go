package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/fastprodman/vcoingame/internal/infra/pgtestutil"
	"github.com/fastprodman/vcoingame/internal/infra/pgutils"
	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

func TestCreate_Idempotent(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	err := repo.Create(ctx, 1, 1000)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}

	// A concurrent first reference races the create; the second upsert
	// must neither fail nor reset the record.
	err = repo.Create(ctx, 1, 9999)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	row, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if row.Score != 1000 {
		t.Fatalf("second create must not overwrite, got score %d", row.Score)
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	_, err := New(db).Get(context.Background(), 404)
	if !errors.Is(err, sessions.ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
}

func TestSubScore_Conditional(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	err := repo.Create(ctx, 1, 500)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = repo.SubScore(ctx, 1, 501)
	if !errors.Is(err, sessions.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}

	row, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if row.Score != 500 {
		t.Fatalf("failed debit must not mutate, got %d", row.Score)
	}

	err = repo.SubScore(ctx, 1, 500)
	if err != nil {
		t.Fatalf("exact debit: %v", err)
	}

	row, err = repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if row.Score != 0 {
		t.Fatalf("want zero balance after exact debit, got %d", row.Score)
	}
}

func TestStateAndStats(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	err := repo.Create(ctx, 1, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.SetState(ctx, 1, 2); err != nil {
		t.Fatalf("set state: %v", err)
	}
	if err := repo.SetBet(ctx, 1, 5000); err != nil {
		t.Fatalf("set bet: %v", err)
	}
	if err := repo.AddWin(ctx, 1); err != nil {
		t.Fatalf("add win: %v", err)
	}
	if err := repo.AddLose(ctx, 1); err != nil {
		t.Fatalf("add lose: %v", err)
	}
	if err := repo.AddBet(ctx, 1, 5000); err != nil {
		t.Fatalf("add bet: %v", err)
	}
	if err := repo.AddPrize(ctx, 1, 10000); err != nil {
		t.Fatalf("add prize: %v", err)
	}
	if err := repo.AddWithdraw(ctx, 1, 2000); err != nil {
		t.Fatalf("add withdraw: %v", err)
	}

	row, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if row.State != 2 || row.Bet != 5000 {
		t.Fatalf("state/bet mismatch: %+v", row)
	}
	if row.Win != 1 || row.Lose != 1 || row.TotalBet != 5000 ||
		row.Prize != 10000 || row.Withdraw != 2000 {
		t.Fatalf("stats mismatch: %+v", row)
	}
}

func TestAddScoreTxAndDepositTx(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	err := repo.Create(ctx, 1, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = pgutils.WithTx(ctx, db, func(tx *sql.Tx) error {
		err := repo.AddScoreTx(tx, 1, 5000)
		if err != nil {
			return err
		}

		return repo.AddDepositTx(tx, 1, 5000)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	row, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if row.Score != 5000 || row.Deposit != 5000 {
		t.Fatalf("deposit tx mismatch: %+v", row)
	}
}

func TestBoard_RanksAndFilters(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	ctx := context.Background()

	// User 1: rich, few games. User 2: poorer, seasoned.
	if err := repo.Create(ctx, 1, 9000); err != nil {
		t.Fatalf("create 1: %v", err)
	}
	if err := repo.Create(ctx, 2, 1000); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	for i := 0; i < 15; i++ {
		if err := repo.AddWin(ctx, 2); err != nil {
			t.Fatalf("add win: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		if err := repo.AddLose(ctx, 2); err != nil {
			t.Fatalf("add lose: %v", err)
		}
	}

	score, err := repo.Board(ctx, sessions.BoardScore)
	if err != nil {
		t.Fatalf("score board: %v", err)
	}

	if len(score) != 2 || score[0].UserID != 1 || score[0].Rank != 1 {
		t.Fatalf("score board mismatch: %+v", score)
	}

	// User 1 has no finished games and must not appear on winrate.
	winrate, err := repo.Board(ctx, sessions.BoardWinRate)
	if err != nil {
		t.Fatalf("winrate board: %v", err)
	}

	if len(winrate) != 1 || winrate[0].UserID != 2 || winrate[0].Value != 60 {
		t.Fatalf("winrate board mismatch: %+v", winrate)
	}
}
