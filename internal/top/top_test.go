package top

import (
	"context"
	"testing"
	"time"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
	"github.com/fastprodman/vcoingame/internal/testutil"
)

func TestService_RefreshAndLookup(t *testing.T) {
	t.Parallel()

	repo := testutil.NewMemSessions()
	ctx := context.Background()

	for i := int64(1); i <= 15; i++ {
		err := repo.Create(ctx, i, i*1000)
		if err != nil {
			t.Fatalf("seed user %d: %v", i, err)
		}
	}

	svc := NewService(repo, time.Hour)

	err := svc.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	topScore := svc.Top(sessions.BoardScore)
	if len(topScore) != 10 {
		t.Fatalf("board must be cut to the top 10, got %d", len(topScore))
	}

	if topScore[0].UserID != 15 || topScore[0].Rank != 1 || topScore[0].Value != 15000 {
		t.Fatalf("leader mismatch: %+v", topScore[0])
	}

	// Users outside the cut still resolve their own position.
	pos, ok := svc.Position(sessions.BoardScore, 1)
	if !ok {
		t.Fatal("user 1 missing from the position index")
	}

	if pos.Rank != 15 {
		t.Fatalf("user 1 rank mismatch: %+v", pos)
	}
}

func TestService_EmptyBeforeRefresh(t *testing.T) {
	t.Parallel()

	svc := NewService(testutil.NewMemSessions(), time.Hour)

	if got := svc.Top(sessions.BoardScore); len(got) != 0 {
		t.Fatalf("want empty board before first refresh, got %+v", got)
	}

	if _, ok := svc.Position(sessions.BoardScore, 1); ok {
		t.Fatal("want no position before first refresh")
	}
}
