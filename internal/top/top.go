package top

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

const topSize = 10

var allBoards = []sessions.BoardKind{
	sessions.BoardScore,
	sessions.BoardWins,
	sessions.BoardWinRate,
	sessions.BoardGames,
	sessions.BoardProfit,
}

type board struct {
	top    []sessions.Position
	byUser map[int64]sessions.Position
}

// Service keeps an in-process snapshot of the leaderboards, refreshed
// on a fixed interval. Reads never touch the database.
type Service struct {
	repo     sessions.Sessions
	interval time.Duration

	mu     sync.RWMutex
	boards map[sessions.BoardKind]board
}

func NewService(repo sessions.Sessions, interval time.Duration) *Service {
	return &Service{
		repo:     repo,
		interval: interval,
		boards:   make(map[sessions.BoardKind]board),
	}
}

// Refresh recomputes every board from storage.
func (s *Service) Refresh(ctx context.Context) error {
	fresh := make(map[sessions.BoardKind]board, len(allBoards))

	for _, kind := range allBoards {
		positions, err := s.repo.Board(ctx, kind)
		if err != nil {
			return fmt.Errorf("refresh board %s: %w", kind, err)
		}

		b := board{
			byUser: make(map[int64]sessions.Position, len(positions)),
		}

		for i, p := range positions {
			if i < topSize {
				b.top = append(b.top, p)
			}

			b.byUser[p.UserID] = p
		}

		fresh[kind] = b
	}

	s.mu.Lock()
	s.boards = fresh
	s.mu.Unlock()

	return nil
}

// Run refreshes immediately and then on the service's interval until
// ctx is done.
func (s *Service) Run(ctx context.Context) error {
	err := s.Refresh(ctx)
	if err != nil {
		slog.Error("leaderboard refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.Refresh(ctx)
			if err != nil {
				slog.Error("leaderboard refresh failed", "error", err)
			}
		}
	}
}

// Top returns the board's first positions.
func (s *Service) Top(kind sessions.BoardKind) []sessions.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.boards[kind].top
}

// Position returns the user's own ranked position on the board.
func (s *Service) Position(kind sessions.BoardKind, userID int64) (sessions.Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.boards[kind].byUser[userID]

	return p, ok
}
