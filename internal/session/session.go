package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// State is the per-user conversation mode gating which handlers may
// respond to the next message.
type State int

const (
	// StateAll is a wildcard used in handler state sets; it is never
	// assigned to a session.
	StateAll State = -1

	StateMenu     State = 0
	StateGame     State = 1
	StateBet      State = 2
	StateWithdraw State = 3
	StateTop      State = 4
)

// Stats are the lifetime counters of a user.
type Stats struct {
	Win      int64
	Lose     int64
	TotalBet int64
	Prize    int64
	Deposit  int64
	Withdraw int64
}

// Session is the cached mirror of one user's durable record. Every
// mutation writes through to storage first and only then updates the
// mirror, so the two never diverge for longer than the write itself.
type Session struct {
	userID int64
	repo   sessions.Sessions

	mu    sync.Mutex
	score int64
	state State
	bet   int64
	stats Stats
}

func newSession(repo sessions.Sessions, row sessions.Row) *Session {
	return &Session{
		userID: row.UserID,
		repo:   repo,
		score:  row.Score,
		state:  State(row.State),
		bet:    row.Bet,
		stats: Stats{
			Win:      row.Win,
			Lose:     row.Lose,
			TotalBet: row.TotalBet,
			Prize:    row.Prize,
			Deposit:  row.Deposit,
			Withdraw: row.Withdraw,
		},
	}
}

func (s *Session) UserID() int64 { return s.userID }

func (s *Session) Score() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.score
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Bet() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bet
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stats
}

// Credit adds amount to the balance.
func (s *Session) Credit(ctx context.Context, amount int64) error {
	err := s.repo.AddScore(ctx, s.userID, amount)
	if err != nil {
		return fmt.Errorf("credit: %w", err)
	}

	s.mu.Lock()
	s.score += amount
	s.mu.Unlock()

	return nil
}

// Debit subtracts amount from the balance. The durable write is
// conditional on sufficiency; ErrInsufficientFunds means nothing was
// mutated.
func (s *Session) Debit(ctx context.Context, amount int64) error {
	err := s.repo.SubScore(ctx, s.userID, amount)
	if err != nil {
		if errors.Is(err, sessions.ErrInsufficientFunds) {
			return ErrInsufficientFunds
		}

		return fmt.Errorf("debit: %w", err)
	}

	s.mu.Lock()
	s.score -= amount
	s.mu.Unlock()

	return nil
}

func (s *Session) SetState(ctx context.Context, state State) error {
	err := s.repo.SetState(ctx, s.userID, int(state))
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	return nil
}

func (s *Session) SetBet(ctx context.Context, bet int64) error {
	err := s.repo.SetBet(ctx, s.userID, bet)
	if err != nil {
		return fmt.Errorf("set bet: %w", err)
	}

	s.mu.Lock()
	s.bet = bet
	s.mu.Unlock()

	return nil
}

func (s *Session) AddWin(ctx context.Context) error {
	err := s.repo.AddWin(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("add win: %w", err)
	}

	s.mu.Lock()
	s.stats.Win++
	s.mu.Unlock()

	return nil
}

func (s *Session) AddLose(ctx context.Context) error {
	err := s.repo.AddLose(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("add lose: %w", err)
	}

	s.mu.Lock()
	s.stats.Lose++
	s.mu.Unlock()

	return nil
}

func (s *Session) AddBet(ctx context.Context, amount int64) error {
	err := s.repo.AddBet(ctx, s.userID, amount)
	if err != nil {
		return fmt.Errorf("add bet: %w", err)
	}

	s.mu.Lock()
	s.stats.TotalBet += amount
	s.mu.Unlock()

	return nil
}

func (s *Session) AddPrize(ctx context.Context, amount int64) error {
	err := s.repo.AddPrize(ctx, s.userID, amount)
	if err != nil {
		return fmt.Errorf("add prize: %w", err)
	}

	s.mu.Lock()
	s.stats.Prize += amount
	s.mu.Unlock()

	return nil
}

func (s *Session) AddWithdraw(ctx context.Context, amount int64) error {
	err := s.repo.AddWithdraw(ctx, s.userID, amount)
	if err != nil {
		return fmt.Errorf("add withdraw: %w", err)
	}

	s.mu.Lock()
	s.stats.Withdraw += amount
	s.mu.Unlock()

	return nil
}

// applyDeposit syncs the mirror after a deposit committed outside the
// session's own write path.
func (s *Session) applyDeposit(amount int64) {
	s.mu.Lock()
	s.score += amount
	s.stats.Deposit += amount
	s.mu.Unlock()
}
