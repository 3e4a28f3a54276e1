package sessions

import (
	"context"
	"database/sql"
	"errors"
)

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrSessionNotFound = errors.New("session not found")

// Row is the durable per-user record. Score and all amounts are in
// thousandths of a coin.
type Row struct {
	UserID   int64
	Score    int64
	State    int
	Bet      int64
	Win      int64
	Lose     int64
	TotalBet int64
	Prize    int64
	Deposit  int64
	Withdraw int64
}

// BoardKind selects one of the leaderboard rankings.
type BoardKind string

const (
	BoardScore   BoardKind = "score"
	BoardWins    BoardKind = "wins"
	BoardWinRate BoardKind = "winrate"
	BoardGames   BoardKind = "games"
	BoardProfit  BoardKind = "profit"
)

// Position is one ranked leaderboard row. Value semantics depend on
// the board: an amount for score/profit, a count for wins/games, a
// percentage for winrate.
type Position struct {
	UserID int64
	Rank   int64
	Value  int64
}

type Sessions interface {
	// Create durably creates a default-valued record unless one
	// already exists. Safe to race for the same user id.
	Create(ctx context.Context, userID, initialScore int64) error
	Get(ctx context.Context, userID int64) (Row, error)

	AddScore(ctx context.Context, userID, amount int64) error
	// SubScore debits conditionally and reports ErrInsufficientFunds
	// without mutating when the balance does not cover the amount.
	SubScore(ctx context.Context, userID, amount int64) error

	SetState(ctx context.Context, userID int64, state int) error
	SetBet(ctx context.Context, userID, bet int64) error

	AddWin(ctx context.Context, userID int64) error
	AddLose(ctx context.Context, userID int64) error
	AddBet(ctx context.Context, userID, amount int64) error
	AddPrize(ctx context.Context, userID, amount int64) error
	AddWithdraw(ctx context.Context, userID, amount int64) error

	// Tx-scoped variants for the deposit flow, which must commit the
	// credit together with the dedup record.
	AddScoreTx(tx *sql.Tx, userID, amount int64) error
	AddDepositTx(tx *sql.Tx, userID, amount int64) error

	Board(ctx context.Context, kind BoardKind) ([]Position, error)
}
