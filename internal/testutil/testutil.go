// Package testutil provides in-memory repo fakes for tests that do
// not need a live database.
package testutil

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/fastprodman/vcoingame/internal/repos/ledger"
	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

// MemSessions is an in-memory sessions.Sessions implementation.
type MemSessions struct {
	mu   sync.Mutex
	Rows map[int64]*sessions.Row

	// CreateCalls counts durable create attempts, including no-op
	// upserts for existing users.
	CreateCalls int
}

var _ sessions.Sessions = (*MemSessions)(nil)

func NewMemSessions() *MemSessions {
	return &MemSessions{Rows: make(map[int64]*sessions.Row)}
}

func (m *MemSessions) Create(ctx context.Context, userID, initialScore int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++

	if _, ok := m.Rows[userID]; ok {
		return nil
	}

	m.Rows[userID] = &sessions.Row{UserID: userID, Score: initialScore}

	return nil
}

func (m *MemSessions) Get(ctx context.Context, userID int64) (sessions.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.Rows[userID]
	if !ok {
		return sessions.Row{}, sessions.ErrSessionNotFound
	}

	return *row, nil
}

func (m *MemSessions) AddScore(ctx context.Context, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Score += amount

	return nil
}

func (m *MemSessions) SubScore(ctx context.Context, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.Rows[userID]
	if row.Score < amount {
		return sessions.ErrInsufficientFunds
	}

	row.Score -= amount

	return nil
}

func (m *MemSessions) SetState(ctx context.Context, userID int64, state int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].State = state

	return nil
}

func (m *MemSessions) SetBet(ctx context.Context, userID, bet int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Bet = bet

	return nil
}

func (m *MemSessions) AddWin(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Win++

	return nil
}

func (m *MemSessions) AddLose(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Lose++

	return nil
}

func (m *MemSessions) AddBet(ctx context.Context, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].TotalBet += amount

	return nil
}

func (m *MemSessions) AddPrize(ctx context.Context, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Prize += amount

	return nil
}

func (m *MemSessions) AddWithdraw(ctx context.Context, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Withdraw += amount

	return nil
}

func (m *MemSessions) AddScoreTx(tx *sql.Tx, userID, amount int64) error {
	return m.AddScore(context.Background(), userID, amount)
}

func (m *MemSessions) AddDepositTx(tx *sql.Tx, userID, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Rows[userID].Deposit += amount

	return nil
}

func (m *MemSessions) Board(ctx context.Context, kind sessions.BoardKind) ([]sessions.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var positions []sessions.Position

	for _, row := range m.Rows {
		var value int64

		switch kind {
		case sessions.BoardScore:
			value = row.Score
		case sessions.BoardWins:
			value = row.Win
		case sessions.BoardWinRate:
			if row.Win+row.Lose <= 20 {
				continue
			}

			value = row.Win * 100 / (row.Win + row.Lose)
		case sessions.BoardGames:
			value = row.Win + row.Lose
		case sessions.BoardProfit:
			value = row.Prize - row.TotalBet
		}

		positions = append(positions, sessions.Position{UserID: row.UserID, Value: value})
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Value > positions[j].Value
	})

	for i := range positions {
		positions[i].Rank = int64(i + 1)
	}

	return positions, nil
}

// MemLedger is an in-memory ledger.Transactions implementation.
type MemLedger struct {
	mu      sync.Mutex
	Records map[int64]ledger.Record
}

var _ ledger.Transactions = (*MemLedger)(nil)

func NewMemLedger() *MemLedger {
	return &MemLedger{Records: make(map[int64]ledger.Record)}
}

func (m *MemLedger) Insert(tx *sql.Tx, rec ledger.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.Records[rec.TID]; ok {
		return ledger.ErrDuplicateTransaction
	}

	m.Records[rec.TID] = rec

	return nil
}

func (m *MemLedger) ProcessedIDs(ctx context.Context) (map[int64]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make(map[int64]struct{}, len(m.Records))
	for tid := range m.Records {
		ids[tid] = struct{}{}
	}

	return ids, nil
}
