package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

func (r *sessionsRepo) Create(ctx context.Context, userID, initialScore int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_scores (user_id, score)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, initialScore)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *sessionsRepo) Get(ctx context.Context, userID int64) (sessions.Row, error) {
	var row sessions.Row

	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, score, state, bet,
		       win, lose, total_bet, prize, deposit, withdraw
		FROM user_scores
		WHERE user_id = $1
	`, userID).Scan(
		&row.UserID, &row.Score, &row.State, &row.Bet,
		&row.Win, &row.Lose, &row.TotalBet, &row.Prize,
		&row.Deposit, &row.Withdraw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sessions.Row{}, sessions.ErrSessionNotFound
		}

		return sessions.Row{}, fmt.Errorf("get session: %w", err)
	}

	return row, nil
}
