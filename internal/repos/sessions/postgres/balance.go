package sessions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

func (r *sessionsRepo) AddScore(ctx context.Context, userID, amount int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores
		SET score = score + $2
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add score: %w", err)
	}

	return nil
}

func (r *sessionsRepo) SubScore(ctx context.Context, userID, amount int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_scores
		SET score = score - $2
		WHERE user_id = $1
		  AND score >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("sub score: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return sessions.ErrInsufficientFunds
	}

	return nil
}

func (r *sessionsRepo) AddScoreTx(tx *sql.Tx, userID, amount int64) error {
	_, err := tx.Exec(`
		UPDATE user_scores
		SET score = score + $2
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add score: %w", err)
	}

	return nil
}
