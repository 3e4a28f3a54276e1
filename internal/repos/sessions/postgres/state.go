package sessions

import (
	"context"
	"fmt"
)

func (r *sessionsRepo) SetState(ctx context.Context, userID int64, state int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores
		SET state = $2
		WHERE user_id = $1
	`, userID, state)
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

func (r *sessionsRepo) SetBet(ctx context.Context, userID, bet int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores
		SET bet = $2
		WHERE user_id = $1
	`, userID, bet)
	if err != nil {
		return fmt.Errorf("set bet: %w", err)
	}

	return nil
}
