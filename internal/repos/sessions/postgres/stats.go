package sessions

import (
	"context"
	"database/sql"
	"fmt"
)

func (r *sessionsRepo) AddWin(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores SET win = win + 1 WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("add win: %w", err)
	}

	return nil
}

func (r *sessionsRepo) AddLose(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores SET lose = lose + 1 WHERE user_id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("add lose: %w", err)
	}

	return nil
}

func (r *sessionsRepo) AddBet(ctx context.Context, userID, amount int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores SET total_bet = total_bet + $2 WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add bet: %w", err)
	}

	return nil
}

func (r *sessionsRepo) AddPrize(ctx context.Context, userID, amount int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores SET prize = prize + $2 WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add prize: %w", err)
	}

	return nil
}

func (r *sessionsRepo) AddDepositTx(tx *sql.Tx, userID, amount int64) error {
	_, err := tx.Exec(`
		UPDATE user_scores SET deposit = deposit + $2 WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add deposit: %w", err)
	}

	return nil
}

func (r *sessionsRepo) AddWithdraw(ctx context.Context, userID, amount int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_scores SET withdraw = withdraw + $2 WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("add withdraw: %w", err)
	}

	return nil
}
