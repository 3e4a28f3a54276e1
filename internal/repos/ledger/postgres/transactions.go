package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/vcoingame/internal/repos/ledger"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ ledger.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, rec ledger.Record) error {
	_, err := tx.Exec(`
		INSERT INTO processed_transactions (tid, from_id, to_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, rec.TID, rec.FromID, rec.ToID, rec.Amount, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return ledger.ErrDuplicateTransaction
			}
		}

		return fmt.Errorf("insert transaction: %w", err)
	}

	return nil
}

func (r *transactionsRepo) ProcessedIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tid
		FROM processed_transactions
		ORDER BY tid DESC
		LIMIT 1000
	`)
	if err != nil {
		return nil, fmt.Errorf("query processed ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})

	for rows.Next() {
		var tid int64

		err := rows.Scan(&tid)
		if err != nil {
			return nil, fmt.Errorf("scan tid: %w", err)
		}

		ids[tid] = struct{}{}
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate tids: %w", err)
	}

	return ids, nil
}
