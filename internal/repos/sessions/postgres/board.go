package sessions

import (
	"context"
	"fmt"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

// Ranking queries per board. Winrate only counts users with more than
// 20 finished games so a lucky first flip does not top the board.
var boardQueries = map[sessions.BoardKind]string{
	sessions.BoardScore: `
		SELECT user_id,
		       score AS value,
		       rank() OVER (ORDER BY score DESC) AS position
		FROM user_scores
		ORDER BY position`,
	sessions.BoardWins: `
		SELECT user_id,
		       win AS value,
		       rank() OVER (ORDER BY win DESC) AS position
		FROM user_scores
		ORDER BY position`,
	sessions.BoardWinRate: `
		SELECT user_id,
		       round((win::float / (win + lose)) * 100)::bigint AS value,
		       rank() OVER (ORDER BY win::float / (win + lose) DESC) AS position
		FROM user_scores
		WHERE (lose != 0 OR win != 0) AND lose + win > 20
		ORDER BY position`,
	sessions.BoardGames: `
		SELECT user_id,
		       win + lose AS value,
		       rank() OVER (ORDER BY win + lose DESC) AS position
		FROM user_scores
		ORDER BY position`,
	sessions.BoardProfit: `
		SELECT user_id,
		       prize - total_bet AS value,
		       rank() OVER (ORDER BY prize - total_bet DESC) AS position
		FROM user_scores
		ORDER BY position`,
}

func (r *sessionsRepo) Board(ctx context.Context, kind sessions.BoardKind) ([]sessions.Position, error) {
	query, ok := boardQueries[kind]
	if !ok {
		return nil, fmt.Errorf("unknown board kind: %s", kind)
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query board %s: %w", kind, err)
	}
	defer rows.Close()

	var positions []sessions.Position

	for rows.Next() {
		var p sessions.Position

		err := rows.Scan(&p.UserID, &p.Value, &p.Rank)
		if err != nil {
			return nil, fmt.Errorf("scan board row: %w", err)
		}

		positions = append(positions, p)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate board rows: %w", err)
	}

	return positions, nil
}
