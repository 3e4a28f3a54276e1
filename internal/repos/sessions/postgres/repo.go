package sessions

import (
	"database/sql"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
)

var _ sessions.Sessions = (*sessionsRepo)(nil)

type sessionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *sessionsRepo {
	return &sessionsRepo{db: db}
}
