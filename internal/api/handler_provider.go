package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fastprodman/vcoingame/internal/repos/sessions"
	"github.com/fastprodman/vcoingame/internal/top"
	"github.com/go-chi/chi/v5"
)

// HandlerProvider exposes read-only HTTP views over the bot's state.
type HandlerProvider struct {
	repo sessions.Sessions
	tops *top.Service
}

func NewHandler(repo sessions.Sessions, tops *top.Service) *HandlerProvider {
	return &HandlerProvider{repo: repo, tops: tops}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseUserIDFromPath(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

func parseBoardFromPath(r *http.Request) (sessions.BoardKind, error) {
	switch chi.URLParam(r, "board") {
	case "score":
		return sessions.BoardScore, nil
	case "wins":
		return sessions.BoardWins, nil
	case "winrate":
		return sessions.BoardWinRate, nil
	case "games":
		return sessions.BoardGames, nil
	case "profit":
		return sessions.BoardProfit, nil
	default:
		return "", fmt.Errorf("unknown board")
	}
}

// --- Handlers ---

// GetUserStatsHandler handles GET /user/{userId}/stats
func (h *HandlerProvider) GetUserStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	row, err := h.repo.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":   row.UserID,
		"score":    row.Score,
		"win":      row.Win,
		"lose":     row.Lose,
		"totalBet": row.TotalBet,
		"prize":    row.Prize,
		"deposit":  row.Deposit,
		"withdraw": row.Withdraw,
	})
}

// GetBoardHandler handles GET /top/{board}
func (h *HandlerProvider) GetBoardHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := parseBoardFromPath(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown board")
		return
	}

	positions := h.tops.Top(kind)

	out := make([]map[string]any, 0, len(positions))
	for _, p := range positions {
		out = append(out, map[string]any{
			"userId": p.UserID,
			"rank":   p.Rank,
			"value":  p.Value,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"board":     string(kind),
		"positions": out,
	})
}
