package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/models"
)

// GetMeta returns the current meta report: strongest and most contested
// heroes over the whole dataset.
func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if wantsText(r) {
		report, err := h.analysis.Meta(ctx)
		if h.serviceError(w, err) {
			return
		}
		h.textResponse(w, http.StatusOK, logic.FormatMeta(report))
		return
	}

	result, err := h.cached(ctx, "dotapit:meta", &models.MetaReport{}, func() (interface{}, error) {
		return h.analysis.Meta(ctx)
	})
	if h.serviceError(w, err) {
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetLeaderboard ranks players by the requested stat. min_games narrows the
// sample floor; unknown stats fall back to win rate.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stat := chi.URLParam(r, "stat")

	minGames := 0
	if raw := r.URL.Query().Get("min_games"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.errorResponse(w, http.StatusBadRequest, "min_games must be a non-negative integer")
			return
		}
		minGames = parsed
	}

	if wantsText(r) {
		entries, err := h.analysis.Leaderboard(ctx, stat, minGames)
		if h.serviceError(w, err) {
			return
		}
		h.textResponse(w, http.StatusOK, logic.FormatLeaderboard(stat, entries))
		return
	}

	key := fmt.Sprintf("dotapit:leaderboard:%s:%d", stat, minGames)
	result, err := h.cached(ctx, key, &[]models.LeaderboardEntry{}, func() (interface{}, error) {
		return h.analysis.Leaderboard(ctx, stat, minGames)
	})
	if h.serviceError(w, err) {
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"stat":    stat,
		"entries": result,
	})
}
