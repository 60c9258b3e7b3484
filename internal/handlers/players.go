package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

// GetPlayerProfile returns a player's full profile: aggregate analysis plus
// teammate and matchup rankings, fetched concurrently.
func (h *Handler) GetPlayerProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if wantsText(r) {
		analysis, err := h.analysis.AnalyzePlayer(ctx, name)
		if h.serviceError(w, err) {
			return
		}
		h.textResponse(w, http.StatusOK, logic.FormatPlayerAnalysis(analysis))
		return
	}

	key := fmt.Sprintf("dotapit:profile:%s", store.NormalizeName(name))
	result, err := h.cached(ctx, key, &models.PlayerProfile{}, func() (interface{}, error) {
		profile := &models.PlayerProfile{}
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			analysis, err := h.analysis.AnalyzePlayer(gctx, name)
			profile.Analysis = analysis
			return err
		})
		// A thin match history only suppresses the relationship lists, not
		// the whole profile.
		optional := func(err error) error {
			if errors.Is(err, logic.ErrInsufficientData) {
				return nil
			}
			return err
		}
		g.Go(func() error {
			var err error
			profile.BestTeammates, err = h.analysis.BestTeammates(gctx, name)
			return optional(err)
		})
		g.Go(func() error {
			var err error
			profile.WorstTeammates, err = h.analysis.WorstTeammates(gctx, name)
			return optional(err)
		})
		g.Go(func() error {
			var err error
			profile.BestMatchups, err = h.analysis.BestMatchups(gctx, name)
			return optional(err)
		})
		g.Go(func() error {
			var err error
			profile.WorstMatchups, err = h.analysis.WorstMatchups(gctx, name)
			return optional(err)
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return profile, nil
	})
	if h.serviceError(w, err) {
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// ComparePlayers puts two players' aggregate stats side by side and names
// the winner per stat.
func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	first := chi.URLParam(r, "name")
	second := chi.URLParam(r, "other")

	comparison, err := h.analysis.Compare(ctx, first, second)
	if h.serviceError(w, err) {
		return
	}

	h.jsonResponse(w, http.StatusOK, comparison)
}
