package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

// GetHeroAnalysis returns pick/win aggregates, best players and popular
// items for a hero.
func (h *Handler) GetHeroAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	if wantsText(r) {
		analysis, err := h.analysis.AnalyzeHero(ctx, name)
		if h.serviceError(w, err) {
			return
		}
		h.textResponse(w, http.StatusOK, logic.FormatHeroAnalysis(analysis))
		return
	}

	key := fmt.Sprintf("dotapit:hero:%s", store.NormalizeName(name))
	result, err := h.cached(ctx, key, &models.HeroAnalysis{}, func() (interface{}, error) {
		return h.analysis.AnalyzeHero(ctx, name)
	})
	if h.serviceError(w, err) {
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}

// GetHeroCounters returns the hard and soft counter lists for a hero.
func (h *Handler) GetHeroCounters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	counters, err := h.analysis.CounterPicks(ctx, name)
	if h.serviceError(w, err) {
		return
	}

	if wantsText(r) {
		h.textResponse(w, http.StatusOK, logic.FormatCounterPicks(counters))
		return
	}
	h.jsonResponse(w, http.StatusOK, counters)
}

// GetHeroTimings returns the average purchase clock per item for a hero.
func (h *Handler) GetHeroTimings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	timings, err := h.analysis.ItemTimings(ctx, name)
	if h.serviceError(w, err) {
		return
	}

	if wantsText(r) {
		h.textResponse(w, http.StatusOK, logic.FormatItemTimings(name, timings))
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"hero":    name,
		"timings": timings,
	})
}
