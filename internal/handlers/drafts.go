package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/models"
	"github.com/dotapit/stats-api/internal/store"
)

const rosterKey = "dotapit:roster"

// CreateDraft generates five balanced team partitions for ten players. The
// roster comes from the request body, or from the shared Redis roster when
// the body names nobody.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A bodyless POST drafts the shared roster, so EOF is not an error.
	var req models.DraftRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Draft requires exactly 10 distinct players")
		return
	}

	players := req.Players
	if len(players) == 0 {
		var err error
		players, err = h.rosterMembers(r)
		if err != nil {
			h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
			return
		}
	}

	batch, err := h.draft.GenerateDrafts(ctx, players)
	if h.serviceError(w, err) {
		return
	}

	if wantsText(r) {
		h.textResponse(w, http.StatusOK, logic.FormatDraftBatch(batch))
		return
	}
	h.jsonResponse(w, http.StatusOK, batch)
}

// GetRoster lists the players currently signed up for the next draft.
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	members, err := h.rosterMembers(r)
	if err != nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"players": members,
		"count":   len(members),
	})
}

// JoinRoster signs a player up for the next draft. Joining twice is a no-op.
func (h *Handler) JoinRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		h.errorResponse(w, http.StatusBadRequest, "Player name required")
		return
	}
	if h.redis == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
		return
	}

	// Only registered players can sign up; the draft needs their MMR and
	// role later anyway.
	if _, err := h.registry.Get(ctx, name); err != nil {
		if errors.Is(err, store.ErrNotRegistered) {
			h.errorResponse(w, http.StatusNotFound, "Player not registered")
			return
		}
		h.logger.Errorw("Registry lookup failed", "player", name, "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Registry unavailable")
		return
	}

	added, err := h.redis.SAdd(ctx, rosterKey, name).Result()
	if err != nil {
		h.logger.Errorw("Roster join failed", "player", name, "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
		return
	}

	count, _ := h.redis.SCard(ctx, rosterKey).Result()
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player": name,
		"joined": added > 0,
		"count":  count,
	})
}

// LeaveRoster removes a player from the next draft's signup list.
func (h *Handler) LeaveRoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		h.errorResponse(w, http.StatusBadRequest, "Player name required")
		return
	}
	if h.redis == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
		return
	}

	removed, err := h.redis.SRem(ctx, rosterKey, name).Result()
	if err != nil {
		h.logger.Errorw("Roster leave failed", "player", name, "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Roster unavailable")
		return
	}

	count, _ := h.redis.SCard(ctx, rosterKey).Result()
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"player": name,
		"left":   removed > 0,
		"count":  count,
	})
}

func (h *Handler) rosterMembers(r *http.Request) ([]string, error) {
	if h.redis == nil {
		return nil, logic.ErrDatasetUnavailable
	}
	members, err := h.redis.SMembers(r.Context(), rosterKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}
