package handlers

import (
	"fmt"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// StatsHandler handles user statistics, community and onboarding
// requests.
type StatsHandler struct {
	stores      *store.Registry
	catalogSize func() int
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stores *store.Registry, catalogSize func() int) *StatsHandler {
	if catalogSize == nil {
		catalogSize = func() int { return 0 }
	}
	return &StatsHandler{stores: stores, catalogSize: catalogSize}
}

// GetStats returns the user statistics.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.stores.Stats.Get())
}

// UpdateStats merges a partial update into the statistics.
func (h *StatsHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	var patch store.StatsPatch
	if err := response.Decode(r, &patch); err != nil {
		response.BadRequest(w, err)
		return
	}
	stats, err := h.stores.Stats.Update(r.Context(), patch)
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to save stats: %w", err))
		return
	}
	response.Success(w, stats)
}

// RefreshStats recomputes collection figures and the collection value.
func (h *StatsHandler) RefreshStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.stores.Stats.RefreshFromCollection(ctx, h.stores.Collection.Stats(h.catalogSize())); err != nil {
		response.InternalError(w, fmt.Errorf("failed to refresh stats: %w", err))
		return
	}
	if _, err := h.stores.Stats.CalculateCollectionValue(ctx, h.stores.Collection.Entries(), h.stores.Pricing.GetPrice); err != nil {
		response.InternalError(w, fmt.Errorf("failed to value collection: %w", err))
		return
	}
	response.Success(w, h.stores.Stats.Get())
}

// CommunityResponse bundles community figures and the leaderboard.
type CommunityResponse struct {
	Stats       store.CommunityStats     `json:"stats"`
	Leaderboard []store.LeaderboardEntry `json:"leaderboard"`
}

// GetCommunity returns community figures and the leaderboard.
func (h *StatsHandler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	response.Success(w, CommunityResponse{
		Stats:       h.stores.Community.Stats(),
		Leaderboard: h.stores.Community.Leaderboard(),
	})
}

// UpdateCommunity replaces community figures and, when present, the
// leaderboard.
func (h *StatsHandler) UpdateCommunity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Stats       *store.CommunityStats    `json:"stats"`
		Leaderboard []store.LeaderboardEntry `json:"leaderboard"`
	}
	if err := response.Decode(r, &body); err != nil {
		response.BadRequest(w, err)
		return
	}
	if body.Stats != nil {
		if err := h.stores.Community.UpdateStats(r.Context(), *body.Stats); err != nil {
			response.InternalError(w, fmt.Errorf("failed to save community stats: %w", err))
			return
		}
	}
	if body.Leaderboard != nil {
		if err := h.stores.Community.UpdateLeaderboard(r.Context(), body.Leaderboard); err != nil {
			response.InternalError(w, fmt.Errorf("failed to save leaderboard: %w", err))
			return
		}
	}
	h.GetCommunity(w, r)
}

// GetOnboarding reports whether this is the first launch.
func (h *StatsHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]bool{"isFirstLaunch": h.stores.FirstLaunch.IsFirstLaunch()})
}

// CompleteOnboarding marks the first launch as done.
func (h *StatsHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.stores.FirstLaunch.Complete(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to complete onboarding: %w", err))
		return
	}
	response.Success(w, map[string]bool{"isFirstLaunch": false})
}
