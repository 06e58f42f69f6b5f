package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// FeaturedHandler handles featured card requests.
type FeaturedHandler struct {
	featured *store.FeaturedStore
}

// NewFeaturedHandler creates a FeaturedHandler.
func NewFeaturedHandler(featured *store.FeaturedStore) *FeaturedHandler {
	return &FeaturedHandler{featured: featured}
}

// GetFeatured returns the featured card schedule.
func (h *FeaturedHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.featured.Cards())
}

// GetCurrent returns the card selected by the last recompute.
func (h *FeaturedHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	h.current(w)
}

// RefreshCurrent recomputes the current card for the present time.
func (h *FeaturedHandler) RefreshCurrent(w http.ResponseWriter, r *http.Request) {
	if err := h.featured.UpdateCurrent(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to update featured card: %w", err))
		return
	}
	h.current(w)
}

func (h *FeaturedHandler) current(w http.ResponseWriter) {
	card, ok := h.featured.Current()
	if !ok {
		response.NotFound(w, errors.New("no card is featured right now"))
		return
	}
	response.Success(w, card)
}

// SetFeatured replaces the schedule.
func (h *FeaturedHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var list []store.FeaturedCard
	if err := response.Decode(r, &list); err != nil {
		response.BadRequest(w, err)
		return
	}
	for _, f := range list {
		if f.CardID == "" || !f.EndDate.After(f.StartDate) {
			response.BadRequest(w, fmt.Errorf("featured card %q needs a card id and an end after its start", f.CardID))
			return
		}
	}
	if err := h.featured.SetFeaturedCards(r.Context(), list); err != nil {
		response.InternalError(w, fmt.Errorf("failed to save featured cards: %w", err))
		return
	}
	response.Success(w, h.featured.Cards())
}
