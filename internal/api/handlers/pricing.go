package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// PricingHandler handles card price requests.
type PricingHandler struct {
	pricing *store.PricingStore
}

// NewPricingHandler creates a PricingHandler.
func NewPricingHandler(pricing *store.PricingStore) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// GetPrices returns all known prices ordered by card id.
func (h *PricingHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.pricing.All())
}

// GetPrice returns the price of one card.
func (h *PricingHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	price, ok := h.pricing.GetPrice(cardID)
	if !ok {
		response.NotFound(w, fmt.Errorf("no price for card: %s", cardID))
		return
	}
	response.Success(w, price)
}

// UpdatePrice stores the price of one card.
func (h *PricingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	var price store.CardPrice
	if err := response.Decode(r, &price); err != nil {
		response.BadRequest(w, err)
		return
	}
	if err := h.pricing.UpdatePrice(r.Context(), cardID, price); err != nil {
		response.InternalError(w, fmt.Errorf("failed to update price: %w", err))
		return
	}
	price, _ = h.pricing.GetPrice(cardID)
	response.Success(w, price)
}

// ClearPrices removes every price.
func (h *PricingHandler) ClearPrices(w http.ResponseWriter, r *http.Request) {
	if err := h.pricing.Clear(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to clear prices: %w", err))
		return
	}
	response.NoContent(w)
}
