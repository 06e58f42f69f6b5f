package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// CollectionHandler handles collection API requests.
type CollectionHandler struct {
	collection  *store.CollectionStore
	catalogSize func() int
}

// NewCollectionHandler creates a CollectionHandler. catalogSize reports
// the number of cards completion is measured against.
func NewCollectionHandler(collection *store.CollectionStore, catalogSize func() int) *CollectionHandler {
	if catalogSize == nil {
		catalogSize = func() int { return 0 }
	}
	return &CollectionHandler{collection: collection, catalogSize: catalogSize}
}

// CardQuantityRequest names a card and a quantity.
type CardQuantityRequest struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

func (h *CollectionHandler) decodeCard(w http.ResponseWriter, r *http.Request, defaultQty int) (CardQuantityRequest, bool) {
	req := CardQuantityRequest{Quantity: defaultQty}
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return req, false
	}
	if req.CardID == "" {
		response.BadRequest(w, errors.New("cardId is required"))
		return req, false
	}
	return req, true
}

func (h *CollectionHandler) entry(w http.ResponseWriter, cardID string, err error) {
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to update collection: %w", err))
		return
	}
	e, ok := h.collection.Get(cardID)
	if !ok {
		e = store.CollectionEntry{CardID: cardID}
	}
	response.Success(w, e)
}

// GetCollection returns every entry ordered by card id.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.collection.Entries())
}

// GetStats returns collection totals and completion.
func (h *CollectionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.collection.Stats(h.catalogSize()))
}

// AddCard adds copies of a card; quantity defaults to one.
func (h *CollectionHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCard(w, r, 1)
	if !ok {
		return
	}
	h.entry(w, req.CardID, h.collection.Add(r.Context(), req.CardID, req.Quantity))
}

// RemoveCard removes copies of a card; quantity defaults to one.
func (h *CollectionHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCard(w, r, 1)
	if !ok {
		return
	}
	h.entry(w, req.CardID, h.collection.Remove(r.Context(), req.CardID, req.Quantity))
}

// UpdateQuantity sets the quantity of a card; zero removes it.
func (h *CollectionHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCard(w, r, 0)
	if !ok {
		return
	}
	h.entry(w, req.CardID, h.collection.UpdateQuantity(r.Context(), req.CardID, req.Quantity))
}

// ToggleOwned flips the owned flag of a card.
func (h *CollectionHandler) ToggleOwned(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCard(w, r, 0)
	if !ok {
		return
	}
	h.entry(w, req.CardID, h.collection.ToggleOwned(r.Context(), req.CardID))
}

// Import replaces the collection with the posted map.
func (h *CollectionHandler) Import(w http.ResponseWriter, r *http.Request) {
	var data map[string]store.CollectionEntry
	if err := response.Decode(r, &data); err != nil {
		response.BadRequest(w, err)
		return
	}
	if err := h.collection.Import(r.Context(), data); err != nil {
		response.InternalError(w, fmt.Errorf("failed to import collection: %w", err))
		return
	}
	response.Success(w, h.collection.Stats(h.catalogSize()))
}

// Export returns the collection keyed by card id.
func (h *CollectionHandler) Export(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.collection.Export())
}

// Clear empties the collection.
func (h *CollectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.collection.Clear(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to clear collection: %w", err))
		return
	}
	response.NoContent(w)
}
