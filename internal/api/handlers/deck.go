package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// DeckHandler handles deck API requests.
type DeckHandler struct {
	decks  *store.DeckStore
	lookup func(id string) (cards.Card, bool)
}

// NewDeckHandler creates a DeckHandler. lookup resolves card data for
// deck summaries.
func NewDeckHandler(decks *store.DeckStore, lookup func(id string) (cards.Card, bool)) *DeckHandler {
	if lookup == nil {
		lookup = func(string) (cards.Card, bool) { return cards.Card{}, false }
	}
	return &DeckHandler{decks: decks, lookup: lookup}
}

// GetDecks returns all decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.decks.List())
}

// CreateDeck creates a deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var in store.DeckInput
	if err := response.Decode(r, &in); err != nil {
		response.BadRequest(w, err)
		return
	}
	if in.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	deck, err := h.decks.Create(r.Context(), in)
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to create deck: %w", err))
		return
	}
	response.Created(w, deck)
}

// GetDeck returns a deck by id.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	deck, ok := h.decks.Get(deckID)
	if !ok {
		response.NotFound(w, fmt.Errorf("deck not found: %s", deckID))
		return
	}
	response.Success(w, deck)
}

// UpdateDeck applies a partial update.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var patch store.DeckPatch
	if err := response.Decode(r, &patch); err != nil {
		response.BadRequest(w, err)
		return
	}

	deck, err := h.decks.Update(r.Context(), chi.URLParam(r, "deckID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, deck)
}

// DeleteDeck removes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.decks.Delete(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// DuplicateDeck copies a deck.
func (h *DeckHandler) DuplicateDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.decks.Duplicate(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, deck)
}

// AddCard adds one copy of a card. A card already at the copy limit is a
// conflict.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, cardID := chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID")
	added, err := h.decks.AddCard(r.Context(), deckID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !added {
		response.Conflict(w, fmt.Errorf("deck already has %d copies of %s", store.MaxCopiesPerCard, cardID))
		return
	}
	h.GetDeck(w, r)
}

// RemoveCard removes one copy of a card.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	deckID, cardID := chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID")
	removed, err := h.decks.RemoveCard(r.Context(), deckID, cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		response.NotFound(w, fmt.Errorf("card %s is not in deck", cardID))
		return
	}
	h.GetDeck(w, r)
}

// GetSummary returns counts and the energy curve of a deck.
func (h *DeckHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	summary, ok := h.decks.Summary(deckID, h.lookup)
	if !ok {
		response.NotFound(w, fmt.Errorf("deck not found: %s", deckID))
		return
	}
	response.Success(w, summary)
}
