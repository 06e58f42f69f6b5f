package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// PackHandler handles pack opening and currency requests.
type PackHandler struct {
	engine *packs.Engine
	packs  *store.PackStore
}

// NewPackHandler creates a PackHandler.
func NewPackHandler(engine *packs.Engine, packStore *store.PackStore) *PackHandler {
	return &PackHandler{engine: engine, packs: packStore}
}

// OpenPackRequest selects the pack type to open.
type OpenPackRequest struct {
	PackType store.PackType `json:"packType"`
}

// OpenPackResponse is the result of opening a pack. Warning is set when
// the cards were drawn but an effect could not be saved.
type OpenPackResponse struct {
	Cards    []cards.Card `json:"cards"`
	Currency int          `json:"currency"`
	Warning  string       `json:"warning,omitempty"`
}

// GetPackTypes lists the configured pack types.
func (h *PackHandler) GetPackTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.engine.Types())
}

// OpenPack opens a pack for free.
func (h *PackHandler) OpenPack(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.engine.OpenPack)
}

// BuyPack pays for a pack and opens it.
func (h *PackHandler) BuyPack(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, h.engine.BuyPack)
}

func (h *PackHandler) open(w http.ResponseWriter, r *http.Request, fn func(context.Context, store.PackType) ([]cards.Card, error)) {
	var req OpenPackRequest
	if err := response.Decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if req.PackType == "" {
		response.BadRequest(w, errors.New("packType is required"))
		return
	}

	drawn, err := fn(r.Context(), req.PackType)
	if err != nil && drawn == nil {
		writeError(w, err)
		return
	}

	resp := OpenPackResponse{Cards: drawn, Currency: h.packs.Currency()}
	if err != nil {
		resp.Warning = err.Error()
	}
	response.Success(w, resp)
}

// GetHistory returns pack openings, most recent first.
func (h *PackHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.packs.History())
}

// ClearHistory empties the pack history.
func (h *PackHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.packs.ClearHistory(r.Context()); err != nil {
		response.InternalError(w, fmt.Errorf("failed to clear pack history: %w", err))
		return
	}
	response.NoContent(w)
}

// CurrencyResponse describes the balance and the daily bonus.
type CurrencyResponse struct {
	Currency      int        `json:"currency"`
	CanClaimDaily bool       `json:"canClaimDaily"`
	NextClaimAt   *time.Time `json:"nextClaimAt,omitempty"`
}

func (h *PackHandler) currency() CurrencyResponse {
	resp := CurrencyResponse{
		Currency:      h.packs.Currency(),
		CanClaimDaily: h.packs.CanClaimDaily(),
	}
	if next := h.packs.NextClaimAt(); !next.IsZero() {
		resp.NextClaimAt = &next
	}
	return resp
}

// GetCurrency returns the balance and daily bonus state.
func (h *PackHandler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.currency())
}

// ClaimDaily claims the daily bonus when it is available.
func (h *PackHandler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	claimed, err := h.packs.ClaimDailyBonus(r.Context())
	if err != nil {
		response.InternalError(w, fmt.Errorf("failed to claim daily bonus: %w", err))
		return
	}
	response.Success(w, struct {
		Claimed bool `json:"claimed"`
		CurrencyResponse
	}{claimed, h.currency()})
}
