package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/storage"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

func newStores() *store.Registry {
	return store.NewRegistry(store.Deps{Gateway: storage.NewMemoryGateway()})
}

func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{store.ErrDeckNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %q", packs.ErrUnknownPackType, "x"), http.StatusBadRequest},
		{fmt.Errorf("%w: no rare cards", packs.ErrEmptyRarityPool), http.StatusConflict},
		{packs.ErrInsufficientFunds, http.StatusPaymentRequired},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCollectionHandler_InvalidBody(t *testing.T) {
	h := NewCollectionHandler(newStores().Collection, nil)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"cardId":`))
	rec := httptest.NewRecorder()
	h.AddCard(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCollectionHandler_PersistFailure(t *testing.T) {
	gw := storage.NewMemoryGateway()
	stores := store.NewRegistry(store.Deps{Gateway: gw})
	gw.SetFailure(errors.New("disk full"))
	h := NewCollectionHandler(stores.Collection, nil)

	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"cardId":"OGN-001"}`))
	rec := httptest.NewRecorder()
	h.AddCard(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	if _, ok := stores.Collection.Get("OGN-001"); !ok {
		t.Error("Expected the in-memory change to stand after a failed write")
	}
}

func TestDeckHandler_SummaryWithoutLookup(t *testing.T) {
	stores := newStores()
	deck, err := stores.Decks.Create(context.Background(), store.DeckInput{
		Name:  "Unknown cards",
		Cards: []store.DeckCard{{CardID: "OGN-404", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	h := NewDeckHandler(stores.Decks, nil)

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/summary", nil), map[string]string{"deckID": deck.ID})
	rec := httptest.NewRecorder()
	h.GetSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"missing":["OGN-404"]`) {
		t.Errorf("Expected OGN-404 to be reported missing, got %s", rec.Body.String())
	}
}

func TestDeckHandler_RemoveAbsentCard(t *testing.T) {
	stores := newStores()
	deck, _ := stores.Decks.Create(context.Background(), store.DeckInput{Name: "Empty"})
	h := NewDeckHandler(stores.Decks, func(string) (cards.Card, bool) { return cards.Card{}, false })

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/cards", nil), map[string]string{
		"deckID": deck.ID,
		"cardID": "OGN-001",
	})
	rec := httptest.NewRecorder()
	h.RemoveCard(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestCatalogHandler_RefreshWithoutFetcher(t *testing.T) {
	h := NewCatalogHandler(CatalogOptions{})

	rec := httptest.NewRecorder()
	h.RefreshCatalog(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestCatalogHandler_InvalidOwnedFilter(t *testing.T) {
	h := NewCatalogHandler(CatalogOptions{})

	rec := httptest.NewRecorder()
	h.SearchCards(rec, httptest.NewRequest(http.MethodGet, "/?owned=maybe", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
