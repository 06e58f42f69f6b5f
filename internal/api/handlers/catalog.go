package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/metrics"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/catalog"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// CardFetcher loads the full card list from the content service.
type CardFetcher interface {
	FetchAllCards(ctx context.Context, locale string) ([]cards.Card, error)
}

// CatalogHandler handles card catalog requests.
type CatalogHandler struct {
	holder     *catalog.Holder
	collection *store.CollectionStore
	fetcher    CardFetcher
	cachePath  string
	locale     string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// CatalogOptions configures a CatalogHandler. Fetcher may be nil, in
// which case refresh is unavailable; an empty CachePath skips caching.
type CatalogOptions struct {
	Holder     *catalog.Holder
	Collection *store.CollectionStore
	Fetcher    CardFetcher
	CachePath  string
	Locale     string
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(opts CatalogOptions) *CatalogHandler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &CatalogHandler{
		holder:     opts.Holder,
		collection: opts.Collection,
		fetcher:    opts.Fetcher,
		cachePath:  opts.CachePath,
		locale:     opts.Locale,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// SearchCards lists cards filtered by the q, rarity, type, domain, owned
// and sort query parameters.
func (h *CatalogHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query:  q.Get("q"),
		Rarity: cards.Rarity(q.Get("rarity")),
		Type:   cards.Type(q.Get("type")),
		Domain: cards.Domain(q.Get("domain")),
		Owned:  catalog.OwnedFilter(q.Get("owned")),
		Sort:   catalog.SortKey(q.Get("sort")),
	}
	if filter.Rarity != "" && !filter.Rarity.Valid() {
		response.BadRequest(w, fmt.Errorf("unknown rarity: %s", filter.Rarity))
		return
	}
	switch filter.Owned {
	case catalog.OwnedAll, catalog.OwnedOnly, catalog.OwnedExcluded:
	default:
		response.BadRequest(w, fmt.Errorf("owned must be %q or %q", catalog.OwnedOnly, catalog.OwnedExcluded))
		return
	}
	if h.collection != nil {
		filter.IsOwned = h.collection.IsOwned
	}

	list := h.holder.Current().Search(filter)
	if list == nil {
		list = []cards.Card{}
	}
	response.Success(w, list)
}

// GetCard returns one card by id.
func (h *CatalogHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	card, ok := h.holder.Current().Get(cardID)
	if !ok {
		response.NotFound(w, fmt.Errorf("card not found: %s", cardID))
		return
	}
	response.Success(w, card)
}

// RefreshCatalog fetches the card list, swaps it in and writes the cache.
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		response.Error(w, http.StatusServiceUnavailable, errors.New("content service is not configured"))
		return
	}

	start := time.Now()
	list, err := h.fetcher.FetchAllCards(r.Context(), h.locale)
	h.metrics.RecordRefresh(time.Since(start), err)
	if err != nil {
		response.Error(w, http.StatusBadGateway, fmt.Errorf("failed to fetch cards: %w", err))
		return
	}

	cat := h.holder.Replace(list)
	if h.cachePath != "" {
		if err := catalog.SaveFile(h.cachePath, list, time.Now()); err != nil {
			h.logger.Warn("Failed to write catalog cache", "path", h.cachePath, "error", err)
		}
	}
	h.logger.Info("Catalog refreshed", "cards", cat.Len())
	response.Success(w, map[string]int{"cards": cat.Len()})
}
