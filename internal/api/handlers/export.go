package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/export"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// ExportHandler streams collection, deck and pack history downloads.
type ExportHandler struct {
	stores *store.Registry
	lookup export.CardLookup
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(stores *store.Registry, lookup export.CardLookup) *ExportHandler {
	return &ExportHandler{stores: stores, lookup: lookup}
}

// Export writes the {kind} dataset (collection, decks or packs) as a file
// download. The format query parameter selects csv or json.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	kind := chi.URLParam(r, "kind")
	var data interface{}
	switch kind {
	case "collection":
		data = export.CollectionRows(h.stores.Collection.Entries(), h.lookup, h.stores.Pricing.GetPrice)
	case "decks":
		data = export.DeckRows(h.stores.Decks.List(), h.lookup)
	case "packs":
		data = export.PackRows(h.stores.Packs.History())
	default:
		response.NotFound(w, fmt.Errorf("unknown export: %s", kind))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.GenerateFilename(kind, format, time.Now())))
	// Headers are sent, so a failed write only truncates the body.
	_ = export.Write(w, format, data)
}
