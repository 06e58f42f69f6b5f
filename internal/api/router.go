package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/riftbound-companion/internal/api/handlers"
	"github.com/ramonehamilton/riftbound-companion/internal/api/response"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/version"
)

func (s *Server) catalogSize() int {
	return s.deps.Catalog.Current().Len()
}

func (s *Server) lookupCard(id string) (cards.Card, bool) {
	return s.deps.Catalog.Current().Get(id)
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	stores := s.deps.Stores

	s.router.Route("/api/v1", func(r chi.Router) {
		collectionHandler := handlers.NewCollectionHandler(stores.Collection, s.catalogSize)
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollection)
			r.Delete("/", collectionHandler.Clear)
			r.Get("/stats", collectionHandler.GetStats)
			r.Post("/add", collectionHandler.AddCard)
			r.Post("/remove", collectionHandler.RemoveCard)
			r.Post("/quantity", collectionHandler.UpdateQuantity)
			r.Post("/toggle", collectionHandler.ToggleOwned)
			r.Post("/import", collectionHandler.Import)
			r.Get("/export", collectionHandler.Export)
		})

		deckHandler := handlers.NewDeckHandler(stores.Decks, s.lookupCard)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Patch("/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Post("/{deckID}/duplicate", deckHandler.DuplicateDeck)
			r.Get("/{deckID}/summary", deckHandler.GetSummary)
			r.Post("/{deckID}/cards/{cardID}", deckHandler.AddCard)
			r.Delete("/{deckID}/cards/{cardID}", deckHandler.RemoveCard)
		})

		settingsHandler := handlers.NewSettingsHandler(stores.Settings)
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.GetSettings)
			r.Patch("/", settingsHandler.UpdateSettings)
			r.Post("/reset", settingsHandler.ResetSettings)
		})

		if s.deps.Packs != nil {
			packHandler := handlers.NewPackHandler(s.deps.Packs, stores.Packs)
			r.Route("/packs", func(r chi.Router) {
				r.Get("/types", packHandler.GetPackTypes)
				r.Post("/open", packHandler.OpenPack)
				r.Post("/buy", packHandler.BuyPack)
				r.Get("/history", packHandler.GetHistory)
				r.Delete("/history", packHandler.ClearHistory)
				r.Get("/currency", packHandler.GetCurrency)
				r.Post("/daily", packHandler.ClaimDaily)
			})
		}

		pointsHandler := handlers.NewPointsHandler(stores.Points)
		r.Route("/points", func(r chi.Router) {
			r.Get("/", pointsHandler.GetPoints)
			r.Post("/earn", pointsHandler.EarnPoints)
			r.Post("/spend", pointsHandler.SpendPoints)
			r.Post("/streak", pointsHandler.UpdateStreak)
			r.Post("/reset", pointsHandler.ResetPoints)
		})

		pricingHandler := handlers.NewPricingHandler(stores.Pricing)
		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", pricingHandler.GetPrices)
			r.Delete("/", pricingHandler.ClearPrices)
			r.Get("/{cardID}", pricingHandler.GetPrice)
			r.Put("/{cardID}", pricingHandler.UpdatePrice)
		})

		featuredHandler := handlers.NewFeaturedHandler(stores.Featured)
		r.Route("/featured", func(r chi.Router) {
			r.Get("/", featuredHandler.GetFeatured)
			r.Put("/", featuredHandler.SetFeatured)
			r.Get("/current", featuredHandler.GetCurrent)
			r.Post("/current/refresh", featuredHandler.RefreshCurrent)
		})

		catalogHandler := handlers.NewCatalogHandler(handlers.CatalogOptions{
			Holder:     s.deps.Catalog,
			Collection: stores.Collection,
			Fetcher:    s.deps.Fetcher,
			CachePath:  s.deps.CachePath,
			Locale:     s.deps.Locale,
			Metrics:    s.deps.Metrics,
		})
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", catalogHandler.SearchCards)
			r.Get("/{cardID}", catalogHandler.GetCard)
			r.Post("/refresh", catalogHandler.RefreshCatalog)
		})

		statsHandler := handlers.NewStatsHandler(stores, s.catalogSize)
		r.Get("/stats", statsHandler.GetStats)
		r.Patch("/stats", statsHandler.UpdateStats)
		r.Post("/stats/refresh", statsHandler.RefreshStats)
		r.Get("/community", statsHandler.GetCommunity)
		r.Put("/community", statsHandler.UpdateCommunity)
		r.Get("/onboarding", statsHandler.GetOnboarding)
		r.Post("/onboarding/complete", statsHandler.CompleteOnboarding)

		exportHandler := handlers.NewExportHandler(stores, s.lookupCard)
		r.Get("/export/{kind}", exportHandler.Export)

		r.Get("/metrics", s.getMetrics)
	})
}

// healthCheck returns the server health status.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]interface{}{
		"status":    "healthy",
		"version":   version.GetVersion(),
		"cards":     s.catalogSize(),
		"wsClients": s.wsHub.ClientCount(),
	})
}

func (s *Server) getMetrics(w http.ResponseWriter, r *http.Request) {
	response.Success(w, s.deps.Metrics.GetStats())
}
