package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/config"
	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/metrics"
	"github.com/ramonehamilton/riftbound-companion/internal/packs"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/catalog"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/content"
	"github.com/ramonehamilton/riftbound-companion/internal/storage"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// app wires the stores, catalog and pack engine over one gateway.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	db         *storage.DB
	gateway    storage.Gateway
	dispatcher *events.EventDispatcher
	stores     *store.Registry
	catalog    *catalog.Holder
	client     *content.Client
	engine     *packs.Engine
	metrics    *metrics.Metrics
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newApp opens storage, rehydrates the stores and loads the cached catalog.
// A store that fails to load keeps its defaults and is logged.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := newLogger(cfg.App.DebugMode)
	slog.SetDefault(logger)

	a := &app{
		cfg:        cfg,
		logger:     logger,
		dispatcher: events.NewEventDispatcher(),
	}

	if cfg.Storage.Ephemeral {
		a.gateway = storage.NewMemoryGateway()
	} else {
		dbConfig := storage.DefaultConfig(cfg.Storage.DBPath)
		db, err := storage.Open(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		a.gateway = storage.NewSQLiteGateway(db)
	}

	if cfg.App.DebugMode {
		a.dispatcher.Register(events.NewLoggingObserver(true))
	}

	a.stores = store.NewRegistry(store.Deps{
		Gateway: a.gateway,
		Events:  a.dispatcher,
		Logger:  logger,
	})
	if err := a.stores.Load(ctx); err != nil {
		logger.Warn("Some stores failed to load and kept their defaults", "error", err)
	}

	a.catalog = catalog.NewHolder(nil)
	if list, fetchedAt, err := catalog.LoadFile(cfg.Content.CatalogCache); err == nil {
		a.catalog.Replace(list)
		logger.Info("Loaded catalog cache", "cards", len(list), "fetchedAt", fetchedAt)
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Failed to load catalog cache", "path", cfg.Content.CatalogCache, "error", err)
	}

	timeout, err := cfg.GetRequestTimeout()
	if err != nil {
		timeout = 30 * time.Second
	}
	a.client = content.NewClient(content.Options{
		BaseURL: cfg.Content.BaseURL,
		APIKey:  cfg.Content.APIKey,
		Locale:  cfg.Content.Locale,
		Timeout: timeout,
		Logger:  logger,
	})

	seed := cfg.Packs.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a.metrics = metrics.New()
	a.engine = packs.NewEngine(packs.Options{
		Catalog: a.catalog,
		Stores:  a.stores,
		Rand:    rand.New(rand.NewSource(seed)),
		Logger:  logger,
		Metrics: a.metrics,
	})

	return a, nil
}

func (a *app) encryptionConfig(password string) *storage.EncryptionConfig {
	cfg := storage.DefaultEncryptionConfig(password)
	if a.cfg.Storage.KDFMemoryK > 0 {
		cfg.Argon2Memory = a.cfg.Storage.KDFMemoryK
	}
	return cfg
}

// refreshCatalog fetches the card list, swaps it in and writes the cache.
func (a *app) refreshCatalog(ctx context.Context) (int, error) {
	start := time.Now()
	list, err := a.client.FetchAllCards(ctx, a.cfg.Content.Locale)
	a.metrics.RecordRefresh(time.Since(start), err)
	if err != nil {
		return 0, err
	}
	cat := a.catalog.Replace(list)
	if err := catalog.SaveFile(a.cfg.Content.CatalogCache, list, time.Now()); err != nil {
		a.logger.Warn("Failed to write catalog cache", "path", a.cfg.Content.CatalogCache, "error", err)
	}
	a.dispatcher.Dispatch(events.Event{
		Type:    events.CatalogUpdated,
		Payload: events.CatalogUpdatedEvent{Cards: cat.Len()},
		At:      time.Now().UTC(),
	})
	return cat.Len(), nil
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
