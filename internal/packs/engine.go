// Package packs simulates opening booster packs against the card catalog.
package packs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/metrics"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/catalog"
	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// PackOpenedPoints are awarded for every bought pack.
const PackOpenedPoints = 10

var (
	// ErrEmptyRarityPool means the catalog has no card of a rarity the
	// pack needs to draw.
	ErrEmptyRarityPool = errors.New("empty rarity pool")
	// ErrUnknownPackType means no configuration exists for the pack type.
	ErrUnknownPackType = errors.New("unknown pack type")
	// ErrInsufficientFunds means the balance does not cover the pack cost.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// CatalogSource provides the catalog to draw from.
type CatalogSource interface {
	Current() *catalog.Catalog
}

// Options configures an Engine.
type Options struct {
	Catalog CatalogSource
	Stores  *store.Registry
	// Rand is the random source; seeded from the clock when nil.
	Rand    *rand.Rand
	Configs map[store.PackType]Config
	Logger  *slog.Logger
	// Metrics records draws when set.
	Metrics *metrics.Metrics
}

// Engine opens packs and applies their effects to the stores.
type Engine struct {
	catalog CatalogSource
	stores  *store.Registry
	configs map[store.PackType]Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Configs == nil {
		opts.Configs = DefaultConfigs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		catalog: opts.Catalog,
		stores:  opts.Stores,
		configs: opts.Configs,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		rng:     opts.Rand,
	}
}

// Config returns the configuration of a pack type.
func (e *Engine) Config(t store.PackType) (Config, bool) {
	cfg, ok := e.configs[t]
	return cfg, ok
}

// Draw samples a pack without touching any store. It returns the shuffled
// cards and the rarity distribution actually used.
func (e *Engine) Draw(t store.PackType) ([]cards.Card, store.RarityDistribution, error) {
	start := time.Now()
	drawn, dist, err := e.draw(t)
	e.metrics.RecordDraw(len(drawn), dist.Legendary, time.Since(start), err)
	return drawn, dist, err
}

func (e *Engine) draw(t store.PackType) ([]cards.Card, store.RarityDistribution, error) {
	cfg, ok := e.configs[t]
	if !ok {
		return nil, store.RarityDistribution{}, fmt.Errorf("%w: %q", ErrUnknownPackType, t)
	}
	var cat *catalog.Catalog
	if e.catalog != nil {
		cat = e.catalog.Current()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dist := cfg.Distribution
	if !cfg.Guaranteed && cfg.LegendaryChance > 0 && e.rng.Float64() < cfg.LegendaryChance {
		dist.Legendary++
		if dist.Rare > 0 {
			dist.Rare--
		}
	}

	// Check every bucket first so a failure draws nothing
	for _, r := range cards.Rarities {
		if dist.Count(r) > 0 && len(cat.ByRarity(r)) == 0 {
			return nil, dist, fmt.Errorf("%w: no %s cards in catalog", ErrEmptyRarityPool, r)
		}
	}

	drawn := make([]cards.Card, 0, dist.Total())
	for i := len(cards.Rarities) - 1; i >= 0; i-- {
		r := cards.Rarities[i]
		pool := cat.ByRarity(r)
		for n := dist.Count(r); n > 0; n-- {
			drawn = append(drawn, pool[e.rng.Intn(len(pool))].Clone())
		}
	}

	e.rng.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	if cfg.Cards > 0 && len(drawn) > cfg.Cards {
		drawn = drawn[:cfg.Cards]
	}
	return drawn, dist, nil
}

// OpenPack draws a pack and applies its effects in order: each card is
// added to the collection, the stats count the pack and refresh from the
// collection, and the opening is appended to the pack history. The cards
// are returned even when persisting an effect failed; the error then
// reports the failed writes.
func (e *Engine) OpenPack(ctx context.Context, t store.PackType) ([]cards.Card, error) {
	drawn, dist, err := e.Draw(t)
	if err != nil {
		return nil, err
	}
	return drawn, e.apply(ctx, t, drawn, dist)
}

func (e *Engine) apply(ctx context.Context, t store.PackType, drawn []cards.Card, dist store.RarityDistribution) error {
	var errs []error

	ids := make([]string, len(drawn))
	for i, c := range drawn {
		ids[i] = c.ID
	}
	if err := e.stores.Collection.AddMany(ctx, ids); err != nil {
		errs = append(errs, err)
	}

	if _, err := e.stores.Stats.IncrementPacksOpened(ctx); err != nil {
		errs = append(errs, err)
	}
	catalogSize := 0
	if e.catalog != nil {
		catalogSize = e.catalog.Current().Len()
	}
	if _, err := e.stores.Stats.RefreshFromCollection(ctx, e.stores.Collection.Stats(catalogSize)); err != nil {
		errs = append(errs, err)
	}

	if _, err := e.stores.Packs.AddPackOpening(ctx, store.BoosterPack{
		PackType:           t,
		Cards:              drawn,
		RarityDistribution: dist,
	}); err != nil {
		errs = append(errs, err)
	}

	e.logger.Info("Opened pack", "type", t, "cards", len(drawn), "legendary", dist.Legendary)
	if len(errs) > 0 {
		return fmt.Errorf("pack opened but not fully saved: %w", errors.Join(errs...))
	}
	return nil
}

// BuyPack pays the pack cost from the currency balance, opens the pack and
// awards PackOpenedPoints. Nothing is charged when the draw fails.
func (e *Engine) BuyPack(ctx context.Context, t store.PackType) ([]cards.Card, error) {
	cfg, ok := e.configs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackType, t)
	}
	drawn, dist, err := e.Draw(t)
	if err != nil {
		return nil, err
	}

	var errs []error
	paid, err := e.stores.Packs.SpendCurrency(ctx, cfg.Cost)
	if err != nil {
		errs = append(errs, err)
	}
	if !paid {
		return nil, fmt.Errorf("%w: %s costs %d, balance %d", ErrInsufficientFunds, cfg.Name, cfg.Cost, e.stores.Packs.Currency())
	}

	if err := e.apply(ctx, t, drawn, dist); err != nil {
		errs = append(errs, err)
	}
	if err := e.stores.Points.AddPoints(ctx, PackOpenedPoints, "pack opened"); err != nil {
		errs = append(errs, err)
	}
	return drawn, errors.Join(errs...)
}
