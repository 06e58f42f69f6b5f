package store

import (
	"context"
	"errors"
)

// Registry bundles one instance of every store.
type Registry struct {
	Collection  *CollectionStore
	Decks       *DeckStore
	Settings    *SettingsStore
	Packs       *PackStore
	Stats       *StatsStore
	Points      *PointsStore
	Pricing     *PricingStore
	Featured    *FeaturedStore
	FirstLaunch *FirstLaunchStore
	Community   *CommunityStore
}

// NewRegistry creates all stores over the same dependencies.
func NewRegistry(deps Deps) *Registry {
	deps = deps.withDefaults()
	return &Registry{
		Collection:  NewCollectionStore(deps),
		Decks:       NewDeckStore(deps),
		Settings:    NewSettingsStore(deps),
		Packs:       NewPackStore(deps),
		Stats:       NewStatsStore(deps),
		Points:      NewPointsStore(deps),
		Pricing:     NewPricingStore(deps),
		Featured:    NewFeaturedStore(deps),
		FirstLaunch: NewFirstLaunchStore(deps),
		Community:   NewCommunityStore(deps),
	}
}

type loader interface {
	Key() string
	Load(ctx context.Context) error
}

func (r *Registry) all() []loader {
	return []loader{
		r.Collection, r.Decks, r.Settings, r.Packs, r.Stats,
		r.Points, r.Pricing, r.Featured, r.FirstLaunch, r.Community,
	}
}

// Load rehydrates every store. A store that fails keeps its defaults and
// the remaining stores still load; the errors are joined.
func (r *Registry) Load(ctx context.Context) error {
	var errs []error
	for _, s := range r.all() {
		if err := s.Load(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys lists the storage key of every store.
func (r *Registry) Keys() []string {
	stores := r.all()
	keys := make([]string, len(stores))
	for i, s := range stores {
		keys[i] = s.Key()
	}
	return keys
}
