package packs

import (
	"sort"

	"github.com/ramonehamilton/riftbound-companion/internal/store"
)

// Config describes how a pack type is filled.
type Config struct {
	Name string
	// Cards is the number of cards in the pack.
	Cards int
	// Guaranteed packs draw Distribution exactly; otherwise
	// LegendaryChance may swap a rare slot for a legendary.
	Guaranteed      bool
	Distribution    store.RarityDistribution
	LegendaryChance float64
	// Cost is the currency price when bought.
	Cost int
}

// DefaultConfigs returns a fresh copy of the built-in pack table.
func DefaultConfigs() map[store.PackType]Config {
	return map[store.PackType]Config{
		store.PackStarter: {
			Name:       "Starter Pack",
			Cards:      12,
			Guaranteed: true,
			Distribution: store.RarityDistribution{
				Legendary: 1, Rare: 2, Uncommon: 4, Common: 5,
			},
			Cost: 0,
		},
		store.PackFoundations: {
			Name:  "Foundations Booster",
			Cards: 10,
			Distribution: store.RarityDistribution{
				Common: 7, Uncommon: 2, Rare: 1,
			},
			LegendaryChance: 0.10,
			Cost:            100,
		},
		store.PackExpansion: {
			Name:  "Expansion Booster",
			Cards: 15,
			Distribution: store.RarityDistribution{
				Common: 9, Uncommon: 4, Rare: 2,
			},
			LegendaryChance: 0.15,
			Cost:            150,
		},
	}
}

// TypeInfo describes a pack type for listing.
type TypeInfo struct {
	Type            store.PackType           `json:"type"`
	Name            string                   `json:"name"`
	Cards           int                      `json:"cards"`
	Distribution    store.RarityDistribution `json:"distribution"`
	LegendaryChance float64                  `json:"legendaryChance"`
	Cost            int                      `json:"cost"`
}

// Types lists the configured pack types by cost, then type.
func (e *Engine) Types() []TypeInfo {
	out := make([]TypeInfo, 0, len(e.configs))
	for t, cfg := range e.configs {
		out = append(out, TypeInfo{
			Type:            t,
			Name:            cfg.Name,
			Cards:           cfg.Cards,
			Distribution:    cfg.Distribution,
			LegendaryChance: cfg.LegendaryChance,
			Cost:            cfg.Cost,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].Type < out[j].Type
	})
	return out
}
