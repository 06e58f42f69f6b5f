package store

import (
	"context"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// PlaceholderCardValue is the per-copy value used when a card has no
// known price.
const PlaceholderCardValue = 10.0

// UserStats are the player's aggregate statistics.
type UserStats struct {
	TotalPacksOpened int        `json:"totalPacksOpened"`
	TotalCards       int        `json:"totalCards"`
	UniqueCards      int        `json:"uniqueCards"`
	CollectionValue  float64    `json:"collectionValue"`
	CompletionRate   float64    `json:"completionRate"`
	FavoriteCard     string     `json:"favoriteCard,omitempty"`
	LastPackOpened   *time.Time `json:"lastPackOpened,omitempty"`
}

func (u UserStats) clone() UserStats {
	if u.LastPackOpened != nil {
		t := *u.LastPackOpened
		u.LastPackOpened = &t
	}
	return u
}

// StatsPatch changes selected statistics.
type StatsPatch struct {
	TotalPacksOpened *int     `json:"totalPacksOpened,omitempty"`
	TotalCards       *int     `json:"totalCards,omitempty"`
	UniqueCards      *int     `json:"uniqueCards,omitempty"`
	CollectionValue  *float64 `json:"collectionValue,omitempty"`
	CompletionRate   *float64 `json:"completionRate,omitempty"`
	FavoriteCard     *string  `json:"favoriteCard,omitempty"`
}

// StatsStore owns UserStats.
type StatsStore struct {
	base
	stats UserStats
}

// NewStatsStore creates a store with zeroed stats.
func NewStatsStore(deps Deps) *StatsStore {
	s := &StatsStore{}
	s.init(KeyStats, events.StatsUpdated, deps)
	return s
}

// Load rehydrates the stats.
func (s *StatsStore) Load(ctx context.Context) error {
	var st UserStats
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	s.stats = st
	s.mu.Unlock()
	return nil
}

// Get returns the current stats.
func (s *StatsStore) Get() UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.clone()
}

func (s *StatsStore) apply(ctx context.Context, fn func(*UserStats)) (UserStats, error) {
	s.mu.Lock()
	fn(&s.stats)
	out := s.stats.clone()
	p := s.stage(out)
	s.mu.Unlock()
	return out, s.commit(ctx, p, events.StatsUpdatedEvent{
		TotalPacksOpened: out.TotalPacksOpened,
		TotalCards:       out.TotalCards,
	})
}

// Update merges patch into the stats.
func (s *StatsStore) Update(ctx context.Context, patch StatsPatch) (UserStats, error) {
	return s.apply(ctx, func(st *UserStats) {
		if patch.TotalPacksOpened != nil {
			st.TotalPacksOpened = *patch.TotalPacksOpened
		}
		if patch.TotalCards != nil {
			st.TotalCards = *patch.TotalCards
		}
		if patch.UniqueCards != nil {
			st.UniqueCards = *patch.UniqueCards
		}
		if patch.CollectionValue != nil {
			st.CollectionValue = *patch.CollectionValue
		}
		if patch.CompletionRate != nil {
			st.CompletionRate = *patch.CompletionRate
		}
		if patch.FavoriteCard != nil {
			st.FavoriteCard = *patch.FavoriteCard
		}
	})
}

// IncrementPacksOpened counts one more opened pack and stamps the time.
func (s *StatsStore) IncrementPacksOpened(ctx context.Context) (UserStats, error) {
	now := s.now()
	return s.apply(ctx, func(st *UserStats) {
		st.TotalPacksOpened++
		st.LastPackOpened = &now
	})
}

// RefreshFromCollection copies collection-derived figures into the stats.
func (s *StatsStore) RefreshFromCollection(ctx context.Context, cs CollectionStats) (UserStats, error) {
	return s.apply(ctx, func(st *UserStats) {
		st.TotalCards = cs.TotalCards
		st.UniqueCards = cs.UniqueCards
		st.CompletionRate = cs.CompletionRate
	})
}

// CalculateCollectionValue values the collection and stores the result.
// A priced card counts its foil or normal price per copy; an unpriced card
// counts PlaceholderCardValue.
func (s *StatsStore) CalculateCollectionValue(ctx context.Context, entries []CollectionEntry, price func(string) (CardPrice, bool)) (float64, error) {
	var value float64
	for _, e := range entries {
		per := PlaceholderCardValue
		if price != nil {
			if p, ok := price(e.CardID); ok {
				per = p.NormalPrice
				if e.Foil {
					per = p.FoilPrice
				}
			}
		}
		value += per * float64(e.Quantity)
	}
	_, err := s.apply(ctx, func(st *UserStats) {
		st.CollectionValue = value
	})
	return value, err
}
