package store

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

// CommunityStats are aggregate figures across all players.
type CommunityStats struct {
	TotalUsers          int                  `json:"totalUsers"`
	TotalCardsCollected int                  `json:"totalCardsCollected"`
	MostCollectedCard   string               `json:"mostCollectedCard"`
	RarityDistribution  map[cards.Rarity]int `json:"rarityDistribution"`
}

func (c CommunityStats) clone() CommunityStats {
	c.RarityDistribution = maps.Clone(c.RarityDistribution)
	return c
}

// DefaultCommunityStats returns empty figures with every rarity present.
func DefaultCommunityStats() CommunityStats {
	dist := make(map[cards.Rarity]int, len(cards.Rarities))
	for _, r := range cards.Rarities {
		dist[r] = 0
	}
	return CommunityStats{RarityDistribution: dist}
}

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Points      int    `json:"points"`
	UniqueCards int    `json:"uniqueCards"`
}

type communityState struct {
	Stats       CommunityStats     `json:"stats"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// CommunityStore caches community figures supplied from outside.
type CommunityStore struct {
	base
	state communityState
}

// NewCommunityStore creates a store with default figures.
func NewCommunityStore(deps Deps) *CommunityStore {
	s := &CommunityStore{state: communityState{Stats: DefaultCommunityStats()}}
	s.init(KeyCommunity, events.CommunityUpdated, deps)
	return s
}

// Load rehydrates the cached figures.
func (s *CommunityStore) Load(ctx context.Context) error {
	st := communityState{Stats: DefaultCommunityStats()}
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	if st.Stats.RarityDistribution == nil {
		st.Stats.RarityDistribution = DefaultCommunityStats().RarityDistribution
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// Stats returns the community figures.
func (s *CommunityStore) Stats() CommunityStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats.clone()
}

// Leaderboard returns entries ordered by rank.
func (s *CommunityStore) Leaderboard() []LeaderboardEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Leaderboard)
}

func (s *CommunityStore) finish(ctx context.Context) error {
	p := s.stage(s.state)
	ev := events.CommunityUpdatedEvent{LeaderboardSize: len(s.state.Leaderboard)}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// UpdateStats replaces the community figures.
func (s *CommunityStore) UpdateStats(ctx context.Context, stats CommunityStats) error {
	stats = stats.clone()
	if stats.RarityDistribution == nil {
		stats.RarityDistribution = DefaultCommunityStats().RarityDistribution
	}
	s.mu.Lock()
	s.state.Stats = stats
	return s.finish(ctx)
}

// UpdateLeaderboard replaces the leaderboard, sorted by rank.
func (s *CommunityStore) UpdateLeaderboard(ctx context.Context, list []LeaderboardEntry) error {
	list = slices.Clone(list)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Rank < list[j].Rank })
	s.mu.Lock()
	s.state.Leaderboard = list
	return s.finish(ctx)
}
