package store

import (
	"sync"
	"testing"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

func TestFirstLaunch(t *testing.T) {
	f := newFixture()
	s := NewFirstLaunchStore(f.deps)
	if !s.IsFirstLaunch() {
		t.Fatal("new store should report first launch")
	}
	mustNoErr(t, s.Complete(ctx))

	reloaded := NewFirstLaunchStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	if reloaded.IsFirstLaunch() {
		t.Error("completion should survive reload")
	}
}

func TestCommunity(t *testing.T) {
	f := newFixture()
	s := NewCommunityStore(f.deps)

	if len(s.Stats().RarityDistribution) != len(cards.Rarities) {
		t.Errorf("default distribution = %v", s.Stats().RarityDistribution)
	}

	mustNoErr(t, s.UpdateLeaderboard(ctx, []LeaderboardEntry{
		{Rank: 3, Username: "c"}, {Rank: 1, Username: "a"}, {Rank: 2, Username: "b"},
	}))
	board := s.Leaderboard()
	if board[0].Username != "a" || board[2].Username != "c" {
		t.Errorf("Leaderboard() = %+v", board)
	}

	mustNoErr(t, s.UpdateStats(ctx, CommunityStats{TotalUsers: 42}))
	if st := s.Stats(); st.TotalUsers != 42 || st.RarityDistribution == nil {
		t.Errorf("Stats() = %+v", st)
	}

	reloaded := NewCommunityStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	if reloaded.Stats().TotalUsers != 42 || len(reloaded.Leaderboard()) != 3 {
		t.Error("community state lost on reload")
	}
}

func TestRegistryLoad(t *testing.T) {
	f := newFixture()
	r := NewRegistry(f.deps)

	mustNoErr(t, r.Collection.Add(ctx, "c1", 2))
	_, _ = r.Decks.Create(ctx, DeckInput{Name: "d"})
	_, _ = r.Packs.ClaimDailyBonus(ctx)
	mustNoErr(t, r.FirstLaunch.Complete(ctx))
	mustNoErr(t, f.gateway.Set(ctx, KeyStats, []byte("{broken")))

	fresh := NewRegistry(f.deps)
	if err := fresh.Load(ctx); err == nil {
		t.Error("expected joined error for broken stats snapshot")
	}
	if e, _ := fresh.Collection.Get("c1"); e.Quantity != 2 {
		t.Error("collection not restored")
	}
	if len(fresh.Decks.List()) != 1 || fresh.FirstLaunch.IsFirstLaunch() {
		t.Error("stores after the failing one should still load")
	}
	if fresh.Packs.Currency() != StartingCurrency+DailyBonusAmount {
		t.Errorf("Currency() = %d", fresh.Packs.Currency())
	}

	keys := r.Keys()
	if len(keys) != 10 {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestConcurrentMutationsPersistLatest(t *testing.T) {
	f := newFixture()
	s := NewCollectionStore(f.deps)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Add(ctx, "c1", 1); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		}()
	}
	wg.Wait()

	reloaded := NewCollectionStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	if e, _ := reloaded.Get("c1"); e.Quantity != 20 {
		t.Errorf("persisted quantity = %d, want 20", e.Quantity)
	}
}
