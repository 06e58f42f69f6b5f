package store

import (
	"fmt"
	"testing"
	"time"
)

func TestPackHistoryCap(t *testing.T) {
	f := newFixture()
	s := NewPackStore(f.deps)

	for i := 0; i < 105; i++ {
		_, err := s.AddPackOpening(ctx, BoosterPack{ID: fmt.Sprintf("p%d", i), PackType: PackFoundations})
		mustNoErr(t, err)
		f.clock.Advance(time.Second)
	}

	history := s.History()
	if len(history) != MaxPackHistory {
		t.Fatalf("len(History()) = %d, want %d", len(history), MaxPackHistory)
	}
	if history[0].ID != "p104" || history[99].ID != "p5" {
		t.Errorf("history spans %s..%s, want p104..p5", history[0].ID, history[99].ID)
	}
	if !history[0].OpenedDate.After(history[1].OpenedDate) {
		t.Error("history should be most recent first")
	}
}

func TestPackCurrency(t *testing.T) {
	f := newFixture()
	s := NewPackStore(f.deps)

	if s.Currency() != StartingCurrency {
		t.Fatalf("Currency() = %d, want %d", s.Currency(), StartingCurrency)
	}

	ok, err := s.SpendCurrency(ctx, 600)
	mustNoErr(t, err)
	if ok || s.Currency() != StartingCurrency {
		t.Error("overspend should fail without changing balance")
	}

	ok, _ = s.SpendCurrency(ctx, 150)
	if !ok || s.Currency() != 350 {
		t.Errorf("after spend: ok=%v balance=%d", ok, s.Currency())
	}

	balance, _ := s.UpdateCurrency(ctx, -1000)
	if balance != 0 {
		t.Errorf("UpdateCurrency clamp = %d, want 0", balance)
	}
}

func TestDailyBonusCooldown(t *testing.T) {
	f := newFixture()
	s := NewPackStore(f.deps)

	if !s.CanClaimDaily() {
		t.Fatal("never-claimed bonus should be claimable")
	}
	if !s.NextClaimAt().IsZero() {
		t.Error("NextClaimAt should be zero before first claim")
	}

	ok, err := s.ClaimDailyBonus(ctx)
	mustNoErr(t, err)
	if !ok || s.Currency() != StartingCurrency+DailyBonusAmount {
		t.Fatalf("claim ok=%v balance=%d", ok, s.Currency())
	}
	if s.CanClaimDaily() {
		t.Error("bonus should not be claimable right after claiming")
	}
	if ok, _ := s.ClaimDailyBonus(ctx); ok {
		t.Error("second claim should report false")
	}

	f.clock.Advance(23 * time.Hour)
	if s.CanClaimDaily() {
		t.Error("claimable too early")
	}
	f.clock.Advance(time.Hour)
	if !s.CanClaimDaily() {
		t.Error("should be claimable after 24h")
	}
	if !s.NextClaimAt().Equal(f.clock.Now()) {
		t.Errorf("NextClaimAt = %v, want %v", s.NextClaimAt(), f.clock.Now())
	}
}

func TestPackStoreReload(t *testing.T) {
	f := newFixture()
	s := NewPackStore(f.deps)
	_, _ = s.ClaimDailyBonus(ctx)
	_, _ = s.AddPackOpening(ctx, BoosterPack{PackType: PackStarter, RarityDistribution: RarityDistribution{Common: 5}})
	mustNoErr(t, s.ClearHistory(ctx))
	_, _ = s.AddPackOpening(ctx, BoosterPack{PackType: PackExpansion})

	reloaded := NewPackStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	if reloaded.Currency() != s.Currency() {
		t.Errorf("Currency = %d, want %d", reloaded.Currency(), s.Currency())
	}
	if reloaded.CanClaimDaily() {
		t.Error("claim date should survive reload")
	}
	h := reloaded.History()
	if len(h) != 1 || h[0].PackType != PackExpansion || h[0].ID == "" {
		t.Errorf("History = %+v", h)
	}
}

func TestRarityDistribution(t *testing.T) {
	d := RarityDistribution{Common: 7, Uncommon: 2, Rare: 1}
	if d.Total() != 10 {
		t.Errorf("Total() = %d", d.Total())
	}
	if d.Count("rare") != 1 || d.Count("mythic") != 0 {
		t.Error("Count() wrong")
	}
}
