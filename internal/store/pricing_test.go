package store

import (
	"testing"
	"time"
)

func TestPricingOverwriteAndReload(t *testing.T) {
	f := newFixture()
	s := NewPricingStore(f.deps)

	mustNoErr(t, s.UpdatePrice(ctx, "c1", CardPrice{NormalPrice: 1, FoilPrice: 3, Currency: CurrencyUSD, Source: "tcg", Trend: TrendUp}))
	mustNoErr(t, s.UpdatePrice(ctx, "c1", CardPrice{NormalPrice: 2, Currency: CurrencyEUR}))
	mustNoErr(t, s.UpdatePrice(ctx, "c0", CardPrice{NormalPrice: 5, LastUpdated: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}))

	p, ok := s.GetPrice("c1")
	if !ok || p.NormalPrice != 2 || p.FoilPrice != 0 || p.Source != "" || p.CardID != "c1" {
		t.Errorf("GetPrice(c1) = %+v; update should overwrite, not merge", p)
	}
	if !p.LastUpdated.Equal(f.clock.Now()) {
		t.Errorf("LastUpdated = %v, want clock time", p.LastUpdated)
	}
	if p0, _ := s.GetPrice("c0"); p0.LastUpdated.Year() != 2024 {
		t.Error("explicit LastUpdated should be kept")
	}

	all := s.All()
	if len(all) != 2 || all[0].CardID != "c0" {
		t.Errorf("All() = %+v", all)
	}

	raw, _, _ := f.gateway.Get(ctx, KeyPricing)
	if raw[0] != '[' {
		t.Errorf("pricing snapshot should be a list, got %s", raw)
	}

	reloaded := NewPricingStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	if got, _ := reloaded.GetPrice("c1"); !got.LastUpdated.Equal(p.LastUpdated) || got.NormalPrice != p.NormalPrice || got.Currency != p.Currency {
		t.Errorf("reloaded = %+v, want %+v", got, p)
	}

	mustNoErr(t, s.Clear(ctx))
	if len(s.All()) != 0 {
		t.Error("Clear() left prices")
	}
}
