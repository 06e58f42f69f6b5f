package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

func newTestDeckStore(f *fixture) *DeckStore {
	s := NewDeckStore(f.deps)
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("deck-%d", n)
	}
	return s
}

func TestDeckCreateNormalizesCards(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)

	deck, err := s.Create(ctx, DeckInput{
		Name: "Jinx Aggro",
		Cards: []DeckCard{
			{CardID: "a", Quantity: 5},
			{CardID: "b", Quantity: 1},
			{CardID: "b", Quantity: 1},
			{CardID: "c", Quantity: 0},
		},
	})
	mustNoErr(t, err)

	if deck.ID != "deck-1" || deck.Format != FormatStandard {
		t.Errorf("deck = %+v", deck)
	}
	want := []DeckCard{{CardID: "a", Quantity: 3}, {CardID: "b", Quantity: 2}}
	if fmt.Sprint(deck.Cards) != fmt.Sprint(want) {
		t.Errorf("Cards = %v, want %v", deck.Cards, want)
	}
	if !deck.DateCreated.Equal(deck.DateModified) {
		t.Error("new deck timestamps should match")
	}
}

func TestDeckAddCardRespectsLimit(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	deck, _ := s.Create(ctx, DeckInput{Name: "d"})

	for i := 0; i < MaxCopiesPerCard; i++ {
		added, err := s.AddCard(ctx, deck.ID, "x")
		mustNoErr(t, err)
		if !added {
			t.Fatalf("AddCard #%d refused", i+1)
		}
	}
	added, err := s.AddCard(ctx, deck.ID, "x")
	mustNoErr(t, err)
	if added {
		t.Error("fourth copy should be refused")
	}

	got, _ := s.Get(deck.ID)
	if got.Cards[0].Quantity != MaxCopiesPerCard {
		t.Errorf("Quantity = %d, want %d", got.Cards[0].Quantity, MaxCopiesPerCard)
	}
}

func TestDeckRemoveLastCopyDropsRow(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	deck, _ := s.Create(ctx, DeckInput{Name: "d", Cards: []DeckCard{{CardID: "x", Quantity: 1}}})

	removed, err := s.RemoveCard(ctx, deck.ID, "x")
	mustNoErr(t, err)
	if !removed {
		t.Fatal("RemoveCard should succeed")
	}
	got, _ := s.Get(deck.ID)
	if len(got.Cards) != 0 {
		t.Errorf("Cards = %v, want empty", got.Cards)
	}

	removed, _ = s.RemoveCard(ctx, deck.ID, "x")
	if removed {
		t.Error("removing an absent card should report false")
	}
}

func TestDeckUpdateStampsModified(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	deck, _ := s.Create(ctx, DeckInput{Name: "old", Format: FormatLimited})

	f.clock.Advance(time.Minute)
	name := "new"
	updated, err := s.Update(ctx, deck.ID, DeckPatch{Name: &name, Cards: []DeckCard{{CardID: "z", Quantity: 9}}})
	mustNoErr(t, err)

	if updated.Name != "new" || updated.Format != FormatLimited {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Cards[0].Quantity != MaxCopiesPerCard {
		t.Errorf("patched quantity = %d, want clamped", updated.Cards[0].Quantity)
	}
	if !updated.DateModified.After(updated.DateCreated) {
		t.Error("DateModified should advance")
	}

	if _, err := s.Update(ctx, "missing", DeckPatch{}); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}
}

func TestDeckDuplicateAndDelete(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	orig, _ := s.Create(ctx, DeckInput{Name: "Viktor", Cards: []DeckCard{{CardID: "v", Quantity: 2}}})

	f.clock.Advance(time.Hour)
	dup, err := s.Duplicate(ctx, orig.ID)
	mustNoErr(t, err)

	if dup.ID == orig.ID || dup.Name != "Viktor (Copy)" {
		t.Errorf("dup = %+v", dup)
	}
	if !dup.DateCreated.After(orig.DateCreated) {
		t.Error("duplicate should get fresh timestamps")
	}

	// Changing the copy leaves the original alone
	_, _ = s.AddCard(ctx, dup.ID, "v")
	if o, _ := s.Get(orig.ID); o.Cards[0].Quantity != 2 {
		t.Error("duplicate shares card rows with original")
	}

	mustNoErr(t, s.Delete(ctx, orig.ID))
	if len(s.List()) != 1 {
		t.Errorf("List() = %d decks, want 1", len(s.List()))
	}
	if err := s.Delete(ctx, orig.ID); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("second Delete error = %v", err)
	}
}

func TestDeckSummary(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	catalog := map[string]cards.Card{
		"u1": {ID: "u1", Type: cards.TypeUnit, Energy: 2},
		"ch": {ID: "ch", Type: cards.TypeChampion, Energy: 5},
		"sp": {ID: "sp", Type: cards.TypeSpell, Energy: 2},
	}
	lookup := func(id string) (cards.Card, bool) {
		c, ok := catalog[id]
		return c, ok
	}

	deck, _ := s.Create(ctx, DeckInput{Name: "d", Cards: []DeckCard{
		{CardID: "u1", Quantity: 3},
		{CardID: "ch", Quantity: 1},
		{CardID: "sp", Quantity: 2},
		{CardID: "gone", Quantity: 1},
	}})

	sum, ok := s.Summary(deck.ID, lookup)
	if !ok {
		t.Fatal("Summary() not found")
	}
	if sum.TotalCards != 7 || sum.UniqueCards != 4 {
		t.Errorf("counts = %d/%d", sum.TotalCards, sum.UniqueCards)
	}
	if sum.EnergyCurve[2] != 5 || sum.EnergyCurve[5] != 1 {
		t.Errorf("EnergyCurve = %v", sum.EnergyCurve)
	}
	if sum.Champion != "ch" {
		t.Errorf("Champion = %q, want ch", sum.Champion)
	}
	if len(sum.Missing) != 1 || sum.Missing[0] != "gone" {
		t.Errorf("Missing = %v", sum.Missing)
	}
}

func TestDeckReload(t *testing.T) {
	f := newFixture()
	s := newTestDeckStore(f)
	_, _ = s.Create(ctx, DeckInput{Name: "a", Cards: []DeckCard{{CardID: "x", Quantity: 2}}})
	_, _ = s.Create(ctx, DeckInput{Name: "b"})

	reloaded := NewDeckStore(f.deps)
	mustNoErr(t, reloaded.Load(ctx))
	list := reloaded.List()
	if len(list) != 2 || list[0].Name != "a" || list[0].Cards[0].Quantity != 2 {
		t.Errorf("reloaded = %+v", list)
	}
}
