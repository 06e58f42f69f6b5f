package store

import (
	"context"
	"slices"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// FeaturedType is the kind of featured content.
type FeaturedType string

const (
	FeaturedMechanic  FeaturedType = "mechanic"
	FeaturedLore      FeaturedType = "lore"
	FeaturedSpotlight FeaturedType = "spotlight"
)

// FeaturedCard is a card promoted during [StartDate, EndDate).
type FeaturedCard struct {
	CardID      string       `json:"cardId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        FeaturedType `json:"type"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
}

// ActiveAt reports whether t falls in the card's window.
func (f FeaturedCard) ActiveAt(t time.Time) bool {
	return !t.Before(f.StartDate) && t.Before(f.EndDate)
}

type featuredState struct {
	FeaturedCards       []FeaturedCard `json:"featuredCards"`
	CurrentFeaturedCard *FeaturedCard  `json:"currentFeaturedCard"`
}

// FeaturedStore owns the featured card rotation.
type FeaturedStore struct {
	base
	state featuredState
}

// NewFeaturedStore creates an empty featured store.
func NewFeaturedStore(deps Deps) *FeaturedStore {
	s := &FeaturedStore{}
	s.init(KeyFeatured, events.FeaturedUpdated, deps)
	return s
}

// Load rehydrates the rotation.
func (s *FeaturedStore) Load(ctx context.Context) error {
	var st featuredState
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

// SelectCurrent returns the first card in list order active at t.
func SelectCurrent(list []FeaturedCard, t time.Time) (FeaturedCard, bool) {
	for _, f := range list {
		if f.ActiveAt(t) {
			return f, true
		}
	}
	return FeaturedCard{}, false
}

func (s *FeaturedStore) recomputeLocked() {
	s.state.CurrentFeaturedCard = nil
	if f, ok := SelectCurrent(s.state.FeaturedCards, s.now()); ok {
		s.state.CurrentFeaturedCard = &f
	}
}

func (s *FeaturedStore) finish(ctx context.Context) error {
	p := s.stage(s.state)
	var ev events.FeaturedUpdatedEvent
	if s.state.CurrentFeaturedCard != nil {
		ev.CurrentCardID = s.state.CurrentFeaturedCard.CardID
	}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// SetFeaturedCards replaces the rotation and recomputes the current card.
func (s *FeaturedStore) SetFeaturedCards(ctx context.Context, list []FeaturedCard) error {
	s.mu.Lock()
	s.state.FeaturedCards = slices.Clone(list)
	s.recomputeLocked()
	return s.finish(ctx)
}

// UpdateCurrent recomputes the current card for the present time.
func (s *FeaturedStore) UpdateCurrent(ctx context.Context) error {
	s.mu.Lock()
	s.recomputeLocked()
	return s.finish(ctx)
}

// Cards returns the rotation in list order.
func (s *FeaturedStore) Cards() []FeaturedCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.FeaturedCards)
}

// Current returns the card selected by the last recompute.
func (s *FeaturedStore) Current() (FeaturedCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.CurrentFeaturedCard == nil {
		return FeaturedCard{}, false
	}
	return *s.state.CurrentFeaturedCard, true
}

// CurrentAt returns the card active at t without changing state.
func (s *FeaturedStore) CurrentAt(t time.Time) (FeaturedCard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectCurrent(s.state.FeaturedCards, t)
}
