package packs

import (
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

// Reveal walks through opened cards one at a time. The index only moves
// forward; the last card has no next step.
type Reveal struct {
	cards []cards.Card
	index int
}

// NewReveal starts a reveal at the first card.
func NewReveal(list []cards.Card) *Reveal {
	return &Reveal{cards: list}
}

// Index returns the position of the card on show.
func (r *Reveal) Index() int {
	return r.index
}

// Current returns the card on show.
func (r *Reveal) Current() (cards.Card, bool) {
	if r.index >= len(r.cards) {
		return cards.Card{}, false
	}
	return r.cards[r.index], true
}

// Next advances to the following card. It reports false at the last card.
func (r *Reveal) Next() bool {
	if r.Done() {
		return false
	}
	r.index++
	return true
}

// Done reports whether the last card is on show.
func (r *Reveal) Done() bool {
	return r.index >= len(r.cards)-1
}

// Revealed returns the cards shown so far.
func (r *Reveal) Revealed() []cards.Card {
	if len(r.cards) == 0 {
		return nil
	}
	return r.cards[:r.index+1]
}
