package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

// MaxCopiesPerCard is the per-card limit in a deck.
const MaxCopiesPerCard = 3

// ErrDeckNotFound is returned when a deck id has no match.
var ErrDeckNotFound = errors.New("deck not found")

// Format is a deck's play format.
type Format string

const (
	FormatStandard  Format = "standard"
	FormatLimited   Format = "limited"
	FormatUnlimited Format = "unlimited"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatStandard, FormatLimited, FormatUnlimited:
		return true
	}
	return false
}

// DeckCard is a card row in a deck.
type DeckCard struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

// Deck is a user-built deck.
type Deck struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Champion     string     `json:"champion,omitempty"`
	Cards        []DeckCard `json:"cards"`
	Format       Format     `json:"format"`
	Notes        string     `json:"notes,omitempty"`
	DateCreated  time.Time  `json:"dateCreated"`
	DateModified time.Time  `json:"dateModified"`
}

func (d Deck) clone() Deck {
	d.Cards = slices.Clone(d.Cards)
	return d
}

// DeckInput describes a new deck.
type DeckInput struct {
	Name     string     `json:"name"`
	Champion string     `json:"champion,omitempty"`
	Cards    []DeckCard `json:"cards"`
	Format   Format     `json:"format"`
	Notes    string     `json:"notes,omitempty"`
}

// DeckPatch changes selected deck fields. Nil fields are left as is.
type DeckPatch struct {
	Name     *string    `json:"name,omitempty"`
	Champion *string    `json:"champion,omitempty"`
	Cards    []DeckCard `json:"cards,omitempty"`
	Format   *Format    `json:"format,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// DeckSummary is derived information about a deck.
type DeckSummary struct {
	TotalCards  int         `json:"totalCards"`
	UniqueCards int         `json:"uniqueCards"`
	EnergyCurve map[int]int `json:"energyCurve"`
	Champion    string      `json:"champion,omitempty"`
	Missing     []string    `json:"missing,omitempty"`
}

// normalizeDeckCards merges duplicate rows, clamps quantities to the copy
// limit and drops rows without a positive quantity.
func normalizeDeckCards(in []DeckCard) []DeckCard {
	out := make([]DeckCard, 0, len(in))
	index := make(map[string]int, len(in))
	for _, c := range in {
		if c.CardID == "" || c.Quantity <= 0 {
			continue
		}
		if i, ok := index[c.CardID]; ok {
			out[i].Quantity = min(MaxCopiesPerCard, out[i].Quantity+c.Quantity)
			continue
		}
		index[c.CardID] = len(out)
		out = append(out, DeckCard{CardID: c.CardID, Quantity: min(MaxCopiesPerCard, c.Quantity)})
	}
	return out
}

// DeckStore owns the user's decks in creation order.
type DeckStore struct {
	base
	decks []Deck
	newID func() string
}

// NewDeckStore creates an empty deck store.
func NewDeckStore(deps Deps) *DeckStore {
	s := &DeckStore{newID: uuid.NewString}
	s.init(KeyDecks, events.DeckUpdated, deps)
	return s
}

// Load rehydrates decks. Persisted card rows are normalized again.
func (s *DeckStore) Load(ctx context.Context) error {
	var decks []Deck
	ok, err := s.read(ctx, &decks)
	if err != nil || !ok {
		return err
	}
	for i := range decks {
		decks[i].Cards = normalizeDeckCards(decks[i].Cards)
	}

	s.mu.Lock()
	s.decks = decks
	s.mu.Unlock()
	return nil
}

func (s *DeckStore) indexLocked(id string) int {
	return slices.IndexFunc(s.decks, func(d Deck) bool { return d.ID == id })
}

func (s *DeckStore) finish(ctx context.Context, id, action string) error {
	p := s.stage(s.decks)
	ev := events.DeckUpdatedEvent{DeckID: id, Action: action, Count: len(s.decks)}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// Create adds a new deck with a generated id. An unknown format becomes
// standard.
func (s *DeckStore) Create(ctx context.Context, in DeckInput) (Deck, error) {
	now := s.now()
	deck := Deck{
		ID:           s.newID(),
		Name:         in.Name,
		Champion:     in.Champion,
		Cards:        normalizeDeckCards(in.Cards),
		Format:       in.Format,
		Notes:        in.Notes,
		DateCreated:  now,
		DateModified: now,
	}
	if !deck.Format.Valid() {
		deck.Format = FormatStandard
	}

	s.mu.Lock()
	s.decks = append(s.decks, deck)
	return deck.clone(), s.finish(ctx, deck.ID, "created")
}

// Update applies patch to a deck and stamps dateModified.
func (s *DeckStore) Update(ctx context.Context, id string, patch DeckPatch) (Deck, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Deck{}, ErrDeckNotFound
	}

	deck := s.decks[i]
	if patch.Name != nil {
		deck.Name = *patch.Name
	}
	if patch.Champion != nil {
		deck.Champion = *patch.Champion
	}
	if patch.Cards != nil {
		deck.Cards = normalizeDeckCards(patch.Cards)
	}
	if patch.Format != nil && patch.Format.Valid() {
		deck.Format = *patch.Format
	}
	if patch.Notes != nil {
		deck.Notes = *patch.Notes
	}
	deck.DateModified = s.now()
	s.decks[i] = deck
	return deck.clone(), s.finish(ctx, id, "updated")
}

// Delete removes a deck.
func (s *DeckStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	s.decks = slices.Delete(s.decks, i, i+1)
	return s.finish(ctx, id, "deleted")
}

// Duplicate copies a deck under a new id with fresh timestamps and
// " (Copy)" appended to the name.
func (s *DeckStore) Duplicate(ctx context.Context, id string) (Deck, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Deck{}, ErrDeckNotFound
	}

	now := s.now()
	deck := s.decks[i].clone()
	deck.ID = s.newID()
	deck.Name += " (Copy)"
	deck.DateCreated = now
	deck.DateModified = now
	s.decks = append(s.decks, deck)
	return deck.clone(), s.finish(ctx, deck.ID, "duplicated")
}

// AddCard adds one copy of a card. It reports false without changing the
// deck when the card is already at the copy limit.
func (s *DeckStore) AddCard(ctx context.Context, deckID, cardID string) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return false, ErrDeckNotFound
	}

	deck := s.decks[i].clone()
	j := slices.IndexFunc(deck.Cards, func(c DeckCard) bool { return c.CardID == cardID })
	switch {
	case j < 0:
		deck.Cards = append(deck.Cards, DeckCard{CardID: cardID, Quantity: 1})
	case deck.Cards[j].Quantity >= MaxCopiesPerCard:
		s.mu.Unlock()
		return false, nil
	default:
		deck.Cards[j].Quantity++
	}
	deck.DateModified = s.now()
	s.decks[i] = deck
	return true, s.finish(ctx, deckID, "updated")
}

// RemoveCard removes one copy of a card; the row goes with the last copy.
// It reports false when the card is not in the deck.
func (s *DeckStore) RemoveCard(ctx context.Context, deckID, cardID string) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return false, ErrDeckNotFound
	}

	deck := s.decks[i].clone()
	j := slices.IndexFunc(deck.Cards, func(c DeckCard) bool { return c.CardID == cardID })
	if j < 0 {
		s.mu.Unlock()
		return false, nil
	}
	deck.Cards[j].Quantity--
	if deck.Cards[j].Quantity <= 0 {
		deck.Cards = slices.Delete(deck.Cards, j, j+1)
	}
	deck.DateModified = s.now()
	s.decks[i] = deck
	return true, s.finish(ctx, deckID, "updated")
}

// Get returns a deck by id.
func (s *DeckStore) Get(id string) (Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Deck{}, false
	}
	return s.decks[i].clone(), true
}

// List returns all decks in creation order.
func (s *DeckStore) List() []Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Deck, len(s.decks))
	for i, d := range s.decks {
		out[i] = d.clone()
	}
	return out
}

// Summary computes counts and the energy curve using lookup for card data.
// Card ids lookup cannot resolve are listed in Missing. Without an explicit
// champion, the first champion card in the deck is used.
func (s *DeckStore) Summary(id string, lookup func(string) (cards.Card, bool)) (DeckSummary, bool) {
	deck, ok := s.Get(id)
	if !ok {
		return DeckSummary{}, false
	}

	summary := DeckSummary{
		UniqueCards: len(deck.Cards),
		EnergyCurve: make(map[int]int),
		Champion:    deck.Champion,
	}
	for _, row := range deck.Cards {
		summary.TotalCards += row.Quantity
		card, found := lookup(row.CardID)
		if !found {
			summary.Missing = append(summary.Missing, row.CardID)
			continue
		}
		summary.EnergyCurve[card.Energy] += row.Quantity
		if summary.Champion == "" && card.Type == cards.TypeChampion {
			summary.Champion = card.ID
		}
	}
	return summary, true
}
