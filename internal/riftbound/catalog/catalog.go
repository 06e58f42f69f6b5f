// Package catalog holds the normalized card catalog in memory.
package catalog

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

// Catalog is an immutable, indexed set of cards.
type Catalog struct {
	cards    []cards.Card
	byID     map[string]int
	byRarity map[cards.Rarity][]cards.Card
}

// New indexes list. Later duplicates of an id replace earlier ones.
func New(list []cards.Card) *Catalog {
	c := &Catalog{
		cards:    make([]cards.Card, 0, len(list)),
		byID:     make(map[string]int, len(list)),
		byRarity: make(map[cards.Rarity][]cards.Card),
	}
	for _, card := range list {
		if i, ok := c.byID[card.ID]; ok {
			c.cards[i] = card
			continue
		}
		c.byID[card.ID] = len(c.cards)
		c.cards = append(c.cards, card)
	}
	for _, card := range c.cards {
		c.byRarity[card.Rarity] = append(c.byRarity[card.Rarity], card)
	}
	return c
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.cards)
}

// Cards returns a copy of every card in catalog order.
func (c *Catalog) Cards() []cards.Card {
	if c == nil {
		return nil
	}
	return append([]cards.Card(nil), c.cards...)
}

// Get looks up a card by id. References from decks and the collection
// are not validated, so callers must handle a miss.
func (c *Catalog) Get(id string) (cards.Card, bool) {
	if c == nil {
		return cards.Card{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return cards.Card{}, false
	}
	return c.cards[i], true
}

// ByRarity returns the cards of rarity r. The slice must not be modified.
func (c *Catalog) ByRarity(r cards.Rarity) []cards.Card {
	if c == nil {
		return nil
	}
	return c.byRarity[r]
}

// OwnedFilter selects cards by ownership.
type OwnedFilter string

const (
	OwnedAll      OwnedFilter = ""
	OwnedOnly     OwnedFilter = "owned"
	OwnedExcluded OwnedFilter = "unowned"
)

// SortKey orders search results.
type SortKey string

const (
	SortName   SortKey = "name"
	SortNumber SortKey = "number"
	SortRarity SortKey = "rarity"
	SortEnergy SortKey = "energy"
)

// Filter narrows a catalog search. Zero values match everything.
type Filter struct {
	Query  string
	Rarity cards.Rarity
	Type   cards.Type
	Domain cards.Domain
	Owned  OwnedFilter
	// IsOwned reports ownership; required when Owned is set.
	IsOwned func(id string) bool
	Sort    SortKey
}

// Search returns the cards matching f, sorted by f.Sort.
func (c *Catalog) Search(f Filter) []cards.Card {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	var out []cards.Card
	for _, card := range c.Cards() {
		if f.Rarity != "" && card.Rarity != f.Rarity {
			continue
		}
		if f.Type != "" && card.Type != f.Type {
			continue
		}
		if f.Domain != "" && !card.HasDomain(f.Domain) {
			continue
		}
		if f.Owned != OwnedAll && f.IsOwned != nil {
			owned := f.IsOwned(card.ID)
			if (f.Owned == OwnedOnly) != owned {
				continue
			}
		}
		if query != "" && !matchesQuery(card, query) {
			continue
		}
		out = append(out, card)
	}

	sortCards(out, f.Sort)
	return out
}

func matchesQuery(card cards.Card, query string) bool {
	if strings.Contains(strings.ToLower(card.Name), query) ||
		strings.Contains(strings.ToLower(card.Text), query) {
		return true
	}
	for _, a := range card.Abilities {
		if strings.Contains(strings.ToLower(a), query) {
			return true
		}
	}
	return false
}

func sortCards(list []cards.Card, key SortKey) {
	var less func(a, b cards.Card) bool
	switch key {
	case SortName:
		less = func(a, b cards.Card) bool { return a.Name < b.Name }
	case SortNumber:
		less = func(a, b cards.Card) bool { return cardNumber(a) < cardNumber(b) }
	case SortRarity:
		less = func(a, b cards.Card) bool { return a.Rarity.Rank() > b.Rarity.Rank() }
	case SortEnergy:
		less = func(a, b cards.Card) bool { return a.Energy < b.Energy }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
}

func cardNumber(c cards.Card) int {
	n, err := strconv.Atoi(c.CardNumber)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// Holder owns the current catalog and allows it to be swapped atomically
// when a fetch or cache reload completes.
type Holder struct {
	mu      sync.RWMutex
	current *Catalog
}

// NewHolder creates a holder with an initial catalog (may be nil).
func NewHolder(initial *Catalog) *Holder {
	if initial == nil {
		initial = New(nil)
	}
	return &Holder{current: initial}
}

// Current returns the catalog in effect.
func (h *Holder) Current() *Catalog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Replace swaps in a catalog built from list.
func (h *Holder) Replace(list []cards.Card) *Catalog {
	c := New(list)
	h.mu.Lock()
	h.current = c
	h.mu.Unlock()
	return c
}
