package store

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// Variant is a printing of a card.
type Variant string

const (
	VariantNormal Variant = "normal"
	VariantFoil   Variant = "foil"
)

// CollectionEntry records ownership of one card.
type CollectionEntry struct {
	CardID    string    `json:"cardId"`
	Owned     bool      `json:"owned"`
	Quantity  int       `json:"quantity"`
	Foil      bool      `json:"foil"`
	DateAdded time.Time `json:"dateAdded"`
	Variants  []Variant `json:"variants"`
}

func (e CollectionEntry) clone() CollectionEntry {
	e.Variants = slices.Clone(e.Variants)
	return e
}

// CollectionStats summarizes the collection against a catalog size.
type CollectionStats struct {
	TotalCards     int     `json:"totalCards"`
	UniqueCards    int     `json:"uniqueCards"`
	CompletionRate float64 `json:"completionRate"`
}

// CollectionStore owns the card collection. An entry never has quantity
// zero; reaching zero removes it.
type CollectionStore struct {
	base
	entries map[string]CollectionEntry
}

// NewCollectionStore creates an empty collection store.
func NewCollectionStore(deps Deps) *CollectionStore {
	s := &CollectionStore{entries: make(map[string]CollectionEntry)}
	s.init(KeyCollection, events.CollectionUpdated, deps)
	return s
}

// Load rehydrates the collection from its association list.
func (s *CollectionStore) Load(ctx context.Context) error {
	var list []pair[CollectionEntry]
	ok, err := s.read(ctx, &list)
	if err != nil || !ok {
		return err
	}

	entries := make(map[string]CollectionEntry, len(list))
	for _, p := range list {
		if p.Value.Quantity <= 0 {
			continue
		}
		p.Value.CardID = p.Key
		entries[p.Key] = p.Value
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

func (s *CollectionStore) newEntry(cardID string, quantity int) CollectionEntry {
	return CollectionEntry{
		CardID:    cardID,
		Owned:     true,
		Quantity:  quantity,
		DateAdded: s.now(),
		Variants:  []Variant{VariantNormal},
	}
}

// sortedLocked returns entries ordered by card id.
func (s *CollectionStore) sortedLocked() []CollectionEntry {
	list := make([]CollectionEntry, 0, len(s.entries))
	for _, e := range s.entries {
		list = append(list, e.clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CardID < list[j].CardID })
	return list
}

func (s *CollectionStore) snapshotLocked() pending {
	list := make([]pair[CollectionEntry], 0, len(s.entries))
	for _, e := range s.sortedLocked() {
		list = append(list, pair[CollectionEntry]{Key: e.CardID, Value: e})
	}
	return s.stage(list)
}

func (s *CollectionStore) eventLocked(cardID string) events.CollectionUpdatedEvent {
	stats := s.statsLocked(0)
	return events.CollectionUpdatedEvent{
		CardID:      cardID,
		Quantity:    s.entries[cardID].Quantity,
		UniqueCards: stats.UniqueCards,
		TotalCards:  stats.TotalCards,
	}
}

// mutate runs fn under the lock and persists if fn reports a change.
func (s *CollectionStore) mutate(ctx context.Context, cardID string, fn func() bool) error {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return nil
	}
	p := s.snapshotLocked()
	ev := s.eventLocked(cardID)
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// Add adds quantity copies of a card, creating the entry if needed.
// Non-positive quantities are ignored.
func (s *CollectionStore) Add(ctx context.Context, cardID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return s.mutate(ctx, cardID, func() bool {
		s.addLocked(cardID, quantity)
		return true
	})
}

func (s *CollectionStore) addLocked(cardID string, quantity int) {
	if e, ok := s.entries[cardID]; ok {
		e.Quantity += quantity
		e.Owned = true
		s.entries[cardID] = e
		return
	}
	s.entries[cardID] = s.newEntry(cardID, quantity)
}

// AddMany adds one copy per id in a single mutation. Repeated ids add
// repeatedly.
func (s *CollectionStore) AddMany(ctx context.Context, cardIDs []string) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return s.mutate(ctx, "", func() bool {
		for _, id := range cardIDs {
			s.addLocked(id, 1)
		}
		return true
	})
}

// Remove removes up to quantity copies; the entry is deleted at zero.
func (s *CollectionStore) Remove(ctx context.Context, cardID string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	return s.mutate(ctx, cardID, func() bool {
		e, ok := s.entries[cardID]
		if !ok {
			return false
		}
		e.Quantity = max(0, e.Quantity-quantity)
		if e.Quantity == 0 {
			delete(s.entries, cardID)
		} else {
			s.entries[cardID] = e
		}
		return true
	})
}

// ToggleOwned flips the owned flag, or adds a single owned copy when the
// card is not in the collection.
func (s *CollectionStore) ToggleOwned(ctx context.Context, cardID string) error {
	return s.mutate(ctx, cardID, func() bool {
		if e, ok := s.entries[cardID]; ok {
			e.Owned = !e.Owned
			s.entries[cardID] = e
			return true
		}
		s.entries[cardID] = s.newEntry(cardID, 1)
		return true
	})
}

// UpdateQuantity sets the quantity of a card. Zero or negative removes it.
func (s *CollectionStore) UpdateQuantity(ctx context.Context, cardID string, quantity int) error {
	return s.mutate(ctx, cardID, func() bool {
		if quantity <= 0 {
			if _, ok := s.entries[cardID]; !ok {
				return false
			}
			delete(s.entries, cardID)
			return true
		}
		if e, ok := s.entries[cardID]; ok {
			e.Quantity = quantity
			s.entries[cardID] = e
			return true
		}
		s.entries[cardID] = s.newEntry(cardID, quantity)
		return true
	})
}

// Import replaces the whole collection. Entries without a positive
// quantity are dropped.
func (s *CollectionStore) Import(ctx context.Context, data map[string]CollectionEntry) error {
	return s.mutate(ctx, "", func() bool {
		entries := make(map[string]CollectionEntry, len(data))
		for id, e := range data {
			if e.Quantity <= 0 {
				continue
			}
			e = e.clone()
			e.CardID = id
			entries[id] = e
		}
		s.entries = entries
		return true
	})
}

// Export returns a copy of the collection keyed by card id.
func (s *CollectionStore) Export() map[string]CollectionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]CollectionEntry, len(s.entries))
	for id, e := range s.entries {
		out[id] = e.clone()
	}
	return out
}

// Clear empties the collection.
func (s *CollectionStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, "", func() bool {
		s.entries = make(map[string]CollectionEntry)
		return true
	})
}

// Get returns the entry for a card.
func (s *CollectionStore) Get(cardID string) (CollectionEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[cardID]
	return e.clone(), ok
}

// IsOwned reports whether the card is marked owned.
func (s *CollectionStore) IsOwned(cardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[cardID].Owned
}

// Entries returns all entries ordered by card id.
func (s *CollectionStore) Entries() []CollectionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Stats computes totals. Completion is the share of catalogSize that is
// collected, in percent; zero when catalogSize is not positive.
func (s *CollectionStore) Stats(catalogSize int) CollectionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked(catalogSize)
}

func (s *CollectionStore) statsLocked(catalogSize int) CollectionStats {
	var stats CollectionStats
	for _, e := range s.entries {
		stats.TotalCards += e.Quantity
	}
	stats.UniqueCards = len(s.entries)
	if catalogSize > 0 {
		stats.CompletionRate = float64(stats.UniqueCards) / float64(catalogSize) * 100
	}
	return stats
}
