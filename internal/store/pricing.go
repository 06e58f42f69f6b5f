package store

import (
	"context"
	"sort"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// PriceCurrency is the currency a price is quoted in.
type PriceCurrency string

const (
	CurrencyUSD PriceCurrency = "USD"
	CurrencyEUR PriceCurrency = "EUR"
)

// PriceTrend is the recent direction of a price.
type PriceTrend string

const (
	TrendUp     PriceTrend = "up"
	TrendDown   PriceTrend = "down"
	TrendStable PriceTrend = "stable"
)

// CardPrice is the market price of one card.
type CardPrice struct {
	CardID      string        `json:"cardId"`
	NormalPrice float64       `json:"normalPrice"`
	FoilPrice   float64       `json:"foilPrice"`
	Currency    PriceCurrency `json:"currency"`
	Source      string        `json:"source"`
	LastUpdated time.Time     `json:"lastUpdated"`
	Trend       PriceTrend    `json:"trend"`
}

// PricingStore owns card prices keyed by card id.
type PricingStore struct {
	base
	prices map[string]CardPrice
}

// NewPricingStore creates an empty pricing store.
func NewPricingStore(deps Deps) *PricingStore {
	s := &PricingStore{prices: make(map[string]CardPrice)}
	s.init(KeyPricing, events.PricingUpdated, deps)
	return s
}

// Load rehydrates prices from their association list.
func (s *PricingStore) Load(ctx context.Context) error {
	var list []pair[CardPrice]
	ok, err := s.read(ctx, &list)
	if err != nil || !ok {
		return err
	}
	prices := make(map[string]CardPrice, len(list))
	for _, p := range list {
		p.Value.CardID = p.Key
		prices[p.Key] = p.Value
	}

	s.mu.Lock()
	s.prices = prices
	s.mu.Unlock()
	return nil
}

func (s *PricingStore) allLocked() []CardPrice {
	list := make([]CardPrice, 0, len(s.prices))
	for _, p := range s.prices {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CardID < list[j].CardID })
	return list
}

func (s *PricingStore) finish(ctx context.Context, cardID string) error {
	all := s.allLocked()
	list := make([]pair[CardPrice], len(all))
	for i, p := range all {
		list[i] = pair[CardPrice]{Key: p.CardID, Value: p}
	}
	p := s.stage(list)
	ev := events.PricingUpdatedEvent{CardID: cardID, Count: len(s.prices)}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// UpdatePrice replaces the price of a card wholesale. A zero LastUpdated
// is stamped with the current time.
func (s *PricingStore) UpdatePrice(ctx context.Context, cardID string, price CardPrice) error {
	price.CardID = cardID
	if price.LastUpdated.IsZero() {
		price.LastUpdated = s.now()
	}
	s.mu.Lock()
	s.prices[cardID] = price
	return s.finish(ctx, cardID)
}

// GetPrice returns the price of a card.
func (s *PricingStore) GetPrice(cardID string) (CardPrice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[cardID]
	return p, ok
}

// All returns every price ordered by card id.
func (s *PricingStore) All() []CardPrice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allLocked()
}

// Clear removes all prices.
func (s *PricingStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.prices = make(map[string]CardPrice)
	return s.finish(ctx, "")
}
