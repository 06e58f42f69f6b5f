package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

const (
	// MaxPackHistory is how many pack openings are kept.
	MaxPackHistory = 100
	// StartingCurrency is the balance of a new player.
	StartingCurrency = 500
	// DailyBonusAmount is credited by ClaimDailyBonus.
	DailyBonusAmount = 100
	// DailyBonusCooldown is the wait between daily claims.
	DailyBonusCooldown = 24 * time.Hour
)

// PackType identifies a pack configuration.
type PackType string

const (
	PackStarter     PackType = "starter"
	PackFoundations PackType = "foundations_booster"
	PackExpansion   PackType = "expansion_booster"
)

// RarityDistribution counts cards per rarity.
type RarityDistribution struct {
	Common    int `json:"common"`
	Uncommon  int `json:"uncommon"`
	Rare      int `json:"rare"`
	Legendary int `json:"legendary"`
}

// Count returns the count for r.
func (d RarityDistribution) Count(r cards.Rarity) int {
	switch r {
	case cards.RarityCommon:
		return d.Common
	case cards.RarityUncommon:
		return d.Uncommon
	case cards.RarityRare:
		return d.Rare
	case cards.RarityLegendary:
		return d.Legendary
	}
	return 0
}

// Total is the sum over all rarities.
func (d RarityDistribution) Total() int {
	return d.Common + d.Uncommon + d.Rare + d.Legendary
}

// BoosterPack is one pack opening in the history.
type BoosterPack struct {
	ID                 string             `json:"id"`
	PackType           PackType           `json:"packType"`
	Cards              []cards.Card       `json:"cards"`
	RarityDistribution RarityDistribution `json:"rarityDistribution"`
	OpenedDate         time.Time          `json:"openedDate"`
}

func (p BoosterPack) clone() BoosterPack {
	list := make([]cards.Card, len(p.Cards))
	for i, c := range p.Cards {
		list[i] = c.Clone()
	}
	p.Cards = list
	return p
}

type packState struct {
	PackHistory   []BoosterPack `json:"packHistory"`
	Currency      int           `json:"currency"`
	LastClaimDate *time.Time    `json:"lastClaimDate"`
}

// PackStore owns pack history, the currency balance and the daily bonus.
type PackStore struct {
	base
	state packState
}

// NewPackStore creates a store with StartingCurrency and no history.
func NewPackStore(deps Deps) *PackStore {
	s := &PackStore{state: packState{Currency: StartingCurrency}}
	s.init(KeyPackHistory, events.PackUpdated, deps)
	return s
}

// Load rehydrates the pack state.
func (s *PackStore) Load(ctx context.Context) error {
	st := packState{Currency: StartingCurrency}
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	st.Currency = max(0, st.Currency)
	if len(st.PackHistory) > MaxPackHistory {
		st.PackHistory = st.PackHistory[:MaxPackHistory]
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}

func (s *PackStore) finish(ctx context.Context, packType PackType) error {
	p := s.stage(s.state)
	ev := events.PackUpdatedEvent{
		Currency:     s.state.Currency,
		HistoryCount: len(s.state.PackHistory),
		PackType:     string(packType),
	}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

// AddPackOpening records an opening at the front of the history, stamping
// openedDate and evicting the oldest entries beyond MaxPackHistory.
func (s *PackStore) AddPackOpening(ctx context.Context, pack BoosterPack) (BoosterPack, error) {
	pack = pack.clone()
	if pack.ID == "" {
		pack.ID = uuid.NewString()
	}
	pack.OpenedDate = s.now()

	s.mu.Lock()
	history := make([]BoosterPack, 0, min(len(s.state.PackHistory)+1, MaxPackHistory))
	history = append(history, pack)
	history = append(history, s.state.PackHistory...)
	if len(history) > MaxPackHistory {
		history = history[:MaxPackHistory]
	}
	s.state.PackHistory = history
	return pack.clone(), s.finish(ctx, pack.PackType)
}

// History returns openings, most recent first.
func (s *PackStore) History() []BoosterPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]BoosterPack, len(s.state.PackHistory))
	for i, p := range s.state.PackHistory {
		out[i] = p.clone()
	}
	return out
}

// ClearHistory empties the history and leaves the balance alone.
func (s *PackStore) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	s.state.PackHistory = nil
	return s.finish(ctx, "")
}

// Currency returns the balance.
func (s *PackStore) Currency() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Currency
}

// UpdateCurrency adds delta to the balance, clamping at zero.
func (s *PackStore) UpdateCurrency(ctx context.Context, delta int) (int, error) {
	s.mu.Lock()
	s.state.Currency = max(0, s.state.Currency+delta)
	balance := s.state.Currency
	return balance, s.finish(ctx, "")
}

// SpendCurrency debits amount if the balance covers it. It reports false
// and leaves the balance unchanged otherwise.
func (s *PackStore) SpendCurrency(ctx context.Context, amount int) (bool, error) {
	s.mu.Lock()
	if amount < 0 || s.state.Currency < amount {
		s.mu.Unlock()
		return false, nil
	}
	s.state.Currency -= amount
	return true, s.finish(ctx, "")
}

func (s *PackStore) canClaimLocked(now time.Time) bool {
	if s.state.LastClaimDate == nil {
		return true
	}
	return now.Sub(*s.state.LastClaimDate) >= DailyBonusCooldown
}

// CanClaimDaily reports whether the daily bonus is claimable now.
func (s *PackStore) CanClaimDaily() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canClaimLocked(s.now())
}

// NextClaimAt returns when the bonus becomes claimable. The zero time
// means it has never been claimed.
func (s *PackStore) NextClaimAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LastClaimDate == nil {
		return time.Time{}
	}
	return s.state.LastClaimDate.Add(DailyBonusCooldown)
}

// ClaimDailyBonus credits DailyBonusAmount when claimable. It reports
// false, without error, during the cooldown.
func (s *PackStore) ClaimDailyBonus(ctx context.Context) (bool, error) {
	s.mu.Lock()
	now := s.now()
	if !s.canClaimLocked(now) {
		s.mu.Unlock()
		return false, nil
	}
	s.state.Currency += DailyBonusAmount
	s.state.LastClaimDate = &now
	return true, s.finish(ctx, "")
}
