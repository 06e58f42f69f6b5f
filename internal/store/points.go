package store

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
)

// MaxPointTransactions is how many transactions are kept.
const MaxPointTransactions = 100

// PointsPerLevel is the number of points per player level.
const PointsPerLevel = 100

// TransactionType distinguishes earned from spent points.
type TransactionType string

const (
	TransactionEarn  TransactionType = "earn"
	TransactionSpend TransactionType = "spend"
)

// PointTransaction is one entry of the points log.
type PointTransaction struct {
	ID     string          `json:"id"`
	Type   TransactionType `json:"type"`
	Amount int             `json:"amount"`
	Reason string          `json:"reason"`
	Date   time.Time       `json:"date"`
}

// PointsStats is the points balance and its history. TotalPoints always
// equals PointsEarned minus PointsSpent.
type PointsStats struct {
	TotalPoints  int                `json:"totalPoints"`
	PointsEarned int                `json:"pointsEarned"`
	PointsSpent  int                `json:"pointsSpent"`
	Transactions []PointTransaction `json:"transactions"`
	DailyStreak  int                `json:"dailyStreak"`
	LastActivity time.Time          `json:"lastActivity"`
}

func (p PointsStats) clone() PointsStats {
	p.Transactions = slices.Clone(p.Transactions)
	return p
}

// Level is TotalPoints/PointsPerLevel + 1.
func (p PointsStats) Level() int {
	return p.TotalPoints/PointsPerLevel + 1
}

// PointsStore owns the points tracker.
type PointsStore struct {
	base
	points PointsStats
}

// NewPointsStore creates a store with zero points and activity stamped now.
func NewPointsStore(deps Deps) *PointsStore {
	s := &PointsStore{}
	s.init(KeyPoints, events.PointsUpdated, deps)
	s.points = s.defaults()
	return s
}

func (s *PointsStore) defaults() PointsStats {
	return PointsStats{LastActivity: s.now()}
}

// Load rehydrates the points. TotalPoints is recomputed from earned and
// spent.
func (s *PointsStore) Load(ctx context.Context) error {
	var st PointsStats
	ok, err := s.read(ctx, &st)
	if err != nil || !ok {
		return err
	}
	st.TotalPoints = st.PointsEarned - st.PointsSpent
	if len(st.Transactions) > MaxPointTransactions {
		st.Transactions = st.Transactions[:MaxPointTransactions]
	}

	s.mu.Lock()
	s.points = st
	s.mu.Unlock()
	return nil
}

// Get returns the current points.
func (s *PointsStore) Get() PointsStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.clone()
}

// Level returns the player's level.
func (s *PointsStore) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points.Level()
}

func (s *PointsStore) finish(ctx context.Context) error {
	p := s.stage(s.points)
	ev := events.PointsUpdatedEvent{TotalPoints: s.points.TotalPoints, DailyStreak: s.points.DailyStreak}
	s.mu.Unlock()
	return s.commit(ctx, p, ev)
}

func (s *PointsStore) recordLocked(kind TransactionType, amount int, reason string, now time.Time) {
	tx := PointTransaction{
		ID:     uuid.NewString(),
		Type:   kind,
		Amount: amount,
		Reason: reason,
		Date:   now,
	}
	list := append([]PointTransaction{tx}, s.points.Transactions...)
	if len(list) > MaxPointTransactions {
		list = list[:MaxPointTransactions]
	}
	s.points.Transactions = list
	s.points.TotalPoints = s.points.PointsEarned - s.points.PointsSpent
	s.points.LastActivity = now
}

// AddPoints earns amount points. Non-positive amounts are ignored.
func (s *PointsStore) AddPoints(ctx context.Context, amount int, reason string) error {
	if amount <= 0 {
		return nil
	}
	s.mu.Lock()
	s.points.PointsEarned += amount
	s.recordLocked(TransactionEarn, amount, reason, s.now())
	return s.finish(ctx)
}

// SpendPoints spends amount points if the balance covers it. It reports
// false and leaves the state unchanged otherwise.
func (s *PointsStore) SpendPoints(ctx context.Context, amount int, reason string) (bool, error) {
	s.mu.Lock()
	if amount <= 0 || amount > s.points.TotalPoints {
		s.mu.Unlock()
		return false, nil
	}
	s.points.PointsSpent += amount
	s.recordLocked(TransactionSpend, amount, reason, s.now())
	return true, s.finish(ctx)
}

// UpdateDailyStreak advances the streak from the time since the last
// activity: 24 to 48 hours extends it, 48 hours or more restarts it at 1,
// less than 24 hours leaves it. Activity is stamped now.
func (s *PointsStore) UpdateDailyStreak(ctx context.Context) (int, error) {
	s.mu.Lock()
	now := s.now()
	since := now.Sub(s.points.LastActivity)
	switch {
	case since >= 48*time.Hour:
		s.points.DailyStreak = 1
	case since >= 24*time.Hour:
		s.points.DailyStreak++
	}
	s.points.LastActivity = now
	streak := s.points.DailyStreak
	return streak, s.finish(ctx)
}

// Reset restores zero points.
func (s *PointsStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.points = s.defaults()
	return s.finish(ctx)
}
