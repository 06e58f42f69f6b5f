// Package store holds the persisted user-state aggregates: collection,
// decks, settings, pack history and currency, stats, points, pricing,
// featured cards, first launch and community data.
//
// Each store guards its state with a mutex, persists a JSON snapshot after
// every mutation and dispatches a "<store>:updated" event once the lock is
// released. A failed write never rolls back the in-memory change; the next
// mutation writes the full snapshot again.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ramonehamilton/riftbound-companion/internal/events"
	"github.com/ramonehamilton/riftbound-companion/internal/storage"
)

// Storage keys, one per store.
const (
	KeyCollection  = "@riftbound_collection"
	KeyDecks       = "@riftbound_decks"
	KeySettings    = "@riftbound_settings"
	KeyPackHistory = "@riftbound_pack_history"
	KeyStats       = "@riftbound_stats"
	KeyPoints      = "@riftbound_points"
	KeyPricing     = "@riftbound_pricing"
	KeyFeatured    = "@riftbound_featured_cards"
	KeyFirstLaunch = "@riftbound_first_launch"
	KeyCommunity   = "@riftbound_community"
)

// Deps are the collaborators shared by every store.
type Deps struct {
	Gateway storage.Gateway
	Events  events.Publisher
	Clock   func() time.Time
	Logger  *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Gateway == nil {
		d.Gateway = storage.NewMemoryGateway()
	}
	if d.Events == nil {
		d.Events = events.Discard
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// base carries the persistence plumbing common to all stores.
type base struct {
	mu sync.Mutex

	key       string
	eventType string
	gateway   storage.Gateway
	writer    *storage.SnapshotWriter
	events    events.Publisher
	clock     func() time.Time
	logger    *slog.Logger
}

func (b *base) init(key, eventType string, deps Deps) {
	deps = deps.withDefaults()
	b.key = key
	b.eventType = eventType
	b.gateway = deps.Gateway
	b.logger = deps.Logger.With("store", key)
	b.writer = storage.NewSnapshotWriter(deps.Gateway, b.logger)
	b.events = deps.Events
	b.clock = deps.Clock
}

func (b *base) now() time.Time {
	return b.clock().UTC()
}

// Key returns the storage key of the store.
func (b *base) Key() string {
	return b.key
}

// read loads the persisted snapshot into v. It reports false when nothing
// has been stored yet.
func (b *base) read(ctx context.Context, v any) (bool, error) {
	raw, ok, err := b.gateway.Get(ctx, b.key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", b.key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		b.logger.Warn("Discarding unreadable snapshot", "error", err)
		return false, fmt.Errorf("decode %s: %w", b.key, err)
	}
	return true, nil
}

// pending is a snapshot taken under the store lock, waiting to be written.
type pending struct {
	seq     uint64
	payload []byte
	err     error
}

// stage serializes v and reserves its write sequence. Must be called with
// b.mu held so sequence order matches mutation order.
func (b *base) stage(v any) pending {
	payload, err := json.Marshal(v)
	if err != nil {
		return pending{err: fmt.Errorf("encode %s: %w", b.key, err)}
	}
	return pending{seq: b.writer.Next(b.key), payload: payload}
}

// commit writes a staged snapshot and publishes the update event. Called
// after b.mu is released.
func (b *base) commit(ctx context.Context, p pending, payload any) error {
	b.events.Dispatch(events.Event{
		Type:    b.eventType,
		Payload: payload,
		At:      b.now(),
		Context: ctx,
	})
	if p.err != nil {
		b.logger.Error("Failed to encode snapshot", "error", p.err)
		return p.err
	}
	return b.writer.Write(ctx, b.key, p.seq, p.payload)
}

// pair is one entry of a persisted association list.
type pair[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}
