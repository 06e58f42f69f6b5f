package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Gateway persists opaque JSON snapshots keyed by store name. There is no
// transactionality across keys.
type Gateway interface {
	// Get returns the snapshot for key; ok is false if none is stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set replaces the snapshot for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the snapshot for key.
	Delete(ctx context.Context, key string) error
	// Clear removes every snapshot.
	Clear(ctx context.Context) error
	// Keys lists stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)
}

// SQLiteGateway implements Gateway on the store_snapshots table.
type SQLiteGateway struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteGateway creates a gateway over a migrated database.
func NewSQLiteGateway(db *DB) *SQLiteGateway {
	return &SQLiteGateway{db: db.Conn(), now: time.Now}
}

// Get retrieves the snapshot for key.
func (g *SQLiteGateway) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := g.db.QueryRowContext(ctx,
		"SELECT payload FROM store_snapshots WHERE store_key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

// Set stores the snapshot for key.
func (g *SQLiteGateway) Set(ctx context.Context, key string, value []byte) error {
	_, err := g.db.ExecContext(ctx, `
		INSERT INTO store_snapshots (store_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(store_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, key, string(value), g.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set snapshot %s: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot for key.
func (g *SQLiteGateway) Delete(ctx context.Context, key string) error {
	if _, err := g.db.ExecContext(ctx, "DELETE FROM store_snapshots WHERE store_key = ?", key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

// Clear removes every snapshot.
func (g *SQLiteGateway) Clear(ctx context.Context) error {
	if _, err := g.db.ExecContext(ctx, "DELETE FROM store_snapshots"); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	return nil
}

// Keys lists stored keys.
func (g *SQLiteGateway) Keys(ctx context.Context) ([]string, error) {
	rows, err := g.db.QueryContext(ctx, "SELECT store_key FROM store_snapshots ORDER BY store_key")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot keys: %w", err)
	}
	return keys, nil
}

// MemoryGateway is an in-process Gateway for tests and ephemeral mode.
type MemoryGateway struct {
	mu       sync.Mutex
	data     map[string][]byte
	failWith error
	writes   int
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: make(map[string][]byte)}
}

// Get retrieves the snapshot for key.
func (g *MemoryGateway) Get(_ context.Context, key string) ([]byte, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores the snapshot for key.
func (g *MemoryGateway) Set(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failWith != nil {
		return g.failWith
	}
	g.data[key] = append([]byte(nil), value...)
	g.writes++
	return nil
}

// Delete removes the snapshot for key.
func (g *MemoryGateway) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.data, key)
	return nil
}

// Clear removes every snapshot.
func (g *MemoryGateway) Clear(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data = make(map[string][]byte)
	return nil
}

// Keys lists stored keys.
func (g *MemoryGateway) Keys(_ context.Context) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.data))
	for k := range g.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// SetFailure makes every Set return err until cleared with nil.
func (g *MemoryGateway) SetFailure(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failWith = err
}

// WriteCount returns the number of successful Set calls.
func (g *MemoryGateway) WriteCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes
}
