package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// SnapshotWriter serializes writes per key and drops stale snapshots.
//
// Callers reserve a sequence number with Next while they still hold the
// lock that produced the snapshot, then call Write after releasing it.
// Writes for the same key run one at a time; a snapshot whose sequence is
// not newer than the last committed one is discarded, so a slow older
// write can never overwrite a newer snapshot.
type SnapshotWriter struct {
	gateway Gateway
	logger  *slog.Logger

	mu   sync.Mutex
	keys map[string]*keyState
}

type keyState struct {
	write     sync.Mutex
	issued    uint64
	committed uint64
}

// NewSnapshotWriter creates a writer over gateway.
func NewSnapshotWriter(gateway Gateway, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{
		gateway: gateway,
		logger:  logger,
		keys:    make(map[string]*keyState),
	}
}

// Gateway returns the underlying gateway.
func (w *SnapshotWriter) Gateway() Gateway {
	return w.gateway
}

func (w *SnapshotWriter) state(key string) *keyState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.keys[key]
	if !ok {
		st = &keyState{}
		w.keys[key] = st
	}
	return st
}

// Next reserves the next sequence number for key.
func (w *SnapshotWriter) Next(key string) uint64 {
	st := w.state(key)
	w.mu.Lock()
	defer w.mu.Unlock()
	st.issued++
	return st.issued
}

// Write persists payload for key unless a newer sequence has already been
// committed. A failed write leaves the committed sequence unchanged so the
// next mutation's snapshot is written in full.
func (w *SnapshotWriter) Write(ctx context.Context, key string, seq uint64, payload []byte) error {
	st := w.state(key)
	st.write.Lock()
	defer st.write.Unlock()

	if seq <= st.committed {
		w.logger.Debug("Dropping stale snapshot", "key", key, "seq", seq, "committed", st.committed)
		return nil
	}

	if err := w.gateway.Set(ctx, key, payload); err != nil {
		w.logger.Error("Failed to persist snapshot", "key", key, "seq", seq, "error", err)
		return fmt.Errorf("persist %s: %w", key, err)
	}
	st.committed = seq
	return nil
}

// Committed returns the last committed sequence for key.
func (w *SnapshotWriter) Committed(key string) uint64 {
	st := w.state(key)
	st.write.Lock()
	defer st.write.Unlock()
	return st.committed
}
