package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSnapshotWriterDropsStale(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	w := NewSnapshotWriter(g, nil)

	older := w.Next("@riftbound_collection")
	newer := w.Next("@riftbound_collection")

	if err := w.Write(ctx, "@riftbound_collection", newer, []byte("new")); err != nil {
		t.Fatalf("Write(newer) error = %v", err)
	}
	if err := w.Write(ctx, "@riftbound_collection", older, []byte("old")); err != nil {
		t.Fatalf("Write(older) error = %v", err)
	}

	got, _, _ := g.Get(ctx, "@riftbound_collection")
	if string(got) != "new" {
		t.Errorf("persisted %q, want %q", got, "new")
	}
	if w.Committed("@riftbound_collection") != newer {
		t.Errorf("Committed() = %d, want %d", w.Committed("@riftbound_collection"), newer)
	}
}

func TestSnapshotWriterKeysIndependent(t *testing.T) {
	w := NewSnapshotWriter(NewMemoryGateway(), nil)

	if a := w.Next("a"); a != 1 {
		t.Errorf("Next(a) = %d, want 1", a)
	}
	if b := w.Next("b"); b != 1 {
		t.Errorf("Next(b) = %d, want 1", b)
	}
	if a := w.Next("a"); a != 2 {
		t.Errorf("Next(a) = %d, want 2", a)
	}
}

func TestSnapshotWriterFailureKeepsCommitted(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	w := NewSnapshotWriter(g, nil)

	g.SetFailure(errors.New("write failed"))
	seq := w.Next("k")
	if err := w.Write(ctx, "k", seq, []byte("v1")); err == nil {
		t.Fatal("expected error from failing gateway")
	}
	if w.Committed("k") != 0 {
		t.Errorf("Committed() = %d after failure, want 0", w.Committed("k"))
	}

	g.SetFailure(nil)
	seq = w.Next("k")
	if err := w.Write(ctx, "k", seq, []byte("v2")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, _, _ := g.Get(ctx, "k")
	if string(got) != "v2" {
		t.Errorf("persisted %q, want v2", got)
	}
}

func TestSnapshotWriterConcurrent(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGateway()
	w := NewSnapshotWriter(g, nil)

	const n = 50
	seqs := make([]uint64, n)
	for i := range seqs {
		seqs[i] = w.Next("k")
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			payload := []byte{byte(seq)}
			if err := w.Write(ctx, "k", seq, payload); err != nil {
				t.Errorf("Write() error = %v", err)
			}
		}(seqs[i])
	}
	wg.Wait()

	got, _, _ := g.Get(ctx, "k")
	if len(got) != 1 || uint64(got[0]) != seqs[n-1] {
		t.Errorf("persisted %v, want last sequence %d", got, seqs[n-1])
	}
}
