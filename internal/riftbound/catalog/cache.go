package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ramonehamilton/riftbound-companion/internal/riftbound/cards"
)

// cacheFile is the on-disk catalog format.
type cacheFile struct {
	FetchedAt time.Time    `json:"fetchedAt"`
	Cards     []cards.Card `json:"cards"`
}

// SaveFile writes list to path, replacing it atomically.
func SaveFile(path string, list []cards.Card, fetchedAt time.Time) error {
	data, err := json.Marshal(cacheFile{FetchedAt: fetchedAt, Cards: list})
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// LoadFile reads a catalog written by SaveFile.
func LoadFile(path string) ([]cards.Card, time.Time, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read catalog: %w", err)
	}

	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse catalog: %w", err)
	}
	return f.Cards, f.FetchedAt, nil
}

// Watch reloads the cache file into h whenever it is written or replaced,
// until ctx is cancelled. The parent directory is watched so atomic
// renames are seen.
func Watch(ctx context.Context, path string, h *Holder, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			list, fetchedAt, err := LoadFile(path)
			if err != nil {
				logger.Warn("Catalog reload failed", "path", path, "error", err)
				continue
			}
			h.Replace(list)
			logger.Info("Catalog reloaded", "cards", len(list), "fetchedAt", fetchedAt)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Catalog watcher error", "error", err)
		}
	}
}
