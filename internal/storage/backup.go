package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// BackupFormatVersion is written into every backup.
const BackupFormatVersion = 1

// Backup is a point-in-time copy of every store snapshot.
type Backup struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Snapshots map[string]json.RawMessage `json:"snapshots"`
}

// CreateBackup copies every snapshot held by g.
func CreateBackup(ctx context.Context, g Gateway) (*Backup, error) {
	keys, err := g.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	b := &Backup{
		Version:   BackupFormatVersion,
		CreatedAt: time.Now().UTC(),
		Snapshots: make(map[string]json.RawMessage, len(keys)),
	}
	for _, key := range keys {
		value, ok, err := g.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if !json.Valid(value) {
			return nil, fmt.Errorf("snapshot %s is not valid JSON", key)
		}
		b.Snapshots[key] = json.RawMessage(value)
	}
	return b, nil
}

// RestoreBackup replaces every snapshot in g with the backup's contents.
// Stores must be reloaded afterwards to pick up the restored state.
func RestoreBackup(ctx context.Context, g Gateway, b *Backup) error {
	if b == nil {
		return fmt.Errorf("backup is nil")
	}
	if b.Version != BackupFormatVersion {
		return fmt.Errorf("unsupported backup version %d", b.Version)
	}

	if err := g.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w", err)
	}
	for key, value := range b.Snapshots {
		if err := g.Set(ctx, key, value); err != nil {
			return fmt.Errorf("failed to restore snapshot %s: %w", key, err)
		}
	}
	return nil
}

// WriteBackupFile encrypts b with config and writes it to path.
func WriteBackupFile(path string, b *Backup, config *EncryptionConfig) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return WriteEncryptedFile(path, data, config)
}

// ReadBackupFile decrypts and decodes a file written by WriteBackupFile.
func ReadBackupFile(path string, config *EncryptionConfig) (*Backup, error) {
	data, err := ReadEncryptedFile(path, config)
	if err != nil {
		return nil, err
	}
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	return &b, nil
}
