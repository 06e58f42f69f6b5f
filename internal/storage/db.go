// Package storage provides durable persistence for store snapshots.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Config holds database configuration settings.
type Config struct {
	// Path is the file path to the SQLite database.
	Path string

	// MaxOpenConns sets the maximum number of open connections to the database.
	// Default: 4
	MaxOpenConns int

	// BusyTimeout sets how long to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// JournalMode sets the SQLite journal mode.
	// Default: WAL
	JournalMode string

	// Synchronous sets the SQLite synchronous mode.
	// Default: NORMAL
	Synchronous string

	// AutoMigrate runs pending migrations on Open.
	AutoMigrate bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:         path,
		MaxOpenConns: 4,
		BusyTimeout:  5 * time.Second,
		JournalMode:  "WAL",
		Synchronous:  "NORMAL",
		AutoMigrate:  true,
	}
}

// Open creates the database file if needed, applies migrations when
// AutoMigrate is set, and returns a pooled connection.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Migrations run on their own connection before the pool is opened
	if config.AutoMigrate {
		mgr, err := NewMigrationManager(config.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration manager: %w", err)
		}
		if err := mgr.Up(); err != nil {
			_ = mgr.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		if err := mgr.Close(); err != nil {
			return nil, fmt.Errorf("failed to close migration manager: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)&_pragma=synchronous(%s)",
		config.Path,
		config.BusyTimeout.Milliseconds(),
		config.JournalMode,
		config.Synchronous,
	)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	}

	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to close database after ping error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn, path: config.Path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}
