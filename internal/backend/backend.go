// Package backend selects and constructs the persistence store from
// configuration.
package backend

import (
	"fmt"
	"log/slog"

	"ledger/internal/storage"
)

// Type names a persistence backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

// IsValid reports whether the type is one this build knows how to open.
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// Types returns every valid backend type.
func Types() []Type {
	return []Type{Memory, SQLite}
}

// Config holds what Open needs for each backend type.
type Config struct {
	Type Type

	// SQLite specific.
	SQLiteDBPath string
}

// Validate checks the config before any resources are opened.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
	if c.Type == SQLite && c.SQLiteDBPath == "" {
		return fmt.Errorf("sqlite backend requires a database path")
	}
	return nil
}

// Open constructs the configured store. The caller owns Close.
func Open(cfg Config, logger *slog.Logger) (storage.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case Memory:
		logger.Info("using in-memory backend; data is lost on exit")
		return storage.NewMemoryStore(), nil
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		logger.Info("using sqlite backend", "path", cfg.SQLiteDBPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unhandled backend type: %q", cfg.Type)
	}
}
