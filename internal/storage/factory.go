// internal/storage/factory.go
package storage

import (
	"fmt"
	"log/slog"

	"github.com/marisim/marisim/internal/config"
	"github.com/marisim/marisim/internal/storage/memory"
	postgresstorage "github.com/marisim/marisim/internal/storage/postgres"
	sqlitestorage "github.com/marisim/marisim/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		// the sqlite dump dir doubles as the destination for the
		// in-memory fallback dump when Postgres is unreachable
		return postgresstorage.New(log, cfg.SQLite.DumpDir)
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpDir:      cfg.SQLite.DumpDir,
		}, log)
	case "memory":
		return memory.New(memory.Config{
			OutputDir:      cfg.Memory.OutputDir,
			CompressOutput: cfg.Memory.CompressOutput,
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
