// Package sqlitestorage implements the storage.Backend interface using
// an in-memory SQLite database with periodic disk dumps via VACUUM
// INTO. It wraps the GORM backend via composition; the only
// SQLite-specific concerns are creating the in-memory DB and the dump
// goroutine.
package sqlitestorage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/marisim/marisim/internal/database"
	gormstorage "github.com/marisim/marisim/internal/storage/gorm"

	"gorm.io/gorm"

	"github.com/marisim/marisim/internal/model/core"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval time.Duration
	DumpDir      string // directory for periodic VACUUM INTO dumps
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db       *gorm.DB
	cfg      Config
	log      *slog.Logger
	dumpPath string
	stopChan chan struct{}
}

// New creates a new SQLite storage backend.
func New(cfg Config, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := database.GetSqliteDBStandalone("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(db, log),
		db:       db,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.cfg.DumpDir != "" && b.cfg.DumpInterval > 0 {
		if err := os.MkdirAll(b.cfg.DumpDir, 0755); err != nil {
			return fmt.Errorf("failed to create dump dir: %w", err)
		}
		go b.dumpLoop()
	}

	return nil
}

// Close stops the dump goroutine, takes a final dump and closes the
// embedded GORM backend.
func (b *Backend) Close() error {
	close(b.stopChan)
	if b.dumpPath != "" {
		if err := database.DumpMemoryDBToDisk(b.db, b.dumpPath); err != nil {
			b.log.Error("final dump to disk failed", "error", err)
		}
	}
	return b.Backend.Close()
}

// StartRun names the dump file after the run before delegating.
func (b *Backend) StartRun(run *core.Run, params any) error {
	if err := b.Backend.StartRun(run, params); err != nil {
		return err
	}
	if b.cfg.DumpDir != "" {
		name := fmt.Sprintf("case%d_%s.db", run.Case, run.StartedAt.Format("20060102_150405"))
		b.dumpPath = filepath.Join(b.cfg.DumpDir, name)
	}
	return nil
}

// ExportedFilePath returns the disk dump path, empty when dumping is
// disabled.
func (b *Backend) ExportedFilePath() string {
	return b.dumpPath
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if b.dumpPath == "" {
				continue
			}
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(b.db, b.dumpPath); err != nil {
				b.log.Error("failed to dump to disk", "error", err)
			} else {
				b.log.Debug("dumped to disk", "duration", time.Since(start))
			}
		}
	}
}
