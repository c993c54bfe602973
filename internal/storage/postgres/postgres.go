// Package postgresstorage implements the storage.Backend interface
// over a Postgres connection. All persistence logic lives in the
// embedded GORM backend; this package only owns the connection setup
// and the fallback dump.
package postgresstorage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/marisim/marisim/internal/database"
	"github.com/marisim/marisim/internal/model/core"
	gormstorage "github.com/marisim/marisim/internal/storage/gorm"
)

// Backend wraps the GORM backend over a Postgres connection. When
// Postgres is unreachable the manager falls back to an in-memory
// SQLite database so the run is still recorded, and Close dumps that
// database into dumpDir for later recovery.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
	log     *slog.Logger
	dumpDir string
}

// New connects using the viper db.* settings. dumpDir names the
// directory that receives the SQLite dump when the connection fell
// back; empty disables the dump.
func New(log *slog.Logger, dumpDir string) (*Backend, error) {
	if log == nil {
		log = slog.Default()
	}
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	manager := database.NewManager(zl)
	if err := manager.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	b := &Backend{
		Backend: gormstorage.New(manager.DB, log),
		manager: manager,
		log:     log,
		dumpDir: dumpDir,
	}
	if b.FellBack() {
		log.Warn("Postgres unreachable, recording to in-memory SQLite fallback", "dumpDir", dumpDir)
	}
	return b, nil
}

// Init migrates the schema and seeds the instance info row.
func (b *Backend) Init() error {
	if err := b.manager.Setup(); err != nil {
		return err
	}
	return b.Backend.Init()
}

// StartRun names the fallback dump file after the run before
// delegating. On a live Postgres connection there is nothing to name.
func (b *Backend) StartRun(run *core.Run, params any) error {
	if err := b.Backend.StartRun(run, params); err != nil {
		return err
	}
	if b.FellBack() && b.dumpDir != "" {
		if err := os.MkdirAll(b.dumpDir, 0755); err != nil {
			return fmt.Errorf("failed to create dump dir: %w", err)
		}
		name := fmt.Sprintf("case%d_%s_fallback.db", run.Case, run.StartedAt.Format("20060102_150405"))
		b.manager.SqliteFilePath = filepath.Join(b.dumpDir, name)
	}
	return nil
}

// Close dumps the fallback database to disk, if there is one, and
// closes the embedded GORM backend.
func (b *Backend) Close() error {
	if b.FellBack() && b.manager.SqliteFilePath != "" {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			b.log.Error("fallback dump to disk failed", "error", err)
		}
	}
	return b.Backend.Close()
}

// ExportedFilePath returns the fallback dump path, empty when writing
// to Postgres proper or when dumping is disabled.
func (b *Backend) ExportedFilePath() string {
	if !b.FellBack() {
		return ""
	}
	return b.manager.SqliteFilePath
}

// FellBack reports whether the backend is writing to the local SQLite
// fallback instead of Postgres.
func (b *Backend) FellBack() bool {
	return b.manager.ShouldSaveLocal
}
