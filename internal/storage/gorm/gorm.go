// Package gormstorage implements the storage.Backend interface over
// any gorm dialect. It buffers the per-step rows and writes them in
// batches; EndRun flushes whatever is pending and finalizes the run
// header with the summary aggregates.
package gormstorage

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/marisim/marisim/internal/model"
	"github.com/marisim/marisim/internal/model/convert"
	"github.com/marisim/marisim/internal/model/core"
)

// flushEvery is the number of buffered steps that triggers a batch
// write.
const flushEvery = 500

// batchSize is the row count per INSERT issued by CreateInBatches.
const batchSize = 1000

// Backend persists runs through a gorm connection.
type Backend struct {
	db  *gorm.DB
	log *slog.Logger

	runRow  *model.Run
	stepBuf []model.StepState
	encBuf  []model.EncounterState
}

// New creates a backend over an open gorm connection. The backend takes
// ownership of the connection and closes it on Close.
func New(db *gorm.DB, log *slog.Logger) *Backend {
	if log == nil {
		log = slog.Default()
	}
	return &Backend{db: db, log: log}
}

// Init migrates the schema for the connection's dialect.
func (b *Backend) Init() error {
	models := model.DatabaseModels
	if b.db.Dialector.Name() == "sqlite" {
		models = model.DatabaseModelsSQLite
	}
	if err := b.db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close flushes pending rows and closes the underlying connection.
func (b *Backend) Close() error {
	if err := b.flush(); err != nil {
		b.log.Error("failed to flush pending rows on close", "error", err)
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// StartRun inserts the run header and assigns the database ID.
func (b *Backend) StartRun(run *core.Run, params any) error {
	row, err := convert.RunRow(*run, params)
	if err != nil {
		return err
	}
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	run.ID = row.ID
	b.runRow = &row
	b.stepBuf = b.stepBuf[:0]
	b.encBuf = b.encBuf[:0]
	return nil
}

// RecordStep buffers the step and its encounter rows.
func (b *Backend) RecordStep(rec *core.StepRecord) error {
	if b.runRow == nil {
		return fmt.Errorf("no run in progress")
	}
	b.stepBuf = append(b.stepBuf, convert.StepRow(b.runRow.ID, rec))
	b.encBuf = append(b.encBuf, convert.EncounterRows(b.runRow.ID, rec)...)
	if len(b.stepBuf) >= flushEvery {
		return b.flush()
	}
	return nil
}

// EndRun flushes pending rows and writes the summary onto the header.
func (b *Backend) EndRun(sum core.RunSummary) error {
	if b.runRow == nil {
		return fmt.Errorf("no run in progress")
	}
	if err := b.flush(); err != nil {
		return err
	}
	convert.ApplySummary(b.runRow, sum)
	if err := b.db.Save(b.runRow).Error; err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}
	b.runRow = nil
	return nil
}

func (b *Backend) flush() error {
	if len(b.stepBuf) > 0 {
		if err := b.db.CreateInBatches(b.stepBuf, batchSize).Error; err != nil {
			return fmt.Errorf("failed to write step states: %w", err)
		}
		b.stepBuf = b.stepBuf[:0]
	}
	if len(b.encBuf) > 0 {
		if err := b.db.CreateInBatches(b.encBuf, batchSize).Error; err != nil {
			return fmt.Errorf("failed to write encounter states: %w", err)
		}
		b.encBuf = b.encBuf[:0]
	}
	return nil
}
