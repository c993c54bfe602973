package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marisim/marisim/internal/model"
)

func TestGetSqliteDBStandalone_InMemory(t *testing.T) {
	db, err := GetSqliteDBStandalone("")
	if err != nil {
		t.Fatalf("opening in-memory sqlite: %v", err)
	}

	var version int
	if err := db.Raw("PRAGMA user_version;").Scan(&version).Error; err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if version != 1 {
		t.Errorf("expected user_version 1, got %d", version)
	}
}

func TestManagerSetup_SqliteFallback(t *testing.T) {
	m := NewManager(zerolog.Nop())
	m.ShouldSaveLocal = true

	db, err := m.GetSqliteDB("")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	m.DB = db
	m.IsValid = true

	if err := m.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	var info model.SimInfo
	if err := m.DB.First(&info).Error; err != nil {
		t.Fatalf("reading sim_info row: %v", err)
	}
	if info.Name != "marisim" {
		t.Errorf("expected instance name marisim, got %q", info.Name)
	}

	for _, table := range []string{"runs", "step_states", "encounter_states"} {
		if !m.DB.Migrator().HasTable(table) {
			t.Errorf("expected table %s after setup", table)
		}
	}

	// second Setup must be idempotent
	if err := m.Setup(); err != nil {
		t.Fatalf("repeated Setup: %v", err)
	}
	var count int64
	m.DB.Model(&model.SimInfo{}).Count(&count)
	if count != 1 {
		t.Errorf("expected a single sim_info row, got %d", count)
	}
}

func TestManagerDumpMemoryToDisk(t *testing.T) {
	m := NewManager(zerolog.Nop())
	m.ShouldSaveLocal = true

	db, err := m.GetSqliteDB("")
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	m.DB = db
	if err := m.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if err := m.DumpMemoryToDisk(); err == nil {
		t.Error("expected error when sqlite file path is unset")
	}

	m.SqliteFilePath = filepath.Join(t.TempDir(), "dump.db")
	if err := m.DumpMemoryToDisk(); err != nil {
		t.Fatalf("DumpMemoryToDisk: %v", err)
	}

	info, err := os.Stat(m.SqliteFilePath)
	if err != nil {
		t.Fatalf("dump file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("dump file should not be empty")
	}

	// dumping again must replace the existing file
	if err := m.DumpMemoryToDisk(); err != nil {
		t.Fatalf("second DumpMemoryToDisk: %v", err)
	}
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	paths, err := GetBackupDBPaths(dir)
	if err != nil {
		t.Fatalf("GetBackupDBPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("expected 2 .db files, got %d: %v", len(paths), paths)
	}
}
