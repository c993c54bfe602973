package gormstorage

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marisim/marisim/internal/model"
	"github.com/marisim/marisim/internal/model/core"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	b := New(db, nil)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testRun() core.Run {
	return core.Run{
		Case: 5, Dt: 0.1, SimTime: 10, Steps: 100, Obstacles: 2,
		Provider: "static", StartedAt: time.Now(),
	}
}

func testStep(i int) core.StepRecord {
	return core.StepRecord{
		Step:   i,
		Time:   float64(i) * 0.1,
		Vessel: core.VesselState{X: float64(i) * 2, U: 20},
		Obstacles: []core.ObstacleState{
			{X: 5000, VX: -18},
			{X: 0, Y: 3000, VY: -10},
		},
		Encounters: []core.Approach{
			{Distance: 5000, DCPA: 10, TCPA: 120, Closing: true},
			{Distance: 3000, DCPA: 400, TCPA: 290, Closing: true},
		},
		Instant: []core.Approach{
			{Distance: 5000, DCPA: 12, TCPA: 118, Closing: true},
			{Distance: 3000, DCPA: 410, TCPA: 288, Closing: true},
		},
		Risks: []float64{0.5, 0.2},
	}
}

func TestBackend_StartRunAssignsID(t *testing.T) {
	b := newTestBackend(t)
	run := testRun()
	if err := b.StartRun(&run, map[string]int{"satAmp": 20}); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.ID == 0 {
		t.Error("expected a database-assigned run ID")
	}

	var row model.Run
	if err := b.db.First(&row, run.ID).Error; err != nil {
		t.Fatalf("run row not found: %v", err)
	}
	if row.CaseID != 5 || row.ObstacleCount != 2 || row.Provider != "static" {
		t.Errorf("row = %+v", row)
	}
	if len(row.Params) == 0 {
		t.Error("expected params snapshot")
	}
}

func TestBackend_RecordAndFlush(t *testing.T) {
	b := newTestBackend(t)
	run := testRun()
	if err := b.StartRun(&run, nil); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	// cross the flush threshold to exercise the batch path
	n := flushEvery + 10
	for i := 0; i < n; i++ {
		rec := testStep(i)
		if err := b.RecordStep(&rec); err != nil {
			t.Fatalf("RecordStep %d failed: %v", i, err)
		}
	}
	if err := b.EndRun(core.RunSummary{Run: run, MaxRisk: 0.5, AvgRisk: 0.3, TurnSteps: 7, FinalDistance: 9000}); err != nil {
		t.Fatalf("EndRun failed: %v", err)
	}

	var stepCount, encCount int64
	b.db.Model(&model.StepState{}).Where("run_id = ?", run.ID).Count(&stepCount)
	b.db.Model(&model.EncounterState{}).Where("run_id = ?", run.ID).Count(&encCount)
	if stepCount != int64(n) {
		t.Errorf("step rows = %d, want %d", stepCount, n)
	}
	if encCount != int64(2*n) {
		t.Errorf("encounter rows = %d, want %d", encCount, 2*n)
	}

	var row model.Run
	if err := b.db.First(&row, run.ID).Error; err != nil {
		t.Fatalf("run row not found: %v", err)
	}
	if row.MaxRisk != 0.5 || row.TurnSteps != 7 || row.FinalDistance != 9000 {
		t.Errorf("summary fields = %+v", row)
	}
}

func TestBackend_RecordWithoutRun(t *testing.T) {
	b := newTestBackend(t)
	rec := testStep(0)
	if err := b.RecordStep(&rec); err == nil {
		t.Error("expected error recording without a run")
	}
	if err := b.EndRun(core.RunSummary{}); err == nil {
		t.Error("expected error ending without a run")
	}
}

func TestBackend_SentinelTCPAStored(t *testing.T) {
	b := newTestBackend(t)
	run := testRun()
	if err := b.StartRun(&run, nil); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	rec := testStep(0)
	rec.Encounters[0] = core.NoApproach(5000, 0.1)
	if err := b.RecordStep(&rec); err != nil {
		t.Fatalf("RecordStep failed: %v", err)
	}
	if err := b.EndRun(core.RunSummary{Run: run}); err != nil {
		t.Fatalf("EndRun failed: %v", err)
	}

	var row model.EncounterState
	if err := b.db.Where("run_id = ? AND obstacle_index = 0", run.ID).First(&row).Error; err != nil {
		t.Fatalf("row not found: %v", err)
	}
	if row.Closing || row.TCPA != 0 {
		t.Errorf("sentinel row = %+v, want closing=false tcpa=0", row)
	}
}
