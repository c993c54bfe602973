package influx

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"

	"github.com/marisim/marisim/internal/model/core"
)

func sampleRun() core.Run {
	return core.Run{
		ID:        7,
		Case:      3,
		Dt:        0.1,
		SimTime:   450,
		Steps:     4500,
		Obstacles: 1,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func sampleRecord() *core.StepRecord {
	return &core.StepRecord{
		Step: 42,
		Time: 4.2,
		Vessel: core.VesselState{
			X: 100, Y: -5, Psi: 0.1, R: 0.01, B: 0.2, U: 9.5,
		},
		HeadingWpt:     0.05,
		HeadingDesired: 0.12,
		AvoidanceBias:  0.07,
		RealizedSign:   1,
		MomentApplied:  3.4,
		Obstacles:      []core.ObstacleState{{X: 2000, Y: 0, VX: -18.52, VY: 0}},
		Encounters: []core.Approach{{
			Distance: 1900, Bearing: -0.1, DCPA: 40, TCPA: 95,
			RelSpeed: 28, Closing: true,
		}},
		Risks: []float64{0.61},
	}
}

func lineProtocol(t *testing.T, p *influxdb2_write.Point) string {
	t.Helper()
	return influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
}

func TestStepPoint(t *testing.T) {
	line := lineProtocol(t, StepPoint(sampleRun(), sampleRecord()))

	for _, want := range []string{"vessel_state", "case=3", "run=7", "u=9.5", "heading_desired=0.12"} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol missing %q: %s", want, line)
		}
	}
}

func TestStepPoint_Timestamp(t *testing.T) {
	run := sampleRun()
	p := StepPoint(run, sampleRecord())

	want := run.StartedAt.Add(4200 * time.Millisecond)
	if !p.Time().Equal(want) {
		t.Errorf("point time = %v, want %v", p.Time(), want)
	}
}

func TestEncounterPoints(t *testing.T) {
	points := EncounterPoints(sampleRun(), sampleRecord())
	if len(points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(points))
	}

	line := lineProtocol(t, points[0])
	for _, want := range []string{"encounter", "obstacle=0", "dcpa=40", "tcpa=95", "risk=0.61", "closing=true"} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol missing %q: %s", want, line)
		}
	}
}

func TestEncounterPoints_InfTCPAOmitted(t *testing.T) {
	rec := sampleRecord()
	rec.Encounters[0] = core.NoApproach(1900, -0.1)
	if !math.IsInf(rec.Encounters[0].TCPA, 1) {
		t.Fatal("sentinel should carry +Inf TCPA")
	}

	points := EncounterPoints(sampleRun(), rec)
	line := lineProtocol(t, points[0])

	if strings.Contains(line, "tcpa=") {
		t.Errorf("sentinel TCPA should be omitted from fields: %s", line)
	}
	if !strings.Contains(line, "closing=false") {
		t.Errorf("sentinel should carry closing=false: %s", line)
	}
}

func TestSummaryPoint(t *testing.T) {
	sum := core.RunSummary{
		Run:           sampleRun(),
		MaxRisk:       0.8,
		AvgRisk:       0.3,
		TurnSteps:     120,
		FinalDistance: 43000,
	}
	line := lineProtocol(t, SummaryPoint(sum))

	for _, want := range []string{"run_summary", "max_risk=0.8", "turn_steps=120i", "final_distance=43000"} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol missing %q: %s", want, line)
		}
	}
}

func TestWritePoint_BackupWriter(t *testing.T) {
	var buf bytes.Buffer
	m := &Manager{
		Logger:       zerolog.Nop(),
		BackupWriter: gzip.NewWriter(&buf),
	}

	err := m.WritePoint(context.Background(), BucketTelemetry, StepPoint(sampleRun(), sampleRecord()))
	if err != nil {
		t.Fatalf("WritePoint: %v", err)
	}
	if err := m.BackupWriter.Close(); err != nil {
		t.Fatalf("closing backup writer: %v", err)
	}

	zr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}

	if !strings.Contains(string(data), "vessel_state") {
		t.Errorf("backup file missing line protocol: %s", data)
	}
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	m := &Manager{Logger: zerolog.Nop()}
	err := m.WritePoint(context.Background(), BucketTelemetry, StepPoint(sampleRun(), sampleRecord()))
	if err == nil {
		t.Fatal("expected error with no client and no backup writer")
	}
}

func TestObserver_BackupPath(t *testing.T) {
	var buf bytes.Buffer
	m := &Manager{
		Logger:       zerolog.Nop(),
		BackupWriter: gzip.NewWriter(&buf),
	}

	obs := NewObserver(m)
	obs.OnStart(sampleRun())
	obs.OnStep(sampleRecord())
	obs.OnFinish(core.RunSummary{Run: sampleRun(), MaxRisk: 0.5})

	if err := m.BackupWriter.Close(); err != nil {
		t.Fatalf("closing backup writer: %v", err)
	}

	zr, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("reading backup: %v", err)
	}

	out := string(data)
	for _, want := range []string{"vessel_state", "encounter", "run_summary"} {
		if !strings.Contains(out, want) {
			t.Errorf("backup missing %q measurement", want)
		}
	}
}
