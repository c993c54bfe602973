// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/marisim/marisim/internal/model/core"
)

// runFile is the exported document layout. Approach rows carry TCPA as
// a nullable field: null marks the non-closing sentinel that is +Inf in
// memory and has no JSON representation.
type runFile struct {
	Run     core.Run         `json:"run"`
	Params  any              `json:"params,omitempty"`
	Summary *core.RunSummary `json:"summary,omitempty"`
	Steps   []stepEntry      `json:"steps"`
}

type stepEntry struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`

	Vessel core.VesselState `json:"vessel"`
	VelX   float64          `json:"velX"`
	VelY   float64          `json:"velY"`

	WaypointIndex  int     `json:"waypointIndex"`
	HeadingWpt     float64 `json:"headingWpt"`
	AvoidanceBias  float64 `json:"avoidanceBias"`
	RealizedSign   float64 `json:"realizedSign"`
	HeadingDesired float64 `json:"headingDesired"`
	MomentCmd      float64 `json:"momentCmd"`
	MomentApplied  float64 `json:"momentApplied"`

	Obstacles  []core.ObstacleState `json:"obstacles"`
	Encounters []approachEntry      `json:"encounters"`
	Instant    []approachEntry      `json:"encountersInst"`
	Risks      []float64            `json:"risks"`
}

type approachEntry struct {
	Distance  float64  `json:"distance"`
	Bearing   float64  `json:"bearing"`
	DCPA      float64  `json:"dcpa"`
	TCPA      *float64 `json:"tcpa"`
	RelSpeed  float64  `json:"relSpeed"`
	RelCourse float64  `json:"relCourse"`
	Closing   bool     `json:"closing"`
}

func approachEntries(in []core.Approach) []approachEntry {
	out := make([]approachEntry, len(in))
	for i, a := range in {
		out[i] = approachEntry{
			Distance:  a.Distance,
			Bearing:   a.Bearing,
			DCPA:      a.DCPA,
			RelSpeed:  a.RelSpeed,
			RelCourse: a.RelCourse,
			Closing:   a.Closing,
		}
		if !math.IsInf(a.TCPA, 0) {
			tcpa := a.TCPA
			out[i].TCPA = &tcpa
		}
	}
	return out
}

// exportJSON writes the run to <outputDir>/case<N>_<start>.json, gzip
// compressed when configured. Caller holds the lock.
func (b *Backend) exportJSON() (string, error) {
	doc := runFile{
		Run:     *b.run,
		Params:  b.params,
		Summary: b.summary,
		Steps:   make([]stepEntry, len(b.steps)),
	}
	for i := range b.steps {
		rec := &b.steps[i]
		doc.Steps[i] = stepEntry{
			Step:           rec.Step,
			Time:           rec.Time,
			Vessel:         rec.Vessel,
			VelX:           rec.VelX,
			VelY:           rec.VelY,
			WaypointIndex:  rec.WaypointIndex,
			HeadingWpt:     rec.HeadingWpt,
			AvoidanceBias:  rec.AvoidanceBias,
			RealizedSign:   rec.RealizedSign,
			HeadingDesired: rec.HeadingDesired,
			MomentCmd:      rec.MomentCmd,
			MomentApplied:  rec.MomentApplied,
			Obstacles:      rec.Obstacles,
			Encounters:     approachEntries(rec.Encounters),
			Instant:        approachEntries(rec.Instant),
			Risks:          rec.Risks,
		}
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	name := fmt.Sprintf("case%d_%s.json", b.run.Case, b.run.StartedAt.Format("20060102_150405"))
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		if err := json.NewEncoder(gz).Encode(doc); err != nil {
			gz.Close()
			return "", fmt.Errorf("failed to encode run: %w", err)
		}
		if err := gz.Close(); err != nil {
			return "", fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return "", fmt.Errorf("failed to encode run: %w", err)
		}
	}
	return path, nil
}
