// Package convert maps the dependency-free core types onto the gorm
// row models. The +Inf TCPA sentinel of a non-closing pair is stored as
// zero with the Closing flag false; row consumers must treat TCPA as
// undefined whenever Closing is false.
package convert

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/marisim/marisim/internal/model"
	"github.com/marisim/marisim/internal/model/core"
)

// RunRow builds the run header row. params is the full parameter
// snapshot serialized into the JSON column; nil is stored as null.
func RunRow(run core.Run, params any) (model.Run, error) {
	row := model.Run{
		CaseID:        run.Case,
		Dt:            run.Dt,
		SimTime:       run.SimTime,
		Steps:         run.Steps,
		ObstacleCount: run.Obstacles,
		Provider:      run.Provider,
		StartedAt:     run.StartedAt,
	}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return model.Run{}, fmt.Errorf("failed to serialize run params: %w", err)
		}
		row.Params = raw
	}
	return row, nil
}

// ApplySummary writes the end-of-run aggregates onto an existing row.
func ApplySummary(row *model.Run, sum core.RunSummary) {
	row.MaxRisk = sum.MaxRisk
	row.AvgRisk = sum.AvgRisk
	row.TurnSteps = sum.TurnSteps
	row.FinalDistance = sum.FinalDistance
}

// StepRow builds the own-ship time-series row for one step.
func StepRow(runID uint, rec *core.StepRecord) model.StepState {
	return model.StepState{
		RunID: runID,
		Step:  rec.Step,
		Time:  rec.Time,

		X:    rec.Vessel.X,
		Y:    rec.Vessel.Y,
		Psi:  rec.Vessel.Psi,
		R:    rec.Vessel.R,
		B:    rec.Vessel.B,
		U:    rec.Vessel.U,
		VelX: rec.VelX,
		VelY: rec.VelY,

		WaypointIndex:  rec.WaypointIndex,
		HeadingWpt:     rec.HeadingWpt,
		AvoidanceBias:  rec.AvoidanceBias,
		RealizedSign:   rec.RealizedSign,
		HeadingDesired: rec.HeadingDesired,
		MomentCmd:      rec.MomentCmd,
		MomentApplied:  rec.MomentApplied,
	}
}

// EncounterRows builds the per-obstacle geometry rows for one step.
func EncounterRows(runID uint, rec *core.StepRecord) []model.EncounterState {
	rows := make([]model.EncounterState, len(rec.Obstacles))
	for j := range rec.Obstacles {
		ob := rec.Obstacles[j]
		fd := rec.Encounters[j]
		inst := rec.Instant[j]
		rows[j] = model.EncounterState{
			RunID:         runID,
			Step:          rec.Step,
			ObstacleIndex: j,

			ObX:  ob.X,
			ObY:  ob.Y,
			ObVX: ob.VX,
			ObVY: ob.VY,

			Distance:  fd.Distance,
			Bearing:   fd.Bearing,
			DCPA:      fd.DCPA,
			TCPA:      finiteTCPA(fd),
			RelSpeed:  fd.RelSpeed,
			RelCourse: fd.RelCourse,
			Closing:   fd.Closing,

			DCPAInst:     inst.DCPA,
			TCPAInst:     finiteTCPA(inst),
			RelSpeedInst: inst.RelSpeed,
			ClosingInst:  inst.Closing,

			Risk: rec.Risks[j],
		}
	}
	return rows
}

func finiteTCPA(a core.Approach) float64 {
	if math.IsInf(a.TCPA, 0) {
		return 0
	}
	return a.TCPA
}
