package influx

import (
	"context"
	"math"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/marisim/marisim/internal/model/core"
)

// StepPoint builds the vessel telemetry point for one step.
func StepPoint(run core.Run, rec *core.StepRecord) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"vessel_state",
		map[string]string{
			"case": strconv.Itoa(run.Case),
			"run":  strconv.FormatUint(uint64(run.ID), 10),
		},
		map[string]any{
			"x":               rec.Vessel.X,
			"y":               rec.Vessel.Y,
			"psi":             rec.Vessel.Psi,
			"r":               rec.Vessel.R,
			"b":               rec.Vessel.B,
			"u":               rec.Vessel.U,
			"heading_wpt":     rec.HeadingWpt,
			"heading_desired": rec.HeadingDesired,
			"avoidance_bias":  rec.AvoidanceBias,
			"realized_sign":   rec.RealizedSign,
			"moment_applied":  rec.MomentApplied,
		},
		stepTime(run, rec),
	)
}

// EncounterPoints builds one point per obstacle with the closing
// geometry and risk for the step. The +Inf TCPA sentinel is not
// representable in a field; those points carry closing=false and omit
// the tcpa field.
func EncounterPoints(run core.Run, rec *core.StepRecord) []*influxdb2_write.Point {
	points := make([]*influxdb2_write.Point, 0, len(rec.Encounters))
	for i, enc := range rec.Encounters {
		fields := map[string]any{
			"distance":  enc.Distance,
			"bearing":   enc.Bearing,
			"dcpa":      enc.DCPA,
			"rel_speed": enc.RelSpeed,
			"closing":   enc.Closing,
		}
		if !math.IsInf(enc.TCPA, 0) {
			fields["tcpa"] = enc.TCPA
		}
		if i < len(rec.Risks) {
			fields["risk"] = rec.Risks[i]
		}

		points = append(points, influxdb2.NewPoint(
			"encounter",
			map[string]string{
				"case":     strconv.Itoa(run.Case),
				"run":      strconv.FormatUint(uint64(run.ID), 10),
				"obstacle": strconv.Itoa(i),
			},
			fields,
			stepTime(run, rec),
		))
	}
	return points
}

// SummaryPoint builds the run roll-up point.
func SummaryPoint(sum core.RunSummary) *influxdb2_write.Point {
	return influxdb2.NewPoint(
		"run_summary",
		map[string]string{
			"case": strconv.Itoa(sum.Run.Case),
			"run":  strconv.FormatUint(uint64(sum.Run.ID), 10),
		},
		map[string]any{
			"max_risk":       sum.MaxRisk,
			"avg_risk":       sum.AvgRisk,
			"turn_steps":     sum.TurnSteps,
			"final_distance": sum.FinalDistance,
			"steps":          sum.Run.Steps,
		},
		sum.Run.StartedAt.Add(time.Duration(sum.Run.SimTime*float64(time.Second))),
	)
}

func stepTime(run core.Run, rec *core.StepRecord) time.Time {
	return run.StartedAt.Add(time.Duration(rec.Time * float64(time.Second)))
}

// Observer streams each step's telemetry and encounter geometry to
// InfluxDB as the run progresses. It satisfies the simulation observer
// contract.
type Observer struct {
	manager *Manager
	run     core.Run
}

// NewObserver creates an observer backed by a connected Manager.
func NewObserver(manager *Manager) *Observer {
	return &Observer{manager: manager}
}

// OnStart records the run identity for tagging.
func (o *Observer) OnStart(run core.Run) {
	o.run = run
}

// OnStep writes the step's telemetry and encounter points.
func (o *Observer) OnStep(rec *core.StepRecord) {
	ctx := context.Background()
	if err := o.manager.WritePoint(ctx, BucketTelemetry, StepPoint(o.run, rec)); err != nil {
		o.manager.Logger.Error().Err(err).Int("step", rec.Step).Msg("Error writing telemetry point")
	}
	for _, p := range EncounterPoints(o.run, rec) {
		if err := o.manager.WritePoint(ctx, BucketEncounters, p); err != nil {
			o.manager.Logger.Error().Err(err).Int("step", rec.Step).Msg("Error writing encounter point")
		}
	}
}

// OnFinish writes the summary point and flushes pending writes.
func (o *Observer) OnFinish(sum core.RunSummary) {
	if err := o.manager.WritePoint(context.Background(), BucketTelemetry, SummaryPoint(sum)); err != nil {
		o.manager.Logger.Error().Err(err).Msg("Error writing summary point")
	}
	o.manager.Flush()
}
