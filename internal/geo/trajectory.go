package geo

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/marisim/marisim/internal/model/core"
)

// ParseRoute parses a JSON array of coordinates into a waypoint route.
// Input format: "[[x1,y1],[x2,y2],...]", local plane meters.
func ParseRoute(input string) ([]core.Waypoint, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse route JSON: %w", err)
	}

	if len(coords) < 1 {
		return nil, fmt.Errorf("route must have at least 1 waypoint")
	}

	route := make([]core.Waypoint, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("waypoint %d has insufficient values", i)
		}
		route[i] = core.Waypoint{X: coord[0], Y: coord[1]}
	}

	return route, nil
}

// TrajectoryLineString builds the own-ship track over a run as a
// LineString in local plane coordinates.
func TrajectoryLineString(records []core.StepRecord) (geom.LineString, error) {
	if len(records) < 2 {
		return geom.LineString{}, fmt.Errorf("trajectory needs at least 2 steps, got %d", len(records))
	}

	flatCoords := make([]float64, 0, len(records)*2)
	for _, rec := range records {
		flatCoords = append(flatCoords, rec.Vessel.X, rec.Vessel.Y)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// TrajectoryGeoJSON renders the own-ship track as a GeoJSON LineString
// in geographic coordinates anchored at the origin.
func TrajectoryGeoJSON(origin Origin, records []core.StepRecord) ([]byte, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("trajectory needs at least 2 steps, got %d", len(records))
	}

	flatCoords := make([]float64, 0, len(records)*2)
	for _, rec := range records {
		lon, lat := origin.ToLonLat(rec.Vessel.X, rec.Vessel.Y)
		flatCoords = append(flatCoords, lon, lat)
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	ls := geom.NewLineString(seq)
	return json.Marshal(ls.AsGeometry())
}
