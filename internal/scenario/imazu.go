// Package scenario holds the catalog of predefined encounter
// geometries (Imazu cases). The catalog is the immutable scenario
// source for a run: positions in meters, headings in radians, speeds
// in m/s.
package scenario

import (
	"fmt"
	"math"

	"github.com/marisim/marisim/internal/model/core"
)

// MetersPerNmi converts nautical miles to meters.
const MetersPerNmi = 1852.0

// DefaultTargetSpeed is the constant speed assigned to every catalog
// obstacle (36 kt).
const DefaultTargetSpeed = 18.52

// ErrUnknownCase is returned for a case id outside the catalog. This is
// fatal at setup time: no valid initial obstacle set exists.
var ErrUnknownCase = fmt.Errorf("unknown encounter case")

// entry is one catalog obstacle: initial position in nautical miles and
// heading in degrees, as published in the Imazu problem set.
type entry struct {
	xNmi, yNmi, headingDeg float64
}

// catalog is keyed by case number. Small position offsets against the
// published table are kept as-is; they tune the encounters so closest
// approach happens near the own-ship track.
var catalog = map[int][]entry{
	1:  {{6, 0, 180}},
	2:  {{5, -2.14, 90}},
	3:  {{3, 0, 0}},
	4:  {{3.44, 1.55 + 0.08, 295}},
	5:  {{5, -2.0 - 0.14, 90}, {7 - 0.05, 0, 180}},
	6:  {{3.4, -1.5 + 0.03, 45}, {3, -0.35 - 0.04, 10}},
	7:  {{3, 0, 0}, {3.4, -1.5 + 0.01, 45}},
	8:  {{5, -2.13, 90}, {7, 0, 180}},
	9:  {{3.4, -1.5 + 0.03, 45}, {5, -2.1 - 0.05, 90}},
	10: {{3, 0.35, 350}, {4.4, -2.1 + 0.20, 90}},
	11: {{5, 2.1, -90}, {3.4, -1.5, 45}},
	12: {{7, 0, 180}, {3, 0.3 + 0.05, -10}, {3.44, -1.55 + 0.05, 45}},
	13: {{6, 0, 180}, {3, 0.3 + 0.05, 350}, {3.4, 1.5 + 0.05, 295}},
	14: {{3.4, -1.5, 45}, {3, -0.4, 10}, {5, -2.1 - 0.05, 90}},
	15: {{3, 0, 0}, {3.4, -1.5, 45}, {5, -2.1 - 0.05, 90}},
	16: {{3.4, 1.5 - 0.03, -45}, {5, 2.1 + 0.04, -90}, {5, -2.1 - 0.05, 90}},
	17: {{3, 0, 0}, {3, 0.3 + 0.05, -10}, {3.4, -1.5, 45}},
	18: {{3.3, -0.3 - 0.1, 10}, {3.4, -1.5 + 0.05, 45}, {6.5, -1.5, 135}},
	19: {{3, -0.3 - 0.07, 10}, {3, 0.3 + 0.05, -10}, {6.5, -1.5 - 0.03, 135}},
	20: {{3, 0, 0}, {3, -0.3 - 0.05, 10}, {4.4, -2.1 + 0.25, 90}},
	21: {{3 - 0.3, -0.3 - 0.05, 10}, {3 - 0.3, 0.3 + 0.02, -10}, {4.4, -1.9, 90}},
	22: {{3, 0, 0}, {3.94, -1.6 - 0.13, 45}, {5, -2.01 - 0.15, 90}},
	23: {{4.243, 2.243, -75}},
}

// Cases returns the sorted list of valid case ids.
func Cases() []int {
	ids := make([]int, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	// insertion sort, the catalog is tiny
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// Obstacles resolves a case id into its initial obstacle snapshot.
// Unknown ids return ErrUnknownCase.
func Obstacles(caseID int) ([]core.Obstacle, error) {
	entries, ok := catalog[caseID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCase, caseID)
	}

	obstacles := make([]core.Obstacle, 0, len(entries))
	for _, e := range entries {
		obstacles = append(obstacles, core.Obstacle{
			X:       e.xNmi * MetersPerNmi,
			Y:       e.yNmi * MetersPerNmi,
			Speed:   DefaultTargetSpeed,
			Heading: e.headingDeg * math.Pi / 180,
		})
	}
	return obstacles, nil
}
