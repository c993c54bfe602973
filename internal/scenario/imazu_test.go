package scenario

import (
	"errors"
	"math"
	"testing"
)

func TestObstacles_KnownCase(t *testing.T) {
	obs, err := Obstacles(3)
	if err != nil {
		t.Fatalf("Obstacles(3) failed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 obstacle, got %d", len(obs))
	}
	if obs[0].X != 3*MetersPerNmi {
		t.Errorf("expected X=%f, got %f", 3*MetersPerNmi, obs[0].X)
	}
	if obs[0].Y != 0 {
		t.Errorf("expected Y=0, got %f", obs[0].Y)
	}
	if obs[0].Speed != DefaultTargetSpeed {
		t.Errorf("expected speed %f, got %f", DefaultTargetSpeed, obs[0].Speed)
	}
	if obs[0].Heading != 0 {
		t.Errorf("expected heading 0, got %f", obs[0].Heading)
	}
}

func TestObstacles_UnknownCase(t *testing.T) {
	for _, id := range []int{0, -1, 24, 99} {
		_, err := Obstacles(id)
		if !errors.Is(err, ErrUnknownCase) {
			t.Errorf("case %d: expected ErrUnknownCase, got %v", id, err)
		}
	}
}

func TestObstacles_HeadingRadians(t *testing.T) {
	obs, err := Obstacles(1)
	if err != nil {
		t.Fatalf("Obstacles(1) failed: %v", err)
	}
	if math.Abs(obs[0].Heading-math.Pi) > 1e-12 {
		t.Errorf("expected heading pi for 180 deg, got %f", obs[0].Heading)
	}
}

func TestObstacles_NegativeHeading(t *testing.T) {
	obs, err := Obstacles(23)
	if err != nil {
		t.Fatalf("Obstacles(23) failed: %v", err)
	}
	want := -75 * math.Pi / 180
	if math.Abs(obs[0].Heading-want) > 1e-12 {
		t.Errorf("expected heading %f, got %f", want, obs[0].Heading)
	}
}

func TestCases_SortedAndComplete(t *testing.T) {
	ids := Cases()
	if len(ids) != 23 {
		t.Fatalf("expected 23 cases, got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("case ids not strictly increasing at index %d: %v", i, ids)
		}
	}
	if ids[0] != 1 || ids[len(ids)-1] != 23 {
		t.Errorf("expected cases 1..23, got %v", ids)
	}
}

func TestObstacles_CountsPerCase(t *testing.T) {
	wantCounts := map[int]int{1: 1, 5: 2, 12: 3, 22: 3, 23: 1}
	for id, want := range wantCounts {
		obs, err := Obstacles(id)
		if err != nil {
			t.Fatalf("Obstacles(%d) failed: %v", id, err)
		}
		if len(obs) != want {
			t.Errorf("case %d: expected %d obstacles, got %d", id, want, len(obs))
		}
	}
}
