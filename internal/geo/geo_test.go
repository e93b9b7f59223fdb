package geo

import (
	"math"
	"testing"
)

func TestDistanceZero(t *testing.T) {
	if d := Distance(10.0, 106.0, 10.0, 106.0); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{10.0, 106.0, 10.001, 106.002},
		{-33.8688, 151.2093, 48.8566, 2.3522},
		{0, 0, 0, 180},
		{89.9, 10, -89.9, -170},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("Distance(%v) not symmetric: %f vs %f", p, ab, ba)
		}
	}
}

func TestDistanceKnownValue(t *testing.T) {
	// One degree of latitude along a meridian is roughly 111.19 km.
	d := Distance(10.0, 106.0, 11.0, 106.0)
	want := 111194.9
	if math.Abs(d-want) > 100 {
		t.Errorf("one degree latitude = %f m, want about %f m", d, want)
	}
}

func TestWithinGeofenceBoundaryIsStrict(t *testing.T) {
	centerLat, centerLon := 10.0, 106.0
	lat, lon := 10.0004, 106.0003
	d := Distance(lat, lon, centerLat, centerLon)

	if WithinGeofence(lat, lon, centerLat, centerLon, d) {
		t.Errorf("point at exactly radius %f accepted, want rejected", d)
	}
	if !WithinGeofence(lat, lon, centerLat, centerLon, d+0.001) {
		t.Errorf("point just inside radius rejected")
	}
	if WithinGeofence(lat, lon, centerLat, centerLon, d-0.001) {
		t.Errorf("point just outside radius accepted")
	}
}
