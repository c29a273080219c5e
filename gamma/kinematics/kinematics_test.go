package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/oslospectro/respmat/internal/numeric"
)

func TestZeroAngleTransfersNothing(t *testing.T) {
	for _, eg := range []float64{0.2, 1, 122, 662, 1332, 15000} {
		if got := ElectronEnergy(eg, 0); got != 0 {
			t.Fatalf("ElectronEnergy(%v, 0) = %v, want 0", eg, got)
		}
	}
}

func TestDegenerateFloorReturnsInput(t *testing.T) {
	for _, eg := range []float64{0, 0.05, 0.1} {
		for _, theta := range []float64{0, 1, math.Pi} {
			if got := ElectronEnergy(eg, theta); got != eg {
				t.Fatalf("ElectronEnergy(%v, %v) = %v, want %v", eg, theta, got, eg)
			}
		}
	}
}

func TestMonotonicInAngle(t *testing.T) {
	for _, eg := range []float64{0.2, 50, 662, 1332} {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			theta := math.Pi * float64(i) / 100
			ee := ElectronEnergy(eg, theta)
			if ee < prev {
				t.Fatalf("Eg=%v: recoil decreased at theta=%v", eg, theta)
			}
			prev = ee
		}
	}
}

func TestEdgeAndBackscatter(t *testing.T) {
	// Known value: the Compton edge of 661.7 keV (Cs-137) is ~477.3 keV.
	edge := Edge(661.7)
	if !numeric.NearlyEqual(edge, 477.3, 1e-3) {
		t.Fatalf("Edge(661.7) = %v, want ~477.3", edge)
	}
	bsc := Backscatter(661.7)
	if !numeric.NearlyEqual(bsc, 661.7-edge, 1e-12) {
		t.Fatalf("Backscatter(661.7) = %v, want %v", bsc, 661.7-edge)
	}
	// The edge is the maximum transfer, so it must stay below the incident
	// energy and above the half-way point for hard gammas.
	for _, e := range []float64{200, 662, 1332, 5000} {
		if got := Edge(e); got <= 0 || got >= e {
			t.Fatalf("Edge(%v) = %v out of (0, %v)", e, got, e)
		}
	}
}

func TestScatterAngleRoundTrip(t *testing.T) {
	for _, eg := range []float64{150, 662, 1332} {
		for _, theta := range []float64{0.3, 1.0, 2.0, 3.0} {
			ee := ElectronEnergy(eg, theta)
			got, err := ScatterAngle(eg, ee)
			if err != nil {
				t.Fatalf("Eg=%v theta=%v: %v", eg, theta, err)
			}
			if !numeric.NearlyEqual(got, theta, 1e-9) {
				t.Fatalf("Eg=%v: round-trip angle %v, want %v", eg, got, theta)
			}
		}
	}
}

func TestScatterAngleDegenerate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		eg, ee float64
	}{
		{"gamma below floor", 0.05, 0.01},
		{"recoil equals incident", 662, 662},
		{"recoil too close", 662, 661.9995},
		{"recoil above edge", 662, 600},
		{"zero recoil", 662, 0},
	} {
		if _, err := ScatterAngle(tc.eg, tc.ee); !errors.Is(err, ErrDegenerate) {
			t.Fatalf("%s: got %v, want ErrDegenerate", tc.name, err)
		}
	}
}
