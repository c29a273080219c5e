package kinematics

import (
	"errors"
	"math"
)

// ElectronRestMass is the electron rest mass in keV.
const ElectronRestMass = 511.0

// degenerateFloor is the gamma energy below which the Compton formula is
// numerically unstable; ElectronEnergy returns the input unchanged there.
const degenerateFloor = 0.1

// minEnergySeparation guards the inverse relation against a vanishing
// denominator when the recoil energy approaches the incident energy.
const minEnergySeparation = 0.001

// ErrDegenerate indicates that no valid scattering angle in (0, pi) relates
// the given pair of energies.
var ErrDegenerate = errors.New("kinematics: no valid scattering angle")

// ElectronEnergy returns the recoil energy of an electron scattered at angle
// theta (radians) by a gamma ray of energy eg (keV).
//
// For eg at or below 0.1 keV the formula degenerates and eg is returned
// unchanged. At theta=0 no energy is transferred; theta=pi gives the maximum
// transfer.
func ElectronEnergy(eg, theta float64) float64 {
	if eg <= degenerateFloor {
		return eg
	}
	u := 1 - math.Cos(theta)
	return eg * eg / ElectronRestMass * u / (1 + eg/ElectronRestMass*u)
}

// Edge returns the Compton edge for incident energy e: the maximum electron
// recoil energy, reached at back-scatter (theta=pi).
func Edge(e float64) float64 {
	return ElectronEnergy(e, math.Pi)
}

// Backscatter returns the energy of a photon scattered through pi, which is
// the incident energy minus the Compton edge.
func Backscatter(e float64) float64 {
	return e - Edge(e)
}

// ScatterAngle inverts the Compton relation: it returns the angle theta in
// (0, pi) at which a gamma ray of energy eg transfers ee to the electron.
//
// ErrDegenerate is returned when eg is at or below the stability floor, when
// ee is too close to eg for the denominator to be trusted, or when the
// implied angle falls outside (0, pi).
func ScatterAngle(eg, ee float64) (float64, error) {
	if eg <= degenerateFloor {
		return 0, ErrDegenerate
	}
	if math.Abs(eg-ee) <= minEnergySeparation {
		return 0, ErrDegenerate
	}
	// From ee = eg*k*u/(1+k*u) with k = eg/511 and u = 1-cos(theta):
	// u = 511*ee / (eg*(eg-ee)).
	u := ElectronRestMass * ee / (eg * (eg - ee))
	cos := 1 - u
	if cos <= -1 || cos >= 1 {
		return 0, ErrDegenerate
	}
	theta := math.Acos(cos)
	if theta <= 0 || theta >= math.Pi {
		return 0, ErrDegenerate
	}
	return theta, nil
}
