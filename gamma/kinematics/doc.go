// Package kinematics computes Compton scattering kinematics in keV.
//
// The forward relation gives the electron recoil energy for a gamma ray
// scattered at a given angle; its maximum over angles defines the Compton
// edge and, by difference, the backscatter energy. The inverse relation
// recovers the scattering angle from an (incident, recoil) energy pair and
// is the basis of the fan interpolation between calibration spectra.
package kinematics
