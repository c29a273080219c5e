// Package calibration parses measured Compton calibration data.
//
// A response folder holds an index file (resp.dat) listing, per reference
// gamma energy, the detector resolution, total efficiency and discrete peak
// areas, plus one MAMA-format spectrum file per energy holding the measured
// Compton continuum. Load assembles these into an immutable [Set] on a
// single shared energy axis, the input to the response builder.
//
// The readers validate header tokens and column counts instead of trusting
// fixed line offsets; any layout mismatch fails the whole load, since a
// misread calibration would silently corrupt every downstream row.
package calibration
