// Package response builds the detector response matrix.
//
// For every channel of a desired output axis, the builder selects the two
// calibration spectra bracketing that channel's energy, rebins and
// normalizes them, and interpolates channel by channel across three
// physically distinct regions: plain linear interpolation below the
// backscatter energy, the Guttormsen fan method (interpolation along lines
// of constant scattering angle) between backscatter and the Compton edge,
// and linear interpolation again from the edge out to a resolution-derived
// bound. The discrete full-energy, escape and annihilation components are
// interpolated with the same energy weight and placed at their channels.
//
// Each produced row is a probability distribution over detection outcomes
// for one incident energy; by default rows are renormalized to unit sum
// after assembly. Rows below the configured minimum energy are zero by
// policy. The reported per-energy peak fractions refer to the assembled
// row before this final renormalization.
//
// Row computations are independent, so Build spreads them over a worker
// pool with each goroutine writing a disjoint stripe of the matrix.
package response
