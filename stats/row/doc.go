// Package row computes diagnostics over one response-matrix row.
//
// The statistics are meant for inspecting builder output: total mass (unit
// for a normalized row), the dominant channel, and the mass-weighted energy
// centroid and spread of the distribution.
package row
