// Package grid describes linear, equally spaced energy axes.
//
// An [Axis] is defined by the energy of its first bin center, a constant bin
// width and a channel count. It derives bin centers, bin edges and the
// energy-to-channel mapping used throughout the library. Non-linear
// calibrations are out of scope; every axis in this module has constant bin
// width.
package grid
