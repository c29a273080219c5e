// Package rebin redistributes histogram counts between linear energy axes.
//
// The redistribution is proportional to bin overlap, so the total count is
// conserved as long as the output axis covers the input range. It is the
// recalibration step that brings every measured Compton spectrum onto the
// response matrix's output axis before interpolation.
package rebin
