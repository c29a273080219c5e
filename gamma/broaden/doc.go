// Package broaden smears response rows with the detector resolution.
//
// The kernel is a unit-sum Gaussian whose width follows from the detector
// FWHM and the output axis bin width. Two convolution strategies produce the
// same centered, same-length result: a direct sweep for short kernels and an
// FFT path for long ones; Apply picks between them.
package broaden
