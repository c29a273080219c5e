package broaden

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrFWHM indicates a non-positive resolution width.
	ErrFWHM = errors.New("broaden: fwhm must be > 0")
	// ErrStep indicates a non-positive channel width.
	ErrStep = errors.New("broaden: step must be > 0")
	// ErrEmptyRow indicates an empty input row.
	ErrEmptyRow = errors.New("broaden: empty row")
	// ErrKernel indicates a kernel that is empty or has even length.
	ErrKernel = errors.New("broaden: kernel must have odd, non-zero length")
)

// fwhmToSigma converts full width at half maximum to the Gaussian sigma.
// The reference algorithm uses 2.35 throughout; keep the same factor so the
// broadening and the builder's tail bound agree.
const fwhmToSigma = 2.35

// directThreshold is the kernel length above which Apply switches from the
// direct sweep to the FFT path.
const directThreshold = 32

// Kernel returns a normalized, odd-length Gaussian sampled on an axis with
// the given channel width, truncated at +/-3 sigma. fwhm and step are in the
// same energy unit (keV).
func Kernel(fwhm, step float64) ([]float64, error) {
	if fwhm <= 0 {
		return nil, ErrFWHM
	}
	if step <= 0 {
		return nil, ErrStep
	}

	sigma := fwhm / fwhmToSigma / step // in channels
	half := int(math.Ceil(3 * sigma))
	if half < 1 {
		half = 1
	}

	raw := make([]float64, 2*half+1)
	var sum float64
	for i := range raw {
		d := float64(i - half)
		raw[i] = math.Exp(-0.5 * d * d / (sigma * sigma))
		sum += raw[i]
	}

	out := make([]float64, len(raw))
	vecmath.ScaleBlock(out, raw, 1/sum)
	return out, nil
}

// Direct convolves row with a centered kernel, returning a row of the same
// length. Mass pushed past either end of the row is lost, so the sum is
// conserved only away from the edges.
func Direct(row, kernel []float64) ([]float64, error) {
	if len(row) == 0 {
		return nil, ErrEmptyRow
	}
	if len(kernel) == 0 || len(kernel)%2 == 0 {
		return nil, ErrKernel
	}

	out := make([]float64, len(row))
	temp := make([]float64, len(kernel))
	half := len(kernel) / 2

	for i, v := range row {
		if v == 0 {
			continue
		}
		// Scale the kernel by the channel value, then accumulate the
		// clipped window.
		vecmath.ScaleBlock(temp, kernel, v)

		lo := i - half
		kLo := 0
		if lo < 0 {
			kLo = -lo
			lo = 0
		}
		hi := i + half + 1
		if hi > len(row) {
			hi = len(row)
		}
		kHi := kLo + (hi - lo)
		vecmath.AddBlockInPlace(out[lo:hi], temp[kLo:kHi])
	}
	return out, nil
}

// Apply broadens row with kernel, choosing the direct sweep for short
// kernels and the FFT path otherwise.
func Apply(row, kernel []float64) ([]float64, error) {
	if len(kernel) < directThreshold {
		return Direct(row, kernel)
	}
	return FFT(row, kernel)
}
