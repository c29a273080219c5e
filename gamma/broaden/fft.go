package broaden

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFT convolves row with a centered kernel in the frequency domain,
// returning a row of the same length. Result matches Direct up to floating
// noise; preferable for long kernels.
func FFT(row, kernel []float64) ([]float64, error) {
	if len(row) == 0 {
		return nil, ErrEmptyRow
	}
	if len(kernel) == 0 || len(kernel)%2 == 0 {
		return nil, ErrKernel
	}

	fullLen := len(row) + len(kernel) - 1
	fftSize := nextPowerOf2(fullLen)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("broaden: failed to create FFT plan: %w", err)
	}

	rowPadded := make([]complex128, fftSize)
	for i, v := range row {
		rowPadded[i] = complex(v, 0)
	}
	kernelPadded := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelPadded[i] = complex(v, 0)
	}

	if err := plan.Forward(rowPadded, rowPadded); err != nil {
		return nil, fmt.Errorf("broaden: forward FFT failed: %w", err)
	}
	if err := plan.Forward(kernelPadded, kernelPadded); err != nil {
		return nil, fmt.Errorf("broaden: forward FFT failed: %w", err)
	}

	for i := range rowPadded {
		rowPadded[i] *= kernelPadded[i]
	}

	if err := plan.Inverse(rowPadded, rowPadded); err != nil {
		return nil, fmt.Errorf("broaden: inverse FFT failed: %w", err)
	}

	// The full linear convolution is fullLen samples; the centered
	// same-length window starts half a kernel in.
	half := len(kernel) / 2
	out := make([]float64, len(row))
	for i := range out {
		out[i] = real(rowPadded[i+half])
	}
	return out, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}
