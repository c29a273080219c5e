package rebin

import (
	"errors"
	"fmt"

	"github.com/oslospectro/respmat/gamma/grid"
)

// ErrLength indicates a counts slice whose length does not match its axis.
var ErrLength = errors.New("rebin: counts length does not match axis")

// Rebin redistributes the histogram in into a new histogram on the to axis.
// Returns a new slice of length to.Count.
//
// The total count is conserved whenever the energy range covered by to is a
// subset of the range covered by from. Counts falling outside the output
// range are lost; this is documented behavior, not an error. Upsampling
// (finer output bins) splits input counts proportionally to bin overlap,
// downsampling aggregates them.
func Rebin(in []float64, from, to grid.Axis) ([]float64, error) {
	if len(in) != from.Count {
		return nil, fmt.Errorf("%w: got %d, axis has %d", ErrLength, len(in), from.Count)
	}

	out := make([]float64, to.Count)
	if err := RebinTo(out, in, from, to); err != nil {
		return nil, err
	}
	return out, nil
}

// RebinTo redistributes in into a pre-allocated destination of length
// to.Count. dst is overwritten.
//
// Each output channel accumulates, from every overlapping input channel, the
// input count scaled by the overlap fraction of the input bin. This is an
// O(Nin*Nout) sweep; the matrix build runs it once per calibration energy,
// not per event, so the quadratic cost is acceptable.
func RebinTo(dst, in []float64, from, to grid.Axis) error {
	if len(in) != from.Count {
		return fmt.Errorf("%w: got %d, axis has %d", ErrLength, len(in), from.Count)
	}
	if len(dst) != to.Count {
		return fmt.Errorf("%w: dst has %d, axis has %d", ErrLength, len(dst), to.Count)
	}

	edgesIn := from.Edges()
	edgesOut := to.Edges()

	// Each output channel is independent: no accumulator state crosses i.
	for i := range dst {
		lo, hi := edgesOut[i], edgesOut[i+1]
		var sum float64
		for j := range in {
			overlap := min(hi, edgesIn[j+1]) - max(lo, edgesIn[j])
			if overlap > 0 {
				sum += in[j] * overlap / from.Step
			}
		}
		dst[i] = sum
	}
	return nil
}
