package response

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/oslospectro/respmat/gamma/calibration"
	"github.com/oslospectro/respmat/gamma/rebin"
	"github.com/oslospectro/respmat/internal/numeric"
)

// lerp returns a + w*(b-a).
func lerp(a, b, w float64) float64 {
	return a + w*(b-a)
}

// lerpSegment writes (1-w)*a + w*b into dst. tmp is caller-provided scratch
// of the same length; all four slices must match.
func lerpSegment(dst, tmp, a, b []float64, w float64) {
	if len(dst) == 0 {
		return
	}
	vecmath.ScaleBlock(dst, a, 1-w)
	vecmath.ScaleBlock(tmp, b, w)
	vecmath.AddBlockInPlace(dst, tmp)
}

// normSpectrum is one calibration entry rebinned onto the output axis and
// normalized so that continuum plus peak components sum to 1.
type normSpectrum struct {
	cont  []float64
	peaks calibration.Peaks
	eff   float64
}

// normalizeEntry rebins an entry's continuum onto the output axis and
// divides the continuum and every peak component by the combined total.
func (b *Builder) normalizeEntry(e calibration.Entry) (normSpectrum, error) {
	cont, err := rebin.Rebin(e.Counts, b.set.Axis, b.out)
	if err != nil {
		return normSpectrum{}, fmt.Errorf("response: rebin of %v keV spectrum: %w", e.Energy, err)
	}

	total := numeric.KahanSum(cont) +
		e.Peaks.FullEnergy + e.Peaks.SingleEscape + e.Peaks.DoubleEscape + e.Peaks.Annihilation
	if total <= 0 {
		return normSpectrum{}, fmt.Errorf("%w: %v keV", ErrZeroTotal, e.Energy)
	}

	inv := 1 / total
	norm := make([]float64, len(cont))
	vecmath.ScaleBlock(norm, cont, inv)

	return normSpectrum{
		cont: norm,
		peaks: calibration.Peaks{
			FullEnergy:   e.Peaks.FullEnergy * inv,
			SingleEscape: e.Peaks.SingleEscape * inv,
			DoubleEscape: e.Peaks.DoubleEscape * inv,
			Annihilation: e.Peaks.Annihilation * inv,
		},
		eff: e.TotalEfficiency,
	}, nil
}
