package response

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/oslospectro/respmat/gamma/broaden"
	"github.com/oslospectro/respmat/gamma/calibration"
	"github.com/oslospectro/respmat/gamma/grid"
	"github.com/oslospectro/respmat/gamma/kinematics"
	"github.com/oslospectro/respmat/internal/numeric"
)

var (
	// ErrNoCalibration indicates an empty calibration set; no row can be
	// bracketed.
	ErrNoCalibration = errors.New("response: no calibration entries")
	// ErrZeroTotal indicates a calibration spectrum whose continuum and
	// peak components sum to zero.
	ErrZeroTotal = errors.New("response: calibration spectrum has zero total")
	// ErrChannel indicates a row index outside the output axis.
	ErrChannel = errors.New("response: channel out of range")
)

// fwhmToSigma converts full width at half maximum to the Gaussian sigma;
// the reference algorithm uses 2.35.
const fwhmToSigma = 2.35

// degenerateFloor matches the kinematics stability threshold: fan channels
// at or below this energy are left at zero.
const degenerateFloor = 0.1

// Matrix is the assembled detector response. Rows[j] is the probability
// distribution over output channels for an incident gamma ray at the energy
// of channel j; rows below the minimum energy are all zeros. The scalar
// slices are the per-energy interpolated total efficiency and normalized
// peak fractions handed to downstream consumers.
type Matrix struct {
	Axis grid.Axis
	Rows [][]float64

	Efficiency   []float64
	FullEnergy   []float64
	SingleEscape []float64
	DoubleEscape []float64
	Annihilation []float64
}

// Builder interpolates a calibration set onto an output axis, one response
// row per output channel. A builder is safe for concurrent use once
// constructed; rows never share mutable state.
type Builder struct {
	set    *calibration.Set
	out    grid.Axis
	cfg    config
	norm   []normSpectrum
	kernel []float64
}

// NewBuilder validates the inputs, rebins and normalizes every calibration
// spectrum onto the output axis once, and returns a builder ready to
// produce rows.
func NewBuilder(set *calibration.Set, out grid.Axis, opts ...Option) (*Builder, error) {
	if set == nil || len(set.Entries) == 0 {
		return nil, ErrNoCalibration
	}
	if _, err := grid.New(out.Origin, out.Step, out.Count); err != nil {
		return nil, fmt.Errorf("response: output axis: %w", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg = cfg.finalized()

	b := &Builder{set: set, out: out, cfg: cfg}

	b.norm = make([]normSpectrum, len(set.Entries))
	for i, e := range set.Entries {
		ns, err := b.normalizeEntry(e)
		if err != nil {
			return nil, err
		}
		b.norm[i] = ns
	}

	if cfg.broaden {
		k, err := broaden.Kernel(cfg.fwhm, out.Step)
		if err != nil {
			return nil, fmt.Errorf("response: broadening kernel: %w", err)
		}
		b.kernel = k
	}
	return b, nil
}

// Build computes every row of the response matrix. Rows are mutually
// independent, so they are distributed over the configured number of
// workers, each writing only its own stripe of the matrix.
func (b *Builder) Build() (*Matrix, error) {
	n := b.out.Count
	m := &Matrix{
		Axis:         b.out,
		Rows:         make([][]float64, n),
		Efficiency:   make([]float64, n),
		FullEnergy:   make([]float64, n),
		SingleEscape: make([]float64, n),
		DoubleEscape: make([]float64, n),
		Annihilation: make([]float64, n),
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for w := 0; w < b.cfg.workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for j := start; j < n; j += b.cfg.workers {
				res, err := b.computeRow(j)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				m.Rows[j] = res.row
				m.Efficiency[j] = res.eff
				m.FullEnergy[j] = res.fullEnergy
				m.SingleEscape[j] = res.singleEscape
				m.DoubleEscape[j] = res.doubleEscape
				m.Annihilation[j] = res.annihilation
			}
		}(w)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return m, nil
}

// Row computes the response row for output channel j.
func (b *Builder) Row(j int) ([]float64, error) {
	if !b.out.Contains(j) {
		return nil, fmt.Errorf("%w: %d", ErrChannel, j)
	}
	res, err := b.computeRow(j)
	if err != nil {
		return nil, err
	}
	return res.row, nil
}

type rowResult struct {
	row          []float64
	eff          float64
	fullEnergy   float64
	singleEscape float64
	doubleEscape float64
	annihilation float64
}

func (b *Builder) computeRow(j int) (rowResult, error) {
	n := b.out.Count
	ej := b.out.CenterAt(j)

	// Below the minimum reliably-modeled energy the row stays zero by
	// policy: the calibration data there is not trusted.
	if ej < b.cfg.minEnergy {
		return rowResult{row: make([]float64, n)}, nil
	}

	lo, hi := b.set.Bracket(ej)
	eLow := b.set.Entries[lo].Energy
	eHigh := b.set.Entries[hi].Energy
	pLow := b.norm[lo]
	pHigh := b.norm[hi]

	// Energy-fraction weight shared by every region and the peak
	// components. A single-entry set degenerates to the low spectrum.
	w := 0.0
	if eHigh > eLow {
		w = (ej - eLow) / (eHigh - eLow)
	}

	edge := kinematics.Edge(ej)
	bsc := ej - edge
	iCE := numeric.ClampInt(b.out.ChannelOf(edge), 0, n)
	iBSC := numeric.ClampInt(b.out.ChannelOf(bsc), 0, iCE)

	// Tail bound: +-6 sigma past each bracket energy, using the absolute
	// FWHM scaled by the entry's relative resolution.
	iLowMax := b.tailBound(lo)
	iHighMax := b.tailBound(hi)
	end := numeric.ClampInt(max(iLowMax, iHighMax)+1, iCE, n)

	row := make([]float64, n)
	tmp := make([]float64, n)

	// Region A, below the backscatter energy: channel-wise linear
	// interpolation between the two normalized spectra.
	lerpSegment(row[:iBSC], tmp[:iBSC], pLow.cont[:iBSC], pHigh.cont[:iBSC], w)

	// Region B, backscatter to Compton edge: the continuum shape moves
	// with scattering angle, not with channel index, so interpolate along
	// lines of constant angle (the fan method).
	iHighBound := min(iHighMax, n-1)
	for i := iBSC; i < iCE; i++ {
		ei := b.out.CenterAt(i)
		if ei <= degenerateFloor || ei >= edge || iHighBound < 0 {
			continue
		}
		theta, err := kinematics.ScatterAngle(ej, ei)
		if err != nil {
			// Local degeneracy only affects this channel.
			continue
		}
		iLow := numeric.ClampInt(b.out.ChannelOf(kinematics.ElectronEnergy(eLow, theta)), iBSC, n-1)
		iHigh := numeric.ClampInt(b.out.ChannelOf(kinematics.ElectronEnergy(eHigh, theta)), 0, iHighBound)
		row[i] = lerp(pLow.cont[iLow], pHigh.cont[iHigh], w)
	}

	// Region C, Compton edge out to the resolution bound: linear again.
	lerpSegment(row[iCE:end], tmp[iCE:end], pLow.cont[iCE:end], pHigh.cont[iCE:end], w)

	// Discrete peak components, interpolated with the same weight and
	// placed at their output channels; out-of-range channels are dropped.
	res := rowResult{
		row:          row,
		eff:          lerp(pLow.eff, pHigh.eff, w),
		fullEnergy:   lerp(pLow.peaks.FullEnergy, pHigh.peaks.FullEnergy, w),
		singleEscape: lerp(pLow.peaks.SingleEscape, pHigh.peaks.SingleEscape, w),
		doubleEscape: lerp(pLow.peaks.DoubleEscape, pHigh.peaks.DoubleEscape, w),
		annihilation: lerp(pLow.peaks.Annihilation, pHigh.peaks.Annihilation, w),
	}
	addPeak(row, b.out, ej, res.fullEnergy)
	addPeak(row, b.out, ej-kinematics.ElectronRestMass, res.singleEscape)
	addPeak(row, b.out, ej-2*kinematics.ElectronRestMass, res.doubleEscape)
	addPeak(row, b.out, kinematics.ElectronRestMass, res.annihilation)

	if b.kernel != nil {
		broadened, err := broaden.Apply(row, b.kernel)
		if err != nil {
			return rowResult{}, fmt.Errorf("response: broadening row %d: %w", j, err)
		}
		row = broadened
		res.row = row
	}

	if b.cfg.normalize {
		if total := numeric.KahanSum(row); total > 0 {
			normed := make([]float64, n)
			vecmath.ScaleBlock(normed, row, 1/total)
			res.row = normed
		}
	}
	return res, nil
}

// tailBound returns the last output channel the given calibration entry can
// contribute to: its reference energy plus 6 sigma of its absolute FWHM.
func (b *Builder) tailBound(i int) int {
	e := b.set.Entries[i]
	return b.out.ChannelOf(e.Energy + 6*b.cfg.fwhm*e.ResolutionRel/fwhmToSigma)
}

func addPeak(row []float64, axis grid.Axis, e, value float64) {
	ch := axis.ChannelOf(e)
	if axis.Contains(ch) {
		row[ch] += value
	}
}
