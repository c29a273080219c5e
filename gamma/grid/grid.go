package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrStep indicates a non-positive bin width.
	ErrStep = errors.New("grid: step must be > 0")
	// ErrCount indicates a non-positive channel count.
	ErrCount = errors.New("grid: count must be >= 1")
)

// Axis describes a linear, equally spaced energy axis by its first bin
// center, bin width and channel count. Bin i is centered at
// Origin + i*Step and spans [center-Step/2, center+Step/2).
type Axis struct {
	Origin float64
	Step   float64
	Count  int
}

// New validates and returns an axis.
func New(origin, step float64, count int) (Axis, error) {
	if step <= 0 {
		return Axis{}, fmt.Errorf("%w: %v", ErrStep, step)
	}
	if count < 1 {
		return Axis{}, fmt.Errorf("%w: %d", ErrCount, count)
	}
	return Axis{Origin: origin, Step: step, Count: count}, nil
}

// CenterAt returns the bin-center energy of channel i.
func (a Axis) CenterAt(i int) float64 {
	return a.Origin + float64(i)*a.Step
}

// Centers returns all bin-center energies.
func (a Axis) Centers() []float64 {
	out := make([]float64, a.Count)
	for i := range out {
		out[i] = a.CenterAt(i)
	}
	return out
}

// Edges returns the Count+1 bin-edge energies, so every channel is covered
// on both sides.
func (a Axis) Edges() []float64 {
	out := make([]float64, a.Count+1)
	lo := a.Origin - a.Step/2
	for i := range out {
		out[i] = lo + float64(i)*a.Step
	}
	return out
}

// ChannelOf returns the channel whose bin contains energy e. The result may
// lie outside [0, Count); callers clip with Contains.
func (a Axis) ChannelOf(e float64) int {
	return int(math.Round((e - a.Origin) / a.Step))
}

// Contains reports whether channel i is on the axis.
func (a Axis) Contains(i int) bool {
	return i >= 0 && i < a.Count
}

// Min returns the first bin-center energy.
func (a Axis) Min() float64 { return a.Origin }

// Max returns the last bin-center energy.
func (a Axis) Max() float64 { return a.CenterAt(a.Count - 1) }

// Equal reports whether two axes describe the same binning.
func (a Axis) Equal(b Axis) bool {
	return a.Origin == b.Origin && a.Step == b.Step && a.Count == b.Count
}
