package row

import (
	"math"

	"github.com/oslospectro/respmat/gamma/grid"
)

// Stats holds single-pass diagnostics for one response row.
type Stats struct {
	Channels   int
	Sum        float64 // total probability mass
	Max        float64
	MaxChannel int
	Centroid   float64 // mass-weighted mean energy (keV)
	Spread     float64 // mass-weighted energy standard deviation (keV)
	Above      float64 // mass at or above MaxChannel
}

// Calculate computes diagnostics for a response row on the given axis.
// The row is typically one output of the response builder: a probability
// distribution over detection channels. Zero-mass rows report zero
// centroid and spread.
func Calculate(row []float64, axis grid.Axis) Stats {
	var s Stats
	s.Channels = len(row)
	if len(row) == 0 {
		return s
	}

	s.Max = row[0]
	for i, v := range row {
		s.Sum += v
		if v > s.Max {
			s.Max = v
			s.MaxChannel = i
		}
	}
	if s.Sum == 0 {
		return s
	}

	s.Centroid = centroid(row, axis, s.Sum)
	s.Spread = spread(row, axis, s.Centroid, s.Sum)

	for i := s.MaxChannel; i < len(row); i++ {
		s.Above += row[i]
	}
	return s
}

func centroid(row []float64, axis grid.Axis, sum float64) float64 {
	var weighted float64
	for i, v := range row {
		weighted += axis.CenterAt(i) * v
	}
	return weighted / sum
}

func spread(row []float64, axis grid.Axis, centroid, sum float64) float64 {
	var weighted float64
	for i, v := range row {
		d := axis.CenterAt(i) - centroid
		weighted += d * d * v
	}
	return math.Sqrt(weighted / sum)
}
