package calibration

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// indexMarker is the literal header line (the format's own spelling) that
// precedes the row count in resp.dat.
const indexMarker = "# Next: Numer of Lines"

// indexColumns is the fixed column order of a resp.dat data row.
const indexColumns = 7

// IndexRow is one parsed data row of the calibration index file.
type IndexRow struct {
	Energy          float64
	ResolutionRel   float64
	TotalEfficiency float64
	Peaks           Peaks
}

// ReadIndex parses a resp.dat stream: a free-form header terminated by the
// marker line, an integer row count, one header line to skip, then exactly
// that many rows of 7 whitespace-separated floats in the order
// energy, FWHM_rel, efficiency, full-energy, single-escape, double-escape,
// 511. Every token is validated; layout mismatches wrap ErrFormat.
func ReadIndex(r io.Reader) ([]IndexRow, error) {
	sc := bufio.NewScanner(r)

	found := false
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), indexMarker) {
			found = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: missing %q marker", ErrFormat, indexMarker)
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing line count after marker", ErrFormat)
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad line count %q", ErrFormat, strings.TrimSpace(sc.Text()))
	}

	// One column-header line sits between the count and the data.
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: missing column header line", ErrFormat)
	}

	rows := make([]IndexRow, 0, count)
	for i := 0; i < count; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: expected %d data rows, got %d", ErrFormat, count, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) != indexColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrFormat, i, len(fields), indexColumns)
		}
		var v [indexColumns]float64
		for j, field := range fields {
			v[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q is not numeric",
					ErrFormat, i, j, field)
			}
		}
		rows = append(rows, IndexRow{
			Energy:          v[0],
			ResolutionRel:   v[1],
			TotalEfficiency: v[2],
			Peaks: Peaks{
				FullEnergy:   v[3],
				SingleEscape: v[4],
				DoubleEscape: v[5],
				Annihilation: v[6],
			},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

const (
	calibrationTag = "!CALIBRATION"
	dimensionTag   = "!DIMENSION=1,0:"
)

// Spectrum is one parsed Compton spectrum file: the linear calibration of
// its channel axis and the per-channel counts.
type Spectrum struct {
	Origin float64
	Step   float64
	Counts []float64
}

// ReadSpectrum parses a MAMA-format spectrum stream. Header lines start with
// '!': the !CALIBRATION line carries the axis origin and step as its second
// and third comma-separated fields, and the !DIMENSION line carries the
// upper channel bound (channel count minus one). All whitespace-separated
// numbers on non-header lines are the per-channel counts.
//
// Both header lines are required and the count total must match the declared
// dimension; anything else wraps ErrFormat.
func ReadSpectrum(r io.Reader) (*Spectrum, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		sp       Spectrum
		haveCal  bool
		channels int
		haveDim  bool
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "!") {
			switch {
			case strings.HasPrefix(line, calibrationTag):
				fields := strings.Split(line, ",")
				if len(fields) < 3 {
					return nil, fmt.Errorf("%w: %s line has %d fields, want at least 3",
						ErrFormat, calibrationTag, len(fields))
				}
				var err error
				sp.Origin, err = strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
				if err != nil {
					return nil, fmt.Errorf("%w: bad calibration origin %q", ErrFormat, fields[1])
				}
				sp.Step, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
				if err != nil {
					return nil, fmt.Errorf("%w: bad calibration step %q", ErrFormat, fields[2])
				}
				haveCal = true
			case strings.HasPrefix(line, dimensionTag):
				bound, err := strconv.Atoi(strings.TrimSpace(line[len(dimensionTag):]))
				if err != nil || bound < 0 {
					return nil, fmt.Errorf("%w: bad dimension line %q", ErrFormat, line)
				}
				channels = bound + 1 // the bound is the last channel index
				haveDim = true
			}
			continue
		}
		for _, field := range strings.Fields(line) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: count %q is not numeric", ErrFormat, field)
			}
			sp.Counts = append(sp.Counts, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if !haveCal {
		return nil, fmt.Errorf("%w: missing %s header", ErrFormat, calibrationTag)
	}
	if !haveDim {
		return nil, fmt.Errorf("%w: missing %s header", ErrFormat, strings.TrimSuffix(dimensionTag, "=1,0:"))
	}
	if len(sp.Counts) != channels {
		return nil, fmt.Errorf("%w: %d counts, dimension declares %d",
			ErrFormat, len(sp.Counts), channels)
	}
	return &sp, nil
}
