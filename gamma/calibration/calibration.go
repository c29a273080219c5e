package calibration

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"

	"github.com/oslospectro/respmat/gamma/grid"
)

var (
	// ErrFormat indicates a file that does not match its expected layout.
	ErrFormat = errors.New("calibration: malformed file")
	// ErrOrder indicates index rows whose energies are not strictly ascending.
	ErrOrder = errors.New("calibration: reference energies not strictly ascending")
	// ErrAxisMismatch indicates spectra that do not share one energy axis.
	ErrAxisMismatch = errors.New("calibration: spectra do not share one energy axis")
	// ErrEmpty indicates an index file with no data rows.
	ErrEmpty = errors.New("calibration: no calibration entries")
)

// IndexFile is the name of the calibration index inside a response folder.
const IndexFile = "resp.dat"

// Peaks holds the discrete peak components measured at one calibration
// energy, as raw areas outside the continuum histogram.
type Peaks struct {
	FullEnergy   float64
	SingleEscape float64
	DoubleEscape float64
	Annihilation float64
}

// Entry is one calibration point: the reference gamma energy, its relative
// resolution (FWHM) and total efficiency from the index file, the discrete
// peak areas, and the measured Compton continuum on the shared axis.
type Entry struct {
	Energy          float64
	ResolutionRel   float64
	TotalEfficiency float64
	Peaks           Peaks
	Counts          []float64
}

// Set is the parsed calibration collection: entries strictly ascending in
// energy, every continuum histogram on the same axis. A Set is built once by
// Load and treated as immutable afterwards.
type Set struct {
	Axis    grid.Axis
	Entries []Entry
}

// Load reads the index file and one Compton spectrum per index row from
// fsys. Spectrum files are named "cmp" followed by the integer reference
// energy (for example cmp1332).
//
// Every file is opened, read fully and closed before the next one; a parse
// failure still closes the file. Any mismatch against the expected layouts
// is fatal: a silently misread calibration would corrupt every row of the
// response matrix built from it.
func Load(fsys fs.FS) (*Set, error) {
	rows, err := loadIndex(fsys)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Energy <= rows[i-1].Energy {
			return nil, fmt.Errorf("%w: row %d (%v keV) after %v keV",
				ErrOrder, i, rows[i].Energy, rows[i-1].Energy)
		}
	}

	set := &Set{Entries: make([]Entry, 0, len(rows))}
	for i, row := range rows {
		name := "cmp" + strconv.Itoa(int(row.Energy))
		sp, err := loadSpectrum(fsys, name)
		if err != nil {
			return nil, err
		}

		axis, err := grid.New(sp.Origin, sp.Step, len(sp.Counts))
		if err != nil {
			return nil, fmt.Errorf("calibration: %s: %w", name, err)
		}
		if i == 0 {
			set.Axis = axis
		} else if !axis.Equal(set.Axis) {
			return nil, fmt.Errorf("%w: %s has %+v, want %+v",
				ErrAxisMismatch, name, axis, set.Axis)
		}

		set.Entries = append(set.Entries, Entry{
			Energy:          row.Energy,
			ResolutionRel:   row.ResolutionRel,
			TotalEfficiency: row.TotalEfficiency,
			Peaks:           row.Peaks,
			Counts:          sp.Counts,
		})
	}
	return set, nil
}

func loadIndex(fsys fs.FS) ([]IndexRow, error) {
	f, err := fsys.Open(IndexFile)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	defer f.Close()

	rows, err := ReadIndex(f)
	if err != nil {
		return nil, fmt.Errorf("calibration: %s: %w", IndexFile, err)
	}
	return rows, nil
}

func loadSpectrum(fsys fs.FS, name string) (*Spectrum, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("calibration: %w", err)
	}
	defer f.Close()

	sp, err := ReadSpectrum(f)
	if err != nil {
		return nil, fmt.Errorf("calibration: %s: %w", name, err)
	}
	return sp, nil
}

// Bracket returns the indices of the two entries surrounding energy e: the
// largest entry at or below e and the smallest at or above it. Energies
// outside the calibrated range clamp to the nearest pair, and an exact hit
// widens to a distinct pair whenever the set has more than one entry, so
// interpolation always has two support points when possible.
func (s *Set) Bracket(e float64) (lo, hi int) {
	n := len(s.Entries)
	hi = sort.Search(n, func(i int) bool { return s.Entries[i].Energy >= e })
	lo = sort.Search(n, func(i int) bool { return s.Entries[i].Energy > e }) - 1

	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	if lo == hi {
		if lo > 0 {
			lo--
		} else if hi < n-1 {
			hi++
		}
	}
	return lo, hi
}
