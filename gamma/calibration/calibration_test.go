package calibration

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
)

const indexFixture = `# Response function index for test detector
# Next: Numer of Lines
2
# Eg FWHM_rel Eff_tot FE SE DE c511
1000.0 1.00 0.20 100.0 10.0 5.0 2.0
1500.0 0.90 0.18  80.0 12.0 6.0 1.5
`

func mamaFixture(origin, step string, bound int, counts string) string {
	var b strings.Builder
	b.WriteString("!FILE=Disk\n")
	b.WriteString("!KIND=Spectrum\n")
	b.WriteString("!LABORATORY=Test\n")
	b.WriteString("!CALIBRATION EkeV=6," + origin + "," + step + ",0.000000E+00\n")
	b.WriteString("!PRECISION=16\n")
	b.WriteString("!DIMENSION=1,0:" + strconv.Itoa(bound) + "\n")
	b.WriteString("!CHANNEL=(0:" + strconv.Itoa(bound) + ")\n")
	b.WriteString(counts + "\n")
	b.WriteString("!IDEND=\n")
	return b.String()
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"resp.dat": &fstest.MapFile{Data: []byte(indexFixture)},
		"cmp1000": &fstest.MapFile{
			Data: []byte(mamaFixture("0.000000E+00", "1.000000E+02", 3, " 1 2 3 4")),
		},
		"cmp1500": &fstest.MapFile{
			Data: []byte(mamaFixture("0.000000E+00", "1.000000E+02", 3, " 4 3 2 1")),
		},
	}
}

func TestLoad(t *testing.T) {
	set, err := Load(testFS())
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Entries) != 2 {
		t.Fatalf("entry count %d, want 2", len(set.Entries))
	}
	if set.Axis.Origin != 0 || set.Axis.Step != 100 || set.Axis.Count != 4 {
		t.Fatalf("axis %+v, want {0 100 4}", set.Axis)
	}

	e := set.Entries[0]
	if e.Energy != 1000 || e.ResolutionRel != 1.0 || e.TotalEfficiency != 0.20 {
		t.Fatalf("entry 0 scalars: %+v", e)
	}
	if e.Peaks != (Peaks{FullEnergy: 100, SingleEscape: 10, DoubleEscape: 5, Annihilation: 2}) {
		t.Fatalf("entry 0 peaks: %+v", e.Peaks)
	}
	if want := []float64{1, 2, 3, 4}; len(e.Counts) != len(want) {
		t.Fatalf("counts %v", e.Counts)
	} else {
		for i := range want {
			if e.Counts[i] != want[i] {
				t.Fatalf("counts[%d] = %v, want %v", i, e.Counts[i], want[i])
			}
		}
	}
}

func TestReadIndexErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
	}{
		{"missing marker", "# header only\n1\n# cols\n1 2 3 4 5 6 7\n"},
		{"bad count", "# Next: Numer of Lines\nxyz\n# cols\n"},
		{"short file", "# Next: Numer of Lines\n3\n# cols\n1 2 3 4 5 6 7\n"},
		{"wrong columns", "# Next: Numer of Lines\n1\n# cols\n1 2 3\n"},
		{"non-numeric", "# Next: Numer of Lines\n1\n# cols\n1 2 3 4 5 6 x\n"},
	} {
		_, err := ReadIndex(strings.NewReader(tc.data))
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: got %v, want ErrFormat", tc.name, err)
		}
	}
}

func TestReadSpectrumErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		data string
	}{
		{"missing calibration", "!FILE=Disk\n!DIMENSION=1,0:1\n1 2\n"},
		{"missing dimension", "!CALIBRATION EkeV=6,0,100,0\n1 2\n"},
		{"count mismatch", mamaFixture("0", "100", 3, "1 2 3")},
		{"bad count token", mamaFixture("0", "100", 1, "1 x")},
		{"bad origin", "!CALIBRATION EkeV=6,abc,100,0\n!DIMENSION=1,0:0\n1\n"},
	} {
		_, err := ReadSpectrum(strings.NewReader(tc.data))
		if !errors.Is(err, ErrFormat) {
			t.Fatalf("%s: got %v, want ErrFormat", tc.name, err)
		}
	}
}

func TestLoadRejectsDescendingEnergies(t *testing.T) {
	fsys := testFS()
	fsys["resp.dat"] = &fstest.MapFile{Data: []byte(
		"# Next: Numer of Lines\n2\n# cols\n" +
			"1500.0 1.0 0.2 1 1 1 1\n" +
			"1000.0 1.0 0.2 1 1 1 1\n")}
	if _, err := Load(fsys); !errors.Is(err, ErrOrder) {
		t.Fatalf("got %v, want ErrOrder", err)
	}
}

func TestLoadRejectsAxisMismatch(t *testing.T) {
	fsys := testFS()
	fsys["cmp1500"] = &fstest.MapFile{
		Data: []byte(mamaFixture("0.000000E+00", "5.000000E+01", 3, "4 3 2 1")),
	}
	if _, err := Load(fsys); !errors.Is(err, ErrAxisMismatch) {
		t.Fatalf("got %v, want ErrAxisMismatch", err)
	}
}

func TestLoadMissingSpectrumFile(t *testing.T) {
	fsys := testFS()
	delete(fsys, "cmp1500")
	if _, err := Load(fsys); err == nil {
		t.Fatal("missing spectrum file did not fail")
	}
}

func TestBracket(t *testing.T) {
	set := &Set{Entries: []Entry{
		{Energy: 500}, {Energy: 1000}, {Energy: 1500}, {Energy: 2000},
	}}
	for _, tc := range []struct {
		e      float64
		lo, hi int
	}{
		{1250, 1, 2}, // interior
		{100, 0, 1},  // below the range: clamp, then widen
		{2500, 2, 3}, // above the range: clamp, then widen
		{1000, 0, 1}, // exact hit widens downward
		{500, 0, 1},  // exact hit at the bottom widens upward
		{2000, 2, 3}, // exact hit at the top widens downward
	} {
		lo, hi := set.Bracket(tc.e)
		if lo != tc.lo || hi != tc.hi {
			t.Fatalf("Bracket(%v) = (%d, %d), want (%d, %d)", tc.e, lo, hi, tc.lo, tc.hi)
		}
	}
}

func TestBracketSingleEntry(t *testing.T) {
	set := &Set{Entries: []Entry{{Energy: 1000}}}
	for _, e := range []float64{100, 1000, 5000} {
		lo, hi := set.Bracket(e)
		if lo != 0 || hi != 0 {
			t.Fatalf("Bracket(%v) = (%d, %d), want (0, 0)", e, lo, hi)
		}
	}
}
