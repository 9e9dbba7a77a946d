package trans

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/resfiles"
)

// writeCase builds a regular 2x1x2 grid, all cells active, with TRANX
// and TRANZ vectors plus a FIPNUM split along the I axis.
func writeCase(t *testing.T) *resfiles.Case {
	t.Helper()
	nx, ny, nz := 2, 1, 2
	coord := make([]float64, 0, 6*(nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x, y := float64(100*i), float64(100*j)
			coord = append(coord, x, y, 1000, x, y, 1020)
		}
	}
	zcorn := make([]float64, 0, 8*nx*ny*nz)
	for kk := 0; kk < 2*nz; kk++ {
		z := 1000 + 10*float64((kk+1)/2)
		for jj := 0; jj < 2*ny; jj++ {
			for ii := 0; ii < 2*nx; ii++ {
				zcorn = append(zcorn, z)
			}
		}
	}
	base := filepath.Join(t.TempDir(), "TRANSCASE")
	egridKws := []*resfile.Keyword{
		resfile.NewIntKeyword("GRIDHEAD", []int{1, nx, ny, nz}),
		resfile.NewFloatKeyword("COORD", coord),
		resfile.NewFloatKeyword("ZCORN", zcorn),
	}
	if err := resfile.Write(base+".EGRID", egridKws); err != nil {
		t.Fatal(err)
	}
	initKws := []*resfile.Keyword{
		resfile.NewFloatKeyword("TRANX", []float64{10, 99, 20, 99}),
		resfile.NewFloatKeyword("TRANZ", []float64{1, 2, 99, 99}),
		resfile.NewFloatKeyword("FIPNUM", []float64{1, 2, 1, 2}),
	}
	if err := resfile.Write(base+".INIT", initKws); err != nil {
		t.Fatal(err)
	}
	c, err := resfiles.Open(base)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTransDf(t *testing.T) {
	c := writeCase(t)
	tbl, err := Df(c, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("expected 2 I plus 2 K connections, got %d", tbl.Len())
	}
	dirs := tbl.Strings("DIR")
	if dirs[0] != "I" || dirs[2] != "K" {
		t.Errorf("DIR = %v", dirs)
	}
	if got := tbl.Floats("TRAN"); got[0] != 10 || got[1] != 20 || got[2] != 1 {
		t.Errorf("TRAN = %v", got)
	}
	if got := tbl.Floats("K2"); got[2] != 2 {
		t.Errorf("K2 = %v", got)
	}
}

func TestTransOnlyK(t *testing.T) {
	c := writeCase(t)
	tbl, err := Df(c, Options{OnlyK: true})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 vertical connections, got %d", tbl.Len())
	}
	if got := tbl.Strings("DIR"); got[0] != "K" {
		t.Errorf("DIR = %v", got)
	}
}

func TestTransBoundary(t *testing.T) {
	c := writeCase(t)
	tbl, err := Df(c, Options{Vectors: []string{"FIPNUM"}, Boundary: true})
	if err != nil {
		t.Fatal(err)
	}
	// only the I connections cross the FIPNUM split
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 boundary connections, got %d", tbl.Len())
	}
	if got := tbl.Floats("FIPNUM2"); got[0] != 2 {
		t.Errorf("FIPNUM2 = %v", got)
	}
}

func TestTransGroup(t *testing.T) {
	c := writeCase(t)
	tbl, err := Df(c, Options{Vectors: []string{"FIPNUM"}, Group: true})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected one region interface, got %d rows", tbl.Len())
	}
	if got := tbl.Floats("TRAN"); got[0] != 30 {
		t.Errorf("summed TRAN = %v", got)
	}
	if got := tbl.Floats("FIPNUM1"); got[0] != 1 {
		t.Errorf("FIPNUM1 = %v", got)
	}
}

func TestTransCoords(t *testing.T) {
	c := writeCase(t)
	tbl, err := Df(c, Options{Coords: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Floats("X"); got[0] != 100 {
		t.Errorf("X = %v", got)
	}
	if got := tbl.Floats("DX"); got[0] != 100 {
		t.Errorf("DX = %v", got)
	}
	if got := tbl.Floats("DZ"); got[2] != 10 {
		t.Errorf("DZ = %v", got)
	}
}

func TestTransGroupNeedsVectors(t *testing.T) {
	c := writeCase(t)
	if _, err := Df(c, Options{Group: true}); !errors.Is(err, ErrNoVectors) {
		t.Errorf("expected ErrNoVectors, got %v", err)
	}
}
