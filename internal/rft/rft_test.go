package rft

import (
	"path/filepath"
	"testing"

	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/resfiles"
)

func writeRFT(t *testing.T, kws []*resfile.Keyword) *resfiles.Case {
	t.Helper()
	base := filepath.Join(t.TempDir(), "RFTCASE")
	if err := resfile.Write(base+".RFT", kws); err != nil {
		t.Fatal(err)
	}
	c, err := resfiles.Open(base)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSurveyRows(t *testing.T) {
	c := writeRFT(t, []*resfile.Keyword{
		resfile.NewFloatKeyword("TIME", []float64{0}),
		resfile.NewIntKeyword("DATE", []int{1, 1, 2020}),
		resfile.NewCharKeyword("WELLETC", []string{"unit", "OP1"}),
		resfile.NewIntKeyword("CONIPOS", []int{5, 5}),
		resfile.NewIntKeyword("CONJPOS", []int{6, 6}),
		resfile.NewIntKeyword("CONKPOS", []int{1, 2}),
		resfile.NewFloatKeyword("DEPTH", []float64{1000.5, 1010.5}),
		resfile.NewFloatKeyword("PRESSURE", []float64{200, 195}),
		resfile.NewFloatKeyword("SWAT", []float64{0.25, 0.5}),
	})
	tbl, err := Df(c)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 connection rows, got %d", tbl.Len())
	}
	if got := tbl.Strings("DATE"); got[0] != "2020-01-01" {
		t.Errorf("DATE = %v", got)
	}
	if got := tbl.Strings("WELL"); got[1] != "OP1" {
		t.Errorf("WELL = %v", got)
	}
	if got := tbl.Floats("CONKPOS"); got[1] != 2 {
		t.Errorf("CONKPOS = %v", got)
	}
	if got := tbl.Floats("PRESSURE"); got[0] != 200 {
		t.Errorf("PRESSURE = %v", got)
	}
	if tbl.Has("SGAS") {
		t.Error("absent arrays must not become columns")
	}
}

func TestSegmentMerge(t *testing.T) {
	// one connection behind an ICD: segment 3 is alone on branch 2 and
	// feeds into wellbore segment 2
	c := writeRFT(t, []*resfile.Keyword{
		resfile.NewFloatKeyword("TIME", []float64{100}),
		resfile.NewIntKeyword("DATE", []int{1, 7, 2020}),
		resfile.NewCharKeyword("WELLETC", []string{"unit", "OP2"}),
		resfile.NewIntKeyword("CONIPOS", []int{1}),
		resfile.NewIntKeyword("CONJPOS", []int{1}),
		resfile.NewIntKeyword("CONKPOS", []int{1}),
		resfile.NewFloatKeyword("DEPTH", []float64{1005}),
		resfile.NewFloatKeyword("PRESSURE", []float64{190}),
		resfile.NewIntKeyword("CONSEGNO", []int{3}),
		resfile.NewIntKeyword("SEGBRNO", []int{1, 1, 2}),
		resfile.NewIntKeyword("SEGNXT", []int{0, 1, 2}),
		resfile.NewFloatKeyword("SEGDEPTH", []float64{1000, 1005, 1005.5}),
	})
	tbl, err := Df(c)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", tbl.Len())
	}
	if got := tbl.Floats("ICD_SEGDEPTH"); got[0] != 1005.5 {
		t.Errorf("ICD_SEGDEPTH = %v", got)
	}
	if got := tbl.Floats("ICD_SEGBRNO"); got[0] != 2 {
		t.Errorf("ICD_SEGBRNO = %v", got)
	}
	// the wellbore segment the ICD feeds into
	if got := tbl.Floats("SEGDEPTH"); got[0] != 1005 {
		t.Errorf("SEGDEPTH = %v", got)
	}
	if got := tbl.Floats("SEGBRNO"); got[0] != 1 {
		t.Errorf("SEGBRNO = %v", got)
	}
}

func TestDirectSegmentMerge(t *testing.T) {
	// no ICD: the connection's segment sits on a multi-segment branch
	c := writeRFT(t, []*resfile.Keyword{
		resfile.NewFloatKeyword("TIME", []float64{0}),
		resfile.NewIntKeyword("DATE", []int{1, 1, 2021}),
		resfile.NewCharKeyword("WELLETC", []string{"unit", "OP3"}),
		resfile.NewIntKeyword("CONIPOS", []int{1}),
		resfile.NewFloatKeyword("DEPTH", []float64{1000}),
		resfile.NewIntKeyword("CONSEGNO", []int{2}),
		resfile.NewIntKeyword("SEGBRNO", []int{1, 1}),
		resfile.NewIntKeyword("SEGNXT", []int{0, 1}),
		resfile.NewFloatKeyword("SEGDEPTH", []float64{990, 1000}),
	})
	tbl, err := Df(c)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Floats("SEGDEPTH"); got[0] != 1000 {
		t.Errorf("SEGDEPTH = %v", got)
	}
	if tbl.Has("ICD_SEGDEPTH") {
		t.Error("no ICD columns expected")
	}
}
