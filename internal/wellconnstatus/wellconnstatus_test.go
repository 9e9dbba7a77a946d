package wellconnstatus

import (
	"testing"

	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/summary"
)

// buildSummary holds one CPI vector for OP1 at cell (2,1,1) of a 2x2x1
// grid, plus an unrelated field vector.
func buildSummary(t *testing.T, cpi []float64) *summary.Summary {
	t.Helper()
	smspec := resfile.FromKeywords([]*resfile.Keyword{
		resfile.NewIntKeyword("DIMENS", []int{3, 2, 2, 1, 0, 0}),
		resfile.NewIntKeyword("STARTDAT", []int{1, 1, 2020}),
		resfile.NewCharKeyword("KEYWORDS", []string{"TIME", "FOPT", "CPI"}),
		resfile.NewCharKeyword("WGNAMES", []string{"", "", "OP1"}),
		resfile.NewIntKeyword("NUMS", []int{0, 0, 2}),
		resfile.NewCharKeyword("UNITS", []string{"DAYS", "SM3", ""}),
	})
	var unsmryKws []*resfile.Keyword
	for i, v := range cpi {
		unsmryKws = append(unsmryKws,
			resfile.NewIntKeyword("MINISTEP", []int{i}),
			resfile.NewFloatKeyword("PARAMS", []float64{float64(31 * i), 0, v}),
		)
	}
	s, err := summary.Read(smspec, resfile.FromKeywords(unsmryKws))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOpenShutEvents(t *testing.T) {
	s := buildSummary(t, []float64{0, 5, 5, 0, 3})
	tbl, err := FromSummary(s)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 events, got %d", tbl.Len())
	}
	status := tbl.Strings("OP/SH")
	if status[0] != "OPEN" || status[1] != "SHUT" || status[2] != "OPEN" {
		t.Errorf("OP/SH = %v", status)
	}
	dates := tbl.Strings("DATE")
	if dates[0] != "2020-02-01" || dates[1] != "2020-04-03" {
		t.Errorf("DATE = %v", dates)
	}
	if got := tbl.Floats("I"); got[0] != 2 {
		t.Errorf("I = %v", got)
	}
	if got := tbl.Strings("WELL"); got[0] != "OP1" {
		t.Errorf("WELL = %v", got)
	}
}

func TestOpenFromStart(t *testing.T) {
	s := buildSummary(t, []float64{4, 4})
	tbl, err := FromSummary(s)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected a single initial OPEN event, got %d", tbl.Len())
	}
	if got := tbl.Strings("DATE"); got[0] != "2020-01-01" {
		t.Errorf("DATE = %v", got)
	}
}
