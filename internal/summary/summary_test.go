package summary

import (
	"errors"
	"testing"
	"time"

	"github.com/equinor/res2df/internal/resfile"
)

// buildFiles assembles an in-memory SMSPEC/UNSMRY pair with FOPT and
// WOPR:OP1 sampled at the given day offsets.
func buildFiles(t *testing.T, days []float64, fopt, wopr []float64) (*resfile.File, *resfile.File) {
	t.Helper()
	smspecKws := []*resfile.Keyword{
		resfile.NewIntKeyword("STARTDAT", []int{1, 1, 2020}),
		resfile.NewCharKeyword("KEYWORDS", []string{"TIME", "FOPT", "WOPR"}),
		resfile.NewCharKeyword("WGNAMES", []string{emptyWGName, emptyWGName, "OP1"}),
		resfile.NewIntKeyword("NUMS", []int{0, 0, 0}),
		resfile.NewCharKeyword("UNITS", []string{"DAYS", "SM3", "SM3/DAY"}),
	}
	var unsmryKws []*resfile.Keyword
	for i := range days {
		unsmryKws = append(unsmryKws,
			resfile.NewIntKeyword("MINISTEP", []int{i}),
			resfile.NewFloatKeyword("PARAMS", []float64{days[i], fopt[i], wopr[i]}),
		)
	}
	return resfile.FromKeywords(smspecKws), resfile.FromKeywords(unsmryKws)
}

func TestReadAndKeys(t *testing.T) {
	smspec, unsmry := buildFiles(t,
		[]float64{0, 31, 60},
		[]float64{0, 1000, 2000},
		[]float64{100, 90, 80})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Steps) != 3 {
		t.Fatalf("expected 3 ministeps, got %d", len(s.Steps))
	}
	if s.Vectors[2].Key() != "WOPR:OP1" {
		t.Errorf("well vector key = %q", s.Vectors[2].Key())
	}
	if s.Vectors[1].Key() != "FOPT" {
		t.Errorf("field vector key = %q", s.Vectors[1].Key())
	}
	dates := s.Dates()
	if !dates[1].Equal(time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date 1 = %v", dates[1])
	}
}

func TestDfRaw(t *testing.T) {
	smspec, unsmry := buildFiles(t,
		[]float64{0, 31}, []float64{0, 1000}, []float64{100, 90})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := s.Df(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if got := tbl.Strings("DATE"); got[1] != "2020-02-01" {
		t.Errorf("DATE = %v", got)
	}
	if got := tbl.Floats("WOPR:OP1"); got[1] != 90 {
		t.Errorf("WOPR:OP1 = %v", got)
	}
	if tbl.Has("TIME") {
		t.Error("TIME should not be a data column")
	}
}

func TestDfMonthlyInterpolation(t *testing.T) {
	// 62 days span: Jan 1 to Mar 3, monthly boundaries at Feb 1, Mar 1
	smspec, unsmry := buildFiles(t,
		[]float64{0, 62}, []float64{0, 620}, []float64{100, 100})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := s.Df(Options{TimeIndex: "monthly"})
	if err != nil {
		t.Fatal(err)
	}
	dates := tbl.Strings("DATE")
	if len(dates) != 4 {
		t.Fatalf("monthly dates = %v", dates)
	}
	if dates[0] != "2020-01-01" || dates[1] != "2020-02-01" || dates[2] != "2020-03-01" {
		t.Fatalf("monthly dates = %v", dates)
	}
	// the closing boundary is rolled forward past the last ministep
	if dates[3] != "2020-04-01" {
		t.Errorf("end boundary = %v", dates[3])
	}
	fopt := tbl.Floats("FOPT")
	if fopt[1] != 310 { // linear between 0 and 620 at day 31 of 62
		t.Errorf("interpolated FOPT = %v", fopt)
	}
	if fopt[3] != 620 { // clamped past the last ministep
		t.Errorf("FOPT at end boundary = %v", fopt)
	}
}

func TestFrequencyNormalization(t *testing.T) {
	first := time.Date(1997, 11, 5, 0, 0, 0, 0, time.UTC)
	last := time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)

	got := frequencyRange(first, last, "monthly", false, false)
	if !got[0].Equal(time.Date(1997, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly start = %v, want 1997-11-01", got[0])
	}
	if !got[len(got)-1].Equal(time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly end = %v, want 2020-04-01", got[len(got)-1])
	}
	if len(got) != 270 { // 1997-11 through 2020-04 inclusive
		t.Errorf("monthly boundaries = %d", len(got))
	}

	got = frequencyRange(first, last, "yearly", false, false)
	if !got[0].Equal(time.Date(1997, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("yearly start = %v, want 1997-01-01", got[0])
	}
	if !got[len(got)-1].Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("yearly end = %v, want 2021-01-01", got[len(got)-1])
	}

	// a range already on boundaries is not widened
	got = frequencyRange(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		"monthly", false, false)
	if len(got) != 3 {
		t.Errorf("on-boundary range = %v", got)
	}
}

func TestFrequencyExplicitDatesKept(t *testing.T) {
	start := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)
	got := frequencyRange(start, end, "monthly", true, true)
	want := []time.Time{
		start,
		time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		end,
	}
	if len(got) != len(want) {
		t.Fatalf("dates = %v", got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestColumnKeysAndCrop(t *testing.T) {
	smspec, unsmry := buildFiles(t,
		[]float64{0, 31, 60},
		[]float64{0, 1000, 2000},
		[]float64{100, 90, 80})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := s.Df(Options{
		ColumnKeys: []string{"WOPR:*"},
		StartDate:  time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Has("FOPT") {
		t.Errorf("FOPT should be filtered out: %v", tbl.Names())
	}
	if tbl.Len() != 2 {
		t.Errorf("crop should drop the first ministep, rows = %d", tbl.Len())
	}
}

func TestBadTimeIndex(t *testing.T) {
	smspec, unsmry := buildFiles(t, []float64{0}, []float64{0}, []float64{0})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Df(Options{TimeIndex: "hourly"}); !errors.Is(err, ErrBadTimeIndex) {
		t.Errorf("expected ErrBadTimeIndex, got %v", err)
	}
}

func TestWriterRoundtrip(t *testing.T) {
	smspec, unsmry := buildFiles(t,
		[]float64{0, 31}, []float64{0, 1000}, []float64{100, 90})
	s, err := Read(smspec, unsmry)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := s.Df(Options{})
	if err != nil {
		t.Fatal(err)
	}

	smspecKws, unsmryKws, err := ToKeywords(tbl)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Read(resfile.FromKeywords(smspecKws), resfile.FromKeywords(unsmryKws))
	if err != nil {
		t.Fatal(err)
	}
	tbl2, err := s2.Df(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl2.Len() != tbl.Len() {
		t.Fatalf("roundtrip rows %d != %d", tbl2.Len(), tbl.Len())
	}
	if got := tbl2.Floats("FOPT"); got[1] != 1000 {
		t.Errorf("FOPT after roundtrip = %v", got)
	}
	if got := tbl2.Strings("DATE"); got[1] != "2020-02-01" {
		t.Errorf("DATE after roundtrip = %v", got)
	}
}
