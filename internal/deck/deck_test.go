package deck

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleDeck = `
RUNSPEC

-- a keyword the catalogue does not know, with records
SWATINIT
  0.1 0.2 0.3 /

START
  1 'JLY' 2020 /

SCHEDULE

WELSPECS
  'OP1' 'OPS' 33 110 1800 'OIL' /
/

DATES
  1 JAN 2021 /
  2 FEB 2021 /
/

COMPDAT
  'OP1' 33 110 31 37 'OPEN' 1* 2708 0.311 /
  'OP1' 2* 39 39 /
/
`

func TestParseDeck(t *testing.T) {
	d, err := Parse(sampleDeck)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if d.Has("SWATINIT") {
		t.Errorf("uncatalogued keyword should have been skipped")
	}

	start, ok := d.StartDate()
	if !ok {
		t.Fatal("no START date found")
	}
	if start != time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("JLY should map to July, got %v", start)
	}

	dates := d.ByName("DATES")
	if len(dates) != 1 || len(dates[0].Records) != 2 {
		t.Fatalf("expected one DATES keyword with two records, got %+v", dates)
	}
	second, err := ParseDateRecord(dates[0], dates[0].Records[1])
	if err != nil {
		t.Fatal(err)
	}
	if second.Month() != time.February || second.Day() != 2 {
		t.Errorf("expected 2 FEB, got %v", second)
	}

	compdat, ok := d.First("COMPDAT")
	if !ok {
		t.Fatal("COMPDAT not parsed")
	}
	if len(compdat.Records) != 2 {
		t.Fatalf("expected 2 COMPDAT records, got %d", len(compdat.Records))
	}

	fields := compdat.Fields(compdat.Records[0])
	if got := fields.Str("WELL"); got != "OP1" {
		t.Errorf("WELL = %q", got)
	}
	k1, err := fields.Int("K1")
	if err != nil || k1 != 31 {
		t.Errorf("K1 = %d, err %v", k1, err)
	}
	if !fields.Defaulted("SATN") {
		t.Error("SATN given as 1* should be defaulted")
	}
	if satn, _ := fields.Int("SATN"); satn != 0 {
		t.Errorf("defaulted SATN should fall back to 0, got %d", satn)
	}
	tran, err := fields.Float("TRAN")
	if err != nil || tran != 2708 {
		t.Errorf("TRAN = %v, err %v", tran, err)
	}
	kh, err := fields.Float("KH")
	if err != nil || !math.IsNaN(kh) {
		t.Errorf("KH with no schema default should be NaN, got %v", kh)
	}
	if got := fields.Str("OP/SH"); got != "OPEN" {
		t.Errorf("OP/SH = %q", got)
	}

	// Second record: 2* expands to two defaulted items (I and J), the
	// trailing items past the record fall back to schema defaults too.
	fields = compdat.Fields(compdat.Records[1])
	if !fields.Defaulted("I") || !fields.Defaulted("J") {
		t.Error("2* should default both I and J")
	}
	if got := fields.Str("DIR"); got != "Z" {
		t.Errorf("missing DIR should default to Z, got %q", got)
	}
}

func TestParseTables(t *testing.T) {
	input := `
EQUIL
 2469 382.4 1700 /
 2469 382.4 1000 /

RSVD
 1500 184
 4000 184 /
 1500 0.1
 4000 0.1 /

SWOF
 0.1 0 1 0.9
 0.9 0.8 0 0.1 /
`
	d, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	equil, _ := d.First("EQUIL")
	if len(equil.Records) != 2 {
		t.Fatalf("expected 2 EQUIL records, got %d", len(equil.Records))
	}
	f := equil.Fields(equil.Records[1])
	if owc, _ := f.Float("OWC"); owc != 1000 {
		t.Errorf("OWC = %v", owc)
	}

	rsvd, _ := d.First("RSVD")
	if len(rsvd.Records) != 2 {
		t.Fatalf("expected 2 RSVD tables, got %d", len(rsvd.Records))
	}
	vals, err := rsvd.Records[0].Floats()
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 4 || vals[3] != 184 {
		t.Errorf("RSVD table values = %v", vals)
	}

	swof, _ := d.First("SWOF")
	if len(swof.Records) != 1 {
		t.Fatalf("expected 1 SWOF table, got %d", len(swof.Records))
	}
}

func TestRegionSeparators(t *testing.T) {
	// PVTO regions end with a lone slash, and the keyword itself ends
	// with one more.
	input := `
PVTO
  50 100 1.2 1.1
     200 1.19 1.15 /
  80 150 1.3 1.05 /
/
OIL
`
	d, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	pvto, ok := d.First("PVTO")
	if !ok {
		t.Fatal("PVTO not parsed")
	}
	// Two region tables plus the terminating empty record.
	if len(pvto.Records) != 3 || !pvto.Records[2].Empty() {
		t.Fatalf("PVTO records = %+v", pvto.Records)
	}
	if !d.Has("OIL") {
		t.Error("keyword after table keyword lost")
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	inner := filepath.Join(dir, "schedule.inc")
	if err := os.WriteFile(inner, []byte("DATES\n 1 JAN 2022 /\n/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outer := filepath.Join(dir, "CASE.DATA")
	deckText := "START\n 1 JAN 2020 /\nINCLUDE\n 'schedule.inc' /\n"
	if err := os.WriteFile(outer, []byte(deckText), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := ParseFile(outer)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Has("DATES") {
		t.Error("INCLUDE content not spliced")
	}
}

func TestUnterminatedRecord(t *testing.T) {
	_, err := Parse("COMPDAT\n 'OP1' 1 1 1 1\n")
	if !errors.Is(err, ErrUnterminatedRecord) {
		t.Errorf("expected ErrUnterminatedRecord, got %v", err)
	}
}

func TestFortranFloats(t *testing.T) {
	v, err := parseDeckFloat("1.5D-3")
	if err != nil || v != 0.0015 {
		t.Errorf("1.5D-3 = %v, err %v", v, err)
	}
}

func TestMatchesWell(t *testing.T) {
	cases := []struct {
		pattern, well string
		want          bool
	}{
		{"OP1", "OP1", true},
		{"OP*", "OP2", true},
		{"OP*", "WI1", false},
		{"*OP", "OP1", false}, // well-list reference, not a wildcard
	}
	for _, tc := range cases {
		if got := MatchesWell(tc.pattern, tc.well); got != tc.want {
			t.Errorf("MatchesWell(%q, %q) = %v", tc.pattern, tc.well, got)
		}
	}
}
