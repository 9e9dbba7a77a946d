package pvt

import (
	"testing"

	"github.com/equinor/res2df/internal/deck"
)

const pvtoDeck = `
PVTO
  50 100 1.2 1.1
     200 1.19 1.15 /
  80 150 1.3 1.05 /
/
  60 120 1.25 1.08 /
/
`

func TestPvtoExpansion(t *testing.T) {
	d, err := deck.Parse(pvtoDeck)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d, "PVTO")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", tbl.Len())
	}
	rs := tbl.Floats("RS")
	if rs[0] != 50 || rs[1] != 50 || rs[2] != 80 {
		t.Errorf("RS = %v", rs)
	}
	pvtnums := tbl.Floats("PVTNUM")
	if pvtnums[2] != 1 || pvtnums[3] != 2 {
		t.Errorf("PVTNUM = %v", pvtnums)
	}
	if p := tbl.Floats("PRESSURE"); p[1] != 200 {
		t.Errorf("PRESSURE = %v", p)
	}
	if n := NTPVT(d); n != 2 {
		t.Errorf("NTPVT = %d", n)
	}
}

func TestFlatKeywords(t *testing.T) {
	input := `
PVTW
 327.3 1.03 4.51E-005 0.25 /
 327.3 1.04 4.51E-005 0.25 /

DENSITY
 860 1033 0.773 /
`
	d, err := deck.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	if v := tbl.Floats("VOLUMEFACTOR"); v[1] != 1.04 {
		t.Errorf("VOLUMEFACTOR = %v", v)
	}
	if v := tbl.Floats("WATERDENSITY"); v[2] != 1033 {
		t.Errorf("WATERDENSITY = %v", v)
	}
}

func TestRoundtrip(t *testing.T) {
	d, err := deck.Parse(pvtoDeck)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d, "PVTO")
	if err != nil {
		t.Fatal(err)
	}
	text, err := ToInclude(tbl, "PVTO")
	if err != nil {
		t.Fatal(err)
	}
	back, err := deck.Parse(text)
	if err != nil {
		t.Fatalf("emitted include does not parse:\n%s\n%v", text, err)
	}
	tbl2, err := Df(back, "PVTO")
	if err != nil {
		t.Fatal(err)
	}
	if tbl2.Len() != tbl.Len() {
		t.Fatalf("roundtrip rows %d != %d", tbl2.Len(), tbl.Len())
	}
	if rs := tbl2.Floats("RS"); rs[3] != 60 {
		t.Errorf("RS after roundtrip = %v", rs)
	}
	if p := tbl2.Floats("PRESSURE"); p[1] != 200 {
		t.Errorf("PRESSURE after roundtrip = %v", p)
	}
}
