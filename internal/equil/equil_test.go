package equil

import (
	"strings"
	"testing"

	"github.com/equinor/res2df/internal/deck"
)

const threePhase = `
OIL
WATER
GAS

EQUIL
 2469 382.4 1700 0.0 500 0.0 1 1 0 /
 2469 382.4 1000 /
`

func TestEquilThreePhase(t *testing.T) {
	d, err := deck.Parse(threePhase)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 EQUIL rows, got %d", tbl.Len())
	}
	if got := tbl.Floats("OWC"); got[1] != 1000 {
		t.Errorf("OWC = %v", got)
	}
	if got := tbl.Floats("GOC"); got[0] != 500 {
		t.Errorf("GOC = %v", got)
	}
	if got := tbl.Floats("EQLNUM"); got[0] != 1 || got[1] != 2 {
		t.Errorf("EQLNUM = %v", got)
	}
}

func TestEquilGasWater(t *testing.T) {
	d, err := deck.Parse("WATER\nGAS\n\nEQUIL\n 2469 382.4 1700 /\n")
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.Has("GWC") || tbl.Has("OWC") {
		t.Errorf("gas-water run should name the contact GWC: %v", tbl.Names())
	}
	if tbl.Has("GOC") {
		t.Errorf("gas-water run has no GOC column: %v", tbl.Names())
	}
}

func TestDepthTables(t *testing.T) {
	input := `
RSVD
 1500 184
 4000 184 /
 1500 0.1
 4000 0.1 /
`
	d, err := deck.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d, "RSVD")
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", tbl.Len())
	}
	eqlnums := tbl.Floats("EQLNUM")
	if eqlnums[1] != 1 || eqlnums[2] != 2 {
		t.Errorf("EQLNUM = %v", eqlnums)
	}
	if rs := tbl.Floats("RS"); rs[3] != 0.1 {
		t.Errorf("RS = %v", rs)
	}
}

func TestRoundtrip(t *testing.T) {
	d, err := deck.Parse(threePhase + "\nRSVD\n 1500 184\n 4000 184 /\n")
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	text, err := ToInclude(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "EQUIL") || !strings.Contains(text, "RSVD") {
		t.Fatalf("include text missing keywords:\n%s", text)
	}

	back, err := deck.Parse(text)
	if err != nil {
		t.Fatalf("emitted include does not parse: %v", err)
	}
	tbl2, err := Df(back)
	if err != nil {
		t.Fatal(err)
	}
	if tbl2.Len() != tbl.Len() {
		t.Errorf("roundtrip row count %d != %d", tbl2.Len(), tbl.Len())
	}
	if got := tbl2.Floats("OWC"); got[1] != 1000 {
		t.Errorf("OWC after roundtrip = %v", got)
	}
}

func TestNTEQUL(t *testing.T) {
	d, err := deck.Parse("EQUIL\n 100 1 50 /\n 200 2 60 /\n 300 3 70 /\n")
	if err != nil {
		t.Fatal(err)
	}
	if n := NTEQUL(d); n != 3 {
		t.Errorf("NTEQUL = %d", n)
	}
}
