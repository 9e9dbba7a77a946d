package gruptree

import (
	"strings"
	"testing"

	"github.com/equinor/res2df/internal/deck"
)

const networkDeck = `
START
 1 JAN 2020 /

SCHEDULE

GRUPTREE
 'OPS' 'FIELD' /
 'INJ' 'FIELD' /
/

WELSPECS
 'OP1' 'OPS' 10 10 1800 'OIL' /
/

DATES
 1 FEB 2020 /
/

GRUPTREE
 'OPS-SOUTH' 'OPS' /
/
`

func TestTreeSnapshots(t *testing.T) {
	d, err := deck.Parse(networkDeck)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	// snapshot 1: 2 group edges + 1 well edge; snapshot 2: 3 + 1
	if tbl.Len() != 7 {
		t.Fatalf("expected 7 rows, got %d", tbl.Len())
	}
	dates := tbl.Strings("DATE")
	if dates[0] != "2020-01-01" || dates[6] != "2020-02-01" {
		t.Errorf("DATE = %v", dates)
	}
	kws := tbl.Strings("KEYWORD")
	if kws[2] != "WELSPECS" {
		t.Errorf("KEYWORD order = %v", kws)
	}
	// second snapshot lists GRUPTREE children sorted: INJ, OPS, OPS-SOUTH
	childs := tbl.Strings("CHILD")
	if childs[5] != "OPS-SOUTH" {
		t.Errorf("CHILD = %v", childs)
	}
	parents := tbl.Strings("PARENT")
	if parents[5] != "OPS" {
		t.Errorf("PARENT = %v", parents)
	}
}

func TestNodeProperties(t *testing.T) {
	input := `
GRUPNET
 'FIELD' 90 /
 'OPS' 45 /
/

GRUPTREE
 'OPS' 'FIELD' /
/
`
	d, err := deck.Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.Has("TERMINAL_PRESSURE") {
		t.Fatalf("missing TERMINAL_PRESSURE column: %v", tbl.Names())
	}
	press := tbl.Floats("TERMINAL_PRESSURE")
	if tbl.Len() != 1 || press[0] != 45 {
		t.Errorf("OPS terminal pressure = %v", press)
	}
}

func TestPrettyPrint(t *testing.T) {
	d, err := deck.Parse(networkDeck)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := Df(d)
	if err != nil {
		t.Fatal(err)
	}
	out := PrettyPrint(tbl)
	if !strings.Contains(out, "FIELD") {
		t.Fatalf("tree output missing root:\n%s", out)
	}
	if !strings.Contains(out, "    OP1") {
		t.Errorf("well should be nested two levels deep:\n%s", out)
	}
}
