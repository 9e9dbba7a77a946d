package faults

import (
	"testing"

	"github.com/equinor/res2df/internal/deck"
)

func TestFaultsUnroll(t *testing.T) {
	input := `
FAULTS
 'F1' 5 5 10 12 1 2 'I' /
 'F2' 1 1 1 1 1 1 'J-' /
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
	// F1 covers 1 x 3 x 2 cells, F2 one cell
	if tbl.Len() != 7 {
		t.Fatalf("expected 7 rows, got %d", tbl.Len())
	}
	names := tbl.Strings("NAME")
	if names[6] != "F2" {
		t.Errorf("NAME = %v", names)
	}
	js := tbl.Floats("J")
	if js[0] != 10 || js[5] != 12 {
		t.Errorf("J = %v", js)
	}
	if faces := tbl.Strings("FACE"); faces[6] != "J-" {
		t.Errorf("FACE = %v", faces)
	}
}
