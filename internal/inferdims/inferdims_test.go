package inferdims

import (
	"testing"

	"github.com/equinor/res2df/internal/deck"
)

func TestDeclaredDims(t *testing.T) {
	d, err := deck.Parse(`
TABDIMS
 3 2 /
EQLDIMS
 4 /
SWOF
 0.1 0.0 1.0 2.0
 0.9 0.8 0.0 0.0 /
`)
	if err != nil {
		t.Fatal(err)
	}
	if n := NTSFUN(d); n != 3 {
		t.Errorf("NTSFUN = %d, want declared 3", n)
	}
	if n := NTPVT(d); n != 2 {
		t.Errorf("NTPVT = %d, want declared 2", n)
	}
	if n := NTEQUL(d); n != 4 {
		t.Errorf("NTEQUL = %d, want declared 4", n)
	}
}

func TestGuessedFromTables(t *testing.T) {
	d, err := deck.Parse(`
SWOF
 0.1 0.0 1.0 2.0
 0.9 0.8 0.0 0.0 /
 0.2 0.0 1.0 0.0
 1.0 1.0 0.0 0.0 /
EQUIL
 2000 200 2100 /
 2050 210 2200 /
 2080 220 2300 /
`)
	if err != nil {
		t.Fatal(err)
	}
	if n := NTSFUN(d); n != 2 {
		t.Errorf("NTSFUN = %d, want 2 SWOF tables", n)
	}
	if n := NTEQUL(d); n != 3 {
		t.Errorf("NTEQUL = %d, want 3 EQUIL records", n)
	}
}

func TestGuessedCompositional(t *testing.T) {
	// PVTO regions end with an empty record, not one record per region
	d, err := deck.Parse(`
PVTO
  50 100 1.2 1.1
     200 1.19 1.15 /
  80 150 1.3 1.05 /
/
  60 120 1.25 1.08 /
/
`)
	if err != nil {
		t.Fatal(err)
	}
	if n := NTPVT(d); n != 2 {
		t.Errorf("NTPVT = %d, want 2 PVTO regions", n)
	}
}

func TestEmptyDeckDefaultsToOne(t *testing.T) {
	d, err := deck.Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if n := NTSFUN(d); n != 1 {
		t.Errorf("NTSFUN = %d, want 1", n)
	}
}
