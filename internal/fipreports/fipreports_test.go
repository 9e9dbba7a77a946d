package fipreports

import (
	"errors"
	"math"
	"testing"
)

const eclReport = `
  REPORT   1     1 FEB 2001
                                                =================================
                                                : FIPNUM  REPORT REGION    2    :
                                                :     PAV =        139.76  BARSA:
                                                :     PORV=     27777509.   RM3 :
                           :--------------- OIL    SM3  ---------------:-- WAT    SM3  -:--------------- GAS    SM3  ---------------:
                           :     LIQUID         VAPOUR         TOTAL   :       TOTAL    :       FREE      DISSOLVED         TOTAL   :
 :-------------------------:------------------------------------------:----------------:--------------------------------------------:
 :CURRENTLY IN PLACE       :    10656981.                    10656981.:       59957809.:      3960.           40715033.   40718993.:
 :-------------------------:------------------------------------------:----------------:--------------------------------------------:
 :OUTFLOW TO REGION   3    :      107038.                      107038.:        2731664.:       100.             412107.     412207.:
 :OUTFLOW THROUGH WELLS    :                                        0.:              0.:                                          0.:
 :ORIGINALLY IN PLACE      :    10760019.                    10760019.:       62689473.:      4060.           41127140.   41131200.:
 ====================================================================================================================================
`

const opmReport = `
Report step  2/ 12 at day 59/365, date = 01-Mar-2001
                                                =================================
                                                : FIPZON  REPORT REGION    1    :
 :-------------------------:------------------------------------------:----------------:--------------------------------------------:
 :CURRENTLY IN PLACE       :     500000.        1000.       501000.:        2000000.:      3000.            4000.        7000.:
 ====================================================================================================================================
`

func TestEclipseReport(t *testing.T) {
	tbl, err := ParseString(eclReport)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 4 {
		t.Fatalf("expected 4 data rows, got %d", tbl.Len())
	}
	if got := tbl.Strings("DATE"); got[0] != "2001-02-01" {
		t.Errorf("DATE = %v", got)
	}
	if got := tbl.Strings("FIPNAME"); got[0] != "FIPNUM" {
		t.Errorf("FIPNAME = %v", got)
	}
	if got := tbl.Floats("REGION"); got[0] != 2 {
		t.Errorf("REGION = %v", got)
	}
	if got := tbl.Strings("DATATYPE"); got[0] != "CURRENTLY IN PLACE" {
		t.Errorf("DATATYPE = %v", got)
	}
	// two oil numbers mean liquid and total, vapour missing
	if got := tbl.Floats("STOIIP_OIL"); got[0] != 10656981 {
		t.Errorf("STOIIP_OIL = %v", got)
	}
	if got := tbl.Floats("ASSOCIATEDOIL_GAS"); !math.IsNaN(got[0]) {
		t.Errorf("ASSOCIATEDOIL_GAS = %v", got)
	}
	if got := tbl.Floats("STOIIP_TOTAL"); got[0] != 10656981 {
		t.Errorf("STOIIP_TOTAL = %v", got)
	}
	if got := tbl.Floats("WIIP_TOTAL"); got[0] != 59957809 {
		t.Errorf("WIIP_TOTAL = %v", got)
	}
	if got := tbl.Floats("GIIP_GAS"); got[0] != 3960 {
		t.Errorf("GIIP_GAS = %v", got)
	}
	if got := tbl.Floats("GIIP_TOTAL"); got[0] != 40718993 {
		t.Errorf("GIIP_TOTAL = %v", got)
	}
}

func TestOutflowToRegion(t *testing.T) {
	tbl, err := ParseString(eclReport)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Strings("DATATYPE"); got[1] != "OUTFLOW TO REGION" {
		t.Errorf("DATATYPE = %v", got)
	}
	if got := tbl.Floats("TO_REGION"); got[1] != 3 {
		t.Errorf("TO_REGION = %v", got)
	}
	// the wells row carries only section totals
	if got := tbl.Floats("STOIIP_TOTAL"); got[2] != 0 {
		t.Errorf("STOIIP_TOTAL = %v", got)
	}
}

func TestOpmFlowDate(t *testing.T) {
	tbl, err := ParseString(opmReport)
	if err != nil {
		t.Fatal(err)
	}
	if got := tbl.Strings("DATE"); got[0] != "2001-03-01" {
		t.Errorf("DATE = %v", got)
	}
	if got := tbl.Strings("FIPNAME"); got[0] != "FIPZON" {
		t.Errorf("FIPNAME = %v", got)
	}
	// three numbers per section fill all columns
	if got := tbl.Floats("ASSOCIATEDOIL_GAS"); got[0] != 1000 {
		t.Errorf("ASSOCIATEDOIL_GAS = %v", got)
	}
	if got := tbl.Floats("ASSOCIATEDGAS_OIL"); got[0] != 4000 {
		t.Errorf("ASSOCIATEDGAS_OIL = %v", got)
	}
}

func TestNoReports(t *testing.T) {
	if _, err := ParseString("nothing here\n"); !errors.Is(err, ErrNoReports) {
		t.Errorf("expected ErrNoReports, got %v", err)
	}
}
