// Package rft extracts formation test data: one row per well connection
// per survey date, with segment data merged in for multi-segment wells.
package rft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/resfiles"
)

// ErrBadReport means a survey report misses its date or well arrays.
var ErrBadReport = errors.New("malformed RFT report")

// connArrays are the plain per-connection arrays of a pressure survey.
var connArrays = map[string]bool{
	"DEPTH": true, "PRESSURE": true, "SWAT": true, "SGAS": true,
}

// report holds the arrays of one well at one survey date.
type report struct {
	date time.Time
	well string

	con map[string][]float64
	seg map[string][]float64

	consegno []int
	segbrno  []int
	segnxt   []int
}

// Df extracts all surveys of a case.
func Df(c *resfiles.Case) (*frame.Table, error) {
	f, err := c.RFT()
	if err != nil {
		return nil, err
	}
	reports, err := splitReports(f)
	if err != nil {
		return nil, err
	}
	tbl := frame.New("DATE", "WELL", "CONIPOS", "CONJPOS", "CONKPOS",
		"DEPTH", "PRESSURE", "SWAT", "SGAS")
	for _, r := range reports {
		appendReport(tbl, r)
	}
	tbl.DropMissingColumns()
	return tbl, nil
}

// splitReports cuts the file at its TIME arrays, which start each
// survey.
func splitReports(f *resfile.File) ([]*report, error) {
	var reports []*report
	var current *report
	for _, kw := range f.Keywords() {
		if kw.Name == "TIME" {
			current = &report{
				con: map[string][]float64{},
				seg: map[string][]float64{},
			}
			reports = append(reports, current)
			continue
		}
		if current == nil {
			continue
		}
		switch {
		case kw.Name == "DATE":
			vals, err := kw.Ints()
			if err != nil || len(vals) < 3 {
				return nil, fmt.Errorf("%w: DATE array", ErrBadReport)
			}
			current.date = time.Date(vals[2], time.Month(vals[1]), vals[0],
				0, 0, 0, 0, time.UTC)
		case kw.Name == "WELLETC":
			vals, err := kw.Strings()
			if err != nil || len(vals) < 2 {
				return nil, fmt.Errorf("%w: WELLETC array", ErrBadReport)
			}
			current.well = vals[1]
		case kw.Name == "CONSEGNO":
			if vals, err := kw.Ints(); err == nil {
				current.consegno = vals
			}
		case kw.Name == "SEGBRNO":
			if vals, err := kw.Ints(); err == nil {
				current.segbrno = vals
			}
		case kw.Name == "SEGNXT":
			if vals, err := kw.Ints(); err == nil {
				current.segnxt = vals
			}
		case strings.HasPrefix(kw.Name, "CON") || connArrays[kw.Name]:
			if vals, err := kw.Floats(); err == nil {
				current.con[kw.Name] = vals
			}
		case strings.HasPrefix(kw.Name, "SEG"):
			if vals, err := kw.Floats(); err == nil {
				current.seg[kw.Name] = vals
			}
		}
	}
	for _, r := range reports {
		if r.well == "" || r.date.IsZero() {
			return nil, fmt.Errorf("%w: missing WELLETC or DATE", ErrBadReport)
		}
	}
	return reports, nil
}

func appendReport(tbl *frame.Table, r *report) {
	nconn := 0
	for _, vals := range r.con {
		if len(vals) > nconn {
			nconn = len(vals)
		}
	}
	branchSize := map[int]int{}
	for _, b := range r.segbrno {
		branchSize[b]++
	}
	for conn := 0; conn < nconn; conn++ {
		row := map[string]any{
			"DATE": r.date,
			"WELL": r.well,
		}
		for name, vals := range r.con {
			if conn < len(vals) {
				row[name] = vals[conn]
			}
		}
		if r.consegno != nil && conn < len(r.consegno) {
			mergeSegment(row, r, branchSize, r.consegno[conn])
		}
		tbl.Append(row)
	}
}

// mergeSegment attaches segment arrays onto a connection row. A
// connection pointing at a single-segment branch sits behind an inflow
// control device: that segment's data comes in under an ICD_ prefix and
// the wellbore segment it feeds into supplies the SEG columns.
func mergeSegment(row map[string]any, r *report, branchSize map[int]int, segno int) {
	idx := segno - 1
	if idx < 0 || idx >= len(r.segbrno) {
		return
	}
	if branchSize[r.segbrno[idx]] == 1 {
		copySegment(row, r, idx, "ICD_")
		if idx < len(r.segnxt) {
			if next := r.segnxt[idx] - 1; next >= 0 && next < len(r.segbrno) {
				copySegment(row, r, next, "")
			}
		}
		return
	}
	copySegment(row, r, idx, "")
}

func copySegment(row map[string]any, r *report, idx int, prefix string) {
	for name, vals := range r.seg {
		if idx < len(vals) {
			row[prefix+name] = vals[idx]
		}
	}
	row[prefix+"SEGBRNO"] = r.segbrno[idx]
}
