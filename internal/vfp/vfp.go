// Package vfp extracts vertical flow performance tables (VFPPROD,
// VFPINJ) into one row per tabulated point, carrying the table's basic
// metadata and the axis values each point interpolates between.
package vfp

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/inc"
)

// ErrMalformedTable means a VFP keyword's records do not form a
// consistent table.
var ErrMalformedTable = errors.New("malformed VFP table")

// Keywords lists the supported table keywords.
var Keywords = []string{"VFPPROD", "VFPINJ"}

// Table is one parsed VFP table.
type Table struct {
	Keyword     string
	TableNumber int
	Datum       float64
	RateType    string
	WFRType     string // VFPPROD only
	GFRType     string // VFPPROD only
	THPType     string
	ALQType     string // VFPPROD only
	UnitType    string
	TabType     string

	FlowValues []float64
	THPValues  []float64
	WFRValues  []float64
	GFRValues  []float64
	ALQValues  []float64

	// Tab[point] follows the body record order: one entry per
	// (THP, WFR, GFR, ALQ, flow) combination.
	points []point
}

type point struct {
	rate, thp, wfr, gfr, alq, tab float64
}

// Tables parses every VFP table in the deck.
func Tables(d *deck.Deck, keywords ...string) ([]*Table, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	var out []*Table
	for _, name := range keywords {
		for _, kw := range d.ByName(name) {
			tab, err := parseTable(kw)
			if err != nil {
				return nil, err
			}
			out = append(out, tab)
		}
	}
	return out, nil
}

// Df returns all tables concatenated, one row per tabulated point.
func Df(d *deck.Deck, keywords ...string) (*frame.Table, error) {
	tables, err := Tables(d, keywords...)
	if err != nil {
		return nil, err
	}
	tbl := frame.New("KEYWORD", "TABLE_NUMBER", "DATUM",
		"RATE_TYPE", "THP_TYPE", "UNIT_TYPE", "TAB_TYPE",
		"RATE", "THP", "TAB")
	for _, vt := range tables {
		vt.appendRows(tbl)
	}
	return tbl, nil
}

func (t *Table) appendRows(tbl *frame.Table) {
	for _, p := range t.points {
		row := map[string]any{
			"KEYWORD": t.Keyword, "TABLE_NUMBER": t.TableNumber,
			"DATUM": t.Datum, "RATE_TYPE": t.RateType,
			"THP_TYPE": t.THPType, "UNIT_TYPE": t.UnitType,
			"TAB_TYPE": t.TabType,
			"RATE":     p.rate, "THP": p.thp, "TAB": p.tab,
		}
		if t.Keyword == "VFPPROD" {
			row["WFR_TYPE"] = t.WFRType
			row["GFR_TYPE"] = t.GFRType
			row["ALQ_TYPE"] = t.ALQType
			row["WFR"] = p.wfr
			row["GFR"] = p.gfr
			row["ALQ"] = p.alq
		}
		tbl.Append(row)
	}
}

func parseTable(kw deck.Keyword) (*Table, error) {
	var recs []deck.Record
	for _, rec := range kw.Records {
		if !rec.Empty() {
			recs = append(recs, rec)
		}
	}
	minAxes := 2
	if kw.Name == "VFPPROD" {
		minAxes = 5
	}
	if len(recs) < 1+minAxes {
		return nil, fmt.Errorf("%s: %w: only %d records", kw.Name, ErrMalformedTable, len(recs))
	}
	t := &Table{Keyword: kw.Name}
	if err := t.parseBasic(recs[0]); err != nil {
		return nil, err
	}

	axes := recs[1 : 1+minAxes]
	var err error
	if t.FlowValues, err = axes[0].Floats(); err != nil {
		return nil, err
	}
	if t.THPValues, err = axes[1].Floats(); err != nil {
		return nil, err
	}
	if kw.Name == "VFPPROD" {
		if t.WFRValues, err = axes[2].Floats(); err != nil {
			return nil, err
		}
		if t.GFRValues, err = axes[3].Floats(); err != nil {
			return nil, err
		}
		if t.ALQValues, err = axes[4].Floats(); err != nil {
			return nil, err
		}
	} else {
		t.WFRValues = []float64{0}
		t.GFRValues = []float64{0}
		t.ALQValues = []float64{0}
	}

	for _, rec := range recs[1+minAxes:] {
		if err := t.parseBody(rec); err != nil {
			return nil, err
		}
	}
	want := len(t.THPValues) * len(t.WFRValues) * len(t.GFRValues) *
		len(t.ALQValues) * len(t.FlowValues)
	if len(t.points) != want {
		return nil, fmt.Errorf("%s table %d: %w: %d points, expected %d",
			kw.Name, t.TableNumber, ErrMalformedTable, len(t.points), want)
	}
	return t, nil
}

// parseBasic reads the leading metadata record.
func (t *Table) parseBasic(rec deck.Record) error {
	items := rec.Strings()
	get := func(idx int) string {
		if idx < len(items) {
			return items[idx]
		}
		return ""
	}
	num, err := strconv.Atoi(get(0))
	if err != nil {
		return fmt.Errorf("%s: %w: table number %q", t.Keyword, ErrMalformedTable, get(0))
	}
	t.TableNumber = num
	if t.Datum, err = strconv.ParseFloat(get(1), 64); err != nil {
		return fmt.Errorf("%s table %d: %w: datum %q", t.Keyword, num, ErrMalformedTable, get(1))
	}
	t.RateType = get(2)
	if t.Keyword == "VFPPROD" {
		t.WFRType = get(3)
		t.GFRType = get(4)
		t.THPType = orDefault(get(5), "THP")
		t.ALQType = get(6)
		t.UnitType = get(7)
		t.TabType = orDefault(get(8), "BHP")
	} else {
		t.THPType = orDefault(get(3), "THP")
		t.UnitType = get(4)
		t.TabType = orDefault(get(5), "BHP")
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// parseBody reads one body record: the axis indices, then one tabulated
// value per flow axis point.
func (t *Table) parseBody(rec deck.Record) error {
	vals, err := rec.Floats()
	if err != nil {
		return err
	}
	nidx := 1
	if t.Keyword == "VFPPROD" {
		nidx = 4
	}
	if len(vals) != nidx+len(t.FlowValues) {
		return fmt.Errorf("%s table %d: %w: body record of %d values",
			t.Keyword, t.TableNumber, ErrMalformedTable, len(vals))
	}
	idx := func(pos int, axis []float64) (float64, error) {
		n := int(vals[pos])
		if n < 1 || n > len(axis) {
			return 0, fmt.Errorf("%s table %d: %w: axis index %d",
				t.Keyword, t.TableNumber, ErrMalformedTable, n)
		}
		return axis[n-1], nil
	}
	thp, err := idx(0, t.THPValues)
	if err != nil {
		return err
	}
	wfr, gfr, alq := 0.0, 0.0, 0.0
	if t.Keyword == "VFPPROD" {
		if wfr, err = idx(1, t.WFRValues); err != nil {
			return err
		}
		if gfr, err = idx(2, t.GFRValues); err != nil {
			return err
		}
		if alq, err = idx(3, t.ALQValues); err != nil {
			return err
		}
	}
	for i, rate := range t.FlowValues {
		t.points = append(t.points, point{
			rate: rate, thp: thp, wfr: wfr, gfr: gfr, alq: alq,
			tab: vals[nidx+i],
		})
	}
	return nil
}

// FromDf reconstructs tables from the row-per-point layout produced by
// Df, grouping on KEYWORD and TABLE_NUMBER. Rows must keep their
// original order so the body records come out as they went in.
func FromDf(tbl *frame.Table) ([]*Table, error) {
	var out []*Table
	byNumber := map[string]*Table{}
	for i := 0; i < tbl.Len(); i++ {
		row := tbl.Row(i)
		keyword, _ := row["KEYWORD"].(string)
		num, ok := numeric(row["TABLE_NUMBER"])
		if keyword == "" || !ok {
			return nil, fmt.Errorf("row %d: %w: missing KEYWORD or TABLE_NUMBER", i, ErrMalformedTable)
		}
		key := fmt.Sprintf("%s-%d", keyword, int(num))
		t := byNumber[key]
		if t == nil {
			t = &Table{
				Keyword:     keyword,
				TableNumber: int(num),
				RateType:    str(row, "RATE_TYPE"),
				WFRType:     str(row, "WFR_TYPE"),
				GFRType:     str(row, "GFR_TYPE"),
				THPType:     str(row, "THP_TYPE"),
				ALQType:     str(row, "ALQ_TYPE"),
				UnitType:    str(row, "UNIT_TYPE"),
				TabType:     str(row, "TAB_TYPE"),
			}
			t.Datum, _ = numeric(row["DATUM"])
			byNumber[key] = t
			out = append(out, t)
		}
		var p point
		var pok bool
		if p.rate, pok = numeric(row["RATE"]); !pok {
			return nil, fmt.Errorf("row %d: %w: missing RATE", i, ErrMalformedTable)
		}
		if p.thp, pok = numeric(row["THP"]); !pok {
			return nil, fmt.Errorf("row %d: %w: missing THP", i, ErrMalformedTable)
		}
		if p.tab, pok = numeric(row["TAB"]); !pok {
			return nil, fmt.Errorf("row %d: %w: missing TAB", i, ErrMalformedTable)
		}
		if keyword == "VFPPROD" {
			p.wfr, _ = numeric(row["WFR"])
			p.gfr, _ = numeric(row["GFR"])
			p.alq, _ = numeric(row["ALQ"])
		}
		t.points = append(t.points, p)
		t.FlowValues = appendUnique(t.FlowValues, p.rate)
		t.THPValues = appendUnique(t.THPValues, p.thp)
		t.WFRValues = appendUnique(t.WFRValues, p.wfr)
		t.GFRValues = appendUnique(t.GFRValues, p.gfr)
		t.ALQValues = appendUnique(t.ALQValues, p.alq)
	}
	return out, nil
}

func str(row map[string]any, name string) string {
	s, _ := row[name].(string)
	return s
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

func appendUnique(axis []float64, v float64) []float64 {
	for _, a := range axis {
		if a == v {
			return axis
		}
	}
	return append(axis, v)
}

// ToInclude renders parsed tables back to include-file text.
func ToInclude(tables []*Table) string {
	var b inc.Builder
	b.FileHeader("csv2res vfp")
	for _, t := range tables {
		t.emit(&b)
	}
	return b.String()
}

func (t *Table) emit(b *inc.Builder) {
	b.Keyword(t.Keyword)
	if t.Keyword == "VFPPROD" {
		b.Record(inc.Int(t.TableNumber), inc.Num(t.Datum),
			inc.Str(t.RateType), inc.Str(t.WFRType), inc.Str(t.GFRType),
			inc.Str(t.THPType), inc.Str(t.ALQType), inc.Str(t.UnitType),
			inc.Str(t.TabType))
	} else {
		b.Record(inc.Int(t.TableNumber), inc.Num(t.Datum),
			inc.Str(t.RateType), inc.Str(t.THPType), inc.Str(t.UnitType),
			inc.Str(t.TabType))
	}
	b.Record(nums(t.FlowValues)...)
	b.Record(nums(t.THPValues)...)
	if t.Keyword == "VFPPROD" {
		b.Record(nums(t.WFRValues)...)
		b.Record(nums(t.GFRValues)...)
		b.Record(nums(t.ALQValues)...)
	}
	nflo := len(t.FlowValues)
	for start := 0; start < len(t.points); start += nflo {
		p := t.points[start]
		cells := []string{inc.Int(indexOf(t.THPValues, p.thp))}
		if t.Keyword == "VFPPROD" {
			cells = append(cells,
				inc.Int(indexOf(t.WFRValues, p.wfr)),
				inc.Int(indexOf(t.GFRValues, p.gfr)),
				inc.Int(indexOf(t.ALQValues, p.alq)))
		}
		for i := 0; i < nflo; i++ {
			cells = append(cells, inc.Num(t.points[start+i].tab))
		}
		b.Record(cells...)
	}
	b.Blank()
}

func nums(vals []float64) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = inc.Num(v)
	}
	return out
}

func indexOf(axis []float64, v float64) int {
	for i, a := range axis {
		if a == v {
			return i + 1
		}
	}
	return 1
}
