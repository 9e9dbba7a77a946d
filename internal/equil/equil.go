// Package equil extracts initialization data from the SOLUTION section:
// the EQUIL contact records and the depth-versus-composition tables
// RSVD, RVVD, PBVD and PDVD, one row per tabulated point, tagged with
// KEYWORD and EQLNUM.
package equil

import (
	"errors"
	"fmt"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/inc"
	"github.com/equinor/res2df/internal/inferdims"
)

// ErrNoPhases means the deck declares no usable phase configuration.
var ErrNoPhases = errors.New("no phase configuration in deck")

// Keywords lists what this extractor understands, in emission order.
var Keywords = []string{"EQUIL", "RSVD", "RVVD", "PBVD", "PDVD"}

// vectorColumn names the value column of each depth table.
var vectorColumn = map[string]string{
	"RSVD": "RS", "RVVD": "RV", "PBVD": "PB", "PDVD": "PD",
}

// PhaseConfig classifies the deck's active phases, which decides how the
// EQUIL contact items are named.
func PhaseConfig(d *deck.Deck) (string, error) {
	oil, water, gas := d.Has("OIL"), d.Has("WATER"), d.Has("GAS")
	switch {
	case oil && water && gas:
		return "oil-water-gas", nil
	case water && gas:
		return "gas-water", nil
	case oil && water:
		return "oil-water", nil
	case oil && gas:
		return "oil-gas", nil
	}
	return "", ErrNoPhases
}

// contactColumns maps the raw EQUIL items to the column names of each
// phase configuration. The third and fourth items hold whichever contact
// the run actually has.
func contactColumns(phases string) map[string]string {
	switch phases {
	case "gas-water":
		return map[string]string{"OWC": "GWC", "PC_OWC": "PC_GWC"}
	case "oil-gas":
		return map[string]string{"OWC": "GOC", "PC_OWC": "PC_GOC"}
	default:
		return map[string]string{"OWC": "OWC", "PC_OWC": "PC_OWC"}
	}
}

// Df extracts the requested keywords (all of Keywords when empty) into
// one table.
func Df(d *deck.Deck, keywords ...string) (*frame.Table, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	tbl := frame.New("KEYWORD", "EQLNUM")
	for _, name := range keywords {
		switch name {
		case "EQUIL":
			if err := appendEquil(tbl, d); err != nil {
				return nil, err
			}
		case "RSVD", "RVVD", "PBVD", "PDVD":
			if err := appendDepthTables(tbl, d, name); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported equil keyword %q", name)
		}
	}
	return tbl, nil
}

func appendEquil(tbl *frame.Table, d *deck.Deck) error {
	kw, ok := d.First("EQUIL")
	if !ok {
		return nil
	}
	phases, err := PhaseConfig(d)
	if err != nil {
		// Standalone include files carry no RUNSPEC; assume the full
		// three-phase layout.
		phases = "oil-water-gas"
	}
	contacts := contactColumns(phases)
	eqlnum := 0
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		eqlnum++
		f := kw.Fields(rec)
		row := map[string]any{"KEYWORD": "EQUIL", "EQLNUM": eqlnum}
		for _, item := range []string{"DATUM_DEPTH", "DATUM_PRESSURE", "OWC", "PC_OWC"} {
			v, err := f.Float(item)
			if err != nil {
				return err
			}
			name := item
			if renamed, ok := contacts[item]; ok {
				name = renamed
			}
			row[name] = v
		}
		if phases == "oil-water-gas" {
			for _, item := range []string{"GOC", "PC_GOC"} {
				v, err := f.Float(item)
				if err != nil {
					return err
				}
				row[item] = v
			}
		}
		for _, item := range []string{"BLACK_OIL_INIT", "BLACK_OIL_INIT_WG", "OIP_INIT"} {
			v, err := f.Int(item)
			if err != nil {
				return err
			}
			row[item] = v
		}
		tbl.Append(row)
	}
	return nil
}

// appendDepthTables unrolls RSVD-style records: one region per record,
// alternating depth and value.
func appendDepthTables(tbl *frame.Table, d *deck.Deck, name string) error {
	col := vectorColumn[name]
	for _, kw := range d.ByName(name) {
		eqlnum := 0
		for _, rec := range kw.Records {
			if rec.Empty() {
				continue
			}
			eqlnum++
			vals, err := rec.Floats()
			if err != nil {
				return fmt.Errorf("%s region %d: %w", name, eqlnum, err)
			}
			if len(vals)%2 != 0 {
				return fmt.Errorf("%s region %d: %w: odd value count %d",
					name, eqlnum, deck.ErrMalformedRecord, len(vals))
			}
			for i := 0; i < len(vals); i += 2 {
				tbl.Append(map[string]any{
					"KEYWORD": name, "EQLNUM": eqlnum,
					"Z": vals[i], col: vals[i+1],
				})
			}
		}
	}
	return nil
}

// NTEQUL reports the equilibration region count of a deck.
func NTEQUL(d *deck.Deck) int {
	return inferdims.NTEQUL(d)
}

// ToInclude renders a table from Df back to include-file text for the
// selected keywords (all present ones when empty).
func ToInclude(tbl *frame.Table, keywords ...string) (string, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	present := make(map[string]bool)
	for _, v := range tbl.Strings("KEYWORD") {
		present[v] = true
	}
	var b inc.Builder
	b.FileHeader("csv2res equil")
	for _, name := range keywords {
		if !present[name] {
			continue
		}
		if name == "EQUIL" {
			emitEquil(&b, tbl)
		} else {
			emitDepthTable(&b, tbl, name)
		}
	}
	return b.String(), nil
}

func emitEquil(b *inc.Builder, tbl *frame.Table) {
	columns := equilEmitColumns(tbl)
	b.Keyword("EQUIL", columns...)
	kws := tbl.Strings("KEYWORD")
	for i := 0; i < tbl.Len(); i++ {
		if kws[i] != "EQUIL" {
			continue
		}
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = inc.Num(tbl.Floats(col)[i])
		}
		b.Record(cells...)
	}
	b.Blank()
}

// equilEmitColumns orders the table columns to match the EQUIL item
// layout: the run's main contact sits in items 3-4, a three-phase run's
// gas contact in items 5-6.
func equilEmitColumns(tbl *frame.Table) []string {
	out := []string{"DATUM_DEPTH", "DATUM_PRESSURE"}
	switch {
	case tbl.Has("OWC"):
		out = append(out, "OWC", "PC_OWC")
		if tbl.Has("GOC") {
			out = append(out, "GOC", "PC_GOC")
		}
	case tbl.Has("GWC"):
		out = append(out, "GWC", "PC_GWC")
	case tbl.Has("GOC"):
		out = append(out, "GOC", "PC_GOC")
	}
	for _, col := range []string{"BLACK_OIL_INIT", "BLACK_OIL_INIT_WG", "OIP_INIT"} {
		if tbl.Has(col) {
			out = append(out, col)
		}
	}
	return out
}

func emitDepthTable(b *inc.Builder, tbl *frame.Table, name string) {
	col := vectorColumn[name]
	b.Keyword(name, "Z", col)
	kws := tbl.Strings("KEYWORD")
	eqlnums := tbl.Floats("EQLNUM")
	zs := tbl.Floats("Z")
	vals := tbl.Floats(col)
	current := -1.0
	opened := false
	for i := 0; i < tbl.Len(); i++ {
		if kws[i] != name {
			continue
		}
		if opened && eqlnums[i] != current {
			b.Slash()
		}
		current = eqlnums[i]
		opened = true
		b.Row(inc.Num(zs[i]), inc.Num(vals[i]))
	}
	if opened {
		b.Slash()
	}
	b.Blank()
}
