// Package pvt extracts fluid property tables into rows tagged with
// KEYWORD and PVTNUM. The compositional keywords PVTO and PVTG carry an
// outer quantity per record (solution gas-oil ratio, gas pressure) that
// is repeated over the record's inner tabulated points.
package pvt

import (
	"fmt"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/inc"
	"github.com/equinor/res2df/internal/inferdims"
)

// Keywords lists the supported keywords in emission order.
var Keywords = []string{
	"PVTO", "PVDO", "PVTG", "PVDG", "PVTW", "ROCK", "DENSITY",
}

// flatColumns names the columns of the non-compositional keywords.
var flatColumns = map[string][]string{
	"PVDO":    {"PRESSURE", "VOLUMEFACTOR", "VISCOSITY"},
	"PVDG":    {"PRESSURE", "VOLUMEFACTOR", "VISCOSITY"},
	"PVTW":    {"PRESSURE", "VOLUMEFACTOR", "COMPRESSIBILITY", "VISCOSITY", "VISCOSIBILITY"},
	"ROCK":    {"PRESSURE", "COMPRESSIBILITY"},
	"DENSITY": {"OILDENSITY", "WATERDENSITY", "GASDENSITY"},
}

// outerColumn names the per-record leading quantity of the
// compositional keywords; the inner columns follow in triples.
var outerColumn = map[string]string{"PVTO": "RS", "PVTG": "PRESSURE"}

var innerColumns = map[string][]string{
	"PVTO": {"PRESSURE", "VOLUMEFACTOR", "VISCOSITY"},
	"PVTG": {"OGR", "VOLUMEFACTOR", "VISCOSITY"},
}

// Df extracts the requested keywords (all when empty) into one table.
func Df(d *deck.Deck, keywords ...string) (*frame.Table, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	tbl := frame.New("KEYWORD", "PVTNUM")
	for _, name := range keywords {
		var err error
		switch {
		case outerColumn[name] != "":
			err = appendCompositional(tbl, d, name)
		case flatColumns[name] != nil:
			err = appendFlat(tbl, d, name)
		default:
			err = fmt.Errorf("unsupported pvt keyword %q", name)
		}
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func appendFlat(tbl *frame.Table, d *deck.Deck, name string) error {
	cols := flatColumns[name]
	for _, kw := range d.ByName(name) {
		pvtnum := 0
		for _, rec := range kw.Records {
			if rec.Empty() {
				continue
			}
			pvtnum++
			vals, err := rec.Floats()
			if err != nil {
				return fmt.Errorf("%s region %d: %w", name, pvtnum, err)
			}
			if len(vals)%len(cols) != 0 {
				return fmt.Errorf("%s region %d: %w: %d values for %d columns",
					name, pvtnum, deck.ErrMalformedRecord, len(vals), len(cols))
			}
			for i := 0; i < len(vals); i += len(cols) {
				row := map[string]any{"KEYWORD": name, "PVTNUM": pvtnum}
				for j, col := range cols {
					row[col] = vals[i+j]
				}
				tbl.Append(row)
			}
		}
	}
	return nil
}

// appendCompositional unrolls PVTO/PVTG: regions separated by empty
// records, each inner record leading with the outer quantity followed by
// tabulated triples.
func appendCompositional(tbl *frame.Table, d *deck.Deck, name string) error {
	outer := outerColumn[name]
	inner := innerColumns[name]
	for _, kw := range d.ByName(name) {
		pvtnum := 1
		sawData := false
		for _, rec := range kw.Records {
			if rec.Empty() {
				if sawData {
					pvtnum++
					sawData = false
				}
				continue
			}
			vals, err := rec.Floats()
			if err != nil {
				return fmt.Errorf("%s region %d: %w", name, pvtnum, err)
			}
			if (len(vals)-1)%len(inner) != 0 {
				return fmt.Errorf("%s region %d: %w: %d values after leading %s",
					name, pvtnum, deck.ErrMalformedRecord, len(vals)-1, outer)
			}
			sawData = true
			for i := 1; i < len(vals); i += len(inner) {
				row := map[string]any{
					"KEYWORD": name, "PVTNUM": pvtnum, outer: vals[0],
				}
				for j, col := range inner {
					row[col] = vals[i+j]
				}
				tbl.Append(row)
			}
		}
	}
	return nil
}

// NTPVT reports the PVT region count of a deck.
func NTPVT(d *deck.Deck) int {
	return inferdims.NTPVT(d)
}

// ToInclude renders a table from Df back to include-file text.
func ToInclude(tbl *frame.Table, keywords ...string) (string, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	var b inc.Builder
	b.FileHeader("csv2res pvt")
	for _, name := range keywords {
		if outerColumn[name] != "" {
			emitCompositional(&b, tbl, name)
		} else {
			emitFlat(&b, tbl, name)
		}
	}
	return b.String(), nil
}

func emitFlat(b *inc.Builder, tbl *frame.Table, name string) {
	cols := flatColumns[name]
	kws := tbl.Strings("KEYWORD")
	pvtnums := tbl.Floats("PVTNUM")
	opened := false
	current := -1.0
	for i := 0; i < tbl.Len(); i++ {
		if kws[i] != name {
			continue
		}
		if !opened {
			b.Keyword(name, cols...)
			opened = true
			current = pvtnums[i]
		} else if pvtnums[i] != current {
			b.Slash()
			current = pvtnums[i]
		}
		cells := make([]string, len(cols))
		for j, col := range cols {
			cells[j] = inc.Num(tbl.Floats(col)[i])
		}
		b.Row(cells...)
	}
	if opened {
		b.Slash()
		b.Blank()
	}
}

func emitCompositional(b *inc.Builder, tbl *frame.Table, name string) {
	outer := outerColumn[name]
	inner := innerColumns[name]
	kws := tbl.Strings("KEYWORD")
	pvtnums := tbl.Floats("PVTNUM")
	outers := tbl.Floats(outer)
	opened := false
	currentRegion, currentOuter := -1.0, 0.0
	inRecord := false
	for i := 0; i < tbl.Len(); i++ {
		if kws[i] != name {
			continue
		}
		if !opened {
			b.Keyword(name, append([]string{outer}, inner...)...)
			opened = true
			currentRegion = pvtnums[i]
		} else if pvtnums[i] != currentRegion {
			if inRecord {
				b.Slash()
			}
			b.Slash() // region separator
			currentRegion = pvtnums[i]
			inRecord = false
		}
		cells := make([]string, 0, len(inner)+1)
		if !inRecord || outers[i] != currentOuter {
			if inRecord {
				b.Slash()
			}
			currentOuter = outers[i]
			cells = append(cells, inc.Num(currentOuter))
			inRecord = true
		} else {
			cells = append(cells, "  ")
		}
		for _, col := range inner {
			cells = append(cells, inc.Num(tbl.Floats(col)[i]))
		}
		b.Row(cells...)
	}
	if opened {
		b.Slash()
		b.Slash()
		b.Blank()
	}
}
