// Package satfunc extracts saturation-function tables (SWOF family)
// into rows tagged with KEYWORD and SATNUM. Defaulted cells inside a
// table are linearly interpolated along the saturation axis, matching
// how the simulator treats them.
package satfunc

import (
	"fmt"
	"math"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/inc"
	"github.com/equinor/res2df/internal/inferdims"
)

// Keywords lists the supported table keywords in emission order.
var Keywords = []string{
	"SWOF", "SGOF", "SLGOF", "SWFN", "SGFN", "SGWFN", "SOF2", "SOF3",
}

// columns names each keyword's table columns; the first is the
// saturation axis.
var columns = map[string][]string{
	"SWOF":  {"SW", "KRW", "KROW", "PCOW"},
	"SGOF":  {"SG", "KRG", "KROG", "PCOG"},
	"SLGOF": {"SL", "KRG", "KRO", "PC"},
	"SWFN":  {"SW", "KRW", "PCOW"},
	"SGFN":  {"SG", "KRG", "PCOG"},
	"SGWFN": {"SG", "KRG", "KRW", "PCGW"},
	"SOF2":  {"SO", "KRO"},
	"SOF3":  {"SO", "KROW", "KROG"},
}

// Df extracts the requested keywords (all when empty) into one table.
func Df(d *deck.Deck, keywords ...string) (*frame.Table, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	tbl := frame.New("KEYWORD", "SATNUM")
	for _, name := range keywords {
		cols, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("unsupported saturation keyword %q", name)
		}
		for _, kw := range d.ByName(name) {
			satnum := 0
			for _, rec := range kw.Records {
				if rec.Empty() {
					continue
				}
				satnum++
				table, err := regionTable(rec, len(cols))
				if err != nil {
					return nil, fmt.Errorf("%s region %d: %w", name, satnum, err)
				}
				interpolateDefaults(table)
				for _, row := range table {
					cells := map[string]any{"KEYWORD": name, "SATNUM": satnum}
					for j, col := range cols {
						cells[col] = row[j]
					}
					tbl.Append(cells)
				}
			}
		}
	}
	return tbl, nil
}

// regionTable shapes one record's flat values into rows of ncols.
func regionTable(rec deck.Record, ncols int) ([][]float64, error) {
	vals, err := rec.Floats()
	if err != nil {
		return nil, err
	}
	if len(vals)%ncols != 0 {
		return nil, fmt.Errorf("%w: %d values do not fill rows of %d",
			deck.ErrMalformedRecord, len(vals), ncols)
	}
	table := make([][]float64, 0, len(vals)/ncols)
	for i := 0; i < len(vals); i += ncols {
		table = append(table, vals[i:i+ncols])
	}
	return table, nil
}

// interpolateDefaults fills NaN cells column by column, linear in the
// saturation (first) column. NaN at the table ends takes the nearest
// tabulated value.
func interpolateDefaults(table [][]float64) {
	if len(table) == 0 {
		return
	}
	ncols := len(table[0])
	for col := 1; col < ncols; col++ {
		for i := range table {
			if !math.IsNaN(table[i][col]) {
				continue
			}
			lo, hi := -1, -1
			for j := i - 1; j >= 0; j-- {
				if !math.IsNaN(table[j][col]) {
					lo = j
					break
				}
			}
			for j := i + 1; j < len(table); j++ {
				if !math.IsNaN(table[j][col]) {
					hi = j
					break
				}
			}
			switch {
			case lo >= 0 && hi >= 0:
				s0, s1 := table[lo][0], table[hi][0]
				v0, v1 := table[lo][col], table[hi][col]
				if s1 == s0 {
					table[i][col] = v0
					continue
				}
				table[i][col] = v0 + (v1-v0)*(table[i][0]-s0)/(s1-s0)
			case lo >= 0:
				table[i][col] = table[lo][col]
			case hi >= 0:
				table[i][col] = table[hi][col]
			}
		}
	}
}

// NTSFUN reports the saturation-function region count of a deck.
func NTSFUN(d *deck.Deck) int {
	return inferdims.NTSFUN(d)
}

// ToInclude renders a table from Df back to include-file text.
func ToInclude(tbl *frame.Table, keywords ...string) (string, error) {
	if len(keywords) == 0 {
		keywords = Keywords
	}
	var b inc.Builder
	b.FileHeader("csv2res satfunc")
	kws := tbl.Strings("KEYWORD")
	satnums := tbl.Floats("SATNUM")
	for _, name := range keywords {
		cols := columns[name]
		opened := false
		current := -1.0
		for i := 0; i < tbl.Len(); i++ {
			if kws[i] != name {
				continue
			}
			if !opened {
				b.Keyword(name, cols...)
				opened = true
				current = satnums[i]
			} else if satnums[i] != current {
				b.Slash()
				current = satnums[i]
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
	return b.String(), nil
}
