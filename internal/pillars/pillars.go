// Package pillars aggregates grid data per vertical pillar (each I-J
// pair): summed pore and bulk volumes, volume-weighted porosity, mean
// permeabilities, and per-date phase volumes and estimated fluid
// contacts from saturation cutoffs.
package pillars

import (
	"fmt"
	"math"
	"sort"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/grid"
	"github.com/equinor/res2df/internal/resfiles"
)

// Default saturation cutoffs for contact estimation.
const (
	DefaultSoilCutoff = 0.2
	DefaultSgasCutoff = 0.7
	DefaultSwatCutoff = 0.7
)

// Options controls pillar aggregation.
type Options struct {
	// Region names an INIT vector to group by in addition to the
	// pillar, e.g. "FIPNUM".
	Region string
	// Rstdates selects restart dates for dynamic data: "", "first",
	// "last", "all" or an ISO date.
	Rstdates string
	// StackDates emits one row per pillar per date instead of dated
	// column headers.
	StackDates bool
	// Saturation cutoffs; zero means the default.
	SoilCutoff, SgasCutoff, SwatCutoff float64
}

func (o *Options) fillDefaults() {
	if o.SoilCutoff == 0 {
		o.SoilCutoff = DefaultSoilCutoff
	}
	if o.SgasCutoff == 0 {
		o.SgasCutoff = DefaultSgasCutoff
	}
	if o.SwatCutoff == 0 {
		o.SwatCutoff = DefaultSwatCutoff
	}
}

// meanColumns are averaged per pillar, volumeColumns summed.
var (
	meanColumns   = []string{"PERMX", "PERMY", "PERMZ"}
	volumeColumns = []string{"PORV", "VOLUME"}
)

type bucket struct {
	pillar string
	region int
	date   string

	porv, volume float64
	poroPorv     float64 // sum of PORO*PORV for the weighted mean
	sums         map[string]float64
	counts       map[string]int

	// phase volumes and deepest cell centers above each cutoff
	watvol, oilvol, gasvol   float64
	oilZ, gasZ               float64
	hasOil, hasGas, hasWater bool
}

// Df aggregates a case per pillar. With restart dates the phase
// volumes WATVOL/OILVOL/GASVOL and contact estimates OWC/GOC/GWC are
// added per date.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	opts.fillDefaults()
	cells, err := grid.Df(c, grid.Options{Rstdates: opts.Rstdates})
	if err != nil {
		return nil, err
	}
	if opts.Region != "" && !cells.Has(opts.Region) {
		return nil, fmt.Errorf("region vector %s not in INIT", opts.Region)
	}
	dynamic := opts.Rstdates != ""

	buckets := map[string]*bucket{}
	var order []string
	is := cells.Floats("I")
	js := cells.Floats("J")
	for row := 0; row < cells.Len(); row++ {
		pillar := fmt.Sprintf("%d-%d", int(is[row]), int(js[row]))
		key := pillar
		region := 0
		if opts.Region != "" {
			region = int(cells.Floats(opts.Region)[row])
			key = fmt.Sprintf("%s/%d", pillar, region)
		}
		date := ""
		if dynamic {
			date = cells.Strings("DATE")[row]
			key += "@" + date
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				pillar: pillar, region: region, date: date,
				sums: map[string]float64{}, counts: map[string]int{},
				oilZ: math.NaN(), gasZ: math.NaN(),
			}
			buckets[key] = b
			order = append(order, key)
		}
		accumulate(b, cells, row, opts)
	}

	tbl := emit(buckets, order, opts, dynamic)
	if dynamic && !opts.StackDates {
		tbl = pivotDates(tbl, opts)
	}
	return tbl, nil
}

func accumulate(b *bucket, cells *frame.Table, row int, opts Options) {
	porv := cells.Floats("PORV")[row]
	if math.IsNaN(porv) {
		porv = 0
	}
	b.porv += porv
	if v := cells.Floats("VOLUME")[row]; !math.IsNaN(v) {
		b.volume += v
	}
	if poro := cells.Floats("PORO")[row]; !math.IsNaN(poro) {
		b.poroPorv += poro * porv
	}
	for _, name := range meanColumns {
		if !cells.Has(name) {
			continue
		}
		if v := cells.Floats(name)[row]; !math.IsNaN(v) {
			b.sums[name] += v
			b.counts[name]++
		}
	}
	if opts.Rstdates == "" {
		return
	}

	z := cells.Floats("Z")[row]
	swat := satOrZero(cells, "SWAT", row)
	sgas := satOrZero(cells, "SGAS", row)
	soil := satOrZero(cells, "SOIL", row)
	b.watvol += swat * porv
	b.oilvol += soil * porv
	b.gasvol += sgas * porv
	if swat > opts.SwatCutoff {
		b.hasWater = true
	}
	if soil > opts.SoilCutoff {
		b.hasOil = true
		if math.IsNaN(b.oilZ) || z > b.oilZ {
			b.oilZ = z
		}
	}
	if sgas > opts.SgasCutoff {
		b.hasGas = true
		if math.IsNaN(b.gasZ) || z > b.gasZ {
			b.gasZ = z
		}
	}
}

func satOrZero(cells *frame.Table, name string, row int) float64 {
	if !cells.Has(name) {
		return 0
	}
	if v := cells.Floats(name)[row]; !math.IsNaN(v) {
		return v
	}
	return 0
}

func emit(buckets map[string]*bucket, order []string, opts Options, dynamic bool) *frame.Table {
	columns := []string{"PILLAR"}
	if opts.Region != "" {
		columns = append(columns, opts.Region)
	}
	columns = append(columns, "PORO", "PORV", "VOLUME")
	columns = append(columns, meanColumns...)
	if dynamic {
		columns = append(columns, "DATE",
			"WATVOL", "OILVOL", "GASVOL", "OWC", "GOC", "GWC")
	}
	tbl := frame.New(columns...)
	for _, key := range order {
		b := buckets[key]
		row := map[string]any{
			"PILLAR": b.pillar, "PORV": b.porv, "VOLUME": b.volume,
		}
		if opts.Region != "" {
			row[opts.Region] = b.region
		}
		if b.porv > 0 {
			row["PORO"] = b.poroPorv / b.porv
		}
		for _, name := range meanColumns {
			if n := b.counts[name]; n > 0 {
				row[name] = b.sums[name] / float64(n)
			}
		}
		if dynamic {
			row["DATE"] = b.date
			row["WATVOL"] = b.watvol
			row["OILVOL"] = b.oilvol
			row["GASVOL"] = b.gasvol
			owc, goc, gwc := contacts(b)
			setIf(row, "OWC", owc)
			setIf(row, "GOC", goc)
			setIf(row, "GWC", gwc)
		}
		tbl.Append(row)
	}
	return tbl
}

// contacts estimates fluid contact depths per pillar: the oil-water
// contact is the deepest oil-bearing cell center when a water leg
// exists, the gas contact analogously against oil or water.
func contacts(b *bucket) (owc, goc, gwc float64) {
	owc, goc, gwc = math.NaN(), math.NaN(), math.NaN()
	if b.hasOil && b.hasWater {
		owc = b.oilZ
	}
	if b.hasGas && b.hasOil {
		goc = b.gasZ
	}
	if b.hasGas && !b.hasOil && b.hasWater {
		gwc = b.gasZ
	}
	return
}

func setIf(row map[string]any, name string, v float64) {
	if !math.IsNaN(v) {
		row[name] = v
	}
}

// pivotDates folds stacked per-date rows into one row per pillar with
// VEC@date column names for the dynamic columns.
func pivotDates(tbl *frame.Table, opts Options) *frame.Table {
	static := []string{"PILLAR"}
	if opts.Region != "" {
		static = append(static, opts.Region)
	}
	static = append(static, "PORO", "PORV", "VOLUME")
	static = append(static, meanColumns...)
	dynamic := []string{"WATVOL", "OILVOL", "GASVOL", "OWC", "GOC", "GWC"}

	type entry struct {
		row   map[string]any
		dated map[string]any
	}
	entries := map[string]*entry{}
	var order []string
	var dates []string
	seenDates := map[string]bool{}
	for i := 0; i < tbl.Len(); i++ {
		row := tbl.Row(i)
		key, _ := row["PILLAR"].(string)
		if opts.Region != "" {
			key = fmt.Sprintf("%s/%v", key, row[opts.Region])
		}
		date, _ := row["DATE"].(string)
		if !seenDates[date] {
			seenDates[date] = true
			dates = append(dates, date)
		}
		e, ok := entries[key]
		if !ok {
			e = &entry{row: map[string]any{}, dated: map[string]any{}}
			for _, name := range static {
				if v, ok := row[name]; ok {
					e.row[name] = v
				}
			}
			entries[key] = e
			order = append(order, key)
		}
		for _, name := range dynamic {
			if v, ok := row[name]; ok {
				e.dated[name+"@"+date] = v
			}
		}
	}
	sort.Strings(dates)

	columns := append([]string(nil), static...)
	for _, date := range dates {
		for _, name := range dynamic {
			columns = append(columns, name+"@"+date)
		}
	}
	out := frame.New(columns...)
	for _, key := range order {
		e := entries[key]
		row := e.row
		for name, v := range e.dated {
			row[name] = v
		}
		out.Append(row)
	}
	out.DropMissingColumns()
	return out
}
