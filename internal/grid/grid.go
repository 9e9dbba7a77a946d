// Package grid merges static grid geometry (EGRID), initial per-cell
// properties (INIT) and optionally dynamic solution data (UNRST) into
// one row per active cell.
package grid

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/resfiles"
	"github.com/equinor/res2df/internal/zonemap"
)

// ErrNoRestartDate means the requested restart date is not in the file.
var ErrNoRestartDate = errors.New("restart date not found")

// values at or below this threshold encode "missing" in binary output
const missingThreshold = -1e19

// headerKeywords are bookkeeping arrays, not per-cell vectors.
var headerKeywords = map[string]bool{
	"INTEHEAD": true, "LOGIHEAD": true, "DOUBHEAD": true, "SEQNUM": true,
	"STARTSOL": true, "ENDSOL": true, "HIDDEN": true, "ZTRACER": true,
}

// Options controls grid extraction.
type Options struct {
	// Rstdates selects restart dates: "", "first", "last", "all" or an
	// ISO date.
	Rstdates string
	// DateInHeaders names dynamic columns VEC@DATE instead of stacking
	// rows with a DATE column.
	DateInHeaders bool
	// DropConstants removes columns with a single distinct value.
	DropConstants bool
	// Zonemap adds a ZONE column when set.
	Zonemap zonemap.ZoneMap
}

// Df extracts the merged grid table for a case.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	egrid, err := c.EGrid()
	if err != nil {
		return nil, err
	}
	g, err := ReadGeometry(egrid)
	if err != nil {
		return nil, err
	}
	tbl := geometryTable(g)

	if initFile, err := c.Init(); err == nil {
		mergeInit(tbl, g, initFile)
	}

	if opts.Rstdates != "" {
		unrst, err := c.Restart()
		if err != nil {
			return nil, err
		}
		if err := mergeRestart(tbl, g, unrst, opts); err != nil {
			return nil, err
		}
	}

	tbl.DropMissingColumns()
	if opts.DropConstants {
		tbl.DropConstantColumns()
	}
	if opts.Zonemap != nil {
		opts.Zonemap.Merge(tbl, "K")
	}
	return tbl, nil
}

func geometryTable(g *Geometry) *frame.Table {
	tbl := frame.New("I", "J", "K", "X", "Y", "Z", "ZMIN", "ZMAX",
		"VOLUME", "GLOBAL_INDEX")
	for _, global := range g.Active {
		i, j, k := g.IJK(global)
		x, y, z, zmin, zmax, vol := g.CellStats(global)
		tbl.Append(map[string]any{
			"I": i, "J": j, "K": k,
			"X": x, "Y": y, "Z": z, "ZMIN": zmin, "ZMAX": zmax,
			"VOLUME": vol, "GLOBAL_INDEX": global,
		})
	}
	return tbl
}

// mergeInit attaches INIT per-cell vectors. PORV is defined over all
// cells, not only active ones, and is picked at the active indices.
func mergeInit(tbl *frame.Table, g *Geometry, initFile *resfile.File) {
	ncells := g.NX * g.NY * g.NZ
	for _, kw := range initFile.Keywords() {
		if headerKeywords[kw.Name] {
			continue
		}
		vals, err := kw.Floats()
		if err != nil {
			continue // CHAR and LOGI arrays are not cell vectors
		}
		switch len(vals) {
		case g.NActive():
			tbl.AddColumn(kw.Name, filterMissing(vals))
		case ncells:
			picked := make([]float64, g.NActive())
			for idx, global := range g.Active {
				picked[idx] = vals[global]
			}
			tbl.AddColumn(kw.Name, filterMissing(picked))
		}
	}
}

func filterMissing(vals []float64) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		if v <= missingThreshold {
			out[i] = nil
		} else {
			out[i] = v
		}
	}
	return out
}

// restartStep is the solution arrays of one report step.
type restartStep struct {
	date    time.Time
	vectors map[string][]float64
}

// RstDates lists the report dates present in a restart file.
func RstDates(unrst *resfile.File) ([]time.Time, error) {
	steps, err := restartSteps(unrst, 0)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(steps))
	for i, s := range steps {
		out[i] = s.date
	}
	return out, nil
}

// restartSteps splits a unified restart file at its INTEHEAD arrays.
// Vectors of length nactive are kept; pass nactive 0 to only read
// dates.
func restartSteps(unrst *resfile.File, nactive int) ([]*restartStep, error) {
	var steps []*restartStep
	var current *restartStep
	for _, kw := range unrst.Keywords() {
		if kw.Name == "INTEHEAD" {
			vals, err := kw.Ints()
			if err != nil {
				return nil, err
			}
			if len(vals) < 67 {
				return nil, fmt.Errorf("restart INTEHEAD of %d values", len(vals))
			}
			current = &restartStep{
				date: time.Date(vals[66], time.Month(vals[65]), vals[64],
					0, 0, 0, 0, time.UTC),
				vectors: map[string][]float64{},
			}
			steps = append(steps, current)
			continue
		}
		if current == nil || headerKeywords[kw.Name] {
			continue
		}
		if nactive > 0 && kw.Len() == nactive {
			if vals, err := kw.Floats(); err == nil {
				current.vectors[kw.Name] = vals
			}
		}
	}
	return steps, nil
}

func mergeRestart(tbl *frame.Table, g *Geometry, unrst *resfile.File, opts Options) error {
	steps, err := restartSteps(unrst, g.NActive())
	if err != nil {
		return err
	}
	selected, err := selectSteps(steps, opts.Rstdates)
	if err != nil {
		return err
	}
	for _, step := range selected {
		addDerivedSoil(step)
	}

	if len(selected) == 1 && !opts.DateInHeaders {
		for _, name := range vectorNames(selected[0]) {
			tbl.AddColumn(name, filterMissing(selected[0].vectors[name]))
		}
		tbl.AddColumn("DATE", constantColumn(tbl.Len(),
			selected[0].date.Format("2006-01-02")))
		return nil
	}
	if opts.DateInHeaders {
		for _, step := range selected {
			date := step.date.Format("2006-01-02")
			for _, name := range vectorNames(step) {
				tbl.AddColumn(name+"@"+date, filterMissing(step.vectors[name]))
			}
		}
		return nil
	}
	// stacked: repeat the static rows per date
	stacked := frame.New(append(tbl.Names(), "DATE")...)
	for _, step := range selected {
		date := step.date.Format("2006-01-02")
		snapshot := cloneTable(tbl)
		for _, name := range vectorNames(step) {
			snapshot.AddColumn(name, filterMissing(step.vectors[name]))
		}
		snapshot.AddColumn("DATE", constantColumn(snapshot.Len(), date))
		stacked.Concat(snapshot)
	}
	*tbl = *stacked
	return nil
}

func selectSteps(steps []*restartStep, rstdates string) ([]*restartStep, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty restart file", ErrNoRestartDate)
	}
	switch rstdates {
	case "first":
		return steps[:1], nil
	case "last":
		return steps[len(steps)-1:], nil
	case "all":
		return steps, nil
	}
	want, err := time.Parse("2006-01-02", rstdates)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRestartDate, rstdates)
	}
	for _, s := range steps {
		if s.date.Equal(want) {
			return []*restartStep{s}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoRestartDate, rstdates)
}

// addDerivedSoil fills SOIL as 1-SWAT-SGAS when absent.
func addDerivedSoil(step *restartStep) {
	if _, ok := step.vectors["SOIL"]; ok {
		return
	}
	swat, okW := step.vectors["SWAT"]
	if !okW {
		return
	}
	soil := make([]float64, len(swat))
	sgas := step.vectors["SGAS"]
	for i, w := range swat {
		s := 1 - w
		if sgas != nil {
			s -= sgas[i]
		}
		soil[i] = s
	}
	step.vectors["SOIL"] = soil
}

func vectorNames(step *restartStep) []string {
	names := make([]string, 0, len(step.vectors))
	for name := range step.vectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func constantColumn(n int, v any) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func cloneTable(tbl *frame.Table) *frame.Table {
	out := frame.New(tbl.Names()...)
	out.Concat(tbl)
	return out
}
