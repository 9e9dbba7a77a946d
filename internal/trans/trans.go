// Package trans extracts neighbour transmissibilities as one row per
// cell pair, from the TRANX/TRANY/TRANZ vectors of the initial solution
// file.
package trans

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/grid"
	"github.com/equinor/res2df/internal/nnc"
	"github.com/equinor/res2df/internal/resfiles"
)

// ErrNoVectors means grouping or boundary filtering was requested
// without naming any supporting vector.
var ErrNoVectors = errors.New("no grouping vectors given")

// Options controls transmissibility extraction.
type Options struct {
	// Vectors names INIT per-cell vectors to attach to both sides of
	// every connection, as VEC1 and VEC2 columns.
	Vectors []string
	// Boundary keeps only connections where an attached vector pair
	// differs.
	Boundary bool
	// Group sums TRAN over each distinct vector value pair. Implies
	// Boundary.
	Group bool
	// OnlyK keeps vertical connections, OnlyIJ horizontal ones.
	OnlyK  bool
	OnlyIJ bool
	// Coords adds connection midpoint coordinates and the center
	// distance DX/DY/DZ.
	Coords bool
	// NNC appends the non-neighbour connections with DIR "NNC".
	NNC bool
}

type direction struct {
	name       string
	vector     string
	di, dj, dk int
}

var directions = []direction{
	{"I", "TRANX", 1, 0, 0},
	{"J", "TRANY", 0, 1, 0},
	{"K", "TRANZ", 0, 0, 1},
}

// Df lists all neighbour connections of a case with their
// transmissibility.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	if (opts.Boundary || opts.Group) && len(opts.Vectors) == 0 {
		return nil, ErrNoVectors
	}
	egrid, err := c.EGrid()
	if err != nil {
		return nil, err
	}
	g, err := grid.ReadGeometry(egrid)
	if err != nil {
		return nil, err
	}
	initFile, err := c.Init()
	if err != nil {
		return nil, err
	}

	// active-cell vectors indexed by global cell
	byGlobal := func(name string) []float64 {
		kw, err := initFile.First(name)
		if err != nil {
			return nil
		}
		vals, err := kw.Floats()
		if err != nil || len(vals) != g.NActive() {
			return nil
		}
		out := make([]float64, g.NX*g.NY*g.NZ)
		for i := range out {
			out[i] = math.NaN()
		}
		for idx, global := range g.Active {
			out[global] = vals[idx]
		}
		return out
	}

	activeSet := make(map[int]bool, g.NActive())
	for _, global := range g.Active {
		activeSet[global] = true
	}
	support := make(map[string][]float64, len(opts.Vectors))
	for _, name := range opts.Vectors {
		vals := byGlobal(name)
		if vals == nil {
			return nil, fmt.Errorf("support vector %s not in INIT", name)
		}
		support[name] = vals
	}

	columns := []string{"I1", "J1", "K1", "I2", "J2", "K2", "DIR", "TRAN"}
	tbl := frame.New(columns...)
	for _, dir := range directions {
		if opts.OnlyK && dir.name != "K" {
			continue
		}
		if opts.OnlyIJ && dir.name == "K" {
			continue
		}
		tran := byGlobal(dir.vector)
		if tran == nil {
			continue
		}
		for _, global := range g.Active {
			i, j, k := g.IJK(global)
			i2, j2, k2 := i+dir.di, j+dir.dj, k+dir.dk
			if i2 > g.NX || j2 > g.NY || k2 > g.NZ {
				continue
			}
			neighbour := global + dir.di + dir.dj*g.NX + dir.dk*g.NX*g.NY
			if !activeSet[neighbour] {
				continue
			}
			row := map[string]any{
				"I1": i, "J1": j, "K1": k,
				"I2": i2, "J2": j2, "K2": k2,
				"DIR": dir.name, "TRAN": tran[global],
			}
			for name, vals := range support {
				row[name+"1"] = vals[global]
				row[name+"2"] = vals[neighbour]
			}
			if opts.Coords {
				x1, y1, z1, _, _, _ := g.CellStats(global)
				x2, y2, z2, _, _, _ := g.CellStats(neighbour)
				row["X"] = (x1 + x2) / 2
				row["Y"] = (y1 + y2) / 2
				row["Z"] = (z1 + z2) / 2
				row["DX"] = math.Abs(x2 - x1)
				row["DY"] = math.Abs(y2 - y1)
				row["DZ"] = math.Abs(z2 - z1)
			}
			tbl.Append(row)
		}
	}

	if opts.NNC {
		nncTbl, err := nnc.Df(c, nnc.Options{Coords: opts.Coords})
		if err == nil {
			nncTbl.AddColumn("DIR", constantColumn(nncTbl.Len(), "NNC"))
			tbl.Concat(nncTbl)
		} else if !errors.Is(err, nnc.ErrNoNNC) {
			return nil, err
		}
	}

	if opts.Boundary || opts.Group {
		tbl = filterBoundary(tbl, opts.Vectors)
	}
	if opts.Group {
		tbl = groupPairs(tbl, opts.Vectors)
	}
	return tbl, nil
}

// filterBoundary keeps rows where at least one attached vector pair has
// two distinct values.
func filterBoundary(tbl *frame.Table, vectors []string) *frame.Table {
	out := frame.New(tbl.Names()...)
	for i := 0; i < tbl.Len(); i++ {
		differs := false
		for _, name := range vectors {
			v1 := tbl.Floats(name + "1")[i]
			v2 := tbl.Floats(name + "2")[i]
			if v1 != v2 && !(math.IsNaN(v1) && math.IsNaN(v2)) {
				differs = true
				break
			}
		}
		if differs {
			out.Append(tbl.Row(i))
		}
	}
	return out
}

// groupPairs sums TRAN per unordered vector value pair. Pairs are
// normalized so the smaller value comes first.
func groupPairs(tbl *frame.Table, vectors []string) *frame.Table {
	name := vectors[0]
	type pair struct{ a, b float64 }
	sums := map[pair]float64{}
	for i := 0; i < tbl.Len(); i++ {
		a := tbl.Floats(name + "1")[i]
		b := tbl.Floats(name + "2")[i]
		if a > b {
			a, b = b, a
		}
		sums[pair{a, b}] += tbl.Floats("TRAN")[i]
	}
	keys := make([]pair, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].a != keys[j].a {
			return keys[i].a < keys[j].a
		}
		return keys[i].b < keys[j].b
	})
	out := frame.New(name+"1", name+"2", "TRAN")
	for _, k := range keys {
		out.Append(map[string]any{
			name + "1": int(k.a), name + "2": int(k.b), "TRAN": sums[k],
		})
	}
	return out
}

func constantColumn(n int, v any) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = v
	}
	return out
}
