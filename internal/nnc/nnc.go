// Package nnc extracts non-neighbour connections: cell index pairs from
// the grid geometry file joined with their transmissibility from the
// initial solution file.
package nnc

import (
	"errors"
	"fmt"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/grid"
	"github.com/equinor/res2df/internal/inc"
	"github.com/equinor/res2df/internal/resfiles"
)

// ErrNoNNC means the geometry file carries no non-neighbour connections.
var ErrNoNNC = errors.New("no non-neighbour connections")

// Options controls NNC extraction.
type Options struct {
	// Coords adds the x/y/z midpoint of each connection.
	Coords bool
	// Pillars keeps only connections within one vertical pillar.
	Pillars bool
}

// Df lists all non-neighbour connections of a case with their
// transmissibility, sorted the way they are stored.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	egrid, err := c.EGrid()
	if err != nil {
		return nil, err
	}
	g, err := grid.ReadGeometry(egrid)
	if err != nil {
		return nil, err
	}
	if !egrid.Has("NNC1") || !egrid.Has("NNC2") {
		return nil, ErrNoNNC
	}
	nnc1Kw, err := egrid.First("NNC1")
	if err != nil {
		return nil, err
	}
	nnc1, err := nnc1Kw.Ints()
	if err != nil {
		return nil, err
	}
	nnc2Kw, err := egrid.First("NNC2")
	if err != nil {
		return nil, err
	}
	nnc2, err := nnc2Kw.Ints()
	if err != nil {
		return nil, err
	}
	if len(nnc1) != len(nnc2) {
		return nil, fmt.Errorf("NNC1 of %d values but NNC2 of %d", len(nnc1), len(nnc2))
	}

	var tran []float64
	initFile, err := c.Init()
	if err != nil {
		return nil, err
	}
	if kw, err := initFile.First("TRANNNC"); err == nil {
		if tran, err = kw.Floats(); err != nil {
			return nil, err
		}
		if len(tran) != len(nnc1) {
			return nil, fmt.Errorf("TRANNNC of %d values for %d connections",
				len(tran), len(nnc1))
		}
	}

	tbl := frame.New("I1", "J1", "K1", "I2", "J2", "K2", "TRAN")
	for n := range nnc1 {
		// NNC cell indices are stored 1-based
		i1, j1, k1 := g.IJK(nnc1[n] - 1)
		i2, j2, k2 := g.IJK(nnc2[n] - 1)
		if opts.Pillars && (i1 != i2 || j1 != j2) {
			continue
		}
		row := map[string]any{
			"I1": i1, "J1": j1, "K1": k1,
			"I2": i2, "J2": j2, "K2": k2,
		}
		if tran != nil {
			row["TRAN"] = tran[n]
		}
		if opts.Coords {
			x1, y1, z1, _, _, _ := g.CellStats(nnc1[n] - 1)
			x2, y2, z2, _, _, _ := g.CellStats(nnc2[n] - 1)
			row["X"] = (x1 + x2) / 2
			row["Y"] = (y1 + y2) / 2
			row["Z"] = (z1 + z2) / 2
		}
		tbl.Append(row)
	}
	return tbl, nil
}

// ToEditnncInclude renders a table of connection pairs with TRANM
// multipliers as an EDITNNC include file.
func ToEditnncInclude(tbl *frame.Table, tool string) (string, error) {
	for _, col := range []string{"I1", "J1", "K1", "I2", "J2", "K2", "TRANM"} {
		if !tbl.Has(col) {
			return "", fmt.Errorf("missing column %s for EDITNNC", col)
		}
	}
	var b inc.Builder
	b.FileHeader(tool)
	b.Keyword("EDITNNC", "I1", "J1", "K1", "I2", "J2", "K2", "TRANM")
	for i := 0; i < tbl.Len(); i++ {
		b.Record(
			inc.Int(int(tbl.Floats("I1")[i])),
			inc.Int(int(tbl.Floats("J1")[i])),
			inc.Int(int(tbl.Floats("K1")[i])),
			inc.Int(int(tbl.Floats("I2")[i])),
			inc.Int(int(tbl.Floats("J2")[i])),
			inc.Int(int(tbl.Floats("K2")[i])),
			inc.Num(tbl.Floats("TRANM")[i]),
		)
	}
	b.Slash()
	return b.String(), nil
}
