package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/equinor/res2df/internal/resfile"
)

// ErrBadGrid means the EGRID arrays are missing or inconsistent.
var ErrBadGrid = errors.New("inconsistent EGRID geometry")

// Geometry is a decoded corner-point grid.
type Geometry struct {
	NX, NY, NZ int
	// Active maps active-cell order to 0-based global index.
	Active []int

	coord  []float64
	zcorn  []float64
	actnum []int
}

// ReadGeometry decodes GRIDHEAD, COORD, ZCORN and ACTNUM.
func ReadGeometry(egrid *resfile.File) (*Geometry, error) {
	head, err := egrid.First("GRIDHEAD")
	if err != nil {
		return nil, err
	}
	dims, err := head.Ints()
	if err != nil {
		return nil, err
	}
	if len(dims) < 4 {
		return nil, fmt.Errorf("%w: GRIDHEAD of %d values", ErrBadGrid, len(dims))
	}
	g := &Geometry{NX: dims[1], NY: dims[2], NZ: dims[3]}
	ncells := g.NX * g.NY * g.NZ
	if ncells <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%dx%d", ErrBadGrid, g.NX, g.NY, g.NZ)
	}

	coordKw, err := egrid.First("COORD")
	if err != nil {
		return nil, err
	}
	if g.coord, err = coordKw.Floats(); err != nil {
		return nil, err
	}
	if len(g.coord) != 6*(g.NX+1)*(g.NY+1) {
		return nil, fmt.Errorf("%w: COORD of %d values", ErrBadGrid, len(g.coord))
	}
	zcornKw, err := egrid.First("ZCORN")
	if err != nil {
		return nil, err
	}
	if g.zcorn, err = zcornKw.Floats(); err != nil {
		return nil, err
	}
	if len(g.zcorn) != 8*ncells {
		return nil, fmt.Errorf("%w: ZCORN of %d values", ErrBadGrid, len(g.zcorn))
	}

	g.actnum = make([]int, ncells)
	if kw, err := egrid.First("ACTNUM"); err == nil {
		vals, err := kw.Ints()
		if err != nil {
			return nil, err
		}
		if len(vals) != ncells {
			return nil, fmt.Errorf("%w: ACTNUM of %d values", ErrBadGrid, len(vals))
		}
		copy(g.actnum, vals)
	} else {
		for i := range g.actnum {
			g.actnum[i] = 1
		}
	}
	for global, act := range g.actnum {
		if act != 0 {
			g.Active = append(g.Active, global)
		}
	}
	return g, nil
}

// NActive returns the active cell count.
func (g *Geometry) NActive() int { return len(g.Active) }

// IJK converts a 0-based global index to 1-based grid coordinates.
func (g *Geometry) IJK(global int) (i, j, k int) {
	i = global%g.NX + 1
	j = (global/g.NX)%g.NY + 1
	k = global/(g.NX*g.NY) + 1
	return
}

// corner returns the xyz position of one of a cell's 8 corners. Corners
// are numbered with x varying fastest, the top face first.
func (g *Geometry) corner(i, j, k, c int) [3]float64 {
	dx, dy, dz := c&1, (c>>1)&1, (c>>2)&1
	ii, jj, kk := 2*i+dx, 2*j+dy, 2*k+dz
	z := g.zcorn[(2*g.NX)*(2*g.NY)*kk+(2*g.NX)*jj+ii]

	pillar := 6 * ((g.NX+1)*(j+dy) + (i + dx))
	x1, y1, z1 := g.coord[pillar], g.coord[pillar+1], g.coord[pillar+2]
	x2, y2, z2 := g.coord[pillar+3], g.coord[pillar+4], g.coord[pillar+5]
	if z2 == z1 {
		return [3]float64{x1, y1, z}
	}
	t := (z - z1) / (z2 - z1)
	return [3]float64{x1 + t*(x2-x1), y1 + t*(y2-y1), z}
}

// CellStats returns center coordinates, z extent and volume of the cell
// at a 0-based global index.
func (g *Geometry) CellStats(global int) (x, y, z, zmin, zmax, volume float64) {
	i := global % g.NX
	j := (global / g.NX) % g.NY
	k := global / (g.NX * g.NY)
	var corners [8][3]float64
	zmin, zmax = math.Inf(1), math.Inf(-1)
	for c := 0; c < 8; c++ {
		corners[c] = g.corner(i, j, k, c)
		x += corners[c][0] / 8
		y += corners[c][1] / 8
		z += corners[c][2] / 8
		zmin = math.Min(zmin, corners[c][2])
		zmax = math.Max(zmax, corners[c][2])
	}
	volume = hexVolume(corners)
	return
}

// hexVolume computes the volume of a trilinear hexahedron by the
// six-tetrahedron decomposition around the 0-7 diagonal.
func hexVolume(c [8][3]float64) float64 {
	tets := [6][3]int{
		{1, 3, 7}, {3, 2, 7}, {2, 6, 7},
		{6, 4, 7}, {4, 5, 7}, {5, 1, 7},
	}
	var sum float64
	for _, t := range tets {
		sum += tetVolume(c[0], c[t[0]], c[t[1]], c[t[2]])
	}
	return math.Abs(sum)
}

func tetVolume(a, b, cc, d [3]float64) float64 {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{cc[0] - a[0], cc[1] - a[1], cc[2] - a[2]}
	w := [3]float64{d[0] - a[0], d[1] - a[1], d[2] - a[2]}
	det := u[0]*(v[1]*w[2]-v[2]*w[1]) -
		u[1]*(v[0]*w[2]-v[2]*w[0]) +
		u[2]*(v[0]*w[1]-v[1]*w[0])
	return det / 6
}
