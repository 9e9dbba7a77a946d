// Package wellconnstatus derives sparse connection status-change events
// from the CPI (connection productivity index) summary vectors: a
// connection opens when its CPI turns positive and shuts when it drops
// back to zero.
package wellconnstatus

import (
	"errors"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfiles"
	"github.com/equinor/res2df/internal/summary"
)

// ErrNoDimens means the summary lacks grid dimensions, so connection
// numbers cannot be converted to cell coordinates.
var ErrNoDimens = errors.New("summary without DIMENS")

// Df extracts status-change events for all connections of a case,
// sorted by date, well and cell.
func Df(c *resfiles.Case) (*frame.Table, error) {
	smspec, err := c.Smspec()
	if err != nil {
		return nil, err
	}
	unsmry, err := c.Unsmry()
	if err != nil {
		return nil, err
	}
	s, err := summary.Read(smspec, unsmry)
	if err != nil {
		return nil, err
	}
	return FromSummary(s)
}

// FromSummary derives the events from a decoded summary.
func FromSummary(s *summary.Summary) (*frame.Table, error) {
	type conn struct {
		idx     int
		well    string
		i, j, k int
	}
	var conns []conn
	for idx, v := range s.Vectors {
		if v.Name != "CPI" {
			continue
		}
		i, j, k, ok := s.CellIJK(v.Num)
		if !ok {
			return nil, ErrNoDimens
		}
		conns = append(conns, conn{idx: idx, well: v.WGName, i: i, j: j, k: k})
	}

	dates := s.Dates()
	tbl := frame.New("DATE", "WELL", "I", "J", "K", "OP/SH")
	for _, cn := range conns {
		open := false
		for step, params := range s.Steps {
			nowOpen := params[cn.idx] > 0
			if step == 0 && !nowOpen {
				continue // never opened yet, no event
			}
			if step == 0 || nowOpen != open {
				status := "SHUT"
				if nowOpen {
					status = "OPEN"
				}
				tbl.Append(map[string]any{
					"DATE": dates[step], "WELL": cn.well,
					"I": cn.i, "J": cn.j, "K": cn.k,
					"OP/SH": status,
				})
			}
			open = nowOpen
		}
	}
	tbl.Sort("DATE", "WELL", "I", "J", "K")
	return tbl, nil
}
