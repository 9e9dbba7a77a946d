// Package wellcompletiondata aggregates connection data from layer to
// zone level: per well and date, the summed KH over open connections in
// each zone and the zone's open/shut status.
package wellcompletiondata

import (
	"errors"
	"math"
	"sort"

	"github.com/equinor/res2df/internal/compdat"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfiles"
	"github.com/equinor/res2df/internal/wellconnstatus"
	"github.com/equinor/res2df/internal/zonemap"
)

// ErrNoZoneMap means zone aggregation was requested without a layer
// mapping.
var ErrNoZoneMap = errors.New("no zone mapping given")

// event is one connection-level change.
type event struct {
	date    string
	well    string
	i, j, k int
	open    bool
	kh      float64 // NaN when the event carries no KH
}

// Options controls the aggregation.
type Options struct {
	// ZoneMap maps K layers to zone names. Required.
	ZoneMap zonemap.ZoneMap
	// UseConnStatus refines open/shut with the summary CPI events.
	UseConnStatus bool
}

// Df aggregates a case's completions to zone level.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	if opts.ZoneMap == nil {
		return nil, ErrNoZoneMap
	}
	d, err := c.Deck()
	if err != nil {
		return nil, err
	}
	compdatTbl, err := compdat.Df(d)
	if err != nil {
		return nil, err
	}
	events := compdatEvents(compdatTbl)
	if opts.UseConnStatus {
		statusTbl, err := wellconnstatus.Df(c)
		if err != nil {
			return nil, err
		}
		events = append(events, statusEvents(statusTbl)...)
	}
	return aggregate(events, opts.ZoneMap), nil
}

// FromCompdat aggregates an already extracted connection table.
func FromCompdat(compdatTbl *frame.Table, zm zonemap.ZoneMap) (*frame.Table, error) {
	if zm == nil {
		return nil, ErrNoZoneMap
	}
	return aggregate(compdatEvents(compdatTbl), zm), nil
}

func compdatEvents(tbl *frame.Table) []event {
	dates := tbl.Strings("DATE")
	wells := tbl.Strings("WELL")
	is := tbl.Floats("I")
	js := tbl.Floats("J")
	ks := tbl.Floats("K1")
	status := tbl.Strings("OP/SH")
	khs := tbl.Floats("KH")
	out := make([]event, 0, tbl.Len())
	for r := 0; r < tbl.Len(); r++ {
		out = append(out, event{
			date: dates[r], well: wells[r],
			i: int(is[r]), j: int(js[r]), k: int(ks[r]),
			open: status[r] == "OPEN", kh: khs[r],
		})
	}
	return out
}

func statusEvents(tbl *frame.Table) []event {
	dates := tbl.Strings("DATE")
	wells := tbl.Strings("WELL")
	is := tbl.Floats("I")
	js := tbl.Floats("J")
	ks := tbl.Floats("K")
	status := tbl.Strings("OP/SH")
	out := make([]event, 0, tbl.Len())
	for r := 0; r < tbl.Len(); r++ {
		out = append(out, event{
			date: dates[r], well: wells[r],
			i: int(is[r]), j: int(js[r]), k: int(ks[r]),
			open: status[r] == "OPEN", kh: math.NaN(),
		})
	}
	return out
}

type connKey struct {
	well    string
	i, j, k int
}

type connState struct {
	open bool
	kh   float64
	zone string
}

// aggregate walks the events in date order, maintaining per-connection
// state, and emits one row per well and zone at every date where any
// connection of the well changed.
func aggregate(events []event, zm zonemap.ZoneMap) *frame.Table {
	sort.SliceStable(events, func(a, b int) bool {
		return events[a].date < events[b].date
	})
	state := map[connKey]*connState{}

	tbl := frame.New("WELL", "DATE", "ZONE", "KH", "OP/SH")
	for n := 0; n < len(events); {
		date := events[n].date
		touched := map[string]bool{}
		for ; n < len(events) && events[n].date == date; n++ {
			ev := events[n]
			zone, ok := zm[ev.k]
			if !ok {
				continue
			}
			key := connKey{ev.well, ev.i, ev.j, ev.k}
			cs, exists := state[key]
			if !exists {
				cs = &connState{kh: math.NaN()}
				state[key] = cs
			}
			cs.open = ev.open
			cs.zone = zone
			if !math.IsNaN(ev.kh) {
				cs.kh = ev.kh
			}
			touched[ev.well] = true
		}
		for _, well := range sortedKeys(touched) {
			emitWell(tbl, state, well, date)
		}
	}
	return tbl
}

// emitWell writes one row per zone of the well: KH summed over open
// connections, status OPEN when any connection in the zone is open.
func emitWell(tbl *frame.Table, state map[connKey]*connState, well, date string) {
	type zoneAgg struct {
		kh      float64
		anyOpen bool
	}
	zones := map[string]*zoneAgg{}
	for key, cs := range state {
		if key.well != well || cs.zone == "" {
			continue
		}
		agg, ok := zones[cs.zone]
		if !ok {
			agg = &zoneAgg{}
			zones[cs.zone] = agg
		}
		if cs.open {
			agg.anyOpen = true
			if !math.IsNaN(cs.kh) {
				agg.kh += cs.kh
			}
		}
	}
	names := make([]string, 0, len(zones))
	for zone := range zones {
		names = append(names, zone)
	}
	sort.Strings(names)
	for _, zone := range names {
		agg := zones[zone]
		status := "SHUT"
		if agg.anyOpen {
			status = "OPEN"
		}
		tbl.Append(map[string]any{
			"WELL": well, "DATE": date, "ZONE": zone,
			"KH": agg.kh, "OP/SH": status,
		})
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
