// Package compdat builds dated well-connection tables from the SCHEDULE
// section. COMPDAT records are unrolled to one row per layer, with
// defaulted I/J coordinates taken from the WELSPECS well head, and
// WELOPEN/WLIST/COMPLUMP actions applied as new dated rows on top of
// the accumulated connection state.
package compdat

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/res2log"
)

var (
	// ErrUnknownWell means a schedule keyword referenced a well with no
	// prior connections.
	ErrUnknownWell = errors.New("keyword references unknown well")
	// ErrBadWelopen means a WELOPEN record could not be applied.
	ErrBadWelopen = errors.New("unapplicable WELOPEN record")
)

var log = res2log.Nop()

// SetLogger routes warnings about tolerated but suspicious schedule
// records, e.g. unrecognized WELOPEN statuses.
func SetLogger(l *zap.SugaredLogger) { log = l }

// Keywords lists everything the compdat state machine consumes.
var Keywords = []string{
	"WELSPECS", "COMPDAT", "COMPLUMP", "WELOPEN", "WLIST",
	"WELSEGS", "COMPSEGS", "WSEGSICD", "WSEGAICD", "WSEGVALV",
}

// compdatColumns is the output column order of the connection table.
var compdatColumns = []string{
	"DATE", "WELL", "I", "J", "K1", "K2", "OP/SH", "SATN",
	"TRAN", "WBDIA", "KH", "SKIN", "DFACT", "DIR", "PEQVR",
}

// Tables holds every table the schedule walk produces.
type Tables struct {
	Compdat  *frame.Table
	Welsegs  *frame.Table
	Compsegs *frame.Table
	Wsegsicd *frame.Table
	Wsegaicd *frame.Table
	Wsegvalv *frame.Table
	Wlist    *frame.Table
}

// connRow is one connection's state change at one date.
type connRow struct {
	date    time.Time
	well    string
	i, j, k int
	status  string
	props   map[string]any
}

type lumpRange struct {
	i, j, k1, k2, n int
}

type state struct {
	rows      []*connRow
	latest    map[string]*connRow // well/i/j/k -> newest row
	wellOrder []string
	wellSeen  map[string]bool
	heads     map[string][2]int
	lumps     map[string][]lumpRange
	wlists    map[string][]string

	tables *Tables
}

func newState() *state {
	return &state{
		latest:   map[string]*connRow{},
		wellSeen: map[string]bool{},
		heads:    map[string][2]int{},
		lumps:    map[string][]lumpRange{},
		wlists:   map[string][]string{},
		tables: &Tables{
			Compdat:  frame.New(compdatColumns...),
			Welsegs:  frame.New("DATE", "WELL"),
			Compsegs: frame.New("DATE", "WELL"),
			Wsegsicd: frame.New("DATE", "WELL"),
			Wsegaicd: frame.New("DATE", "WELL"),
			Wsegvalv: frame.New("DATE", "WELL"),
			Wlist:    frame.New("DATE", "NAME", "ACTION", "WELLS"),
		},
	}
}

// DeckTables walks the schedule and produces all connection-related
// tables.
func DeckTables(d *deck.Deck) (*Tables, error) {
	events, err := d.Schedule(Keywords...)
	if err != nil {
		return nil, err
	}
	st := newState()
	for _, ev := range events {
		if err := st.apply(ev); err != nil {
			return nil, err
		}
	}
	st.flush()
	return st.tables, nil
}

// Df returns the COMPDAT connection table, sorted by date, well and
// cell.
func Df(d *deck.Deck) (*frame.Table, error) {
	tables, err := DeckTables(d)
	if err != nil {
		return nil, err
	}
	tables.Compdat.Sort("DATE", "WELL", "I", "J", "K1")
	return tables.Compdat, nil
}

func (s *state) apply(ev deck.ScheduleEvent) error {
	kw := ev.Keyword
	switch kw.Name {
	case "WELSPECS":
		return s.applyWelspecs(kw)
	case "COMPDAT":
		return s.applyCompdat(ev.Date, kw)
	case "COMPLUMP":
		return s.applyComplump(kw)
	case "WELOPEN":
		return s.applyWelopen(ev.Date, kw)
	case "WLIST":
		return s.applyWlist(ev.Date, kw)
	case "WELSEGS":
		return s.applyWelsegs(ev.Date, kw)
	case "COMPSEGS":
		return s.applyCompsegs(ev.Date, kw)
	case "WSEGSICD", "WSEGAICD":
		return s.applySegmentRange(ev.Date, kw)
	case "WSEGVALV":
		return s.applyWsegvalv(ev.Date, kw)
	}
	return nil
}

func (s *state) applyWelspecs(kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		i, err := f.Int("HEAD_I")
		if err != nil {
			return err
		}
		j, err := f.Int("HEAD_J")
		if err != nil {
			return err
		}
		s.heads[f.Str("WELL")] = [2]int{i, j}
	}
	return nil
}

func (s *state) applyCompdat(date time.Time, kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		well := f.Str("WELL")
		i, err := f.Int("I")
		if err != nil {
			return err
		}
		j, err := f.Int("J")
		if err != nil {
			return err
		}
		if i <= 0 || j <= 0 {
			head, ok := s.heads[well]
			if !ok {
				return fmt.Errorf("%w: %s with defaulted I/J and no WELSPECS", ErrUnknownWell, well)
			}
			if i <= 0 {
				i = head[0]
			}
			if j <= 0 {
				j = head[1]
			}
		}
		k1, err := f.Int("K1")
		if err != nil {
			return err
		}
		k2, err := f.Int("K2")
		if err != nil {
			return err
		}
		props := map[string]any{"DIR": f.Str("DIR")}
		satn, err := f.Int("SATN")
		if err != nil {
			return err
		}
		props["SATN"] = satn
		for _, item := range []string{"TRAN", "WBDIA", "KH", "SKIN", "DFACT", "PEQVR"} {
			v, err := f.Float(item)
			if err != nil {
				return err
			}
			props[item] = v
		}
		status := f.Str("OP/SH")
		for k := k1; k <= k2; k++ {
			s.addRow(&connRow{
				date: date, well: well, i: i, j: j, k: k,
				status: status, props: props,
			})
		}
	}
	return nil
}

func (s *state) addRow(row *connRow) {
	s.rows = append(s.rows, row)
	s.latest[connKey(row.well, row.i, row.j, row.k)] = row
	if !s.wellSeen[row.well] {
		s.wellSeen[row.well] = true
		s.wellOrder = append(s.wellOrder, row.well)
	}
}

func connKey(well string, i, j, k int) string {
	return fmt.Sprintf("%s/%d/%d/%d", well, i, j, k)
}

func (s *state) applyComplump(kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		well := f.Str("WELL")
		var vals [5]int
		for idx, item := range []string{"I", "J", "K1", "K2", "N"} {
			v, err := f.Int(item)
			if err != nil {
				return err
			}
			vals[idx] = v
		}
		s.lumps[well] = append(s.lumps[well], lumpRange{
			i: vals[0], j: vals[1], k1: vals[2], k2: vals[3], n: vals[4],
		})
	}
	return nil
}

// lumpNumber returns the completion number of a connection, 0 when the
// connection is not lumped.
func (s *state) lumpNumber(row *connRow) int {
	for _, lr := range s.lumps[row.well] {
		if (lr.i == 0 || lr.i == row.i) &&
			(lr.j == 0 || lr.j == row.j) &&
			(lr.k1 == 0 || row.k >= lr.k1) &&
			(lr.k2 == 0 || row.k <= lr.k2) {
			return lr.n
		}
	}
	return 0
}

func (s *state) applyWelopen(date time.Time, kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		pattern := f.Str("WELL")
		var coords [3]int
		for idx, item := range []string{"I", "J", "K"} {
			v, err := f.Int(item)
			if err != nil {
				return err
			}
			coords[idx] = v
		}
		c1, err := f.Int("C1")
		if err != nil {
			return err
		}
		c2, err := f.Int("C2")
		if err != nil {
			return err
		}
		coordsGiven := coords[0] > 0 || coords[1] > 0 || coords[2] > 0
		lumpGiven := c1 > 0 || c2 > 0
		status, known := welopenStatus(f.Str("STATUS"), coordsGiven || lumpGiven)
		if !known {
			log.Warnf("WELOPEN %s at %s: unknown status %q treated as SHUT",
				pattern, date.Format("2006-01-02"), f.Str("STATUS"))
		}

		wells := s.matchWells(pattern)
		if len(wells) == 0 {
			return fmt.Errorf("%w: %s at %s", ErrUnknownWell, pattern, date.Format("2006-01-02"))
		}
		applied := false
		for _, well := range wells {
			for _, row := range s.latestRows(well) {
				if coordsGiven && !coordMatch(coords, row) {
					continue
				}
				if lumpGiven && !lumpMatch(s.lumpNumber(row), c1, c2) {
					continue
				}
				applied = true
				s.addRow(&connRow{
					date: date, well: row.well, i: row.i, j: row.j, k: row.k,
					status: status, props: row.props,
				})
			}
		}
		if !applied {
			return fmt.Errorf("%w: %s %v at %s", ErrBadWelopen,
				pattern, coords, date.Format("2006-01-02"))
		}
	}
	return nil
}

// welopenStatus maps a WELOPEN status to the connection status it
// implies. STOP halts the well above the formation, leaving the
// connections open, but shuts a directly addressed connection. An
// unrecognized status reports known=false and falls back to SHUT.
func welopenStatus(status string, connectionLevel bool) (result string, known bool) {
	switch status {
	case "OPEN", "POPN", "AUTO":
		return "OPEN", true
	case "SHUT":
		return "SHUT", true
	case "STOP":
		if connectionLevel {
			return "SHUT", true
		}
		return "OPEN", true
	default:
		return "SHUT", false
	}
}

func coordMatch(coords [3]int, row *connRow) bool {
	return (coords[0] <= 0 || coords[0] == row.i) &&
		(coords[1] <= 0 || coords[1] == row.j) &&
		(coords[2] <= 0 || coords[2] == row.k)
}

func lumpMatch(lump, c1, c2 int) bool {
	if lump == 0 {
		return false
	}
	if c2 == 0 {
		c2 = c1
	}
	return lump >= c1 && lump <= c2
}

// latestRows returns the newest state of every connection of a well, in
// first-seen order.
func (s *state) latestRows(well string) []*connRow {
	var out []*connRow
	seen := map[string]bool{}
	for _, row := range s.rows {
		if row.well != well {
			continue
		}
		key := connKey(row.well, row.i, row.j, row.k)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s.latest[key])
	}
	return out
}

// flush materializes the accumulated connection rows into the output
// table.
func (s *state) flush() {
	for _, row := range s.rows {
		cells := map[string]any{
			"DATE": row.date, "WELL": row.well,
			"I": row.i, "J": row.j, "K1": row.k, "K2": row.k,
			"OP/SH": row.status,
		}
		for k, v := range row.props {
			cells[k] = v
		}
		s.tables.Compdat.Append(cells)
	}
}
