// Package gruptree extracts the time-dependent production network from
// GRUPTREE and BRANPROP edges, GRUPNET and NODEPROP node data, and
// WELSPECS well-to-group membership. Whenever an edge or node changes,
// the full accumulated tree is re-emitted at that date, one row per
// edge.
package gruptree

import (
	"sort"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
)

// Keywords lists what the extractor consumes from the schedule.
var Keywords = []string{"GRUPTREE", "BRANPROP", "GRUPNET", "NODEPROP", "WELSPECS"}

type state struct {
	// edges[keyword][child] = parent
	edges map[string]map[string]string
	// nodes[child] = property columns
	nodes map[string]map[string]any
	dirty bool
}

func newState() *state {
	return &state{
		edges: map[string]map[string]string{
			"GRUPTREE": {}, "BRANPROP": {}, "WELSPECS": {},
		},
		nodes: map[string]map[string]any{},
	}
}

// Df walks the schedule and emits dated tree snapshots.
func Df(d *deck.Deck) (*frame.Table, error) {
	events, err := d.Schedule(Keywords...)
	if err != nil {
		return nil, err
	}
	tbl := frame.New("DATE", "CHILD", "PARENT", "KEYWORD")
	st := newState()
	var current time.Time
	started := false
	for _, ev := range events {
		if started && !ev.Date.Equal(current) {
			st.emit(tbl, current)
			current = ev.Date
		}
		if !started {
			current = ev.Date
			started = true
		}
		if err := st.apply(ev.Keyword); err != nil {
			return nil, err
		}
	}
	if started {
		st.emit(tbl, current)
	}
	return tbl, nil
}

func (s *state) apply(kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		f := kw.Fields(rec)
		switch kw.Name {
		case "GRUPTREE":
			s.edges["GRUPTREE"][f.Str("CHILD_GROUP")] = f.Str("PARENT_GROUP")
		case "BRANPROP":
			child := f.Str("DOWNTREE_NODE")
			s.edges["BRANPROP"][child] = f.Str("UPTREE_NODE")
			vfp, err := f.Int("VFP_TABLE")
			if err != nil {
				return err
			}
			alq, err := f.Float("ALQ")
			if err != nil {
				return err
			}
			s.setNode(child, map[string]any{"VFP_TABLE": vfp, "ALQ": alq})
		case "WELSPECS":
			s.edges["WELSPECS"][f.Str("WELL")] = f.Str("GROUP")
		case "GRUPNET":
			p, err := f.Float("TERMINAL_PRESSURE")
			if err != nil {
				return err
			}
			s.setNode(f.Str("NAME"), map[string]any{"TERMINAL_PRESSURE": p})
		case "NODEPROP":
			p, err := f.Float("PRESSURE")
			if err != nil {
				return err
			}
			s.setNode(f.Str("NAME"), map[string]any{
				"PRESSURE":         p,
				"AS_CHOKE":         f.Str("AS_CHOKE"),
				"ADD_GAS_LIFT_GAS": f.Str("ADD_GAS_LIFT_GAS"),
			})
		}
	}
	s.dirty = true
	return nil
}

func (s *state) setNode(name string, props map[string]any) {
	node := s.nodes[name]
	if node == nil {
		node = map[string]any{}
		s.nodes[name] = node
	}
	for k, v := range props {
		node[k] = v
	}
}

// emit writes the full current tree at one date, keyword by keyword,
// children sorted for stable output.
func (s *state) emit(tbl *frame.Table, date time.Time) {
	if !s.dirty {
		return
	}
	for _, keyword := range []string{"GRUPTREE", "BRANPROP", "WELSPECS"} {
		edges := s.edges[keyword]
		children := make([]string, 0, len(edges))
		for child := range edges {
			children = append(children, child)
		}
		sort.Strings(children)
		for _, child := range children {
			row := map[string]any{
				"DATE": date, "CHILD": child, "PARENT": edges[child],
				"KEYWORD": keyword,
			}
			for k, v := range s.nodes[child] {
				row[k] = v
			}
			tbl.Append(row)
		}
	}
	s.dirty = false
}

// PrettyPrint renders the tree at the last date of the table as an
// indented listing rooted at the terminal nodes.
func PrettyPrint(tbl *frame.Table) string {
	dates := tbl.Strings("DATE")
	if len(dates) == 0 {
		return ""
	}
	last := dates[len(dates)-1]
	children := map[string][]string{}
	isChild := map[string]bool{}
	parents := map[string]bool{}
	childCol := tbl.Strings("CHILD")
	parentCol := tbl.Strings("PARENT")
	for i := 0; i < tbl.Len(); i++ {
		if dates[i] != last {
			continue
		}
		children[parentCol[i]] = append(children[parentCol[i]], childCol[i])
		isChild[childCol[i]] = true
		parents[parentCol[i]] = true
	}
	var roots []string
	for p := range parents {
		if !isChild[p] {
			roots = append(roots, p)
		}
	}
	sort.Strings(roots)
	var sb strings.Builder
	sb.WriteString(last + "\n")
	for _, root := range roots {
		printNode(&sb, children, root, 0)
	}
	return sb.String()
}

func printNode(sb *strings.Builder, children map[string][]string, node string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth) + node + "\n")
	kids := append([]string(nil), children[node]...)
	sort.Strings(kids)
	for _, kid := range kids {
		printNode(sb, children, kid, depth+1)
	}
}
