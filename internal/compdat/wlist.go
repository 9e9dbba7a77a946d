package compdat

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/deck"
)

// matchWells expands a WELOPEN well reference: a '*NAME' well-list
// lookup, a wildcard pattern over known wells, or a literal name.
func (s *state) matchWells(pattern string) []string {
	if strings.HasPrefix(pattern, "*") {
		return append([]string(nil), s.wlists[strings.TrimPrefix(pattern, "*")]...)
	}
	if strings.ContainsAny(pattern, "*?[") {
		var out []string
		for _, well := range s.wellOrder {
			if deck.MatchesWell(pattern, well) {
				out = append(out, well)
			}
		}
		return out
	}
	if s.wellSeen[pattern] {
		return []string{pattern}
	}
	return nil
}

// applyWlist maintains well-list membership. Every action is recorded
// as a NEW-equivalent snapshot holding the full membership after the
// action.
func (s *state) applyWlist(date time.Time, kw deck.Keyword) error {
	for _, rec := range kw.Records {
		if rec.Empty() {
			continue
		}
		items := rec.Strings()
		if len(items) < 2 {
			return fmt.Errorf("WLIST: %w", deck.ErrMalformedRecord)
		}
		name := strings.TrimPrefix(items[0], "*")
		action := items[1]
		var wells []string
		for _, w := range items[2:] {
			if w != "" {
				wells = append(wells, w)
			}
		}
		switch action {
		case "NEW":
			s.wlists[name] = wells
		case "ADD":
			s.wlists[name] = appendMissing(s.wlists[name], wells)
		case "DEL":
			s.wlists[name] = removeWells(s.wlists[name], wells)
		case "MOV":
			// every list a well was moved out of gets its own snapshot
			var moved []string
			for other := range s.wlists {
				if other == name {
					continue
				}
				trimmed := removeWells(s.wlists[other], wells)
				if len(trimmed) != len(s.wlists[other]) {
					s.wlists[other] = trimmed
					moved = append(moved, other)
				}
			}
			sort.Strings(moved)
			for _, other := range moved {
				s.tables.Wlist.Append(map[string]any{
					"DATE": date, "NAME": other, "ACTION": "NEW",
					"WELLS": strings.Join(s.wlists[other], " "),
				})
			}
			s.wlists[name] = appendMissing(s.wlists[name], wells)
		default:
			return fmt.Errorf("WLIST action %q: %w", action, deck.ErrMalformedRecord)
		}
		s.tables.Wlist.Append(map[string]any{
			"DATE": date, "NAME": name, "ACTION": "NEW",
			"WELLS": strings.Join(s.wlists[name], " "),
		})
	}
	return nil
}

func appendMissing(list, wells []string) []string {
	have := map[string]bool{}
	for _, w := range list {
		have[w] = true
	}
	for _, w := range wells {
		if !have[w] {
			list = append(list, w)
		}
	}
	return list
}

func removeWells(list, wells []string) []string {
	drop := map[string]bool{}
	for _, w := range wells {
		drop[w] = true
	}
	var out []string
	for _, w := range list {
		if !drop[w] {
			out = append(out, w)
		}
	}
	return out
}
