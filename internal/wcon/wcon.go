// Package wcon extracts well control data (WCONHIST, WCONINJE,
// WCONINJH, WCONPROD) from the SCHEDULE section, one row per well per
// keyword occurrence, dated by the schedule walker.
package wcon

import (
	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
)

// Keywords lists the supported control keywords.
var Keywords = []string{"WCONHIST", "WCONINJE", "WCONINJH", "WCONPROD"}

// Df extracts well control records with DATE and KEYWORD columns.
func Df(d *deck.Deck) (*frame.Table, error) {
	events, err := d.Schedule(Keywords...)
	if err != nil {
		return nil, err
	}
	tbl := frame.New("WELL", "DATE", "KEYWORD")
	for _, ev := range events {
		for _, rec := range ev.Keyword.Records {
			if rec.Empty() {
				continue
			}
			row, err := recordRow(ev.Keyword, rec)
			if err != nil {
				return nil, err
			}
			row["DATE"] = ev.Date
			row["KEYWORD"] = ev.Keyword.Name
			tbl.Append(row)
		}
	}
	return tbl, nil
}

func recordRow(kw deck.Keyword, rec deck.Record) (map[string]any, error) {
	f := kw.Fields(rec)
	row := make(map[string]any, len(kw.Def.Items))
	for _, item := range kw.Def.Items {
		switch item.Kind {
		case deck.KindString:
			row[item.Name] = f.Str(item.Name)
		case deck.KindInt:
			v, err := f.Int(item.Name)
			if err != nil {
				return nil, err
			}
			row[item.Name] = v
		case deck.KindFloat:
			v, err := f.Float(item.Name)
			if err != nil {
				return nil, err
			}
			row[item.Name] = v
		}
	}
	return row, nil
}
