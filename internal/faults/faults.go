// Package faults extracts the FAULTS keyword, unrolling each record's
// I/J/K box range to one row per cell.
package faults

import (
	"github.com/equinor/res2df/internal/deck"
	"github.com/equinor/res2df/internal/frame"
)

// Df extracts FAULTS into NAME, I, J, K, FACE rows.
func Df(d *deck.Deck) (*frame.Table, error) {
	tbl := frame.New("NAME", "I", "J", "K", "FACE")
	for _, kw := range d.ByName("FAULTS") {
		for _, rec := range kw.Records {
			if rec.Empty() {
				continue
			}
			f := kw.Fields(rec)
			name := f.Str("NAME")
			face := f.Str("FACE")
			box := make(map[string][2]int, 3)
			for axis, items := range map[string][2]string{
				"I": {"IX1", "IX2"}, "J": {"IY1", "IY2"}, "K": {"IZ1", "IZ2"},
			} {
				lo, err := f.Int(items[0])
				if err != nil {
					return nil, err
				}
				hi, err := f.Int(items[1])
				if err != nil {
					return nil, err
				}
				box[axis] = [2]int{lo, hi}
			}
			for i := box["I"][0]; i <= box["I"][1]; i++ {
				for j := box["J"][0]; j <= box["J"][1]; j++ {
					for k := box["K"][0]; k <= box["K"][1]; k++ {
						tbl.Append(map[string]any{
							"NAME": name, "I": i, "J": j, "K": k, "FACE": face,
						})
					}
				}
			}
		}
	}
	return tbl, nil
}
