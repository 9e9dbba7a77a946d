// Package inferdims guesses table dimensioning for standalone include
// files. Property include files are often distributed without the
// RUNSPEC keywords (TABDIMS, EQLDIMS) that declare how many regions
// their tables cover; the region count is then recovered from the record
// structure of the tables themselves.
package inferdims

import "github.com/equinor/res2df/internal/deck"

// compositional keywords separate regions with an empty record; for all
// other table keywords one record is one region.
var compositional = map[string]bool{"PVTO": true, "PVTG": true}

// regionCount counts the regions covered by one keyword occurrence.
func regionCount(kw deck.Keyword) int {
	n := 0
	for _, rec := range kw.Records {
		if compositional[kw.Name] {
			if rec.Empty() {
				n++
			}
		} else if !rec.Empty() {
			n++
		}
	}
	return n
}

// guess returns the largest region count over the given keywords, at
// least 1.
func guess(d *deck.Deck, keywords []string) int {
	max := 1
	for _, name := range keywords {
		for _, kw := range d.ByName(name) {
			if n := regionCount(kw); n > max {
				max = n
			}
		}
	}
	return max
}

func dimItem(d *deck.Deck, keyword, item string) (int, bool) {
	kw, ok := d.First(keyword)
	if !ok || len(kw.Records) == 0 {
		return 0, false
	}
	v, err := kw.Fields(kw.Records[0]).Int(item)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NTSFUN returns the saturation-function region count, from TABDIMS when
// declared, otherwise guessed from the saturation tables present.
func NTSFUN(d *deck.Deck) int {
	if v, ok := dimItem(d, "TABDIMS", "NTSFUN"); ok {
		return v
	}
	return guess(d, []string{
		"SWOF", "SGOF", "SWFN", "SGWFN", "SOF2", "SGFN", "SOF3", "SLGOF",
	})
}

// NTPVT returns the PVT region count, from TABDIMS when declared,
// otherwise guessed from the PVT tables present.
func NTPVT(d *deck.Deck) int {
	if v, ok := dimItem(d, "TABDIMS", "NTPVT"); ok {
		return v
	}
	return guess(d, []string{
		"PVTO", "PVTG", "PVDO", "PVDG", "PVTW", "ROCK", "DENSITY",
	})
}

// NTEQUL returns the equilibration region count, from EQLDIMS when
// declared, otherwise the number of EQUIL records.
func NTEQUL(d *deck.Deck) int {
	if v, ok := dimItem(d, "EQLDIMS", "NTEQUL"); ok {
		return v
	}
	return guess(d, []string{"EQUIL", "RSVD", "RVVD", "PBVD", "PDVD"})
}
