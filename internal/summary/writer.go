package summary

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfile"
)

// ToKeywords builds a synthetic SMSPEC/UNSMRY keyword pair from a
// DATE-indexed table, the inverse of Df. Every non-DATE column becomes
// one vector.
func ToKeywords(tbl *frame.Table) (smspec, unsmry []*resfile.Keyword, err error) {
	dates, err := tableDates(tbl)
	if err != nil {
		return nil, nil, err
	}
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("%w: empty table", ErrBadSmspec)
	}
	start := dates[0]

	vectors := []Vector{{Name: "TIME", Unit: "DAYS"}}
	var columns []string
	for _, name := range tbl.Names() {
		if name == "DATE" {
			continue
		}
		columns = append(columns, name)
		vectors = append(vectors, vectorFromKey(name))
	}

	names := make([]string, len(vectors))
	wgnames := make([]string, len(vectors))
	nums := make([]int, len(vectors))
	units := make([]string, len(vectors))
	for i, v := range vectors {
		names[i] = v.Name
		wgnames[i] = v.WGName
		if wgnames[i] == "" {
			wgnames[i] = emptyWGName
		}
		nums[i] = v.Num
		units[i] = v.Unit
	}
	smspec = []*resfile.Keyword{
		resfile.NewIntKeyword("STARTDAT", []int{
			start.Day(), int(start.Month()), start.Year(),
		}),
		resfile.NewCharKeyword("KEYWORDS", names),
		resfile.NewCharKeyword("WGNAMES", wgnames),
		resfile.NewIntKeyword("NUMS", nums),
		resfile.NewCharKeyword("UNITS", units),
	}

	unsmry = []*resfile.Keyword{resfile.NewIntKeyword("SEQHDR", []int{0})}
	for i, d := range dates {
		params := make([]float64, 0, len(vectors))
		params = append(params, d.Sub(start).Hours()/24)
		for _, col := range columns {
			params = append(params, tbl.Floats(col)[i])
		}
		unsmry = append(unsmry,
			resfile.NewIntKeyword("MINISTEP", []int{i}),
			resfile.NewFloatKeyword("PARAMS", params),
		)
	}
	return smspec, unsmry, nil
}

// Write stores a table as basePath.SMSPEC and basePath.UNSMRY.
func Write(tbl *frame.Table, basePath string) error {
	smspec, unsmry, err := ToKeywords(tbl)
	if err != nil {
		return err
	}
	if err := resfile.Write(basePath+".SMSPEC", smspec); err != nil {
		return err
	}
	return resfile.Write(basePath+".UNSMRY", unsmry)
}

func tableDates(tbl *frame.Table) ([]time.Time, error) {
	raw := tbl.Strings("DATE")
	out := make([]time.Time, len(raw))
	for i, s := range raw {
		d, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrBadSmspec, s)
}

// vectorFromKey reverses Vector.Key naming.
func vectorFromKey(key string) Vector {
	parts := strings.Split(key, ":")
	v := Vector{Name: parts[0]}
	if len(parts) == 1 || v.Name == "" {
		return v
	}
	switch v.Name[0] {
	case 'W', 'G':
		v.WGName = parts[1]
	case 'C':
		v.WGName = parts[1]
		if len(parts) > 2 {
			v.Num, _ = strconv.Atoi(parts[2])
		}
	case 'R', 'B':
		v.Num, _ = strconv.Atoi(parts[1])
	}
	return v
}
