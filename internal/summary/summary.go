// Package summary converts SMSPEC/UNSMRY vector data to a DATE-indexed
// table and back. Vector columns are named by the simulator convention:
// field vectors bare (FOPT), well and group vectors suffixed with the
// name (WOPR:OP1), region and block vectors with the number (RPR:2).
package summary

import (
	"errors"
	"fmt"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfile"
	"github.com/equinor/res2df/internal/resfiles"
)

var (
	// ErrNoTimeVector means the summary carries no TIME vector.
	ErrNoTimeVector = errors.New("summary without TIME vector")
	// ErrBadSmspec means the specification file is inconsistent.
	ErrBadSmspec = errors.New("inconsistent SMSPEC")
	// ErrBadTimeIndex means the requested resampling mnemonic is unknown.
	ErrBadTimeIndex = errors.New("unknown time index")
)

// emptyWGName is what the simulator stores for vectors without an
// associated well or group.
const emptyWGName = ":+:+:+:+"

// Vector is one summary vector's metadata.
type Vector struct {
	Name   string
	WGName string
	Num    int
	Unit   string
}

// Key returns the column name of the vector.
func (v Vector) Key() string {
	wg := strings.TrimSpace(v.WGName)
	if wg == emptyWGName {
		wg = ""
	}
	switch {
	case v.Name == "":
		return ""
	case v.Name[0] == 'W' || v.Name[0] == 'G':
		if wg != "" {
			return v.Name + ":" + wg
		}
	case v.Name[0] == 'C':
		if wg != "" && v.Num > 0 {
			return v.Name + ":" + wg + ":" + strconv.Itoa(v.Num)
		}
	case v.Name[0] == 'R' || v.Name[0] == 'B':
		if v.Num > 0 {
			return v.Name + ":" + strconv.Itoa(v.Num)
		}
	}
	return v.Name
}

// Summary is a decoded summary file pair.
type Summary struct {
	Start   time.Time
	Vectors []Vector
	// Steps[i] holds the PARAMS values of ministep i.
	Steps [][]float64
	// Dims holds the grid dimensions from DIMENS, zero when absent.
	Dims [3]int

	timeIdx int
}

// CellIJK converts a connection vector's 1-based global cell number to
// grid coordinates. Requires DIMENS.
func (s *Summary) CellIJK(num int) (i, j, k int, ok bool) {
	nx, ny := s.Dims[0], s.Dims[1]
	if nx <= 0 || ny <= 0 || num <= 0 {
		return 0, 0, 0, false
	}
	g := num - 1
	return g%nx + 1, (g/nx)%ny + 1, g/(nx*ny) + 1, true
}

// Read decodes an SMSPEC/UNSMRY pair.
func Read(smspec, unsmry *resfile.File) (*Summary, error) {
	s := &Summary{timeIdx: -1}
	names, err := charVector(smspec, "KEYWORDS")
	if err != nil {
		return nil, err
	}
	wgnames, err := charVector(smspec, "WGNAMES")
	if err != nil {
		wgnames, err = charVector(smspec, "NAMES")
		if err != nil {
			wgnames = make([]string, len(names))
		}
	}
	units, err := charVector(smspec, "UNITS")
	if err != nil {
		units = make([]string, len(names))
	}
	nums := make([]int, len(names))
	if kw, err := smspec.First("NUMS"); err == nil {
		if vals, err := kw.Ints(); err == nil {
			copy(nums, vals)
		}
	}
	if len(wgnames) != len(names) || len(units) != len(names) {
		return nil, fmt.Errorf("%w: %d names, %d wgnames, %d units",
			ErrBadSmspec, len(names), len(wgnames), len(units))
	}
	for i, name := range names {
		v := Vector{
			Name:   strings.TrimSpace(name),
			WGName: strings.TrimSpace(wgnames[i]),
			Num:    nums[i],
			Unit:   strings.TrimSpace(units[i]),
		}
		if v.Name == "TIME" {
			s.timeIdx = i
		}
		s.Vectors = append(s.Vectors, v)
	}
	if s.timeIdx < 0 {
		return nil, ErrNoTimeVector
	}

	if kw, err := smspec.First("DIMENS"); err == nil {
		if vals, err := kw.Ints(); err == nil && len(vals) >= 4 {
			s.Dims = [3]int{vals[1], vals[2], vals[3]}
		}
	}
	if kw, err := smspec.First("STARTDAT"); err == nil {
		vals, err := kw.Ints()
		if err == nil && len(vals) >= 3 {
			s.Start = time.Date(vals[2], time.Month(vals[1]), vals[0],
				0, 0, 0, 0, time.UTC)
		}
	}

	for _, kw := range unsmry.All("PARAMS") {
		vals, err := kw.Floats()
		if err != nil {
			return nil, err
		}
		if len(vals) != len(s.Vectors) {
			return nil, fmt.Errorf("%w: PARAMS of %d values for %d vectors",
				ErrBadSmspec, len(vals), len(s.Vectors))
		}
		s.Steps = append(s.Steps, vals)
	}
	return s, nil
}

func charVector(f *resfile.File, name string) ([]string, error) {
	kw, err := f.First(name)
	if err != nil {
		return nil, err
	}
	return kw.Strings()
}

// Dates returns the date of every ministep.
func (s *Summary) Dates() []time.Time {
	out := make([]time.Time, len(s.Steps))
	for i, step := range s.Steps {
		out[i] = s.Start.Add(time.Duration(step[s.timeIdx] * 24 * float64(time.Hour)))
	}
	return out
}

// Options controls extraction.
type Options struct {
	// TimeIndex is raw, first, last, daily, weekly, monthly, yearly, or
	// an ISO date. Empty means raw.
	TimeIndex string
	// ColumnKeys filters vectors by glob patterns; empty keeps all.
	ColumnKeys []string
	// StartDate and EndDate crop the date range when non-zero.
	StartDate time.Time
	EndDate   time.Time
}

// Df extracts a case's summary data into a DATE-indexed table.
func Df(c *resfiles.Case, opts Options) (*frame.Table, error) {
	smspec, err := c.Smspec()
	if err != nil {
		return nil, err
	}
	unsmry, err := c.Unsmry()
	if err != nil {
		return nil, err
	}
	s, err := Read(smspec, unsmry)
	if err != nil {
		return nil, err
	}
	return s.Df(opts)
}

// Df builds the table for one decoded summary.
func (s *Summary) Df(opts Options) (*frame.Table, error) {
	selected := s.selectVectors(opts.ColumnKeys)
	dates := s.Dates()
	sampled, err := s.sampleDates(dates, opts)
	if err != nil {
		return nil, err
	}

	columns := append([]string{"DATE"}, make([]string, 0, len(selected))...)
	for _, idx := range selected {
		columns = append(columns, s.Vectors[idx].Key())
	}
	tbl := frame.New(columns...)
	for _, d := range sampled {
		row := map[string]any{"DATE": formatDate(d)}
		for _, idx := range selected {
			row[s.Vectors[idx].Key()] = s.interpolate(dates, d, idx)
		}
		tbl.Append(row)
	}
	return tbl, nil
}

// selectVectors returns the indices of vectors matching the key
// patterns, in SMSPEC order, TIME excluded.
func (s *Summary) selectVectors(patterns []string) []int {
	var out []int
	for i, v := range s.Vectors {
		if i == s.timeIdx || v.Key() == "" {
			continue
		}
		if len(patterns) == 0 {
			out = append(out, i)
			continue
		}
		for _, p := range patterns {
			if ok, err := path.Match(p, v.Key()); err == nil && ok {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// sampleDates resolves the time index option to concrete dates inside
// the cropped range.
func (s *Summary) sampleDates(dates []time.Time, opts Options) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	first, last := dates[0], dates[len(dates)-1]
	explicitStart := !opts.StartDate.IsZero() && opts.StartDate.After(first)
	explicitEnd := !opts.EndDate.IsZero() && opts.EndDate.Before(last)
	if explicitStart {
		first = opts.StartDate
	}
	if explicitEnd {
		last = opts.EndDate
	}
	switch opts.TimeIndex {
	case "", "raw":
		var out []time.Time
		for _, d := range dates {
			if !d.Before(first) && !d.After(last) {
				out = append(out, d)
			}
		}
		return out, nil
	case "first":
		return []time.Time{first}, nil
	case "last":
		return []time.Time{last}, nil
	case "daily", "weekly", "monthly", "yearly":
		return frequencyRange(first, last, opts.TimeIndex, explicitStart, explicitEnd), nil
	default:
		d, err := time.Parse("2006-01-02", opts.TimeIndex)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadTimeIndex, opts.TimeIndex)
		}
		return []time.Time{d}, nil
	}
}

// frequencyRange returns frequency boundary dates covering [first,
// last]: the range is widened so the first boundary lies at or before
// first and the closing boundary at or past last. An explicitly
// requested start or end date is kept as-is instead of widened, and is
// force-included when it falls off-boundary.
func frequencyRange(first, last time.Time, freq string, explicitStart, explicitEnd bool) []time.Time {
	start := first
	if !explicitStart {
		start = normalizeDown(first, freq)
	}
	end := last
	if !explicitEnd {
		end = normalizeUp(last, freq)
	}
	var out []time.Time
	for d := normalizeDown(start, freq); !d.After(end); d = advance(d, freq) {
		if !d.Before(start) {
			out = append(out, d)
		}
	}
	if explicitStart && (len(out) == 0 || !out[0].Equal(start)) {
		out = append([]time.Time{start}, out...)
	}
	if explicitEnd && (len(out) == 0 || !out[len(out)-1].Equal(end)) {
		out = append(out, end)
	}
	return out
}

func normalizeDown(t time.Time, freq string) time.Time {
	y, m, d := t.Date()
	switch freq {
	case "daily":
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case "weekly":
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7 // Monday start
		return day.AddDate(0, 0, -offset)
	case "monthly":
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	default: // yearly
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

// normalizeUp returns t itself when it already lies on a frequency
// boundary, otherwise the next boundary after it.
func normalizeUp(t time.Time, freq string) time.Time {
	down := normalizeDown(t, freq)
	if down.Equal(t) {
		return t
	}
	return advance(down, freq)
}

func advance(t time.Time, freq string) time.Time {
	switch freq {
	case "daily":
		return t.AddDate(0, 0, 1)
	case "weekly":
		return t.AddDate(0, 0, 7)
	case "monthly":
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// interpolate evaluates a vector at a date, linear between ministeps,
// clamped at the ends.
func (s *Summary) interpolate(dates []time.Time, at time.Time, idx int) float64 {
	n := len(dates)
	if n == 0 {
		return math.NaN()
	}
	if !at.After(dates[0]) {
		return s.Steps[0][idx]
	}
	if !at.Before(dates[n-1]) {
		return s.Steps[n-1][idx]
	}
	hi := sort.Search(n, func(i int) bool { return !dates[i].Before(at) })
	lo := hi - 1
	if dates[hi].Equal(at) {
		return s.Steps[hi][idx]
	}
	span := dates[hi].Sub(dates[lo]).Seconds()
	if span == 0 {
		return s.Steps[hi][idx]
	}
	w := at.Sub(dates[lo]).Seconds() / span
	return s.Steps[lo][idx]*(1-w) + s.Steps[hi][idx]*w
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
