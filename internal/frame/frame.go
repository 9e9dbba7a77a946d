// Package frame is the tabular boundary layer of the extractors. Each
// extractor fills a Table row by row; the Table converts to a gota
// DataFrame for in-process consumers and writes CSV in the column
// conventions shared by all extractors (ISO dates, empty cells for NaN).
package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MagicStdout as an output path routes CSV to standard output.
const MagicStdout = "-"

// Table accumulates rows of mixed-type cells under ordered column names.
// Cells may be int, float64, string, bool, time.Time or nil (missing).
type Table struct {
	names []string
	data  map[string][]any
	nrows int
}

// New creates a Table with a preset column order. Columns appearing only
// in appended rows are added after the preset ones, in first-seen order.
func New(columns ...string) *Table {
	t := &Table{data: make(map[string][]any)}
	for _, name := range columns {
		t.names = append(t.names, name)
		t.data[name] = nil
	}
	return t
}

// Append adds one row. Columns absent from the row are left missing.
func (t *Table) Append(row map[string]any) {
	// deterministic order for newly discovered columns
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := t.data[k]; !ok {
			t.names = append(t.names, k)
			t.data[k] = nil
		}
	}
	for _, name := range t.names {
		col := t.pad(name)
		if v, ok := row[name]; ok {
			t.data[name] = append(col, normalize(v))
		} else {
			t.data[name] = append(col, nil)
		}
	}
	t.nrows++
}

// Concat appends all rows of another table, aligning columns by name.
func (t *Table) Concat(other *Table) {
	for i := 0; i < other.nrows; i++ {
		row := make(map[string]any, len(other.names))
		for _, name := range other.names {
			if v := other.cell(name, i); v != nil {
				row[name] = v
			}
		}
		t.Append(row)
	}
}

// Row returns one row as a map, omitting missing cells.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.names))
	for _, name := range t.names {
		if v := t.cell(name, i); v != nil {
			row[name] = v
		}
	}
	return row
}

func (t *Table) pad(name string) []any {
	col := t.data[name]
	for len(col) < t.nrows {
		col = append(col, nil)
	}
	return col
}

func (t *Table) cell(name string, i int) any {
	col := t.data[name]
	if i >= len(col) {
		return nil
	}
	return col[i]
}

func normalize(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	default:
		return v
	}
}

// AddColumn sets a whole column at once. Extra values are dropped,
// short columns padded with missing cells.
func (t *Table) AddColumn(name string, vals []any) {
	if _, ok := t.data[name]; !ok {
		t.names = append(t.names, name)
	}
	col := make([]any, t.nrows)
	for i := 0; i < t.nrows && i < len(vals); i++ {
		col[i] = normalize(vals[i])
	}
	t.data[name] = col
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.nrows }

// Names returns the column order.
func (t *Table) Names() []string { return append([]string(nil), t.names...) }

// Has reports whether a column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.data[name]
	return ok
}

// Floats returns a column as float64, NaN for missing or non-numeric.
func (t *Table) Floats(name string) []float64 {
	out := make([]float64, t.nrows)
	for i := range out {
		out[i] = toFloat(t.cell(name, i))
	}
	return out
}

// Strings returns a column formatted as CSV cells.
func (t *Table) Strings(name string) []string {
	out := make([]string, t.nrows)
	for i := range out {
		out[i] = formatCell(t.cell(name, i))
	}
	return out
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

// Sort orders rows by the given columns, ascending, missing cells first.
func (t *Table) Sort(columns ...string) {
	idx := make([]int, t.nrows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for _, name := range columns {
			c := compareCells(t.cell(name, idx[a]), t.cell(name, idx[b]))
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	for _, name := range t.names {
		col := t.pad(name)
		next := make([]any, t.nrows)
		for i, j := range idx {
			next[i] = col[j]
		}
		t.data[name] = next
	}
}

func compareCells(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	af, aNum := numeric(a)
	bf, bNum := numeric(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := formatCell(a), formatCell(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func numeric(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

// DropMissingColumns removes columns where every cell is missing.
func (t *Table) DropMissingColumns() {
	var kept []string
	for _, name := range t.names {
		empty := true
		for i := 0; i < t.nrows; i++ {
			if t.cell(name, i) != nil {
				empty = false
				break
			}
		}
		if empty {
			delete(t.data, name)
		} else {
			kept = append(kept, name)
		}
	}
	t.names = kept
}

// DropConstantColumns removes columns holding a single distinct value.
func (t *Table) DropConstantColumns() {
	var kept []string
	for _, name := range t.names {
		constant := true
		for i := 1; i < t.nrows; i++ {
			if formatCell(t.cell(name, i)) != formatCell(t.cell(name, 0)) {
				constant = false
				break
			}
		}
		if constant && t.nrows > 0 {
			delete(t.data, name)
		} else {
			kept = append(kept, name)
		}
	}
	t.names = kept
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

// DataFrame converts the table to a gota DataFrame. Integer columns stay
// integer; columns with missing numeric cells become float with NaN.
func (t *Table) DataFrame() dataframe.DataFrame {
	if t.nrows == 0 || len(t.names) == 0 {
		return dataframe.New()
	}
	cols := make([]series.Series, 0, len(t.names))
	for _, name := range t.names {
		cols = append(cols, t.series(name))
	}
	return dataframe.New(cols...)
}

func (t *Table) series(name string) series.Series {
	allInt, numericCol := true, true
	for i := 0; i < t.nrows; i++ {
		switch t.cell(name, i).(type) {
		case int:
		case float64:
			allInt = false
		case nil:
			allInt = false
		default:
			numericCol = false
		}
	}
	switch {
	case numericCol && allInt:
		vals := make([]int, t.nrows)
		for i := range vals {
			vals[i] = t.cell(name, i).(int)
		}
		return series.New(vals, series.Int, name)
	case numericCol:
		return series.New(t.Floats(name), series.Float, name)
	default:
		return series.New(t.Strings(name), series.String, name)
	}
}

// WriteCSV writes header plus rows. Missing cells are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.names); err != nil {
		return err
	}
	rec := make([]string, len(t.names))
	for i := 0; i < t.nrows; i++ {
		for j, name := range t.names {
			rec[j] = formatCell(t.cell(name, i))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteOutput writes the table as CSV to a file, or to stdout when the
// path is "-".
func (t *Table) WriteOutput(path string) error {
	if path == MagicStdout {
		return t.WriteCSV(os.Stdout)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// FromDataFrame rebuilds a Table from a gota DataFrame, as read back
// from CSV. Numeric-looking cells become numbers again.
func FromDataFrame(df dataframe.DataFrame) *Table {
	t := New(df.Names()...)
	records := df.Records()
	for _, rec := range records[1:] {
		row := make(map[string]any, len(rec))
		for j, name := range records[0] {
			cell := rec[j]
			switch {
			case cell == "" || cell == "NaN":
				// missing
			case intLike(cell):
				v, _ := strconv.Atoi(cell)
				row[name] = v
			default:
				if f, err := strconv.ParseFloat(cell, 64); err == nil {
					row[name] = f
				} else {
					row[name] = cell
				}
			}
		}
		t.Append(row)
	}
	return t
}

func intLike(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
