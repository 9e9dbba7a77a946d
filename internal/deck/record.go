package deck

import (
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
)

// Fields is a record bound to its item layout, with defaults applied.
type Fields struct {
	items []ItemDef
	rec   Record
}

// Fields binds a record to the keyword's ordinary record layout.
func (k Keyword) Fields(rec Record) Fields {
	return Fields{items: k.Def.Items, rec: rec}
}

// HeaderFields binds a record to the keyword's header layout (WELSEGS,
// COMPSEGS).
func (k Keyword) HeaderFields(rec Record) Fields {
	return Fields{items: k.Def.Header, rec: rec}
}

func (f Fields) indexOf(name string) int {
	for i, it := range f.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Defaulted reports whether the named item was left to its default,
// either by the N* syntax or by a too-short record.
func (f Fields) Defaulted(name string) bool {
	i := f.indexOf(name)
	if i < 0 || i >= len(f.rec.Items) {
		return true
	}
	return f.rec.Items[i].Defaulted
}

// Str returns the named item as a string. Unset items yield the schema
// default, or "" when the schema has none.
func (f Fields) Str(name string) string {
	i := f.indexOf(name)
	if i < 0 {
		return ""
	}
	if i >= len(f.rec.Items) || f.rec.Items[i].Defaulted {
		if def, ok := f.items[i].Default.(string); ok {
			return def
		}
		return ""
	}
	return f.rec.Items[i].Text
}

// Int returns the named item as an int. Unset items yield the schema
// default, or 0.
func (f Fields) Int(name string) (int, error) {
	i := f.indexOf(name)
	if i < 0 {
		return 0, fmt.Errorf("%w: no item %s", ErrMalformedRecord, name)
	}
	if i >= len(f.rec.Items) || f.rec.Items[i].Defaulted {
		if def, ok := f.items[i].Default.(int); ok {
			return def, nil
		}
		return 0, nil
	}
	v, err := strconv.Atoi(f.rec.Items[i].Text)
	if err != nil {
		return 0, fmt.Errorf("line %d: item %s: %w: %q",
			f.rec.Line, name, ErrMalformedRecord, f.rec.Items[i].Text)
	}
	return v, nil
}

// Float returns the named item as a float64. Unset items yield the
// schema default, or NaN when the schema has none.
func (f Fields) Float(name string) (float64, error) {
	i := f.indexOf(name)
	if i < 0 {
		return math.NaN(), fmt.Errorf("%w: no item %s", ErrMalformedRecord, name)
	}
	if i >= len(f.rec.Items) || f.rec.Items[i].Defaulted {
		switch def := f.items[i].Default.(type) {
		case float64:
			return def, nil
		case int:
			return float64(def), nil
		}
		return math.NaN(), nil
	}
	v, err := parseDeckFloat(f.rec.Items[i].Text)
	if err != nil {
		return math.NaN(), fmt.Errorf("line %d: item %s: %w: %q",
			f.rec.Line, name, ErrMalformedRecord, f.rec.Items[i].Text)
	}
	return v, nil
}

// parseDeckFloat accepts the Fortran D exponent marker alongside E.
func parseDeckFloat(s string) (float64, error) {
	if i := strings.IndexAny(s, "dD"); i >= 0 {
		s = s[:i] + "e" + s[i+1:]
	}
	return strconv.ParseFloat(s, 64)
}

// Floats returns every item of a record as float64, with defaulted items
// as NaN. This is the access path for pure data tables (SWOF, RSVD,
// TSTEP, VFP bodies).
func (r Record) Floats() ([]float64, error) {
	out := make([]float64, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Defaulted {
			out = append(out, math.NaN())
			continue
		}
		v, err := parseDeckFloat(it.Text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %q", r.Line, ErrMalformedRecord, it.Text)
		}
		out = append(out, v)
	}
	return out, nil
}

// Strings returns every item of a record as text, with defaulted items
// as empty strings.
func (r Record) Strings() []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Defaulted {
			out = append(out, "")
			continue
		}
		out = append(out, it.Text)
	}
	return out
}

// MatchesWell reports whether a well-name pattern from a deck record
// matches a well. Patterns may carry shell-style wildcards; a leading
// '*' marks a well-list reference, which never matches a plain name.
func MatchesWell(pattern, well string) bool {
	if strings.HasPrefix(pattern, "*") {
		return false
	}
	ok, err := path.Match(pattern, well)
	return err == nil && ok
}
