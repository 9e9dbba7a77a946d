// Package resfile reads and writes the binary keyword-array container
// format used by reservoir simulator output files (EGRID, INIT, UNRST,
// SMSPEC, UNSMRY, RFT).
//
// The format is a sequence of tagged arrays. Each array has an 8-character
// name, an element count and a 4-character type (INTE, REAL, DOUB, CHAR,
// LOGI, MESS or CNNN for NNN-byte strings), followed by the elements in
// big-endian Fortran-blocked physical records of at most 1000 elements
// (105 for 8-character strings).
package resfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain errors for binary file operations.
var (
	// ErrBadRecordMarker indicates inconsistent Fortran record framing.
	ErrBadRecordMarker = errors.New("resfile: inconsistent record marker")

	// ErrUnknownType indicates an array type tag not understood.
	ErrUnknownType = errors.New("resfile: unknown array type")

	// ErrKeywordNotFound indicates a named array missing from the file.
	ErrKeywordNotFound = errors.New("resfile: keyword not found")

	// ErrTypeMismatch indicates access to array data with the wrong type.
	ErrTypeMismatch = errors.New("resfile: array type mismatch")
)

// Type is the element type tag of a keyword array.
type Type string

const (
	TypeInte Type = "INTE"
	TypeReal Type = "REAL"
	TypeDoub Type = "DOUB"
	TypeChar Type = "CHAR"
	TypeLogi Type = "LOGI"
	TypeMess Type = "MESS"
)

// elemSize returns the on-disk byte size of one element, and the maximum
// element count of one physical record.
func (t Type) elemSize() (size int, perRecord int, err error) {
	switch t {
	case TypeInte, TypeReal, TypeLogi:
		return 4, 1000, nil
	case TypeDoub:
		return 8, 1000, nil
	case TypeChar:
		return 8, 105, nil
	case TypeMess:
		return 0, 0, nil
	}
	// CNNN string types, e.g. C042
	if len(t) == 4 && t[0] == 'C' {
		if n, converr := strconv.Atoi(string(t[1:])); converr == nil && n > 0 {
			return n, 105, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
}

// IsString reports whether the type holds string elements.
func (t Type) IsString() bool {
	return t == TypeChar || (len(t) == 4 && t[0] == 'C')
}

// Keyword is one named array read from (or to be written to) a binary file.
type Keyword struct {
	Name string
	Type Type

	ints    []int32
	reals   []float32
	doubles []float64
	bools   []bool
	strs    []string
}

// Len returns the element count.
func (k *Keyword) Len() int {
	switch {
	case k.ints != nil:
		return len(k.ints)
	case k.reals != nil:
		return len(k.reals)
	case k.doubles != nil:
		return len(k.doubles)
	case k.bools != nil:
		return len(k.bools)
	case k.strs != nil:
		return len(k.strs)
	}
	return 0
}

// Ints returns INTE data widened to int.
func (k *Keyword) Ints() ([]int, error) {
	if k.Type != TypeInte {
		return nil, fmt.Errorf("%w: %s is %s, want INTE", ErrTypeMismatch, k.Name, k.Type)
	}
	out := make([]int, len(k.ints))
	for i, v := range k.ints {
		out[i] = int(v)
	}
	return out, nil
}

// Floats returns numeric data as float64, promoting INTE, REAL and DOUB.
func (k *Keyword) Floats() ([]float64, error) {
	switch k.Type {
	case TypeInte:
		out := make([]float64, len(k.ints))
		for i, v := range k.ints {
			out[i] = float64(v)
		}
		return out, nil
	case TypeReal:
		out := make([]float64, len(k.reals))
		for i, v := range k.reals {
			out[i] = float64(v)
		}
		return out, nil
	case TypeDoub:
		out := make([]float64, len(k.doubles))
		copy(out, k.doubles)
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s is %s, want numeric", ErrTypeMismatch, k.Name, k.Type)
}

// Strings returns CHAR (or CNNN) data with trailing blanks trimmed.
func (k *Keyword) Strings() ([]string, error) {
	if !k.Type.IsString() {
		return nil, fmt.Errorf("%w: %s is %s, want CHAR", ErrTypeMismatch, k.Name, k.Type)
	}
	out := make([]string, len(k.strs))
	for i, s := range k.strs {
		out[i] = strings.TrimRight(s, " ")
	}
	return out, nil
}

// Bools returns LOGI data.
func (k *Keyword) Bools() ([]bool, error) {
	if k.Type != TypeLogi {
		return nil, fmt.Errorf("%w: %s is %s, want LOGI", ErrTypeMismatch, k.Name, k.Type)
	}
	out := make([]bool, len(k.bools))
	copy(out, k.bools)
	return out, nil
}

// NewIntKeyword builds an INTE array.
func NewIntKeyword(name string, data []int) *Keyword {
	ints := make([]int32, len(data))
	for i, v := range data {
		ints[i] = int32(v)
	}
	return &Keyword{Name: name, Type: TypeInte, ints: ints}
}

// NewFloatKeyword builds a REAL array (32-bit on disk).
func NewFloatKeyword(name string, data []float64) *Keyword {
	reals := make([]float32, len(data))
	for i, v := range data {
		reals[i] = float32(v)
	}
	return &Keyword{Name: name, Type: TypeReal, reals: reals}
}

// NewDoubleKeyword builds a DOUB array.
func NewDoubleKeyword(name string, data []float64) *Keyword {
	doubles := make([]float64, len(data))
	copy(doubles, data)
	return &Keyword{Name: name, Type: TypeDoub, doubles: doubles}
}

// NewCharKeyword builds a CHAR array of 8-character strings. Longer
// elements are truncated.
func NewCharKeyword(name string, data []string) *Keyword {
	strs := make([]string, len(data))
	copy(strs, data)
	return &Keyword{Name: name, Type: TypeChar, strs: strs}
}

// NewBoolKeyword builds a LOGI array.
func NewBoolKeyword(name string, data []bool) *Keyword {
	bools := make([]bool, len(data))
	copy(bools, data)
	return &Keyword{Name: name, Type: TypeLogi, bools: bools}
}

// File is an ordered collection of keyword arrays. Keyword names may
// repeat (SEQNUM, PARAMS and friends repeat per report step), so arrays
// are kept in file order with an index per name.
type File struct {
	keywords []*Keyword
	index    map[string][]int
}

// Keywords returns all arrays in file order.
func (f *File) Keywords() []*Keyword { return f.keywords }

// Has reports whether at least one array with the given name exists.
func (f *File) Has(name string) bool { return len(f.index[name]) > 0 }

// Count returns the number of arrays carrying the given name.
func (f *File) Count(name string) int { return len(f.index[name]) }

// Get returns the n'th (zero-based) occurrence of the named array.
func (f *File) Get(name string, occurrence int) (*Keyword, error) {
	positions := f.index[name]
	if occurrence < 0 || occurrence >= len(positions) {
		return nil, fmt.Errorf("%w: %s occurrence %d", ErrKeywordNotFound, name, occurrence)
	}
	return f.keywords[positions[occurrence]], nil
}

// First returns the first occurrence of the named array.
func (f *File) First(name string) (*Keyword, error) {
	return f.Get(name, 0)
}

// All returns every occurrence of the named array, in file order.
func (f *File) All(name string) []*Keyword {
	positions := f.index[name]
	out := make([]*Keyword, len(positions))
	for i, pos := range positions {
		out[i] = f.keywords[pos]
	}
	return out
}

// FromKeywords builds an in-memory File, preserving order.
func FromKeywords(kws []*Keyword) *File {
	f := &File{}
	for _, kw := range kws {
		f.append(kw)
	}
	return f
}

func (f *File) append(kw *Keyword) {
	if f.index == nil {
		f.index = make(map[string][]int)
	}
	f.index[kw.Name] = append(f.index[kw.Name], len(f.keywords))
	f.keywords = append(f.keywords, kw)
}
