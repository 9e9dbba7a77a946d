package resfile

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestRoundtrip(t *testing.T) {
	ints := make([]int, 2500) // forces three physical records
	for i := range ints {
		ints[i] = i - 1000
	}
	keywords := []*Keyword{
		NewCharKeyword("KEYWORDS", []string{"FOPT", "WOPR", "TIME"}),
		NewIntKeyword("INTEHEAD", ints),
		NewFloatKeyword("PARAMS", []float64{0.0, 1.5, -3.25}),
		NewDoubleKeyword("DOUBHEAD", []float64{0.0, 365.25}),
		NewBoolKeyword("LOGIHEAD", []bool{true, false, true}),
	}

	var buf bytes.Buffer
	if err := WriteTo(&buf, keywords); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	file, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(file.Keywords()) != 5 {
		t.Fatalf("expected 5 keywords, got %d", len(file.Keywords()))
	}

	strs, err := mustGet(t, file, "KEYWORDS").Strings()
	if err != nil {
		t.Fatal(err)
	}
	if strs[1] != "WOPR" {
		t.Errorf("expected WOPR, got %q", strs[1])
	}

	gotInts, err := mustGet(t, file, "INTEHEAD").Ints()
	if err != nil {
		t.Fatal(err)
	}
	if len(gotInts) != 2500 || gotInts[0] != -1000 || gotInts[2499] != 1499 {
		t.Errorf("INTEHEAD roundtrip mismatch: len=%d first=%d last=%d",
			len(gotInts), gotInts[0], gotInts[len(gotInts)-1])
	}

	params, err := mustGet(t, file, "PARAMS").Floats()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(params[2]+3.25) > 1e-12 {
		t.Errorf("expected -3.25, got %v", params[2])
	}

	bools, err := mustGet(t, file, "LOGIHEAD").Bools()
	if err != nil {
		t.Fatal(err)
	}
	if !bools[0] || bools[1] || !bools[2] {
		t.Errorf("LOGIHEAD roundtrip mismatch: %v", bools)
	}
}

func mustGet(t *testing.T, f *File, name string) *Keyword {
	t.Helper()
	kw, err := f.First(name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return kw
}

func TestRepeatedKeywords(t *testing.T) {
	keywords := []*Keyword{
		NewIntKeyword("SEQNUM", []int{1}),
		NewFloatKeyword("PARAMS", []float64{1}),
		NewIntKeyword("SEQNUM", []int{2}),
		NewFloatKeyword("PARAMS", []float64{2}),
	}
	var buf bytes.Buffer
	if err := WriteTo(&buf, keywords); err != nil {
		t.Fatal(err)
	}
	file, err := ReadFrom(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if file.Count("SEQNUM") != 2 {
		t.Fatalf("expected 2 SEQNUM occurrences, got %d", file.Count("SEQNUM"))
	}
	second, err := file.Get("SEQNUM", 1)
	if err != nil {
		t.Fatal(err)
	}
	vals, _ := second.Ints()
	if vals[0] != 2 {
		t.Errorf("expected second SEQNUM to hold 2, got %d", vals[0])
	}
}

func TestTypeMismatch(t *testing.T) {
	kw := NewIntKeyword("ACTNUM", []int{1, 0, 1})
	if _, err := kw.Strings(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, []*Keyword{NewIntKeyword("ACTNUM", []int{1, 2, 3})}); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	if _, err := ReadFrom(bytes.NewReader(raw[:len(raw)-5])); !errors.Is(err, ErrBadRecordMarker) {
		t.Errorf("expected ErrBadRecordMarker, got %v", err)
	}
}

func TestMissingKeyword(t *testing.T) {
	file := &File{}
	if _, err := file.First("NOTHERE"); !errors.Is(err, ErrKeywordNotFound) {
		t.Errorf("expected ErrKeywordNotFound, got %v", err)
	}
}
