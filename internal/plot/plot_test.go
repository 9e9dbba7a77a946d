package plot

import (
	"errors"
	"strings"
	"testing"

	"github.com/equinor/res2df/internal/frame"
)

func testTable() *frame.Table {
	tbl := frame.New("DATE", "FOPT")
	tbl.Append(map[string]any{"DATE": "2020-01-01", "FOPT": 0.0})
	tbl.Append(map[string]any{"DATE": "2020-02-01", "FOPT": 100.0})
	tbl.Append(map[string]any{"DATE": "2020-03-01", "FOPT": 250.0})
	return tbl
}

func TestAscii(t *testing.T) {
	out, err := Ascii(testTable(), "FOPT", 40, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "FOPT") || !strings.Contains(out, "2020-01-01") {
		t.Errorf("caption missing in:\n%s", out)
	}
}

func TestSVG(t *testing.T) {
	out, err := SVG(testTable(), "FOPT", 400, 200)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "<path") {
		t.Errorf("not an svg chart:\n%s", out)
	}
	if !strings.Contains(out, "FOPT") {
		t.Error("missing title text")
	}
}

func TestMissingColumn(t *testing.T) {
	if _, err := Ascii(testTable(), "WOPR:OP1", 40, 8); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}
