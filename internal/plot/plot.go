// Package plot renders quick-look charts of summary vectors: ASCII
// graphs for the terminal and an SVG line chart for files.
package plot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/equinor/res2df/internal/frame"
)

// ErrNoData means the requested column holds no plottable values.
var ErrNoData = errors.New("no plottable data")

// Ascii renders one column against its row order as a terminal graph.
func Ascii(tbl *frame.Table, column string, width, height int) (string, error) {
	data, err := columnData(tbl, column)
	if err != nil {
		return "", err
	}
	caption := column
	if dates := tbl.Strings("DATE"); len(dates) > 0 && dates[0] != "" {
		caption = fmt.Sprintf("%s  (%s .. %s)", column, dates[0], dates[len(dates)-1])
	}
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	), nil
}

// SVG renders one column as an SVG polyline chart.
func SVG(tbl *frame.Table, column string, width, height int) (string, error) {
	data, err := columnData(tbl, column)
	if err != nil {
		return "", err
	}
	minY, maxY := data[0], data[0]
	for _, v := range data {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="8" y="16" font-family="sans-serif" font-size="12">%s</text>
<path fill="none" stroke="#1f77b4" stroke-width="1.5" d="M`,
		width, height, width, height, column)
	denom := float64(len(data) - 1)
	if denom == 0 {
		denom = 1
	}
	for i, v := range data {
		x := float64(i) / denom * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")
	return sb.String(), nil
}

func columnData(tbl *frame.Table, column string) ([]float64, error) {
	if !tbl.Has(column) {
		return nil, fmt.Errorf("%w: no column %s", ErrNoData, column)
	}
	var data []float64
	for _, v := range tbl.Floats(column) {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: column %s", ErrNoData, column)
	}
	return data, nil
}
