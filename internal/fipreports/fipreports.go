// Package fipreports scrapes fluid-in-place region reports from the
// textual PRT output: each FIPxxx REPORT REGION block becomes rows of
// in-place volumes and outflows per region and date.
package fipreports

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/equinor/res2df/internal/frame"
	"github.com/equinor/res2df/internal/resfiles"
)

// ErrNoReports means the PRT file carries no region report blocks.
var ErrNoReports = errors.New("no FIP region reports found")

var columns = []string{
	"DATE", "FIPNAME", "REGION", "DATATYPE", "TO_REGION",
	"STOIIP_OIL", "ASSOCIATEDOIL_GAS", "STOIIP_TOTAL",
	"WIIP_TOTAL", "GIIP_GAS", "ASSOCIATEDGAS_OIL", "GIIP_TOTAL",
}

var (
	// "  REPORT   12     1 FEB 2001"
	eclDate = regexp.MustCompile(`^\s+REPORT\s+\d+\s+(\d+)\s+([A-Z]{3})\s+(\d{4})`)
	// "Report step ... date = 01-Feb-2001" (OPM Flow)
	opmDate = regexp.MustCompile(`date\s*=\s*(\d{1,2})-([A-Za-z]{3})-(\d{4})`)
	// ": FIPNUM  REPORT REGION    2"
	blockStart = regexp.MustCompile(`:\s*(FIP[A-Z0-9]*)\s+REPORT\s+REGION\s+(\d+)`)
	toRegion   = regexp.MustCompile(`^OUTFLOW TO REGION\s+(\d+)$`)
	number     = regexp.MustCompile(`-?\d+\.?\d*(?:[Ee][+-]?\d+)?`)
)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "JLY": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November,
	"DEC": time.December,
}

// Df scrapes a case's PRT file.
func Df(c *resfiles.Case) (*frame.Table, error) {
	path, err := c.PRTPath()
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return parse(bufio.NewScanner(fh))
}

// ParseString scrapes report text directly.
func ParseString(text string) (*frame.Table, error) {
	return parse(bufio.NewScanner(strings.NewReader(text)))
}

func parse(scanner *bufio.Scanner) (*frame.Table, error) {
	tbl := frame.New(columns...)
	var date time.Time
	var fipname string
	region := 0
	inBlock := false
	found := false

	for scanner.Scan() {
		line := scanner.Text()
		if m := eclDate.FindStringSubmatch(line); m != nil {
			d, err := assembleDate(m[1], m[2], m[3])
			if err != nil {
				return nil, err
			}
			date = d
			continue
		}
		if m := opmDate.FindStringSubmatch(line); m != nil {
			d, err := assembleDate(m[1], strings.ToUpper(m[2]), m[3])
			if err != nil {
				return nil, err
			}
			date = d
			continue
		}
		if m := blockStart.FindStringSubmatch(line); m != nil {
			fipname = m[1]
			region, _ = strconv.Atoi(m[2])
			inBlock = true
			found = true
			continue
		}
		if !inBlock {
			continue
		}
		if strings.Contains(line, "====") {
			inBlock = false
			continue
		}
		if row, ok := parseDataLine(line); ok {
			row["DATE"] = date
			row["FIPNAME"] = fipname
			row["REGION"] = region
			tbl.Append(row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoReports
	}
	tbl.DropMissingColumns()
	return tbl, nil
}

func assembleDate(day, month, year string) (time.Time, error) {
	m, ok := months[month]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month %q in report date", month)
	}
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// parseDataLine decodes one region report data row. The line layout is
// colon-separated: label, oil section (liquid/vapour/total), water
// section (total) and gas section (free/dissolved/total). Wide numbers
// in Eclipse output occasionally swallow a separating colon, in which
// case the numbers are assigned from the combined remainder.
func parseDataLine(line string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") || strings.HasPrefix(trimmed, ":-") {
		return nil, false
	}
	parts := strings.Split(trimmed, ":")
	// leading empty part before the first colon
	if len(parts) < 3 {
		return nil, false
	}
	label := strings.TrimSpace(parts[1])
	if label == "" || strings.HasPrefix(label, "PAV") || strings.HasPrefix(label, "PORV") {
		return nil, false
	}
	row := map[string]any{}
	if m := toRegion.FindStringSubmatch(label); m != nil {
		n, _ := strconv.Atoi(m[1])
		row["DATATYPE"] = "OUTFLOW TO REGION"
		row["TO_REGION"] = n
	} else {
		row["DATATYPE"] = label
	}

	if len(parts) >= 5 {
		oil := nums(parts[2])
		wat := nums(parts[3])
		gas := nums(parts[4])
		if len(oil)+len(wat)+len(gas) == 0 {
			return nil, false // column header line
		}
		assignSection(row, oil, "STOIIP_OIL", "ASSOCIATEDOIL_GAS", "STOIIP_TOTAL")
		if len(wat) > 0 {
			row["WIIP_TOTAL"] = wat[len(wat)-1]
		}
		assignSection(row, gas, "GIIP_GAS", "ASSOCIATEDGAS_OIL", "GIIP_TOTAL")
		return row, true
	}
	// colon-column repair: assign the full 7-value layout when all
	// numbers survived, otherwise give up on the split columns
	all := nums(strings.Join(parts[2:], " "))
	if len(all) == 7 {
		row["STOIIP_OIL"] = all[0]
		row["ASSOCIATEDOIL_GAS"] = all[1]
		row["STOIIP_TOTAL"] = all[2]
		row["WIIP_TOTAL"] = all[3]
		row["GIIP_GAS"] = all[4]
		row["ASSOCIATEDGAS_OIL"] = all[5]
		row["GIIP_TOTAL"] = all[6]
		return row, true
	}
	return nil, false
}

// assignSection maps 1 to 3 numbers onto (first, middle, total): a
// single value is the total, two values miss the middle column.
func assignSection(row map[string]any, vals []float64, first, middle, total string) {
	switch len(vals) {
	case 3:
		row[first] = vals[0]
		row[middle] = vals[1]
		row[total] = vals[2]
	case 2:
		row[first] = vals[0]
		row[total] = vals[1]
	case 1:
		row[total] = vals[0]
	}
}

func nums(s string) []float64 {
	var out []float64
	for _, m := range number.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(m, "."), 64)
		if err != nil {
			v = math.NaN()
		}
		out = append(out, v)
	}
	return out
}
