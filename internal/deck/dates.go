package deck

import (
	"fmt"
	"strings"
	"time"
)

// months maps simulator month mnemonics to calendar months. JLY is the
// alternate spelling some decks use for July.
var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "JLY": time.July, "AUG": time.August,
	"SEP": time.September, "OCT": time.October, "NOV": time.November,
	"DEC": time.December,
}

// ParseDateRecord interprets one DATES or START record as a calendar
// date. The time-of-day item is ignored.
func ParseDateRecord(kw Keyword, rec Record) (time.Time, error) {
	fields := kw.Fields(rec)
	day, err := fields.Int("DAY")
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	year, err := fields.Int("YEAR")
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	name := strings.ToUpper(fields.Str("MONTH"))
	month, ok := months[name]
	if !ok {
		return time.Time{}, fmt.Errorf("line %d: %w: month %q", rec.Line, ErrBadDate, name)
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// StartDate returns the START date of a deck, if present.
func (d *Deck) StartDate() (time.Time, bool) {
	kw, ok := d.First("START")
	if !ok || len(kw.Records) == 0 {
		return time.Time{}, false
	}
	t, err := ParseDateRecord(kw, kw.Records[0])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// TStepDays flattens a TSTEP record into day lengths, so a schedule
// walker can advance its clock through keywords without DATES.
func TStepDays(rec Record) ([]float64, error) {
	steps, err := rec.Floats()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	return steps, nil
}
