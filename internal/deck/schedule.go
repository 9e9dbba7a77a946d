package deck

import (
	"fmt"
	"time"
)

// ScheduleEvent is one SCHEDULE-section keyword paired with the
// simulation date at which it takes effect.
type ScheduleEvent struct {
	Date    time.Time
	Keyword Keyword
}

// Schedule walks the deck's date bookkeeping (START, DATES, TSTEP) and
// returns the keywords named in want with their effective dates, in deck
// order. With no names given, every non-date keyword is returned.
func (d *Deck) Schedule(want ...string) ([]ScheduleEvent, error) {
	wanted := make(map[string]bool, len(want))
	for _, name := range want {
		wanted[name] = true
	}
	var events []ScheduleEvent
	var date time.Time
	for _, kw := range d.Keywords {
		switch kw.Name {
		case "START":
			if len(kw.Records) > 0 {
				t, err := ParseDateRecord(kw, kw.Records[0])
				if err != nil {
					return nil, err
				}
				date = t
			}
		case "DATES":
			for _, rec := range kw.Records {
				t, err := ParseDateRecord(kw, rec)
				if err != nil {
					return nil, err
				}
				date = t
			}
		case "TSTEP":
			for _, rec := range kw.Records {
				days, err := TStepDays(rec)
				if err != nil {
					return nil, err
				}
				for _, step := range days {
					date = date.Add(time.Duration(step * 24 * float64(time.Hour)))
				}
			}
		default:
			if len(wanted) > 0 && !wanted[kw.Name] {
				continue
			}
			events = append(events, ScheduleEvent{Date: date, Keyword: kw})
		}
	}
	return events, nil
}

// ScheduleDates returns every report date of the deck, in order.
func (d *Deck) ScheduleDates() ([]time.Time, error) {
	var dates []time.Time
	for _, kw := range d.ByName("DATES") {
		for _, rec := range kw.Records {
			t, err := ParseDateRecord(kw, rec)
			if err != nil {
				return nil, fmt.Errorf("DATES: %w", err)
			}
			dates = append(dates, t)
		}
	}
	return dates, nil
}
