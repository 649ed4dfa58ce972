package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ── ICS holiday import ──────────────────────────────────────
//
// Every VEVENT becomes one holiday per calendar day it covers.
// All-day events use DTSTART;VALUE=DATE with an exclusive DTEND.
// Days outside the school year are skipped.
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024
	icsMaxEventDays = 31
)

// parsedHoliday is one day of an imported event
type parsedHoliday struct {
	Date time.Time
	Name string
}

// parseHolidayICS reads r and returns the holiday days within [from, to]
// plus the number of days skipped as out of range.
func parseHolidayICS(r io.Reader, from, to time.Time, loc *time.Location) ([]parsedHoliday, int, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, 0, fmt.Errorf("parse calendar: %w", err)
	}

	seen := make(map[string]bool)
	var out []parsedHoliday
	skipped := 0

	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			skipped++
			continue
		}
		name := truncate(strings.TrimSpace(summary.Value), 200)

		start, allDay, err := parseICSDate(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			skipped++
			continue
		}
		end := start
		if e, _, err := parseICSDate(evt, ics.ComponentPropertyDtEnd, loc); err == nil && e.After(start) {
			end = e
			if allDay {
				// DTEND of an all-day event is exclusive
				end = end.AddDate(0, 0, -1)
			}
		}

		for day, n := start, 0; !day.After(end) && n < icsMaxEventDays; day, n = day.AddDate(0, 0, 1), n+1 {
			if day.Before(from) || day.After(to) {
				skipped++
				continue
			}
			key := day.Format(dateLayout)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, parsedHoliday{Date: day, Name: name})
		}
	}
	return out, skipped, nil
}

// parseICSDate returns the calendar day of a DTSTART/DTEND property in loc
// and whether the value was a plain DATE.
func parseICSDate(evt *ics.VEvent, prop ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	p := evt.GetProperty(prop)
	if p == nil {
		return time.Time{}, false, fmt.Errorf("missing %s", prop)
	}
	val := strings.TrimSpace(p.Value)

	if t, err := time.ParseInLocation("20060102", val, loc); err == nil {
		return t, true, nil
	}

	tzLoc := loc
	for k, v := range p.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if l, err := time.LoadLocation(v[0]); err == nil {
				tzLoc = l
			}
		}
	}

	var t time.Time
	var err error
	if strings.HasSuffix(val, "Z") {
		t, err = time.Parse("20060102T150405Z", val)
	} else {
		t, err = time.ParseInLocation("20060102T150405", val, tzLoc)
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unsupported date %q", val)
	}
	return startOfDay(t, loc), false, nil
}
