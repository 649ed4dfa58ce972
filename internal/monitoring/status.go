// Package monitoring derives a teacher's attendance status for a school day
// from their login, first student scan and logout times.
package monitoring

import (
	"fmt"
	"time"
)

// Status of a teacher on the monitored date
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusLate      Status = "late"
	StatusPending   Status = "pending"
	StatusAbsent    Status = "absent"
	StatusNoScan    Status = "no_scan"
	StatusHoliday   Status = "holiday"
)

// Statuses in the order the summary cards show them
var Statuses = []Status{StatusConfirmed, StatusLate, StatusPending, StatusNoScan, StatusAbsent}

// Label is the human readable status name.
func (s Status) Label() string {
	switch s {
	case StatusConfirmed:
		return "Confirmed"
	case StatusLate:
		return "Late"
	case StatusPending:
		return "Pending"
	case StatusAbsent:
		return "Absent"
	case StatusNoScan:
		return "No scan"
	case StatusHoliday:
		return "Holiday"
	default:
		return string(s)
	}
}

// Input to Derive. Nil timestamps mean the event did not happen that day.
type Input struct {
	Login     *time.Time
	FirstScan *time.Time
	Logout    *time.Time
	Cutoff    time.Time
	Now       time.Time
}

// Derive computes the status:
//
//	no login, now before cutoff           pending
//	no login, now at/after cutoff         absent
//	login after cutoff                    late
//	login on time, scanned                confirmed
//	login on time, logged out, no scan    no_scan
//	login on time, now before cutoff      pending
//	login on time, cutoff passed, no scan no_scan
func Derive(in Input) Status {
	if in.Login == nil {
		if in.Now.Before(in.Cutoff) {
			return StatusPending
		}
		return StatusAbsent
	}

	if in.Login.After(in.Cutoff) {
		return StatusLate
	}

	switch {
	case in.FirstScan != nil:
		return StatusConfirmed
	case in.Logout != nil:
		return StatusNoScan
	case in.Now.Before(in.Cutoff):
		return StatusPending
	default:
		return StatusNoScan
	}
}

// Cutoff is classStart ("HH:MM") plus lateMinutes on day, in loc.
func Cutoff(day time.Time, classStart string, lateMinutes int, loc *time.Location) (time.Time, error) {
	start, err := time.Parse("15:04", classStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("monitoring: class start %q: %w", classStart, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	base := time.Date(d.Year(), d.Month(), d.Day(), start.Hour(), start.Minute(), 0, 0, loc)
	return base.Add(time.Duration(lateMinutes) * time.Minute), nil
}

// DayBounds returns [00:00, next 00:00) of day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// CheckInStatus classifies a student check-in against the cutoff:
// present at or before it, late after it.
func CheckInStatus(at, cutoff time.Time) string {
	if at.After(cutoff) {
		return "late"
	}
	return "present"
}

// Summarize counts rows per status.
func Summarize(statuses []Status) map[string]int {
	counts := make(map[string]int, len(Statuses)+1)
	for _, s := range Statuses {
		counts[string(s)] = 0
	}
	for _, s := range statuses {
		counts[string(s)]++
	}
	return counts
}
