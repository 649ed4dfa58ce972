package service

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
	stampLayout = "2006-01-02 15:04"
)

// startOfDay is midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// parseDay parses YYYY-MM-DD in loc. An empty string yields today.
func parseDay(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return startOfDay(now, loc), nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

func formatStamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(stampLayout)
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(clockLayout)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// optional returns nil for blank input.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// truncate caps s at n characters; VARCHAR(n) counts characters, not bytes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
