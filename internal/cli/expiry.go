// Package cli parses the human-friendly values accepted by command flags.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "30m", "8h", "2d", "1w", "1mo"
var lifetimeRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d|h|m)$`)

// ParseExpiry resolves an expiry given as a lifetime ("8h", "2d"), a day
// ("tomorrow", "friday", "next mon", "2026-12-31"), or an RFC 3339 instant.
// Days resolve to their midnight in now's location, except "today", which
// runs until the last second of the day.
func ParseExpiry(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty expiry")
	}
	input := strings.ToLower(raw)

	switch input {
	case "today":
		return startOfDay(now).AddDate(0, 0, 1).Add(-time.Second), nil
	case "tomorrow":
		return startOfDay(now).AddDate(0, 0, 1), nil
	}

	if t, ok := parseWeekday(input, now); ok {
		return t, nil
	}

	if matches := lifetimeRegex.FindStringSubmatch(input); len(matches) == 3 {
		value, err := strconv.Atoi(matches[1])
		if err != nil || value < 1 {
			return time.Time{}, fmt.Errorf("invalid lifetime %q", raw)
		}
		return addLifetime(now, value, matches[2]), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("invalid expiry %q", raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// parseWeekday resolves "fri", "this fri" and "next fri". A bare weekday
// equal to today's means the next one, since today's midnight has passed.
func parseWeekday(expr string, now time.Time) (time.Time, bool) {
	input := expr
	if rest, ok := strings.CutPrefix(input, "next "); ok {
		input = strings.TrimSpace(rest)
	} else if rest, ok := strings.CutPrefix(input, "this "); ok {
		input = strings.TrimSpace(rest)
	}

	weekday, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}

	base := startOfDay(now)
	delta := (int(weekday) - int(base.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return base.AddDate(0, 0, delta), true
}

var weekdays = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thurs":     time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

func addLifetime(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, value, 0)
	case "w":
		return now.AddDate(0, 0, 7*value)
	case "d":
		return now.AddDate(0, 0, value)
	case "h":
		return now.Add(time.Duration(value) * time.Hour)
	default:
		return now.Add(time.Duration(value) * time.Minute)
	}
}
