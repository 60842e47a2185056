package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago" or "36 hours ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?\s+ago$`)

// lookbackDurationRe captures "N [units]", e.g. "24 hours" or "2 weeks".
var lookbackDurationRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour|minute)s?$`)

// ParseRelativeTime converts strings like "2 years ago" into a time.Time before now.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %w", err)
	}

	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	default:
		d, err := unitDuration(matches[2], value)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(-d), nil
	}
}

// ParseLookbackDuration converts strings like "24 hours" or "720h" into a time.Duration.
// Go duration syntax is tried first. Months are 30 days and years are 365 days.
func ParseLookbackDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("lookback must be a positive duration")
		}
		return duration, nil
	}

	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	matches := lookbackDurationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid lookback duration format: %q", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid lookback value: %w", err)
	}
	d, err := unitDuration(matches[2], value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("lookback must be a positive duration")
	}
	return d, nil
}

func unitDuration(unit string, value int) (time.Duration, error) {
	const day = 24 * time.Hour
	switch unit {
	case "year":
		return time.Duration(value) * 365 * day, nil
	case "month":
		return time.Duration(value) * 30 * day, nil
	case "week":
		return time.Duration(value) * 7 * day, nil
	case "day":
		return time.Duration(value) * day, nil
	case "hour":
		return time.Duration(value) * time.Hour, nil
	case "minute":
		return time.Duration(value) * time.Minute, nil
	default:
		return 0, fmt.Errorf("unsupported time unit: %s", unit)
	}
}

// ParseTimeInput parses an absolute RFC 3339 timestamp, a plain date or a relative "N units ago".
func ParseTimeInput(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected ISO8601, YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t, nil
}
