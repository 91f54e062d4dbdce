package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"avatarbot/internal/domain"
)

// ErrPastDate is a validation failure for well-formed dates that already
// passed. It wraps domain.ErrValidation so generic dispatch still matches.
var ErrPastDate = fmt.Errorf("%w: date already passed", domain.ErrValidation)

// ParseDayMonth parses a DD.MM input against the reference time. The year
// defaults to the reference year; dates strictly before the reference day are
// rejected. All failures carry domain.ErrValidation.
func ParseDayMonth(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: expected DD.MM", domain.ErrValidation)
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected DD.MM", domain.ErrValidation)
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected DD.MM", domain.ErrValidation)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: no such calendar date", domain.ErrValidation)
	}

	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes overflow (31.04 becomes 01.05); treat that as
	// a nonexistent date rather than silently shifting it.
	if candidate.Day() != day || candidate.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("%w: no such calendar date", domain.ErrValidation)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if candidate.Before(today) {
		return time.Time{}, ErrPastDate
	}
	return candidate, nil
}

// FormatDayMonth renders a date the way captions expect it.
func FormatDayMonth(t time.Time) string {
	return t.Format("02.01")
}

// ValidateLocation checks a destination string against the mode's rule and
// returns the normalized form.
func ValidateLocation(raw string, rule domain.LocationRule) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty location", domain.ErrValidation)
	}
	if rule != domain.LocationStrict {
		return trimmed, nil
	}

	parts := strings.Split(trimmed, ",")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: expected city, country", domain.ErrValidation)
	}
	city := strings.TrimSpace(parts[0])
	country := strings.TrimSpace(parts[1])
	if city == "" || country == "" {
		return "", fmt.Errorf("%w: expected city, country", domain.ErrValidation)
	}
	return city + ", " + country, nil
}
