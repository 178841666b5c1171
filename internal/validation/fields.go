package validation

import (
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the value is a non-blank local@domain.tld
// address.
func ValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

const (
	minAgeYears = 13
	maxAgeYears = 120
)

// ParseBirthday accepts "2006-01-02" or RFC 3339 timestamps.
func ParseBirthday(birthday string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", birthday); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, birthday); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ValidBirthday reports whether the value parses to a real calendar
// date that is not in the future and implies an age between 13 and 120
// years at the given reference time.
func ValidBirthday(birthday string, now time.Time) bool {
	date, ok := ParseBirthday(birthday)
	if !ok {
		return false
	}
	if date.After(now) {
		return false
	}
	if date.After(now.AddDate(-minAgeYears, 0, 0)) {
		return false
	}
	if date.Before(now.AddDate(-maxAgeYears, 0, 0)) {
		return false
	}
	return true
}
