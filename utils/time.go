package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// DatePath returns the yyyy/mm/dd directory used to bucket stored objects
func DatePath(t time.Time) string {
	return t.UTC().Format("2006/01/02")
}

// ParseDate parses a yyyy-mm-dd calendar date in UTC
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, time.UTC)
}
