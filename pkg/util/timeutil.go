package util

import (
	"fmt"
	"time"
)

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FixedZone returns a zone offset by whole hours from GMT, named like "GMT+3".
func FixedZone(offsetHours int) *time.Location {
	return time.FixedZone(GMTLabel(offsetHours), offsetHours*60*60)
}

// GMTLabel renders an hour offset as "GMT+3", "GMT-5" or "GMT+0".
func GMTLabel(offsetHours int) string {
	if offsetHours < 0 {
		return fmt.Sprintf("GMT%d", offsetHours)
	}
	return fmt.Sprintf("GMT+%d", offsetHours)
}

// CivilDate truncates t to midnight of its calendar day in loc.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
