package solunar

import "time"

// IsDaylightSavingTime reports whether t falls in the Romanian summer-time
// window: from the last Sunday of March (inclusive) to the last Sunday of
// October (exclusive), both at local midnight in t's location.
func IsDaylightSavingTime(t time.Time) bool {
	year := t.Year()
	start := lastSunday(year, time.March, t.Location())
	end := lastSunday(year, time.October, t.Location())

	return !t.Before(start) && t.Before(end)
}

// lastSunday walks back from the 31st of month to the most recent Sunday.
func lastSunday(year int, month time.Month, loc *time.Location) time.Time {
	last := time.Date(year, month, 31, 0, 0, 0, 0, loc)
	return last.AddDate(0, 0, -int(last.Weekday()))
}
